package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/dealership-reviews/internal/model"
	"github.com/iliyamo/dealership-reviews/internal/queue"
)

// RequiredReviewFields lists, in check order, the fields a review
// submission must carry.
var RequiredReviewFields = []string{
	"name",
	"dealership",
	"review",
	"purchase",
	"purchase_date",
	"car_make",
	"car_model",
	"car_year",
}

// DealerBackend is the part of the dealer client the review service uses.
type DealerBackend interface {
	FetchReviews(ctx context.Context, dealerID uint64) ([]model.Review, error)
	PostReview(ctx context.Context, payload map[string]any) error
}

// SentimentAnalyzer labels review text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// EventPublisher receives review events. A nil publisher disables events.
type EventPublisher interface {
	PublishReviewPosted(ctx context.Context, ev queue.ReviewPostedEvent) error
}

// ReviewService posts reviews and reads them back annotated with sentiment.
type ReviewService struct {
	backend     DealerBackend
	analyzer    SentimentAnalyzer
	publisher   EventPublisher
	concurrency int
}

func NewReviewService(backend DealerBackend, analyzer SentimentAnalyzer, publisher EventPublisher, concurrency int) *ReviewService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReviewService{backend: backend, analyzer: analyzer, publisher: publisher, concurrency: concurrency}
}

// MissingField returns the first required field that is absent, null or
// blank once rendered as text. It returns "" when the payload is complete.
func MissingField(payload map[string]any) string {
	for _, f := range RequiredReviewFields {
		v, ok := payload[f]
		if !ok || v == nil || strings.TrimSpace(fmt.Sprint(v)) == "" {
			return f
		}
	}
	return ""
}

// DealerReviews fetches the reviews of a dealer and labels each one. The
// analyzer is called concurrently, bounded by the configured limit. Each
// goroutine writes only its own review map, and a failed call leaves that
// review's sentiment nil. Every other key is returned as received.
func (s *ReviewService) DealerReviews(ctx context.Context, dealerID uint64) ([]model.Review, error) {
	reviews, err := s.backend.FetchReviews(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range reviews {
		if reviews[i] == nil {
			continue
		}
		reviews[i][model.SentimentKey] = nil
		i := i
		g.Go(func() error {
			label, err := s.analyzer.Analyze(gctx, reviews[i].Text())
			if err != nil {
				log.Warn().Err(err).Uint64("dealer_id", dealerID).Interface("review_id", reviews[i]["id"]).
					Msg("sentiment analysis failed")
				return nil
			}
			reviews[i][model.SentimentKey] = label
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Post forwards a validated payload to the backend and then publishes a
// review.posted event. Publishing is best effort and never fails the call.
func (s *ReviewService) Post(ctx context.Context, username string, payload map[string]any) error {
	if f := MissingField(payload); f != "" {
		return fmt.Errorf("missing field %s", f)
	}
	if err := s.backend.PostReview(ctx, payload); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}
	ev := queue.ReviewPostedEvent{
		EventID:      uuid.NewString(),
		Username:     username,
		DealerID:     text(payload["dealership"]),
		Name:         text(payload["name"]),
		CarMake:      text(payload["car_make"]),
		CarModel:     text(payload["car_model"]),
		CarYear:      text(payload["car_year"]),
		Purchase:     text(payload["purchase"]),
		PurchaseDate: text(payload["purchase_date"]),
		PostedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.publisher.PublishReviewPosted(pctx, ev); err != nil {
		log.Warn().Err(err).Str("event_id", ev.EventID).Msg("review event not published")
	}
	return nil
}

// text renders a JSON value as plain text; whole numbers decoded as
// float64 print without a fraction.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
	}
	return fmt.Sprint(v)
}
