package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dealership-reviews/internal/model"
	"github.com/iliyamo/dealership-reviews/internal/queue"
)

type fakeBackend struct {
	reviews  []model.Review
	fetchErr error
	postErr  error
	posted   []map[string]any
}

func (f *fakeBackend) FetchReviews(ctx context.Context, dealerID uint64) ([]model.Review, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Review, len(f.reviews))
	for i, r := range f.reviews {
		if r == nil {
			continue
		}
		out[i] = model.Review{}
		for k, v := range r {
			out[i][k] = v
		}
	}
	return out, nil
}

func (f *fakeBackend) PostReview(ctx context.Context, payload map[string]any) error {
	f.posted = append(f.posted, payload)
	return f.postErr
}

type fakeAnalyzer struct {
	labels   map[string]string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	label, ok := f.labels[text]
	if !ok {
		return "", errors.New("analyzer unavailable")
	}
	return label, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ReviewPostedEvent
	err    error
}

func (f *fakePublisher) PublishReviewPosted(ctx context.Context, ev queue.ReviewPostedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func validPayload() map[string]any {
	return map[string]any{
		"name":          "Alice",
		"dealership":    float64(15),
		"review":        "Great service",
		"purchase":      true,
		"purchase_date": "2024-01-02",
		"car_make":      "Audi",
		"car_model":     "A6",
		"car_year":      float64(2021),
	}
}

func TestDealerReviewsAnnotatesEveryReviewInOrder(t *testing.T) {
	backend := &fakeBackend{reviews: []model.Review{
		{"id": 1, "review": "good"}, {"id": 2, "review": "bad"}, {"id": 3, "review": "unknown"},
		{"id": 4, "review": "good"}, {"id": 5, "review": "meh"}, {"id": 6, "review": "bad"},
	}}
	analyzer := &fakeAnalyzer{labels: map[string]string{"good": "positive", "bad": "negative", "meh": "neutral"}}
	svc := NewReviewService(backend, analyzer, nil, 2)

	got, err := svc.DealerReviews(context.Background(), 15)
	require.NoError(t, err)
	require.Len(t, got, len(backend.reviews))

	want := []string{"positive", "negative", "", "positive", "neutral", "negative"}
	for i, r := range got {
		assert.Equal(t, i+1, r["id"])
		require.Contains(t, r, model.SentimentKey, "review %d", i+1)
		if want[i] == "" {
			assert.Nil(t, r[model.SentimentKey], "review %d", i+1)
			continue
		}
		assert.Equal(t, want[i], r[model.SentimentKey])
	}
	assert.LessOrEqual(t, analyzer.peak.Load(), int32(2))
}

func TestDealerReviewsKeepsBackendKeys(t *testing.T) {
	backend := &fakeBackend{reviews: []model.Review{
		{"_id": "65a1", "__v": 0, "id": 1, "review": "good", "car_year": "2010"},
		nil,
	}}
	analyzer := &fakeAnalyzer{labels: map[string]string{"good": "positive"}}
	got, err := NewReviewService(backend, analyzer, nil, 4).DealerReviews(context.Background(), 15)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.Review{
		"_id": "65a1", "__v": 0, "id": 1, "review": "good", "car_year": "2010",
		model.SentimentKey: "positive",
	}, got[0])
	assert.Nil(t, got[1])
}

func TestDealerReviewsEmpty(t *testing.T) {
	svc := NewReviewService(&fakeBackend{reviews: []model.Review{}}, &fakeAnalyzer{}, nil, 4)
	got, err := svc.DealerReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDealerReviewsFetchError(t *testing.T) {
	boom := errors.New("backend down")
	svc := NewReviewService(&fakeBackend{fetchErr: boom}, &fakeAnalyzer{}, nil, 4)
	_, err := svc.DealerReviews(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestMissingField(t *testing.T) {
	assert.Equal(t, "", MissingField(validPayload()))

	for _, f := range RequiredReviewFields {
		p := validPayload()
		delete(p, f)
		assert.Equal(t, f, MissingField(p), "absent %s", f)

		p = validPayload()
		p[f] = "   "
		assert.Equal(t, f, MissingField(p), "blank %s", f)

		p = validPayload()
		p[f] = nil
		assert.Equal(t, f, MissingField(p), "null %s", f)
	}

	p := validPayload()
	p["purchase"] = false
	assert.Equal(t, "", MissingField(p))
}

func TestPostPublishesEvent(t *testing.T) {
	backend := &fakeBackend{}
	pub := &fakePublisher{}
	svc := NewReviewService(backend, &fakeAnalyzer{}, pub, 1)

	require.NoError(t, svc.Post(context.Background(), "alice", validPayload()))
	require.Len(t, backend.posted, 1)
	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, "alice", ev.Username)
	assert.Equal(t, "15", ev.DealerID)
	assert.Equal(t, "2021", ev.CarYear)
	assert.Equal(t, "true", ev.Purchase)
	assert.NotEmpty(t, ev.EventID)
}

func TestPostIgnoresPublisherFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewReviewService(&fakeBackend{}, &fakeAnalyzer{}, pub, 1)
	assert.NoError(t, svc.Post(context.Background(), "alice", validPayload()))
}

func TestPostBackendFailureSkipsEvent(t *testing.T) {
	boom := errors.New("insert failed")
	pub := &fakePublisher{}
	svc := NewReviewService(&fakeBackend{postErr: boom}, &fakeAnalyzer{}, pub, 1)
	assert.ErrorIs(t, svc.Post(context.Background(), "alice", validPayload()), boom)
	assert.Empty(t, pub.events)
}

func TestPostRejectsIncompletePayload(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewReviewService(backend, &fakeAnalyzer{}, nil, 1)
	p := validPayload()
	delete(p, "car_model")
	assert.Error(t, svc.Post(context.Background(), "alice", p))
	assert.Empty(t, backend.posted)
}
