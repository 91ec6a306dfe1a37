package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iliyamo/dealership-reviews/internal/model"
)

// DealerClient talks to the dealer/review backend.
type DealerClient struct {
	http *resty.Client
}

// NewDealerClient builds a client for the backend rooted at baseURL.
func NewDealerClient(baseURL string, timeout time.Duration) *DealerClient {
	return &DealerClient{http: newResty(baseURL, timeout)}
}

// FetchDealers lists all dealers, or only those of state when state is set
// and not "All". Dealer objects are passed through without reshaping.
func (c *DealerClient) FetchDealers(ctx context.Context, state string) ([]model.Dealer, error) {
	endpoint := "/fetchDealers"
	req := c.http.R().SetContext(ctx)
	if state = strings.TrimSpace(state); state != "" && state != "All" {
		endpoint = "/fetchDealers/{state}"
		req.SetPathParam("state", state)
	}
	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch dealers: %w", err)
	}
	var out []model.Dealer
	if err := decode(endpoint, resp, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Dealer{}
	}
	return out, nil
}

// FetchDealer returns the backend's dealer payload unchanged.
func (c *DealerClient) FetchDealer(ctx context.Context, id uint64) (json.RawMessage, error) {
	const endpoint = "/fetchDealer/{id}"
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", fmt.Sprint(id)).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch dealer %d: %w", id, err)
	}
	var out json.RawMessage
	if err := decode(endpoint, resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchReviews lists the reviews of one dealer, each object as received.
func (c *DealerClient) FetchReviews(ctx context.Context, dealerID uint64) ([]model.Review, error) {
	const endpoint = "/fetchReviews/dealer/{id}"
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", fmt.Sprint(dealerID)).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for dealer %d: %w", dealerID, err)
	}
	var out []model.Review
	if err := decode(endpoint, resp, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Review{}
	}
	return out, nil
}

// PostReview submits a review payload as-is.
func (c *DealerClient) PostReview(ctx context.Context, payload map[string]any) error {
	const endpoint = "/insert_review"
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("post review: %w", err)
	}
	return decode(endpoint, resp, nil)
}
