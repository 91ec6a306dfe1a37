package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SentimentClient calls the sentiment analyzer microservice.
type SentimentClient struct {
	http *resty.Client
}

func NewSentimentClient(baseURL string, timeout time.Duration) *SentimentClient {
	return &SentimentClient{http: newResty(baseURL, timeout)}
}

// Analyze returns the analyzer's label (positive, neutral, negative) for text.
func (c *SentimentClient) Analyze(ctx context.Context, text string) (string, error) {
	const endpoint = "/analyze/{text}"
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("text", text).
		Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("analyze sentiment: %w", err)
	}
	var out struct {
		Sentiment string `json:"sentiment"`
	}
	if err := decode(endpoint, resp, &out); err != nil {
		return "", err
	}
	if out.Sentiment == "" {
		return "", fmt.Errorf("%s: empty sentiment in response", endpoint)
	}
	return out.Sentiment, nil
}
