package model

// SentimentKey is the key added to every remote review at read time.
const SentimentKey = "sentiment"

// Review is a review object exactly as the remote backend sends it, plus
// SentimentKey. The value under SentimentKey is the analyzer's label, or
// nil (JSON null) when the analyzer could not label the text.
type Review map[string]any

// Text returns the review body, or "" when the key is absent or not text.
func (r Review) Text() string {
	s, _ := r["review"].(string)
	return s
}
