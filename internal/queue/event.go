// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// ReviewPostedQueue is the durable queue review events are published to.
const ReviewPostedQueue = "review.posted"

// ReviewPostedEvent is published after a review was accepted by the dealer
// backend. It carries enough to audit the submission without querying the
// backend again.
type ReviewPostedEvent struct {
	EventID      string `json:"event_id"`
	Username     string `json:"username"`
	DealerID     string `json:"dealer_id"`
	Name         string `json:"name"`
	CarMake      string `json:"car_make"`
	CarModel     string `json:"car_model"`
	CarYear      string `json:"car_year"`
	Purchase     string `json:"purchase"`
	PurchaseDate string `json:"purchase_date"`
	PostedAt     string `json:"posted_at"`
}
