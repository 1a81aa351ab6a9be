// Package queue defines message payloads exchanged over the message broker
// together with the publisher and background consumer that move them.
package queue

// DetentionCompletedEvent is published when a detention event is checked
// out. It carries the settled figures so downstream consumers can log,
// notify billing, or feed analytics without querying the primary database.
type DetentionCompletedEvent struct {
	EventID          uint64  `json:"event_id"`
	LoadID           uint64  `json:"load_id"`
	DriverID         uint64  `json:"driver_id"`
	CheckinTime      string  `json:"checkin_time"`
	CheckoutTime     string  `json:"checkout_time"`
	FreeTimeMinutes  int     `json:"free_time_minutes"`
	DetentionMinutes int     `json:"detention_minutes"`
	DetentionRate    float64 `json:"detention_rate"`
	DetentionAmount  float64 `json:"detention_amount"`
}
