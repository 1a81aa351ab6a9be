package model

import "time"

// Detention event lifecycle states. An event is active from check-in until
// check-out and completed forever after.
const (
	DetentionActive    = "active"
	DetentionCompleted = "completed"
)

// Defaults applied when a check-in request omits the corresponding field.
const (
	DefaultFreeTimeMinutes = 120
	DefaultDetentionRate   = 50.0
)

// DetentionEvent records one stretch of time a driver spent waiting at a
// load location. The derived fields (DetentionMinutes, DetentionAmount,
// Status) are owned by the detention service and must only change through
// the check-in and check-out transitions.
type DetentionEvent struct {
	ID               uint64     `json:"id"`                // detention_events.id
	LoadID           uint64     `json:"load_id"`           // reference into loads
	DriverID         uint64     `json:"driver_id"`         // reference into drivers
	CheckinTime      time.Time  `json:"checkin_time"`      // server-assigned UTC, immutable
	CheckoutTime     *time.Time `json:"checkout_time"`     // nil while active
	FreeTimeMinutes  int        `json:"free_time_minutes"` // grace period before fees accrue
	DetentionRate    float64    `json:"detention_rate"`    // dollars per hour
	DetentionMinutes int        `json:"detention_minutes"` // fixed at check-out
	DetentionAmount  float64    `json:"detention_amount"`  // fixed at check-out, 2 decimals
	Status           string     `json:"status"`            // active | completed
	Notes            *string    `json:"notes"`             // optional free text
}

// ActiveDetention is the live projection computed for an event that has not
// been checked out yet. None of these values are persisted; they are
// recomputed against the current clock on every request.
type ActiveDetention struct {
	ID                uint64    `json:"id"`
	LoadID            uint64    `json:"load_id"`
	DriverID          uint64    `json:"driver_id"`
	CheckinTime       time.Time `json:"checkin_time"`
	ElapsedMinutes    int       `json:"elapsed_minutes"`
	FreeTimeRemaining int       `json:"free_time_remaining"`
	DetentionMinutes  int       `json:"detention_minutes"`
	DetentionAmount   float64   `json:"detention_amount"`
	Status            string    `json:"status"`
}
