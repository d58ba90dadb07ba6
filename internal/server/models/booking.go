package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions lists the statuses reachable from each status.
// completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: nil,
	BookingCancelled: nil,
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether a booking in status s may move to next.
// Re-applying the current status is allowed and is a no-op.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return s.Valid()
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customerName"`
	ServiceName  string        `json:"serviceName"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Status       BookingStatus `json:"status"`
	Price        float64       `json:"price"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
