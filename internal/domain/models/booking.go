package models

// Booking statuses. A booking is never deleted, only transitioned.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking references its bus and seats by id/label, not by pointer.
type Booking struct {
	ID          int64       `json:"id"`
	Code        string      `json:"code"`
	BusID       int64       `json:"busId"`
	UserID      int64       `json:"userId"`
	AgentID     int64       `json:"agentId,omitempty"`
	Source      string      `json:"from"`
	Destination string      `json:"to"`
	TravelDate  string      `json:"date"`
	SeatCount   int         `json:"seatCount"`
	Fare        int64       `json:"fare"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	Seats       []string    `json:"seats"`
	Passengers  []Passenger `json:"passengers,omitempty"`
}

// Passenger carries per-seat traveller details for a booking.
type Passenger struct {
	SeatLabel string `json:"seat"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
}

// ValidTransition reports whether a booking may move from one status to
// another. Nothing leaves cancelled, and confirmation only follows pending.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}
