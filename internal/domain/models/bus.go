package models

// Seat arrangement patterns supported by the layout generator.
const (
	Arrangement22 = "2-2"
	Arrangement21 = "2-1"
	Arrangement11 = "1-1"
)

// Bus carries schedule, fare and seat-layout parameters for one service.
// Dates are YYYY-MM-DD strings, clock times HH:MM, matching the wire format.
type Bus struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	TravelDate      string `json:"travelDate"`
	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	WindowOpenTime  string `json:"windowOpenTime"`
	WindowCloseTime string `json:"windowCloseTime"`
	TotalSeats      int    `json:"totalSeats"`
	Arrangement     string `json:"arrangement"`
	FirstRowSeats   int    `json:"firstRowSeats"`
	LastRowSeats    int    `json:"lastRowSeats"`
	FarePerSeat     int64  `json:"farePerSeat"`
	IsActive        bool   `json:"isActive"`
}

// Seat is one position of a bus layout. Booked is a derived projection of
// non-cancelled bookings for a given travel date, never stored.
type Seat struct {
	Label  string `json:"label"`
	Row    int    `json:"row"`
	Pos    int    `json:"pos"`
	Booked bool   `json:"booked"`
}

// BusSummary is the search-result shape with derived availability.
type BusSummary struct {
	Bus
	AvailableSeats int  `json:"availableSeats"`
	WindowOpen     bool `json:"bookingWindowOpen"`
}

// BusUpdate supports PATCH-style edits via key presence. Layout parameters
// are deliberately absent: the seat map is immutable after creation.
type BusUpdate struct {
	Name            *string
	Source          *string
	Destination     *string
	TravelDate      *string
	DepartureTime   *string
	ArrivalTime     *string
	WindowOpenTime  *string
	WindowCloseTime *string
	FarePerSeat     *int64
	IsActive        *bool
}
