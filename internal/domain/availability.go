package domain

import (
	"time"
)

// DayAvailability is the merged view of calendar rules and bookable slots for
// a single date. An open day with zero generated slots keeps IsOpen=true and
// an empty slot list, which is distinct from a closed day.
type DayAvailability struct {
	Date       time.Time `json:"date"`
	DayOfWeek  int       `json:"day_of_week"`
	IsOpen     bool      `json:"is_open"`
	OpenTime   string    `json:"open_time,omitempty"`
	CloseTime  string    `json:"close_time,omitempty"`
	BreakStart *string   `json:"break_start,omitempty"`
	BreakEnd   *string   `json:"break_end,omitempty"`
	Slots      []Slot    `json:"slots"`
}
