package domain

import (
	"time"
)

// BusinessHours is the recurring weekday rule, at most one active row per
// weekday (0 = Sunday .. 6 = Saturday).
type BusinessHours struct {
	DayOfWeek  int       `json:"day_of_week"`
	IsActive   bool      `json:"is_active"`
	OpenTime   string    `json:"open_time"`
	CloseTime  string    `json:"close_time"`
	BreakStart *string   `json:"break_start"`
	BreakEnd   *string   `json:"break_end"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UpsertBusinessHoursDTO struct {
	DayOfWeek  int     `json:"day_of_week" binding:"min=0,max=6"`
	IsActive   bool    `json:"is_active"`
	OpenTime   string  `json:"open_time" binding:"required"`
	CloseTime  string  `json:"close_time" binding:"required"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

type SpecialDateType string

const (
	SpecialDateClosure      SpecialDateType = "closure"
	SpecialDateSpecialHours SpecialDateType = "special_hours"
)

// SpecialDate is a one-off override for a specific calendar date. A closure
// makes the date fully unavailable regardless of the weekday rule.
type SpecialDate struct {
	Date      time.Time       `json:"date"`
	Type      SpecialDateType `json:"type"`
	OpenTime  *string         `json:"open_time"`
	CloseTime *string         `json:"close_time"`
	Reason    *string         `json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type UpsertSpecialDateDTO struct {
	Date      string          `json:"date" binding:"required"`
	Type      SpecialDateType `json:"type" binding:"required,oneof=closure special_hours"`
	OpenTime  *string         `json:"open_time"`
	CloseTime *string         `json:"close_time"`
	Reason    *string         `json:"reason"`
}
