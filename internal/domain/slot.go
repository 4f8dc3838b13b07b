package domain

import (
	"time"
)

// Slot is a discrete bookable time unit with finite capacity, generated from
// business hours. Slots are never deleted automatically, only toggled.
type Slot struct {
	ID              int64     `json:"id"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	StaffID         *int64    `json:"staff_id"`
	IsAvailable     bool      `json:"is_available"`
	MaxCapacity     int       `json:"max_capacity"`
	CurrentCapacity int       `json:"current_capacity"`
	AppointmentID   *int64    `json:"appointment_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type GenerateSlotsDTO struct {
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=10,max=120"`
	StaffID         *int64 `json:"staff_id"`
	MaxCapacity     int    `json:"max_capacity" binding:"omitempty,min=1"`
}

type SlotFilter struct {
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	StaffID       *int64     `json:"staff_id"`
	OnlyAvailable bool       `json:"only_available"`
}
