package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusArrived   AppointmentStatus = "arrived"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusConverted AppointmentStatus = "converted"
)

// Terminal reports whether no further transition is allowed out of the status.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusNoShow, AppointmentStatusCancelled, AppointmentStatusConverted:
		return true
	}
	return false
}

type AppointmentUrgency string

const (
	UrgencyLow       AppointmentUrgency = "low"
	UrgencyNormal    AppointmentUrgency = "normal"
	UrgencyEmergency AppointmentUrgency = "emergency"
)

type AppointmentSource string

const (
	SourceWalkIn AppointmentSource = "walk_in"
	SourcePhone  AppointmentSource = "phone"
	SourceOnline AppointmentSource = "online"
)

type Appointment struct {
	ID                  int64              `json:"id"`
	AppointmentNumber   string             `json:"appointment_number"`
	CustomerID          *int64             `json:"customer_id"`
	DeviceID            *int64             `json:"device_id"`
	CustomerDeviceID    *int64             `json:"customer_device_id"`
	ScheduledDate       time.Time          `json:"scheduled_date"`
	ScheduledTime       string             `json:"scheduled_time"`
	DurationMinutes     int                `json:"duration_minutes"`
	ServiceIDs          []int64            `json:"service_ids"`
	EstimatedCost       *float64           `json:"estimated_cost"`
	Status              AppointmentStatus  `json:"status"`
	Issues              []string           `json:"issues"`
	Description         *string            `json:"description"`
	Urgency             AppointmentUrgency `json:"urgency"`
	Source              AppointmentSource  `json:"source"`
	Notes               *string            `json:"notes"`
	SlotID              *int64             `json:"slot_id"`
	ConfirmationSentAt  *time.Time         `json:"confirmation_sent_at"`
	ReminderSentAt      *time.Time         `json:"reminder_sent_at"`
	ConfirmedAt         *time.Time         `json:"confirmed_at"`
	ArrivedAt           *time.Time         `json:"arrived_at"`
	ConvertedToTicketID *int64             `json:"converted_to_ticket_id"`
	CancellationReason  *string            `json:"cancellation_reason"`
	CreatedBy           *int64             `json:"created_by"`
	AssignedTo          *int64             `json:"assigned_to"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

// StartMinutes returns the scheduled time as minutes since midnight.
// A malformed time yields 0; validation upstream prevents one being stored.
func (a *Appointment) StartMinutes() int {
	t, err := time.Parse("15:04", a.ScheduledTime)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

type CreateAppointmentDTO struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerEmail   string             `json:"customer_email" binding:"required,email"`
	CustomerPhone   string             `json:"customer_phone"`
	Device          *DeviceAttrsDTO    `json:"device"`
	ScheduledDate   string             `json:"scheduled_date" binding:"required"`
	ScheduledTime   string             `json:"scheduled_time" binding:"required"`
	DurationMinutes int                `json:"duration_minutes"`
	ServiceIDs      []int64            `json:"service_ids"`
	EstimatedCost   *float64           `json:"estimated_cost"`
	Issues          []string           `json:"issues"`
	Description     *string            `json:"description"`
	Urgency         AppointmentUrgency `json:"urgency" binding:"omitempty,oneof=low normal emergency"`
	Source          AppointmentSource  `json:"source" binding:"omitempty,oneof=walk_in phone online"`
	Notes           *string            `json:"notes"`
	SlotID          *int64             `json:"slot_id"`
}

type RescheduleAppointmentDTO struct {
	ScheduledDate   string `json:"scheduled_date" binding:"required"`
	ScheduledTime   string `json:"scheduled_time" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes"`
}

type CancelAppointmentDTO struct {
	Reason string `json:"reason" binding:"required"`
}

// ConvertAppointmentDTO carries optional overrides applied on top of the
// stored customer-device record and the raw appointment fields.
type ConvertAppointmentDTO struct {
	DeviceID      *int64   `json:"device_id"`
	SerialNumber  *string  `json:"serial_number"`
	IMEI          *string  `json:"imei"`
	Issues        []string `json:"issues"`
	Description   *string  `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost"`
	AssignedTo    *int64   `json:"assigned_to"`
}

type AppointmentFilter struct {
	Status     *AppointmentStatus `json:"status"`
	CustomerID *int64             `json:"customer_id"`
	StartDate  *time.Time         `json:"start_date"`
	EndDate    *time.Time         `json:"end_date"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}
