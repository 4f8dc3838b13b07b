package domain

import (
	"time"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Ticket is the repair-ticket aggregate produced by appointment conversion.
// Ownership passes entirely to the ticket subsystem once created; the
// scheduling engine only keeps a one-way reference from the appointment.
type Ticket struct {
	ID               int64          `json:"id"`
	TicketNumber     string         `json:"ticket_number"`
	CustomerID       *int64         `json:"customer_id"`
	DeviceID         *int64         `json:"device_id"`
	CustomerDeviceID *int64         `json:"customer_device_id"`
	SerialNumber     *string        `json:"serial_number"`
	IMEI             *string        `json:"imei"`
	Issues           []string       `json:"issues"`
	Description      *string        `json:"description"`
	EstimatedCost    *float64       `json:"estimated_cost"`
	Priority         TicketPriority `json:"priority"`
	Status           string         `json:"status"`
	AppointmentID    int64          `json:"appointment_id"`
	AssignedTo       *int64         `json:"assigned_to"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TicketLineItem materializes one selected service on a ticket with the unit
// price snapshotted at conversion time.
type TicketLineItem struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	ServiceID int64     `json:"service_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// RepairService is a catalog entry; only the fields the conversion snapshot
// needs are carried here.
type RepairService struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
