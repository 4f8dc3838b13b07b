package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fixpoint/internal/domain"
)

// ConvertibleStatuses is the explicit policy for which appointment states may
// be converted into a ticket. Walk-in conversion straight from scheduled is
// allowed on purpose: a customer may show up with the device before anyone
// touched the appointment.
var ConvertibleStatuses = map[domain.AppointmentStatus]bool{
	domain.AppointmentStatusScheduled: true,
	domain.AppointmentStatusConfirmed: true,
	domain.AppointmentStatusArrived:   true,
}

// MapUrgencyToPriority translates appointment urgency into ticket priority.
// Only an emergency escalates; everything else lands at medium.
func MapUrgencyToPriority(urgency domain.AppointmentUrgency) domain.TicketPriority {
	if urgency == domain.UrgencyEmergency {
		return domain.TicketPriorityUrgent
	}
	return domain.TicketPriorityMedium
}

// BuildTicketFromAppointment assembles the repair-ticket aggregate for a
// conversion. Field precedence: explicit overrides, then the stored
// customer-device record, then the raw appointment fields.
func BuildTicketFromAppointment(
	appt *domain.Appointment,
	device *domain.CustomerDevice,
	services []domain.RepairService,
	overrides domain.ConvertAppointmentDTO,
) (domain.Ticket, []domain.TicketLineItem) {
	ticket := domain.Ticket{
		TicketNumber:     NewTicketNumber(time.Now()),
		CustomerID:       appt.CustomerID,
		DeviceID:         appt.DeviceID,
		CustomerDeviceID: appt.CustomerDeviceID,
		Issues:           appt.Issues,
		Description:      appt.Description,
		EstimatedCost:    appt.EstimatedCost,
		Priority:         MapUrgencyToPriority(appt.Urgency),
		Status:           "new",
		AppointmentID:    appt.ID,
		AssignedTo:       appt.AssignedTo,
	}

	if device != nil {
		ticket.DeviceID = device.DeviceID
		ticket.SerialNumber = device.SerialNumber
		ticket.IMEI = device.IMEI
	}

	if overrides.DeviceID != nil {
		ticket.DeviceID = overrides.DeviceID
	}
	if overrides.SerialNumber != nil {
		ticket.SerialNumber = overrides.SerialNumber
	}
	if overrides.IMEI != nil {
		ticket.IMEI = overrides.IMEI
	}
	if len(overrides.Issues) > 0 {
		ticket.Issues = overrides.Issues
	}
	if overrides.Description != nil {
		ticket.Description = overrides.Description
	}
	if overrides.EstimatedCost != nil {
		ticket.EstimatedCost = overrides.EstimatedCost
	}
	if overrides.AssignedTo != nil {
		ticket.AssignedTo = overrides.AssignedTo
	}

	items := make([]domain.TicketLineItem, 0, len(services))
	for _, svc := range services {
		items = append(items, domain.TicketLineItem{
			ServiceID: svc.ID,
			Name:      svc.Name,
			UnitPrice: svc.Price,
			Quantity:  1,
		})
	}

	return ticket, items
}

// NewAppointmentNumber builds the unique external identifier for a booking,
// e.g. APT-20240603-9f86d081.
func NewAppointmentNumber(at time.Time) string {
	return fmt.Sprintf("APT-%s-%s", at.Format("20060102"), shortID())
}

func NewTicketNumber(at time.Time) string {
	return fmt.Sprintf("TKT-%s-%s", at.Format("20060102"), shortID())
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
