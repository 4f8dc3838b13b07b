package service

import (
	"context"

	"go.uber.org/zap"
)

type NotificationKind string

const (
	NotificationAppointmentConfirmation NotificationKind = "appointment_confirmation"
	NotificationAppointmentCancellation NotificationKind = "appointment_cancellation"
)

// NotificationPayload carries the template data for an outbound message.
type NotificationPayload struct {
	AppointmentNumber string `json:"appointment_number"`
	ScheduledDate     string `json:"scheduled_date"`
	ScheduledTime     string `json:"scheduled_time"`
	CustomerName      string `json:"customer_name"`
	Reason            string `json:"reason,omitempty"`
}

// NotificationDispatcher is the outbound email/SMS collaborator. Delivery is
// best-effort: send failures never roll back the state change that triggered
// them.
type NotificationDispatcher interface {
	Send(ctx context.Context, kind NotificationKind, recipient string, payload NotificationPayload) error
}

// LogDispatcher satisfies NotificationDispatcher by logging the message; it
// stands in wherever a real delivery channel is not configured.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(ctx context.Context, kind NotificationKind, recipient string, payload NotificationPayload) error {
	d.logger.Info("notification dispatched",
		zap.String("kind", string(kind)),
		zap.String("recipient", recipient),
		zap.String("appointment_number", payload.AppointmentNumber),
	)
	return nil
}
