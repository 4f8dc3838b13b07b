package domain

import (
	"time"
)

// CustomerDevice links a device record to the customer who owns it.
type CustomerDevice struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	DeviceID     *int64    `json:"device_id"`
	DeviceType   string    `json:"device_type"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	SerialNumber *string   `json:"serial_number"`
	IMEI         *string   `json:"imei"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DeviceAttrsDTO struct {
	DeviceID     *int64  `json:"device_id"`
	DeviceType   string  `json:"device_type" binding:"required"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	SerialNumber *string `json:"serial_number"`
	IMEI         *string `json:"imei"`
}
