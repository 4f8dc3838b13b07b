package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixpoint/internal/domain"
)

type DeviceRepo struct {
	db *pgxpool.Pool
}

func NewDeviceRepository(db *pgxpool.Pool) DeviceRepository {
	return &DeviceRepo{db: db}
}

const customerDeviceColumns = `
	id, customer_id, device_id, device_type, brand, model, serial_number, imei,
	created_at, updated_at
`

func scanCustomerDevice(row pgx.Row) (*domain.CustomerDevice, error) {
	var d domain.CustomerDevice
	err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.DeviceID,
		&d.DeviceType,
		&d.Brand,
		&d.Model,
		&d.SerialNumber,
		&d.IMEI,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeviceRepo) LinkOrCreate(ctx context.Context, customerID int64, attrs domain.DeviceAttrsDTO) (*domain.CustomerDevice, error) {
	// A matching serial number for the same customer means the device is
	// already registered; relink instead of duplicating.
	if attrs.SerialNumber != nil && *attrs.SerialNumber != "" {
		query := `
			SELECT ` + customerDeviceColumns + `
			FROM customer_devices
			WHERE customer_id = $1 AND serial_number = $2
		`

		device, err := scanCustomerDevice(r.db.QueryRow(ctx, query, customerID, *attrs.SerialNumber))
		if err == nil {
			return device, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to look up customer device: %w", err)
		}
	}

	insert := `
		INSERT INTO customer_devices (
			customer_id, device_id, device_type, brand, model, serial_number, imei, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + customerDeviceColumns + `
	`

	device, err := scanCustomerDevice(r.db.QueryRow(
		ctx,
		insert,
		customerID,
		attrs.DeviceID,
		attrs.DeviceType,
		attrs.Brand,
		attrs.Model,
		attrs.SerialNumber,
		attrs.IMEI,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer device: %w", err)
	}

	return device, nil
}

func (r *DeviceRepo) GetByID(ctx context.Context, id int64) (*domain.CustomerDevice, error) {
	query := `SELECT ` + customerDeviceColumns + ` FROM customer_devices WHERE id = $1`

	device, err := scanCustomerDevice(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer device: %w", err)
	}

	return device, nil
}
