package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fixpoint/internal/domain"
)

type ServiceRepo struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) ServiceRepository {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.RepairService, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, price
		FROM repair_services
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list repair services: %w", err)
	}
	defer rows.Close()

	var services []domain.RepairService
	for rows.Next() {
		var svc domain.RepairService
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price); err != nil {
			return nil, fmt.Errorf("failed to scan repair service row: %w", err)
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repair service rows: %w", err)
	}

	return services, nil
}
