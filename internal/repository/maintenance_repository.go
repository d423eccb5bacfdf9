package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-booking-api/internal/models"
)

// MaintenanceRepository reads the blackout windows shared by all rooms.
type MaintenanceRepository struct {
	db *sqlx.DB
}

// NewMaintenanceRepository constructs the repository.
func NewMaintenanceRepository(db *sqlx.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// List returns all maintenance windows ordered by start time.
func (r *MaintenanceRepository) List(ctx context.Context) ([]models.MaintenanceTime, error) {
	const query = `SELECT id, start_time, end_time FROM maintenance_times ORDER BY start_time, id`
	var windows []models.MaintenanceTime
	if err := r.db.SelectContext(ctx, &windows, query); err != nil {
		return nil, fmt.Errorf("list maintenance times: %w", err)
	}
	return windows, nil
}
