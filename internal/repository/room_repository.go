package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-booking-api/internal/models"
)

// RoomRepository reads the conference room reference data.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room in stored order. Selection tie-breaks depend on
// this order, so it must stay stable.
func (r *RoomRepository) List(ctx context.Context) ([]models.ConferenceRoom, error) {
	const query = `SELECT id, name, capacity FROM conference_rooms ORDER BY id`
	var rooms []models.ConferenceRoom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list conference rooms: %w", err)
	}
	return rooms, nil
}
