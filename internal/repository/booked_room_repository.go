package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/models"
)

var (
	// ErrSlotTaken reports that another booking committed an overlapping
	// slot for the same room after the room was selected.
	ErrSlotTaken = errors.New("repository: room already booked for the requested range")
	// ErrMixedRooms rejects an append whose rows target more than one room.
	ErrMixedRooms = errors.New("repository: slot rows must belong to a single room")
)

const bookedRoomColumns = `id, room_name, start_time, end_time, number_of_persons, booking_reference, booked_by, booking_date_time`

// BookedRoomRepository is the booking ledger.
type BookedRoomRepository struct {
	db *sqlx.DB
}

// NewBookedRoomRepository constructs the repository.
func NewBookedRoomRepository(db *sqlx.DB) *BookedRoomRepository {
	return &BookedRoomRepository{db: db}
}

// FindByRoomName returns every slot row booked for the room.
func (r *BookedRoomRepository) FindByRoomName(ctx context.Context, roomName string) ([]models.BookedRoom, error) {
	query := `SELECT ` + bookedRoomColumns + ` FROM booked_rooms WHERE room_name = $1 ORDER BY start_time`
	var rows []models.BookedRoom
	if err := r.db.SelectContext(ctx, &rows, query, roomName); err != nil {
		return nil, fmt.Errorf("find booked rooms by room %s: %w", roomName, err)
	}
	return rows, nil
}

// FindByStartBetween returns rows whose start time lies within [start, end].
// Only the start is compared: a row beginning before start is not returned
// even when it runs into the window. Ledger rows are single slots aligned to
// the quantum, so for aligned windows the result matches an overlap query.
func (r *BookedRoomRepository) FindByStartBetween(ctx context.Context, start, end allocation.TimeOfDay) ([]models.BookedRoom, error) {
	query := `SELECT ` + bookedRoomColumns + ` FROM booked_rooms WHERE start_time BETWEEN $1 AND $2 ORDER BY room_name, start_time`
	var rows []models.BookedRoom
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("find booked rooms between %s and %s: %w", start, end, err)
	}
	return rows, nil
}

// FindByReference returns the slot rows created by one booking request.
func (r *BookedRoomRepository) FindByReference(ctx context.Context, reference string) ([]models.BookedRoom, error) {
	query := `SELECT ` + bookedRoomColumns + ` FROM booked_rooms WHERE booking_reference = $1 ORDER BY start_time`
	var rows []models.BookedRoom
	if err := r.db.SelectContext(ctx, &rows, query, reference); err != nil {
		return nil, fmt.Errorf("find booked rooms by reference: %w", err)
	}
	return rows, nil
}

// AppendSlots inserts the slot rows of one booking in a single transaction.
// A transaction-scoped advisory lock keyed on the room name serializes
// concurrent appends for that room; the overlap check runs under the lock and
// returns ErrSlotTaken when another booking got there first. Either every row
// is stored or none is.
func (r *BookedRoomRepository) AppendSlots(ctx context.Context, rows []models.BookedRoom) (err error) {
	if len(rows) == 0 {
		return nil
	}
	room := rows[0].RoomName
	span := rows[0].Range()
	for _, row := range rows[1:] {
		if row.RoomName != room {
			return ErrMixedRooms
		}
		if row.StartTime.Before(span.Start) {
			span.Start = row.StartTime
		}
		if row.EndTime.After(span.End) {
			span.End = row.EndTime
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, room); err != nil {
		return fmt.Errorf("lock room %s: %w", room, err)
	}

	const overlapQuery = `SELECT COUNT(*) FROM booked_rooms WHERE room_name = $1 AND start_time < $2 AND end_time > $3`
	var overlapping int
	if err = tx.GetContext(ctx, &overlapping, overlapQuery, room, span.End, span.Start); err != nil {
		return fmt.Errorf("check overlapping bookings for %s: %w", room, err)
	}
	if overlapping > 0 {
		err = ErrSlotTaken
		return err
	}

	const insertQuery = `INSERT INTO booked_rooms (room_name, start_time, end_time, number_of_persons, booking_reference, booked_by, booking_date_time)
VALUES (:room_name, :start_time, :end_time, :number_of_persons, :booking_reference, :booked_by, :booking_date_time)`
	for _, row := range rows {
		if _, err = tx.NamedExecContext(ctx, insertQuery, row); err != nil {
			return fmt.Errorf("insert booked slot %s for %s: %w", row.Range().Label(), room, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit booking for %s: %w", room, err)
	}
	return nil
}
