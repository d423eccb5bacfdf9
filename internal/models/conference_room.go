package models

import "github.com/noah-isme/room-booking-api/internal/allocation"

// ConferenceRoom is a bookable room from the reference data.
type ConferenceRoom struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// AllocationRoom projects the room onto the allocation core.
func (r ConferenceRoom) AllocationRoom() allocation.Room {
	return allocation.Room{Name: r.Name, Capacity: r.Capacity}
}
