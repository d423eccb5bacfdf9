package dto

import "time"

// BookingRequest reserves the best-fit room for a range of today.
type BookingRequest struct {
	Persons   int    `json:"persons" validate:"required,gt=1"`
	StartTime string `json:"startTime" validate:"required,hhmm,quarterhour"`
	EndTime   string `json:"endTime" validate:"required,hhmm,quarterhour"`
	UserName  string `json:"userName" validate:"omitempty,max=100"`
}

// BookingResponse echoes the requested range with the allocated room.
type BookingResponse struct {
	Room             string `json:"room"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	BookingReference string `json:"bookingReference,omitempty"`
}

// BookingDetails summarises the slot rows sharing one booking reference.
type BookingDetails struct {
	BookingReference string    `json:"bookingReference"`
	Room             string    `json:"room"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	Persons          int       `json:"persons"`
	BookedBy         string    `json:"bookedBy"`
	BookedAt         time.Time `json:"bookedAt"`
	Slots            []string  `json:"slots"`
}

// ViewRoomRequest asks for per-room availability within a window.
type ViewRoomRequest struct {
	StartTime string `json:"startTime" validate:"required,hhmm,quarterhour"`
	EndTime   string `json:"endTime" validate:"required,hhmm,quarterhour"`
}

// RoomDetails lists the free slots of one room.
type RoomDetails struct {
	Room     string   `json:"room"`
	Capacity int      `json:"capacity"`
	Time     []string `json:"time"`
}

// ViewRoomResponse is the availability of every room.
type ViewRoomResponse struct {
	AvailableRooms []RoomDetails `json:"availableRooms"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
}
