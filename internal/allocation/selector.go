package allocation

import "errors"

var (
	// ErrCapacityExceeded means no room in the pool can seat the request.
	ErrCapacityExceeded = errors.New("allocation: requested capacity exceeds every room")
	// ErrNoRoomAvailable means rooms large enough exist but all are busy.
	ErrNoRoomAvailable = errors.New("allocation: no room available for the requested range")
)

// Room is the allocation view of a conference room.
type Room struct {
	Name     string
	Capacity int
}

// Request is what SelectRoom needs to know about a booking.
type Request struct {
	Capacity int
	Range    TimeRange
}

// BusyLookup returns the reserved ranges of a room.
type BusyLookup func(Room) ([]TimeRange, error)

// LargestCapacity returns the biggest capacity in rooms, or 1 for an empty pool.
func LargestCapacity(rooms []Room) int {
	largest := 0
	for _, room := range rooms {
		if room.Capacity > largest {
			largest = room.Capacity
		}
	}
	if largest == 0 {
		return 1
	}
	return largest
}

// SelectRoom picks the free room whose capacity exceeds req.Capacity by the
// least. Rooms are scanned in the given order and an equal fit never replaces
// an earlier one. busy is consulted only for rooms that would improve the
// current best fit; a room with any reservation overlapping req.Range is
// skipped as a whole.
func SelectRoom(rooms []Room, req Request, busy BusyLookup) (Room, error) {
	bestDiff := LargestCapacity(rooms)
	if req.Capacity > bestDiff {
		return Room{}, ErrCapacityExceeded
	}

	var (
		best  Room
		found bool
	)
	for _, room := range rooms {
		if room.Capacity < req.Capacity {
			continue
		}
		diff := room.Capacity - req.Capacity
		if diff >= bestDiff {
			continue
		}
		reserved, err := busy(room)
		if err != nil {
			return Room{}, err
		}
		if OverlapsAny(req.Range, reserved) {
			continue
		}
		best, bestDiff, found = room, diff, true
	}

	if !found {
		return Room{}, ErrNoRoomAvailable
	}
	return best, nil
}
