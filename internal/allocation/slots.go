package allocation

// GenerateSlots splits r into consecutive Quantum-wide slots starting at
// r.Start. The caller guarantees r spans a whole number of quanta; a
// zero-width or inverted range yields no slots.
func GenerateSlots(r TimeRange) []TimeRange {
	if !r.Valid() {
		return nil
	}
	slots := make([]TimeRange, 0, int(r.End.Sub(r.Start)/Quantum))
	for cursor := r.Start; cursor < r.End; cursor = cursor.Add(Quantum) {
		slots = append(slots, TimeRange{Start: cursor, End: cursor.Add(Quantum)})
	}
	return slots
}

// Labels renders each range with Label.
func Labels(ranges []TimeRange) []string {
	labels := make([]string, 0, len(ranges))
	for _, r := range ranges {
		labels = append(labels, r.Label())
	}
	return labels
}

// ExcludeMaintenance keeps the slots that overlap none of the windows.
func ExcludeMaintenance(slots []TimeRange, windows []TimeRange) []TimeRange {
	kept := make([]TimeRange, 0, len(slots))
	for _, slot := range slots {
		if !OverlapsAny(slot, windows) {
			kept = append(kept, slot)
		}
	}
	return kept
}

// IntersectsAny reports whether r touches any maintenance window. Bookings
// that do are rejected outright rather than truncated.
func IntersectsAny(r TimeRange, windows []TimeRange) bool {
	return OverlapsAny(r, windows)
}

// Subtract removes from slots every entry equal to one of booked.
func Subtract(slots []TimeRange, booked []TimeRange) []TimeRange {
	if len(booked) == 0 {
		return append([]TimeRange(nil), slots...)
	}
	taken := make(map[TimeRange]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	remaining := make([]TimeRange, 0, len(slots))
	for _, slot := range slots {
		if _, ok := taken[slot]; !ok {
			remaining = append(remaining, slot)
		}
	}
	return remaining
}
