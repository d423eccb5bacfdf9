package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/dto"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
)

func clockAt(hour, minute, second int) allocation.Clock {
	return allocation.NewFixedClock(time.Date(2024, 3, 3, hour, minute, second, 0, time.Local))
}

func messages(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}

func TestBookingRules(t *testing.T) {
	v := New(nil, clockAt(6, 30, 0))

	tests := []struct {
		name string
		req  dto.BookingRequest
		want []string
	}{
		{
			name: "interval not multiple of quantum",
			req:  dto.BookingRequest{Persons: 3, StartTime: "08:00", EndTime: "08:20"},
			want: []string{MsgMinuteValue, MsgMinuteInterval},
		},
		{
			name: "minute not on quarter hour",
			req:  dto.BookingRequest{Persons: 3, StartTime: "08:05", EndTime: "08:20"},
			want: []string{MsgMinuteValue},
		},
		{
			name: "ends exactly now",
			req:  dto.BookingRequest{Persons: 3, StartTime: "05:00", EndTime: "06:30"},
			want: []string{MsgStartBeforeNow},
		},
		{
			name: "entirely in the past",
			req:  dto.BookingRequest{Persons: 3, StartTime: "05:15", EndTime: "05:30"},
			want: []string{MsgStartBeforeNow},
		},
		{
			name: "single person",
			req:  dto.BookingRequest{Persons: 1, StartTime: "07:00", EndTime: "07:30"},
			want: []string{MsgSinglePerson},
		},
		{
			name: "missing persons",
			req:  dto.BookingRequest{StartTime: "07:00", EndTime: "07:30"},
			want: []string{MsgSinglePerson},
		},
		{
			name: "end before start",
			req:  dto.BookingRequest{Persons: 5, StartTime: "06:30", EndTime: "05:30"},
			want: []string{MsgCurrentDateOnly},
		},
		{
			name: "starts now",
			req:  dto.BookingRequest{Persons: 5, StartTime: "06:30", EndTime: "07:30"},
		},
		{
			name: "already in progress",
			req:  dto.BookingRequest{Persons: 3, StartTime: "05:00", EndTime: "07:30"},
		},
		{
			name: "later today",
			req:  dto.BookingRequest{Persons: 5, StartTime: "06:45", EndTime: "08:00"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, violations := v.Booking(tc.req)
			if len(tc.want) == 0 {
				assert.Empty(t, violations)
				return
			}
			assert.ElementsMatch(t, tc.want, messages(violations))
		})
	}
}

func TestBookingReturnsParsedRange(t *testing.T) {
	v := New(nil, clockAt(6, 30, 0))

	r, violations := v.Booking(dto.BookingRequest{Persons: 4, StartTime: "10:00", EndTime: "11:00"})

	require.Empty(t, violations)
	assert.Equal(t, "10:00 - 11:00", r.Label())
}

func TestBookingMalformedTime(t *testing.T) {
	v := New(nil, clockAt(6, 30, 0))

	_, violations := v.Booking(dto.BookingRequest{Persons: 4, StartTime: "ten", EndTime: "11:00", UserName: "Ann"})

	require.Len(t, violations, 1)
	assert.Equal(t, "startTime", violations[0].Field)
	assert.Equal(t, "hhmm", violations[0].Rule)
}

func TestViewRules(t *testing.T) {
	v := New(nil, clockAt(8, 0, 0))

	tests := []struct {
		name string
		req  dto.ViewRoomRequest
		want []string
	}{
		{"end before start", dto.ViewRoomRequest{StartTime: "08:00", EndTime: "07:30"}, []string{MsgEndBeforeStart, MsgEndBeforeNow}},
		{"ends in the past", dto.ViewRoomRequest{StartTime: "06:45", EndTime: "07:15"}, []string{MsgEndBeforeNow}},
		{"start minute", dto.ViewRoomRequest{StartTime: "09:03", EndTime: "10:15"}, []string{MsgMinuteValue}},
		{"end minute", dto.ViewRoomRequest{StartTime: "09:45", EndTime: "10:01"}, []string{MsgMinuteValue}},
		{"valid", dto.ViewRoomRequest{StartTime: "09:15", EndTime: "10:15"}, nil},
		{"ends now", dto.ViewRoomRequest{StartTime: "07:00", EndTime: "08:00"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, violations := v.View(tc.req)
			if len(tc.want) == 0 {
				assert.Empty(t, violations)
				return
			}
			assert.ElementsMatch(t, tc.want, messages(violations))
		})
	}
}

func TestViewEndIsPastOnceSecondsElapse(t *testing.T) {
	v := New(nil, clockAt(8, 0, 30))

	_, violations := v.View(dto.ViewRoomRequest{StartTime: "07:00", EndTime: "08:00"})

	assert.Equal(t, []string{MsgEndBeforeNow}, messages(violations))
}

func TestQueryRejectsUnknownFormat(t *testing.T) {
	v := New(nil, clockAt(8, 0, 0))

	violations := v.Query(dto.ExportQuery{Format: "xlsx"})

	require.Len(t, violations, 1)
	assert.Equal(t, "format", violations[0].Field)
	assert.Empty(t, v.Query(dto.ExportQuery{Format: "pdf"}))
}

func TestAsError(t *testing.T) {
	assert.NoError(t, AsError(nil))

	err := AsError([]Violation{{Field: "persons", Rule: "gt", Message: MsgSinglePerson}})

	require.True(t, errors.Is(err, appErrors.ErrInvalidRequest))
	assert.Equal(t, []string{MsgSinglePerson}, appErrors.FromError(err).Details)
}

func TestNewConfiguresSuppliedValidator(t *testing.T) {
	shared := validator.New()

	v := New(shared, clockAt(6, 30, 0))

	require.NotNil(t, v)
	assert.NoError(t, shared.Var("08:15", "hhmm,quarterhour"))
	assert.Error(t, shared.Var("08:10", "quarterhour"))
	assert.Error(t, shared.Var("8h15", "hhmm"))

	err := shared.Struct(dto.ViewRoomRequest{StartTime: "08:15"})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "endTime", fieldErrs[0].Field())
}

func TestRegisterIsRepeatable(t *testing.T) {
	shared := validator.New()

	require.NoError(t, register(shared))
	require.NoError(t, register(shared))
	assert.NotPanics(t, func() { New(shared, nil) })
}

func TestViolationSetKeepsFirstOccurrenceInOrder(t *testing.T) {
	var set violationSet
	assert.Empty(t, set.list())

	set.add("startTime", "quarterhour", MsgMinuteValue)
	set.add("persons", "gt", MsgSinglePerson)
	set.add("endTime", "quarterhour", MsgMinuteValue)

	assert.Equal(t, []Violation{
		{Field: "startTime", Rule: "quarterhour", Message: MsgMinuteValue},
		{Field: "persons", Rule: "gt", Message: MsgSinglePerson},
	}, set.list())
}
