// Package validation checks Book and View requests before they reach the
// allocation core. Shape rules are declared as struct tags and evaluated by
// go-playground/validator; rules relative to the current time use the
// injected clock.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/dto"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
)

// Messages returned to clients. They are part of the public contract.
const (
	MsgMinuteInterval      = "Please input time range with 15 minutes interval"
	MsgMinuteValue         = "Please input 0, 15, 30 or 45 minute value"
	MsgCurrentDateOnly     = "Room reservation is allowed only for the current date"
	MsgSinglePerson        = "Conference room is not allowed to book for one person"
	MsgStartBeforeNow      = "Start time cannot be less than the current time"
	MsgEndBeforeStart      = "End time cannot be less than the start time"
	MsgEndBeforeNow        = "End time cannot be less than the current time"
	msgFieldRequiredFormat = "%s is required"
	msgFieldFormat         = "%s must use the HH:MM format"
	msgFieldTooLongFormat  = "%s must be at most %s characters"
)

// Violation is one broken rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validator validates booking and availability requests.
type Validator struct {
	validate *validator.Validate
	clock    allocation.Clock
}

// New registers the time-of-day tags on validate and binds the clock. A
// supplied validate is modified in place: it gains the hhmm and quarterhour
// tags and reports fields by their json names. New panics if a tag cannot be
// registered, which only happens on a programming error.
func New(validate *validator.Validate, clock allocation.Clock) *Validator {
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = allocation.SystemClock{}
	}
	if err := register(validate); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}
	return &Validator{validate: validate, clock: clock}
}

// Booking validates a booking request and returns its parsed range.
func (v *Validator) Booking(req dto.BookingRequest) (allocation.TimeRange, []Violation) {
	var set violationSet
	set.addStruct(v.validate.Struct(req))

	r, ok := parseRange(req.StartTime, req.EndTime)
	if !ok {
		return r, set.list()
	}

	if r.End.Sub(r.Start)%allocation.Quantum != 0 {
		set.add("endTime", "interval", MsgMinuteInterval)
	}
	now := allocation.CurrentTimeOfDay(v.clock)
	startsNow := r.Start == now
	startsLater := r.Start.After(now)
	inProgress := r.Start.Before(now) && r.End.After(now)
	if !startsNow && !startsLater && !inProgress {
		set.add("startTime", "notpast", MsgStartBeforeNow)
	}
	if !r.End.After(r.Start) {
		set.add("endTime", "afterstart", MsgCurrentDateOnly)
	}
	return r, set.list()
}

// View validates an availability request and returns its parsed range.
func (v *Validator) View(req dto.ViewRoomRequest) (allocation.TimeRange, []Violation) {
	var set violationSet
	set.addStruct(v.validate.Struct(req))

	r, ok := parseRange(req.StartTime, req.EndTime)
	if !ok {
		return r, set.list()
	}

	if r.End.Before(r.Start) {
		set.add("endTime", "afterstart", MsgEndBeforeStart)
	}
	if endsBefore(r.End, v.clock) {
		set.add("endTime", "notpast", MsgEndBeforeNow)
	}
	return r, set.list()
}

// Query validates any tagged struct, such as export query parameters.
func (v *Validator) Query(query interface{}) []Violation {
	var set violationSet
	set.addStruct(v.validate.Struct(query))
	return set.list()
}

// AsError folds violations into an INVALID_REQUEST error; nil when empty.
func AsError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	details := make([]string, 0, len(violations))
	for _, violation := range violations {
		details = append(details, violation.Message)
	}
	return appErrors.WithDetails(appErrors.ErrInvalidRequest, details)
}

// endsBefore compares at full clock precision: an end of 08:00 is already
// past at 08:00:30.
func endsBefore(end allocation.TimeOfDay, clock allocation.Clock) bool {
	now := clock.Now()
	current := allocation.TimeOfDayOf(now)
	if end.Before(current) {
		return true
	}
	return end == current && (now.Second() > 0 || now.Nanosecond() > 0)
}

func parseRange(start, end string) (allocation.TimeRange, bool) {
	s, err := allocation.ParseTimeOfDay(start)
	if err != nil {
		return allocation.TimeRange{}, false
	}
	e, err := allocation.ParseTimeOfDay(end)
	if err != nil {
		return allocation.TimeRange{}, false
	}
	return allocation.NewTimeRange(s, e), true
}

// register installs the json tag-name function and the time-of-day tags.
func register(validate *validator.Validate) error {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := allocation.ParseTimeOfDay(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("register hhmm: %w", err)
	}
	if err := validate.RegisterValidation("quarterhour", func(fl validator.FieldLevel) bool {
		t, err := allocation.ParseTimeOfDay(fl.Field().String())
		return err == nil && t.OnQuarterHour()
	}); err != nil {
		return fmt.Errorf("register quarterhour: %w", err)
	}
	return nil
}

type violationSet struct {
	items []Violation
	seen  map[string]struct{}
}

func (s *violationSet) add(field, rule, message string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, dup := s.seen[message]; dup {
		return
	}
	s.seen[message] = struct{}{}
	s.items = append(s.items, Violation{Field: field, Rule: rule, Message: message})
}

func (s *violationSet) list() []Violation {
	return s.items
}

func (s *violationSet) addStruct(err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		s.add("", "invalid", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		s.add(fe.Field(), fe.Tag(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "quarterhour":
		return MsgMinuteValue
	case "gt":
		return MsgSinglePerson
	case "required":
		if fe.StructField() == "Persons" {
			return MsgSinglePerson
		}
		return fmt.Sprintf(msgFieldRequiredFormat, field)
	case "hhmm":
		return fmt.Sprintf(msgFieldFormat, field)
	case "max":
		return fmt.Sprintf(msgFieldTooLongFormat, field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
