package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/dto"
	"github.com/noah-isme/room-booking-api/internal/models"
	"github.com/noah-isme/room-booking-api/internal/repository"
	"github.com/noah-isme/room-booking-api/internal/validation"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
	"github.com/noah-isme/room-booking-api/pkg/jobs"
)

type roomLister interface {
	List(ctx context.Context) ([]models.ConferenceRoom, error)
}

type maintenanceLister interface {
	List(ctx context.Context) ([]models.MaintenanceTime, error)
}

type bookingLedger interface {
	FindByRoomName(ctx context.Context, roomName string) ([]models.BookedRoom, error)
	FindByStartBetween(ctx context.Context, start, end allocation.TimeOfDay) ([]models.BookedRoom, error)
	FindByReference(ctx context.Context, reference string) ([]models.BookedRoom, error)
	AppendSlots(ctx context.Context, rows []models.BookedRoom) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// BookingConfig tunes the booking workflow.
type BookingConfig struct {
	DefaultUserName string
	LastSlotStart   allocation.TimeOfDay
}

// BookingService runs the Book and View workflows.
type BookingService struct {
	rooms       roomLister
	maintenance maintenanceLister
	ledger      bookingLedger
	validator   *validation.Validator
	cache       *AvailabilityCache
	queue       jobEnqueuer
	metrics     *MetricsService
	clock       allocation.Clock
	logger      *zap.Logger
	cfg         BookingConfig
}

// NewBookingService wires the workflow collaborators. cache, queue and
// metrics are optional.
func NewBookingService(
	rooms roomLister,
	maintenance maintenanceLister,
	ledger bookingLedger,
	validator *validation.Validator,
	cache *AvailabilityCache,
	queue jobEnqueuer,
	metrics *MetricsService,
	clock allocation.Clock,
	logger *zap.Logger,
	cfg BookingConfig,
) *BookingService {
	if clock == nil {
		clock = allocation.SystemClock{}
	}
	if validator == nil {
		validator = validation.New(nil, clock)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.DefaultUserName) == "" {
		cfg.DefaultUserName = "Guest"
	}
	if cfg.LastSlotStart == 0 {
		cfg.LastSlotStart = allocation.NewTimeOfDay(23, 45)
	}
	return &BookingService{
		rooms:       rooms,
		maintenance: maintenance,
		ledger:      ledger,
		validator:   validator,
		cache:       cache,
		queue:       queue,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
		cfg:         cfg,
	}
}

// Book reserves the best-fit free room for the requested range of today.
func (s *BookingService) Book(ctx context.Context, req dto.BookingRequest) (*dto.BookingResponse, error) {
	requested, violations := s.validator.Booking(req)
	if err := validation.AsError(violations); err != nil {
		s.metrics.RecordBooking(OutcomeInvalid, 0)
		return nil, err
	}

	windows, err := s.loadMaintenance(ctx)
	if err != nil {
		s.metrics.RecordBooking(OutcomeError, 0)
		return nil, err
	}
	if allocation.IntersectsAny(requested, models.MaintenanceRanges(windows)) {
		s.metrics.RecordBooking(OutcomeMaintenance, 0)
		s.logger.Info("booking rejected by maintenance window", zap.String("range", requested.Label()))
		return nil, appErrors.Clone(appErrors.ErrMaintenanceTime, "")
	}

	rooms, err := s.loadRooms(ctx)
	if err != nil {
		s.metrics.RecordBooking(OutcomeError, 0)
		return nil, err
	}

	room, err := allocation.SelectRoom(allocationRooms(rooms), allocation.Request{Capacity: req.Persons, Range: requested}, s.busyLookup(ctx))
	if err != nil {
		return nil, s.selectionError(err, req.Persons, requested)
	}

	rows := s.slotRows(room, req, requested)
	if err := s.ledger.AppendSlots(ctx, rows); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.metrics.RecordBooking(OutcomeConflict, 0)
			s.logger.Warn("booking lost race for room", zap.String("room", room.Name), zap.String("range", requested.Label()))
			return nil, appErrors.Wrap(err, appErrors.ErrBookingConflict.Code, appErrors.ErrBookingConflict.Status, appErrors.ErrBookingConflict.Message)
		}
		s.metrics.RecordBooking(OutcomeError, 0)
		return nil, fmt.Errorf("append booked slots: %w", err)
	}

	s.metrics.RecordBooking(OutcomeBooked, len(rows))
	s.logger.Info("room booked",
		zap.String("room", room.Name),
		zap.String("range", requested.Label()),
		zap.Int("persons", req.Persons),
		zap.String("reference", rows[0].BookingReference),
		zap.Int("slots", len(rows)),
	)
	s.invalidateAvailability(ctx)

	return &dto.BookingResponse{
		Room:             room.Name,
		StartTime:        requested.Start.String(),
		EndTime:          requested.End.String(),
		BookingReference: rows[0].BookingReference,
	}, nil
}

// FindBooking returns the booking identified by reference.
func (s *BookingService) FindBooking(ctx context.Context, reference string) (*dto.BookingDetails, error) {
	reference = strings.TrimSpace(reference)
	if _, err := uuid.Parse(reference); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrInvalidParameter, []string{"booking reference must be a UUID"})
	}
	rows, err := s.ledger.FindByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", reference, err)
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrBookingNotFound, "")
	}

	first, last := rows[0], rows[len(rows)-1]
	return &dto.BookingDetails{
		BookingReference: reference,
		Room:             first.RoomName,
		StartTime:        first.StartTime.String(),
		EndTime:          last.EndTime.String(),
		Persons:          first.NumberOfPersons,
		BookedBy:         first.BookedBy,
		BookedAt:         first.BookingDateTime,
		Slots:            allocation.Labels(models.BookedRanges(rows)),
	}, nil
}

// FindAvailableRooms reports, per room, the free slots of the requested
// window. The bool result is true when the answer came from cache.
func (s *BookingService) FindAvailableRooms(ctx context.Context, req dto.ViewRoomRequest) (*dto.ViewRoomResponse, bool, error) {
	// Nothing is bookable from the last slot start onwards, whatever the end.
	if start, err := allocation.ParseTimeOfDay(req.StartTime); err == nil && !start.Before(s.cfg.LastSlotStart) {
		return nil, false, appErrors.Clone(appErrors.ErrNoRoomsFound, "")
	}
	requested, violations := s.validator.View(req)
	if err := validation.AsError(violations); err != nil {
		return nil, false, err
	}

	cached, cacheKey, hit := s.cache.Lookup(ctx, requested)
	if hit {
		return cached, true, nil
	}

	var (
		windows []models.MaintenanceTime
		rooms   []models.ConferenceRoom
		booked  []models.BookedRoom
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		windows, err = s.loadMaintenance(gctx)
		return err
	})
	g.Go(func() (err error) {
		rooms, err = s.loadRooms(gctx)
		return err
	})
	g.Go(func() (err error) {
		start := time.Now()
		booked, err = s.ledger.FindByStartBetween(gctx, requested.Start, requested.End)
		s.metrics.ObserveStoreQuery("booked_rooms_between", time.Since(start))
		if err != nil {
			return fmt.Errorf("load booked slots: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	candidates := allocation.ExcludeMaintenance(allocation.GenerateSlots(requested), models.MaintenanceRanges(windows))
	if len(candidates) == 0 {
		return nil, false, appErrors.Clone(appErrors.ErrNoRoomsFound, "")
	}

	bookedByRoom := make(map[string][]allocation.TimeRange, len(rooms))
	for _, row := range booked {
		bookedByRoom[row.RoomName] = append(bookedByRoom[row.RoomName], row.Range())
	}

	resp := &dto.ViewRoomResponse{AvailableRooms: make([]dto.RoomDetails, 0, len(rooms))}
	for _, room := range rooms {
		free := allocation.Subtract(candidates, bookedByRoom[room.Name])
		resp.AvailableRooms = append(resp.AvailableRooms, dto.RoomDetails{
			Room:     room.Name,
			Capacity: room.Capacity,
			Time:     allocation.Labels(free),
		})
	}

	s.cache.Store(ctx, cacheKey, resp)
	return resp, false, nil
}

func (s *BookingService) busyLookup(ctx context.Context) allocation.BusyLookup {
	return func(room allocation.Room) ([]allocation.TimeRange, error) {
		start := time.Now()
		rows, err := s.ledger.FindByRoomName(ctx, room.Name)
		s.metrics.ObserveStoreQuery("booked_rooms_by_room", time.Since(start))
		if err != nil {
			return nil, err
		}
		return models.BookedRanges(rows), nil
	}
}

func (s *BookingService) selectionError(err error, persons int, requested allocation.TimeRange) error {
	switch {
	case errors.Is(err, allocation.ErrCapacityExceeded):
		s.metrics.RecordBooking(OutcomeCapacity, 0)
		s.logger.Info("booking exceeds room capacity", zap.Int("persons", persons))
		return appErrors.Clone(appErrors.ErrMaxCapacity, "")
	case errors.Is(err, allocation.ErrNoRoomAvailable):
		s.metrics.RecordBooking(OutcomeNoRoom, 0)
		s.logger.Info("no free room for booking", zap.Int("persons", persons), zap.String("range", requested.Label()))
		return appErrors.Clone(appErrors.ErrNoRoomsFound, "")
	default:
		s.metrics.RecordBooking(OutcomeError, 0)
		return fmt.Errorf("select room: %w", err)
	}
}

// slotRows stamps every slot of the booking with one reference and one
// creation instant.
func (s *BookingService) slotRows(room allocation.Room, req dto.BookingRequest, requested allocation.TimeRange) []models.BookedRoom {
	reference := uuid.NewString()
	bookedAt := s.clock.Now()
	bookedBy := strings.TrimSpace(req.UserName)
	if bookedBy == "" {
		bookedBy = s.cfg.DefaultUserName
	}

	slots := allocation.GenerateSlots(requested)
	rows := make([]models.BookedRoom, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, models.BookedRoom{
			RoomName:         room.Name,
			StartTime:        slot.Start,
			EndTime:          slot.End,
			NumberOfPersons:  req.Persons,
			BookingReference: reference,
			BookedBy:         bookedBy,
			BookingDateTime:  bookedAt,
		})
	}
	return rows
}

// invalidateAvailability retires cached views before Book returns. The job
// queue only retries an invalidation that failed inline.
func (s *BookingService) invalidateAvailability(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	err := s.cache.Invalidate(ctx)
	if err == nil {
		return
	}
	if s.queue == nil {
		s.logger.Warn("availability cache invalidation failed", zap.Error(err))
		return
	}
	s.logger.Warn("availability cache invalidation failed, queueing retry", zap.Error(err))
	if err := s.queue.Enqueue(jobs.Job{Type: JobInvalidateAvailability}); err != nil {
		s.logger.Error("enqueue cache invalidation failed", zap.Error(err))
	}
}

func (s *BookingService) loadMaintenance(ctx context.Context) ([]models.MaintenanceTime, error) {
	start := time.Now()
	windows, err := s.maintenance.List(ctx)
	s.metrics.ObserveStoreQuery("maintenance_times", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("load maintenance windows: %w", err)
	}
	return windows, nil
}

func (s *BookingService) loadRooms(ctx context.Context) ([]models.ConferenceRoom, error) {
	start := time.Now()
	rooms, err := s.rooms.List(ctx)
	s.metrics.ObserveStoreQuery("conference_rooms", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("load conference rooms: %w", err)
	}
	return rooms, nil
}

func allocationRooms(rooms []models.ConferenceRoom) []allocation.Room {
	out := make([]allocation.Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.AllocationRoom())
	}
	return out
}
