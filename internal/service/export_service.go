package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/room-booking-api/internal/dto"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
	"github.com/noah-isme/room-booking-api/pkg/export"
)

var availabilityHeaders = []string{"Room", "Capacity", "Available Slots"}

type availabilityFinder interface {
	FindAvailableRooms(ctx context.Context, req dto.ViewRoomRequest) (*dto.ViewRoomResponse, bool, error)
}

// ExportResult is a rendered availability document.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the availability view as a downloadable document.
type ExportService struct {
	availability availabilityFinder
	logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(availability availabilityFinder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{availability: availability, logger: logger}
}

// ExportAvailability runs the View workflow and renders it in format.
func (s *ExportService) ExportAvailability(ctx context.Context, req dto.ViewRoomRequest, format string) (*ExportResult, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrInvalidParameter, []string{err.Error()})
	}
	renderer, err := export.NewRenderer(parsed)
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrInvalidParameter, []string{err.Error()})
	}

	view, _, err := s.availability.FindAvailableRooms(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(AvailabilityDataset(req, view))
	if err != nil {
		return nil, fmt.Errorf("render availability %s: %w", parsed, err)
	}
	s.logger.Debug("availability exported", zap.String("format", string(parsed)), zap.Int("bytes", len(payload)))

	base := "availability_" + strings.ReplaceAll(req.StartTime, ":", "") + "_" + strings.ReplaceAll(req.EndTime, ":", "")
	return &ExportResult{
		Filename:    export.Filename(base, renderer),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

// AvailabilityDataset flattens a view into one row per room.
func AvailabilityDataset(req dto.ViewRoomRequest, view *dto.ViewRoomResponse) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("Room availability %s - %s", req.StartTime, req.EndTime),
		Headers: availabilityHeaders,
	}
	if view == nil {
		return data
	}
	for _, room := range view.AvailableRooms {
		data.Rows = append(data.Rows, map[string]string{
			"Room":            room.Room,
			"Capacity":        strconv.Itoa(room.Capacity),
			"Available Slots": strings.Join(room.Time, ", "),
		})
	}
	return data
}
