package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/room-booking-api/internal/dto"
	"github.com/noah-isme/room-booking-api/internal/middleware"
	"github.com/noah-isme/room-booking-api/internal/service"
	"github.com/noah-isme/room-booking-api/internal/validation"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
	"github.com/noah-isme/room-booking-api/pkg/logger"
	"github.com/noah-isme/room-booking-api/pkg/response"
)

type bookingService interface {
	Book(ctx context.Context, req dto.BookingRequest) (*dto.BookingResponse, error)
	FindAvailableRooms(ctx context.Context, req dto.ViewRoomRequest) (*dto.ViewRoomResponse, bool, error)
	FindBooking(ctx context.Context, reference string) (*dto.BookingDetails, error)
}

type availabilityExporter interface {
	ExportAvailability(ctx context.Context, req dto.ViewRoomRequest, format string) (*service.ExportResult, error)
}

type queryValidator interface {
	Query(query interface{}) []validation.Violation
}

// BookingHandler exposes the conference room endpoints.
type BookingHandler struct {
	bookings  bookingService
	exporter  availabilityExporter
	validator queryValidator
	logger    *zap.Logger
}

// NewBookingHandler builds a new handler.
func NewBookingHandler(bookings bookingService, exporter availabilityExporter, validator queryValidator, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{bookings: bookings, exporter: exporter, validator: validator, logger: logger}
}

// Book godoc
// @Summary Book the best-fit conference room
// @Description Reserves the smallest free room that fits the attendees for a range of today.
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body dto.BookingRequest true "Booking payload"
// @Success 200 {object} response.Envelope{data=dto.BookingResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /book [post]
func (h *BookingHandler) Book(c *gin.Context) {
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, appErrors.Wrap(err, appErrors.ErrInvalidParameter.Code, appErrors.ErrInvalidParameter.Status, appErrors.ErrInvalidParameter.Message))
		return
	}
	resp, err := h.bookings.Book(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, resp, middleware.ExtractMeta(c))
}

// View godoc
// @Summary List free slots per room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body dto.ViewRoomRequest true "Availability window"
// @Success 200 {object} response.Envelope{data=dto.ViewRoomResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /view [post]
func (h *BookingHandler) View(c *gin.Context) {
	var req dto.ViewRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, appErrors.Wrap(err, appErrors.ErrInvalidParameter.Code, appErrors.ErrInvalidParameter.Status, appErrors.ErrInvalidParameter.Message))
		return
	}
	resp, cacheHit, err := h.bookings.FindAvailableRooms(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, resp, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download room availability
// @Tags Rooms
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param payload body dto.ViewRoomRequest true "Availability window"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /view/export [post]
func (h *BookingHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, appErrors.Wrap(err, appErrors.ErrInvalidParameter.Code, appErrors.ErrInvalidParameter.Status, appErrors.ErrInvalidParameter.Message))
		return
	}
	if h.validator != nil {
		if err := validation.AsError(h.validator.Query(query)); err != nil {
			h.fail(c, appErrors.WithDetails(appErrors.ErrInvalidParameter, appErrors.FromError(err).Details))
			return
		}
	}
	var req dto.ViewRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, appErrors.Wrap(err, appErrors.ErrInvalidParameter.Code, appErrors.ErrInvalidParameter.Status, appErrors.ErrInvalidParameter.Message))
		return
	}
	result, err := h.exporter.ExportAvailability(c.Request.Context(), req, query.Format)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Payload)
}

// Booking godoc
// @Summary Get a booking by reference
// @Tags Rooms
// @Produce json
// @Param reference path string true "Booking reference"
// @Success 200 {object} response.Envelope{data=dto.BookingDetails}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings/{reference} [get]
func (h *BookingHandler) Booking(c *gin.Context) {
	details, err := h.bookings.FindBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, details, middleware.ExtractMeta(c))
}

func (h *BookingHandler) fail(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= 500 {
		logger.ForRequest(h.logger, c).Error("request failed", zap.Error(err))
	}
	_ = c.Error(err)
	response.Error(c, appErr)
}
