package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/dto"
	"github.com/noah-isme/room-booking-api/internal/middleware"
	"github.com/noah-isme/room-booking-api/internal/service"
	"github.com/noah-isme/room-booking-api/internal/validation"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
)

type bookingServiceMock struct {
	bookResp   *dto.BookingResponse
	bookErr    error
	viewResp   *dto.ViewRoomResponse
	viewHit    bool
	viewErr    error
	detail     *dto.BookingDetails
	detailErr  error
	lastBook   dto.BookingRequest
	lastView   dto.ViewRoomRequest
	lastRef    string
	bookCalled bool
}

func (m *bookingServiceMock) Book(ctx context.Context, req dto.BookingRequest) (*dto.BookingResponse, error) {
	m.bookCalled = true
	m.lastBook = req
	return m.bookResp, m.bookErr
}

func (m *bookingServiceMock) FindAvailableRooms(ctx context.Context, req dto.ViewRoomRequest) (*dto.ViewRoomResponse, bool, error) {
	m.lastView = req
	return m.viewResp, m.viewHit, m.viewErr
}

func (m *bookingServiceMock) FindBooking(ctx context.Context, reference string) (*dto.BookingDetails, error) {
	m.lastRef = reference
	return m.detail, m.detailErr
}

type exporterMock struct {
	result     *service.ExportResult
	err        error
	lastFormat string
	called     bool
}

func (m *exporterMock) ExportAvailability(ctx context.Context, req dto.ViewRoomRequest, format string) (*service.ExportResult, error) {
	m.called = true
	m.lastFormat = format
	return m.result, m.err
}

func newRouter(h *BookingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.POST("/book", h.Book)
	r.POST("/view", h.View)
	r.POST("/view/export", h.Export)
	r.GET("/bookings/:reference", h.Booking)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBookingHandlerBook(t *testing.T) {
	svc := &bookingServiceMock{bookResp: &dto.BookingResponse{Room: "Inspire", StartTime: "08:15", EndTime: "08:30"}}
	r := newRouter(NewBookingHandler(svc, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/book", `{"persons":7,"startTime":"08:15","endTime":"08:30","userName":"Ann"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.BookingRequest{Persons: 7, StartTime: "08:15", EndTime: "08:30", UserName: "Ann"}, svc.lastBook)
	body := decode(t, w)
	assert.Equal(t, "SUCCESS", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Inspire", data["room"])
	assert.Contains(t, body["meta"], "processing_time_ms")
}

func TestBookingHandlerBookMalformedBody(t *testing.T) {
	svc := &bookingServiceMock{}
	r := newRouter(NewBookingHandler(svc, nil, nil, nil))

	for _, payload := range []string{`{"persons":7`, `{"persons":"seven"}`} {
		w := doJSON(r, http.MethodPost, "/book", payload)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST_PARAMETER")
	}
	assert.False(t, svc.bookCalled)
}

func TestBookingHandlerBookMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appErrors.ErrMaintenanceTime, http.StatusConflict, "ROOM_MAINTENANCE_TIME"},
		{appErrors.ErrMaxCapacity, http.StatusUnprocessableEntity, "MAX_CAPACITY"},
		{appErrors.ErrNoRoomsFound, http.StatusNotFound, "NO_ROOMS_FOUND"},
		{appErrors.ErrBookingConflict, http.StatusConflict, "ROOM_BOOKING_CONFLICT"},
		{appErrors.WithDetails(appErrors.ErrInvalidRequest, []string{validation.MsgSinglePerson}), http.StatusBadRequest, "INVALID_REQUEST"},
		{errors.New("db down"), http.StatusInternalServerError, "SYSTEM_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			r := newRouter(NewBookingHandler(&bookingServiceMock{bookErr: tc.err}, nil, nil, nil))

			w := doJSON(r, http.MethodPost, "/book", `{"persons":2,"startTime":"10:00","endTime":"10:15"}`)

			require.Equal(t, tc.status, w.Code)
			errBody := decode(t, w)["error"].(map[string]interface{})
			assert.Equal(t, tc.code, errBody["code"])
			assert.Equal(t, "/book", errBody["path"])
		})
	}
}

func TestBookingHandlerViewReportsCacheHit(t *testing.T) {
	svc := &bookingServiceMock{
		viewResp: &dto.ViewRoomResponse{AvailableRooms: []dto.RoomDetails{{Room: "Amaze", Capacity: 3, Time: []string{"10:00 - 10:15"}}}},
		viewHit:  true,
	}
	r := newRouter(NewBookingHandler(svc, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/view", `{"startTime":"10:00","endTime":"10:15"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ViewRoomRequest{StartTime: "10:00", EndTime: "10:15"}, svc.lastView)
	body := decode(t, w)
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cache_hit"])
	rooms := body["data"].(map[string]interface{})["availableRooms"].([]interface{})
	require.Len(t, rooms, 1)
	assert.Equal(t, "Amaze", rooms[0].(map[string]interface{})["room"])
}

func TestBookingHandlerViewNoRooms(t *testing.T) {
	r := newRouter(NewBookingHandler(&bookingServiceMock{viewErr: appErrors.ErrNoRoomsFound}, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/view", `{"startTime":"23:45","endTime":"23:45"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_ROOMS_FOUND")
}

func TestBookingHandlerExport(t *testing.T) {
	exporter := &exporterMock{result: &service.ExportResult{Filename: "availability_1000_1100.csv", ContentType: "text/csv", Payload: []byte("Room,Capacity,Available Slots\n")}}
	v := validation.New(nil, allocation.NewFixedClock(testClockStart))
	r := newRouter(NewBookingHandler(&bookingServiceMock{}, exporter, v, nil))

	w := doJSON(r, http.MethodPost, "/view/export?format=csv", `{"startTime":"10:00","endTime":"11:00"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="availability_1000_1100.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Room,Capacity,Available Slots\n", w.Body.String())
}

func TestBookingHandlerExportRejectsUnknownFormat(t *testing.T) {
	exporter := &exporterMock{}
	v := validation.New(nil, allocation.NewFixedClock(testClockStart))
	r := newRouter(NewBookingHandler(&bookingServiceMock{}, exporter, v, nil))

	w := doJSON(r, http.MethodPost, "/view/export?format=xlsx", `{"startTime":"10:00","endTime":"11:00"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST_PARAMETER")
	assert.Contains(t, w.Body.String(), "format must be one of: csv pdf")
	assert.False(t, exporter.called)
}

func TestBookingHandlerBookingLookup(t *testing.T) {
	svc := &bookingServiceMock{detail: &dto.BookingDetails{BookingReference: "ref", Room: "Beauty"}}
	r := newRouter(NewBookingHandler(svc, nil, nil, nil))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bookings/6f1c2a4e-0000-4000-8000-000000000001", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6f1c2a4e-0000-4000-8000-000000000001", svc.lastRef)
	assert.Equal(t, "Beauty", decode(t, w)["data"].(map[string]interface{})["room"])

	svc.detailErr = appErrors.ErrBookingNotFound
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "BOOKING_NOT_FOUND")
}
