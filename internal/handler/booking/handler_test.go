package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/pkg/errors"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetAvailability(ctx context.Context, doctorID int64, date model.Date) ([]model.SlotAvailability, error) {
	args := m.Called(ctx, doctorID, date)
	slots, _ := args.Get(0).([]model.SlotAvailability)
	return slots, args.Error(1)
}

func (m *MockService) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockService) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	args := m.Called(ctx, id, status)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockService) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockService) ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, int, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*model.Booking)
	return items, args.Int(1), args.Error(2)
}

func (m *MockService) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api, api.Group("/admin"))
	return r
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Fields  []string        `json:"fields"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGetAvailability(t *testing.T) {
	svc := new(MockService)
	date, _ := model.ParseDate("2025-03-10")
	svc.On("GetAvailability", mock.Anything, int64(3), date).Return([]model.SlotAvailability{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: false},
	}, nil)
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodGet, "/api/v1/doctors/3/slots?date=2025-03-10", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"doctor_id":3,"date":"2025-03-10","slots":[{"time":"09:00","available":true},{"time":"09:30","available":false}]}`, string(env.Data))
	svc.AssertExpectations(t)
}

func TestGetAvailabilityErrors(t *testing.T) {
	svc := new(MockService)
	date, _ := model.ParseDate("2025-03-10")
	svc.On("GetAvailability", mock.Anything, int64(99), date).Return(nil, errors.NotFound("doctor", nil))
	r := setupRouter(svc)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown doctor", "/api/v1/doctors/99/slots?date=2025-03-10", http.StatusNotFound, "not_found"},
		{"missing date", "/api/v1/doctors/3/slots", http.StatusBadRequest, "validation_error"},
		{"bad date", "/api/v1/doctors/3/slots?date=2025-02-30", http.StatusBadRequest, "validation_error"},
		{"bad id", "/api/v1/doctors/abc/slots?date=2025-03-10", http.StatusBadRequest, "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestCreateBooking(t *testing.T) {
	svc := new(MockService)
	svc.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req model.CreateBookingRequest) bool {
		return req.PatientName == "Ana" && req.DoctorID == 3 && req.BookingTime == "09:30"
	})).Return(&model.Booking{ID: 11, Status: model.BookingStatusPending}, nil)
	r := setupRouter(svc)

	body := `{"patient_name":"Ana","email":"ana@example.com","phone":"555","service":"Cleaning",
		"doctor_id":3,"booking_date":"2025-03-10","booking_time":"09:30"}`
	w, env := do(t, r, http.MethodPost, "/api/v1/bookings", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":11,"status":"pending"}`, string(env.Data))
}

func TestCreateBookingErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"conflict", errors.Conflict("slot is already booked", nil), http.StatusConflict, "conflict"},
		{"validation", errors.Validation("invalid request", "email is required"), http.StatusBadRequest, "validation_error"},
		{"not found", errors.NotFound("doctor", nil), http.StatusNotFound, "not_found"},
		{"internal", errors.Internal(assert.AnError), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err)
			r := setupRouter(svc)

			w, env := do(t, r, http.MethodPost, "/api/v1/bookings", `{"doctor_id":3}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, env.Code)
			if tt.code == "internal_error" {
				assert.NotContains(t, env.Message, assert.AnError.Error())
			}
		})
	}
}

func TestCreateBookingMalformedBody(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodPost, "/api/v1/bookings", `{"doctor_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestUpdateStatus(t *testing.T) {
	svc := new(MockService)
	svc.On("UpdateStatus", mock.Anything, int64(5), model.BookingStatusConfirmed).
		Return(&model.Booking{ID: 5, Status: model.BookingStatusConfirmed}, nil)
	svc.On("UpdateStatus", mock.Anything, int64(6), model.BookingStatus("archived")).
		Return(nil, errors.Validation("invalid request", "status must be one of [pending confirmed cancelled completed]"))
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodPut, "/api/v1/admin/bookings/5/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"confirmed"`)

	w, env = do(t, r, http.MethodPut, "/api/v1/admin/bookings/6/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"status must be one of [pending confirmed cancelled completed]"}, env.Fields)
}

func TestListBookingsParsesFilter(t *testing.T) {
	svc := new(MockService)
	svc.On("ListBookings", mock.Anything, mock.MatchedBy(func(f model.BookingFilter) bool {
		return f.DoctorID == 3 && f.Status == model.BookingStatusPending &&
			f.Date != nil && f.Date.String() == "2025-03-10" && f.Page == 2 && f.PageSize == 5
	})).Return([]*model.Booking{{ID: 1}}, 6, nil)
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodGet, "/api/v1/admin/bookings?doctor_id=3&status=pending&date=2025-03-10&page=2&page_size=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []map[string]interface{} `json:"items"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 6, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/bookings?doctor_id=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndDeleteBooking(t *testing.T) {
	svc := new(MockService)
	svc.On("GetBooking", mock.Anything, int64(7)).Return(nil, errors.NotFound("booking", nil))
	svc.On("DeleteBooking", mock.Anything, int64(8)).Return(nil)
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodGet, "/api/v1/admin/bookings/7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Code)

	w, env = do(t, r, http.MethodDelete, "/api/v1/admin/bookings/8", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "booking deleted", env.Message)
}
