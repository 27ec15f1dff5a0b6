package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/travelquery/config"
	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTravelUseCase struct {
	mock.Mock
}

func (m *MockTravelUseCase) FlightStatus(ctx context.Context, flightNumber, date string) (domain.FlightStatus, error) {
	args := m.Called(ctx, flightNumber, date)
	return args.Get(0).(domain.FlightStatus), args.Error(1)
}

func (m *MockTravelUseCase) SearchFlights(ctx context.Context, origin, destination, date string) ([]domain.FlightSearchResult, error) {
	args := m.Called(ctx, origin, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightSearchResult), args.Error(1)
}

func (m *MockTravelUseCase) SeatMap(ctx context.Context, flightNumber string) ([]domain.SeatOption, error) {
	args := m.Called(ctx, flightNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatOption), args.Error(1)
}

func (m *MockTravelUseCase) ReservationPrice(ctx context.Context, reservation domain.ReservationDescription) (domain.ReservationPriceQuote, error) {
	args := m.Called(ctx, reservation)
	return args.Get(0).(domain.ReservationPriceQuote), args.Error(1)
}

func TestTravelHandler_flightStatus(t *testing.T) {
	mockService := &MockTravelUseCase{}
	handler := NewTravelHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "flightNumber", Value: "BA123"}}
	c.Request = httptest.NewRequest("GET", "/api/v1/flights/BA123/status?date=2024-06-01", nil)

	status := domain.FlightStatus{FlightNumber: "BA123", Departure: domain.FlightStatusEndpoint{AirportCode: "LHR"}}
	mockService.On("FlightStatus", c.Request.Context(), "BA123", "2024-06-01").Return(status, nil)

	handler.flightStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Flight domain.FlightStatus `json:"flight"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, status, body.Flight)
	mockService.AssertExpectations(t)
}

func TestTravelHandler_searchFlights(t *testing.T) {
	mockService := &MockTravelUseCase{}
	handler := NewTravelHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/flights/search?origin=LHR&destination=JFK", nil)

	mockService.On("SearchFlights", c.Request.Context(), "LHR", "JFK", "").Return([]domain.FlightSearchResult{}, nil)

	handler.searchFlights(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flights": []}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestTravelHandler_seatMap(t *testing.T) {
	mockService := &MockTravelUseCase{}
	handler := NewTravelHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "flightNumber", Value: "BA123"}}
	c.Request = httptest.NewRequest("GET", "/api/v1/flights/BA123/seats", nil)

	seats := []domain.SeatOption{{SeatNumber: "1A", PriceInUSD: 40, IsAvailable: true}}
	mockService.On("SeatMap", c.Request.Context(), "BA123").Return(seats, nil)

	handler.seatMap(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"seats": [{"seatNumber": "1A", "priceInUSD": 40, "isAvailable": true}]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestTravelHandler_reservationPrice(t *testing.T) {
	mockService := &MockTravelUseCase{}
	handler := NewTravelHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/reservations/price",
		strings.NewReader(`{"seats": ["12A"], "flightNumber": "BA123", "passengerName": "Ada Lovelace"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	want := domain.ReservationDescription{Seats: []string{"12A"}, FlightNumber: "BA123", PassengerName: "Ada Lovelace"}
	mockService.On("ReservationPrice", c.Request.Context(), want).Return(domain.ReservationPriceQuote{TotalPriceInUSD: 318.4}, nil)

	handler.reservationPrice(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalPriceInUSD": 318.4}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestTravelHandler_reservationPriceBadBody(t *testing.T) {
	mockService := &MockTravelUseCase{}
	handler := NewTravelHandler(mockService, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/reservations/price", strings.NewReader(`{"seats": "12A"`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.reservationPrice(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ReservationPrice", mock.Anything, mock.Anything)
}

func TestTravelHandler_errorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid query", fmt.Errorf("%w: flight number is too short", domain.ErrInvalidQuery), http.StatusBadRequest},
		{"generation failed", fmt.Errorf("wrapped: %w", domain.ErrSchemaValidationFailed), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockTravelUseCase{}
			handler := NewTravelHandler(mockService, nil)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "flightNumber", Value: "BA123"}}
			c.Request = httptest.NewRequest("GET", "/api/v1/flights/BA123/seats", nil)

			mockService.On("SeatMap", c.Request.Context(), "BA123").Return(nil, tt.err)

			handler.seatMap(c)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTravelUseCase{}
	router := NewRouter(config.HTTPConfig{}, mockService, false, nil)

	mockService.On("SearchFlights", mock.Anything, "LHR", "CDG", "2024-06-01").Return([]domain.FlightSearchResult{{ID: "AF1081"}}, nil)
	mockService.On("FlightStatus", mock.Anything, "AF1081", "2024-06-01").Return(domain.FlightStatus{FlightNumber: "AF1081"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/flights/search?origin=LHR&destination=CDG&date=2024-06-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AF1081")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/flights/AF1081/status?date=2024-06-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "provider": "not_configured"}`, w.Body.String())

	mockService.AssertExpectations(t)
}

func TestNewRouter_RateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTravelUseCase{}
	router := NewRouter(config.HTTPConfig{RatePerMinute: 2}, mockService, true, nil)

	mockService.On("SeatMap", mock.Anything, "BA123").Return([]domain.SeatOption{}, nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/flights/BA123/seats", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(config.HTTPConfig{AllowedOrigins: []string{"http://localhost:3000"}}, &MockTravelUseCase{}, true, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/flights/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
