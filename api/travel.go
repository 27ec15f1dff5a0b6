package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/Domenick1991/travelquery/internal/service/travel"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TravelHandler struct {
	service travel.TravelUseCase
	logger  *zap.Logger
}

func NewTravelHandler(service travel.TravelUseCase, logger *zap.Logger) *TravelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TravelHandler{service: service, logger: logger}
}

func (h *TravelHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/search", h.searchFlights)
	router.GET("/flights/:flightNumber/status", h.flightStatus)
	router.GET("/flights/:flightNumber/seats", h.seatMap)
	router.POST("/reservations/price", h.reservationPrice)
}

func (h *TravelHandler) flightStatus(c *gin.Context) {
	status, err := h.service.FlightStatus(c.Request.Context(), c.Param("flightNumber"), c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight": status})
}

func (h *TravelHandler) searchFlights(c *gin.Context) {
	flights, err := h.service.SearchFlights(c.Request.Context(), c.Query("origin"), c.Query("destination"), c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": flights})
}

func (h *TravelHandler) seatMap(c *gin.Context) {
	seats, err := h.service.SeatMap(c.Request.Context(), c.Param("flightNumber"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

func (h *TravelHandler) reservationPrice(c *gin.Context) {
	var reservation domain.ReservationDescription
	if err := c.ShouldBindJSON(&reservation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation body"})
		return
	}
	quote, err := h.service.ReservationPrice(c.Request.Context(), reservation)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *TravelHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSchemaValidationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
