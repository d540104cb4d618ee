package handler

import (
	"errors"
	"net/http"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	tripService *service.TripService
}

func NewTripHandler(ts *service.TripService) *TripHandler {
	return &TripHandler{tripService: ts}
}

// POST /api/v1/trip/submit
func (h *TripHandler) SubmitTrip(c *gin.Context) {
	var dto domain.TripSubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.tripService.SubmitTrip(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy driver"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi quyết toán trip", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
