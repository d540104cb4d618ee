package handler

import (
	"errors"
	"net/http"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	driverService *service.DriverService
}

func NewDriverHandler(ds *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: ds}
}

// GET /api/v1/user/:user_id
func (h *DriverHandler) GetProfile(c *gin.Context) {
	userID := c.Param("user_id")

	profile, err := h.driverService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy driver"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi lấy hồ sơ driver", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// POST /api/v1/user/update
func (h *DriverHandler) UpdateProfile(c *gin.Context) {
	var dto domain.UpdateDriverDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.driverService.UpdateProfile(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy driver"})
			return
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi cập nhật hồ sơ", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
