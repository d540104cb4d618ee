package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	driverService *service.DriverService
}

func NewVehicleHandler(ds *service.DriverService) *VehicleHandler {
	return &VehicleHandler{driverService: ds}
}

// POST /api/v1/vehicle/add
func (h *VehicleHandler) AddVehicle(c *gin.Context) {
	var dto domain.AddVehicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.driverService.AddVehicle(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy driver"})
			return
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi thêm xe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "plate": vehicle.Plate})
}

// POST /api/v1/vehicle/delete
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	var dto domain.DeleteVehicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.driverService.RemoveVehicle(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotOwned) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi xóa xe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": fmt.Sprintf("Biển số %s đã được xóa", dto.Plate)})
}
