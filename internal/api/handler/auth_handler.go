package handler

import (
	"errors"
	"net/http"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService   *service.AuthService
	driverService *service.DriverService
}

func NewAuthHandler(as *service.AuthService, ds *service.DriverService) *AuthHandler {
	return &AuthHandler{authService: as, driverService: ds}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var dto domain.RegisterDriverDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := h.authService.Register(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đăng ký driver", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, domain.DriverProfileDTO{
		ID:          driver.UserID,
		Name:        driver.Name,
		CreditScore: driver.CreditScore,
		Vehicles:    []string{},
		History:     []domain.ViolationHistoryDTO{},
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginDriverDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, driver, err := h.authService.Login(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi đăng nhập", "details": err.Error()})
		return
	}

	profile, err := h.driverService.GetProfile(c.Request.Context(), driver.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi lấy hồ sơ driver", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.AuthResponseDTO{Token: token, Profile: profile})
}
