package handler

import (
	"errors"
	"net/http"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
)

type SignHandler struct {
	signService *service.SignService
}

func NewSignHandler(ss *service.SignService) *SignHandler {
	return &SignHandler{signService: ss}
}

// GET /api/v1/signs
func (h *SignHandler) GetAllSigns(c *gin.Context) {
	signs, err := h.signService.GetAllSigns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi lấy danh sách biển báo", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, signs)
}

// GET /api/v1/signs/:class_id
func (h *SignHandler) GetSignByClassID(c *gin.Context) {
	sign, err := h.signService.GetSignByClassID(c.Request.Context(), c.Param("class_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy biển báo"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi lấy biển báo", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sign)
}

// PUT /api/v1/signs/:class_id (admin)
func (h *SignHandler) UpsertSign(c *gin.Context) {
	var dto domain.UpsertSignDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sign, err := h.signService.UpsertSign(c.Request.Context(), c.Param("class_id"), dto)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi cập nhật biển báo", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sign)
}
