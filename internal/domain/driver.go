package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type Driver struct {
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Phone       null.String `json:"phone"`
	Password    string      `json:"-"` // Không bao giờ trả về password hash trong JSON
	Role        string      `json:"role"`
	CreditScore int         `json:"credit_score"` // Luôn nằm trong [0, 100]
	CreatedAt   time.Time   `json:"created_at"`
}

type RegisterDriverDTO struct {
	UserID   string `json:"user_id" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	Name     string `json:"name" binding:"required,max=100"`
}

type LoginDriverDTO struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateDriverDTO struct {
	UserID string  `json:"user_id" binding:"required"`
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

type AuthResponseDTO struct {
	Token   string            `json:"token"`
	Profile *DriverProfileDTO `json:"profile"`
}

// DriverProfileDTO là payload trả về cho frontend: hồ sơ + xe + lịch sử vi phạm
type DriverProfileDTO struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Phone       string                `json:"phone,omitempty"`
	CreditScore int                   `json:"credit_score"`
	Vehicles    []string              `json:"vehicles"`
	History     []ViolationHistoryDTO `json:"history"`
}

// ViolationHistoryDTO là một dòng lịch sử vi phạm, flatten từ trip + event
type ViolationHistoryDTO struct {
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	Desc      string    `json:"desc"`
	Deduction int       `json:"deduction"`
	Plate     string    `json:"plate"`
}
