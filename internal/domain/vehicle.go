package domain

import "time"

type Vehicle struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Plate     string    `json:"plate"` // Biển số, unique toàn hệ thống
	CreatedAt time.Time `json:"created_at"`
}

type AddVehicleDTO struct {
	UserID string `json:"user_id" binding:"required"`
	Plate  string `json:"plate" binding:"required,max=20"`
}

type DeleteVehicleDTO struct {
	UserID string `json:"user_id" binding:"required"`
	Plate  string `json:"plate" binding:"required"`
}
