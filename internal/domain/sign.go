package domain

import "gopkg.in/guregu/null.v4"

// SignDefinition map class id của model detect sang ngữ nghĩa hiển thị.
// Dữ liệu tra cứu, read-only đối với luồng detect.
type SignDefinition struct {
	ID               int      `json:"id"`
	ClassID          string   `json:"class_id"` // Ví dụ: "class_2"
	Name             string   `json:"name"`
	Type             string   `json:"type"` // "limit", "forbid", "guide", "info"
	LimitSpeed       null.Int `json:"limit_speed"` // Chỉ có với biển giới hạn tốc độ
	DefaultDeduction int      `json:"default_deduction"`
	Advice           string   `json:"advice"`
}

type UpsertSignDTO struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type" binding:"required"`
	LimitSpeed       *int   `json:"limit_speed,omitempty"`
	DefaultDeduction int    `json:"default_deduction"`
	Advice           string `json:"advice"`
}
