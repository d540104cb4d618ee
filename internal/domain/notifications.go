package domain

import "time"

// ScoreNotification - payload publish lên MQTT cho thiết bị trên xe
// sau khi quyết toán một chuyến đi.
type ScoreNotification struct {
	UserID         string    `json:"user_id"`
	Plate          string    `json:"plate"`
	TotalDeduction int       `json:"total_deduction"`
	NewScore       int       `json:"new_score"`
	SettledAt      time.Time `json:"settled_at"`
}
