package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Trip là một đơn vị quyết toán: gom các violation event của một chuyến đi
// thành đúng một lần điều chỉnh credit score.
type Trip struct {
	ID             string     `json:"id"` // uuid
	UserID         string     `json:"user_id"`
	Plate          string     `json:"plate"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        null.Time  `json:"end_time"`
	TotalDeduction int        `json:"total_deduction"` // Tổng điểm trừ của chuyến, == sum(event.deduction)
	AvgSpeed       null.Float `json:"avg_speed"`
	MaxSpeed       null.Float `json:"max_speed"`
}

type ViolationEvent struct {
	ID           int         `json:"id"`
	TripID       string      `json:"trip_id"`
	SignID       null.String `json:"sign_id"` // Tham chiếu traffic_signs.class_id nếu có
	Timestamp    time.Time   `json:"timestamp"`
	EventType    string      `json:"event_type"`
	Description  string      `json:"description"`
	Deduction    int         `json:"deduction"`
	SpeedAtEvent int         `json:"speed_at_event"`
	SnapshotURL  null.String `json:"snapshot_url"`
}

type ViolationItemDTO struct {
	Type      string `json:"type" binding:"required"`
	Desc      string `json:"desc"`
	Deduction int    `json:"deduction"`
	SignID    string `json:"sign_id,omitempty"`
	Speed     int    `json:"speed,omitempty"`
}

type TripSubmitDTO struct {
	UserID     string             `json:"user_id" binding:"required"`
	Plate      string             `json:"plate" binding:"required"`
	Violations []ViolationItemDTO `json:"violations"`
	Duration   int                `json:"duration"` // Nhận từ client nhưng hiện không lưu
}

type TripSubmitResultDTO struct {
	Status   string `json:"status"`
	NewScore int    `json:"new_score"`
}

const (
	CreditScoreMin     = 0
	CreditScoreMax     = 100
	CreditScoreInitial = 100
)

// TotalDeduction cộng dồn điểm trừ của một batch violation. Batch rỗng cho 0.
// Giá trị âm được cộng nguyên trạng (khôi phục điểm), không validate ở tầng này.
func TotalDeduction(items []ViolationItemDTO) int {
	total := 0
	for _, v := range items {
		total += v.Deduction
	}
	return total
}

// ClampScore ép điểm về [CreditScoreMin, CreditScoreMax] theo kiểu bão hòa:
// đã chạm sàn 0 thì trừ thêm bao nhiêu cũng không ghi nợ.
func ClampScore(score int) int {
	if score < CreditScoreMin {
		return CreditScoreMin
	}
	if score > CreditScoreMax {
		return CreditScoreMax
	}
	return score
}
