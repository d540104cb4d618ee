package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalDeduction(t *testing.T) {
	tests := []struct {
		name     string
		items    []ViolationItemDTO
		expected int
	}{
		{
			name:     "batch rỗng cho 0",
			items:    nil,
			expected: 0,
		},
		{
			name: "cộng dồn nhiều vi phạm",
			items: []ViolationItemDTO{
				{Type: "speed", Desc: "over limit", Deduction: 30},
				{Type: "stop", Desc: "ran stop sign", Deduction: 20},
			},
			expected: 50,
		},
		{
			name: "deduction 0 được chấp nhận",
			items: []ViolationItemDTO{
				{Type: "info", Deduction: 0},
			},
			expected: 0,
		},
		{
			name: "giá trị âm được cộng nguyên trạng",
			items: []ViolationItemDTO{
				{Type: "speed", Deduction: 10},
				{Type: "bonus", Deduction: -4},
			},
			expected: 6,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, TotalDeduction(test.items))
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		given    int
		expected int
	}{
		{given: 50, expected: 50},
		{given: 0, expected: 0},
		{given: 100, expected: 100},
		{given: -20, expected: 0},
		{given: -995, expected: 0},
		{given: 130, expected: 100},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ClampScore(test.given))
	}
}

// Mô phỏng chuỗi quyết toán của một driver: điểm sau mỗi lần submit luôn bằng
// clamp(điểm trước - tổng trừ của lần đó).
func TestScoreSettlementSequence(t *testing.T) {
	score := CreditScoreInitial

	firstTrip := []ViolationItemDTO{
		{Type: "speed", Desc: "over limit", Deduction: 30},
		{Type: "stop", Desc: "ran stop sign", Deduction: 20},
	}
	score = ClampScore(score - TotalDeduction(firstTrip))
	assert.Equal(t, 50, score)

	secondTrip := []ViolationItemDTO{
		{Type: "speed", Deduction: 70},
	}
	score = ClampScore(score - TotalDeduction(secondTrip))
	assert.Equal(t, 0, score, "điểm bị chặn ở sàn 0, không bao giờ âm")

	// Đã chạm sàn: trừ thêm cũng không đổi
	score = ClampScore(score - 1000)
	assert.Equal(t, 0, score)

	// Batch rỗng là no-op trên điểm
	score = 37
	score = ClampScore(score - TotalDeduction(nil))
	assert.Equal(t, 37, score)
}
