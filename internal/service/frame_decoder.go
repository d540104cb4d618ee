package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	// Đăng ký decoder cho các container mà camera frontend gửi lên
	_ "image/jpeg"
	_ "image/png"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
)

// DecodeFrame biến payload base64 (có thể kèm prefix "data:image/...;base64,")
// thành một Frame đã xác thực. Mọi lỗi (base64 hỏng, container lạ, payload rỗng)
// đều trả về ok=false - tương đương "frame này không có detection", không bao giờ
// là lỗi đối với caller. Mỗi frame độc lập, không retry.
func DecodeFrame(payload string) (domain.Frame, bool) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	if payload == "" {
		return domain.Frame{}, false
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.Frame{}, false
	}
	if len(raw) == 0 {
		return domain.Frame{}, false
	}

	// Chỉ đọc header để lấy kích thước; bytes nén giữ nguyên cho detector
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return domain.Frame{}, false
	}

	return domain.Frame{Width: cfg.Width, Height: cfg.Height, Bytes: raw}, true
}
