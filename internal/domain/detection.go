package domain

// Frame là một khung hình đã xác thực: kích thước đọc từ header container,
// Bytes vẫn là ảnh đã nén (JPEG/PNG) vì backend detect nhận ảnh nén trực tiếp.
type Frame struct {
	Width  int
	Height int
	Bytes  []byte
}

// Detection là biển báo tốt nhất (confidence cao nhất) của một khung hình.
// Không có identity ngoài khung hình sinh ra nó, không persist.
type Detection struct {
	ClassID    string     `json:"class_id"`
	Confidence float64    `json:"conf"` // Chuẩn hóa về [0, 1]
	BBox       [4]float64 `json:"bbox"` // [x1, y1, x2, y2] theo pixel của khung hình
}

// FrameRequest là message inbound trên kênh streaming.
type FrameRequest struct {
	Image      string `json:"image"` // Base64, có thể kèm prefix data-URI
	Speed      int    `json:"speed"`
	ClientTime string `json:"client_time,omitempty"`
}

// FrameResponse là message outbound, mỗi frame tối đa một response.
// YoloResult == nil nghĩa là frame này không phát hiện gì (kể cả khi decode/detect lỗi).
type FrameResponse struct {
	Status     string     `json:"status"`
	YoloResult *Detection `json:"yolo_result"`
	ServerTime string     `json:"server_time"`
}
