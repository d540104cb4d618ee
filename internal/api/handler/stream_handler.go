package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Cho phép kết nối từ mọi nguồn
	},
}

// Detector là contract detect-or-none mà session loop tiêu thụ.
type Detector interface {
	DetectOrNone(ctx context.Context, frame domain.Frame, speed int) *domain.Detection
}

// StreamManager theo dõi các session streaming đang mở để log và đóng sạch
// khi shutdown. Các session độc lập với nhau, manager không giữ state nào khác.
type StreamManager struct {
	sessions   map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		sessions:   make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (sm *StreamManager) Start() {
	for {
		select {
		case session := <-sm.register:
			sm.mutex.Lock()
			sm.sessions[session] = true
			total := len(sm.sessions)
			sm.mutex.Unlock()
			log.Printf("StreamManager: Session mới kết nối. Tổng: %d", total)

		case session := <-sm.unregister:
			sm.mutex.Lock()
			if _, ok := sm.sessions[session]; ok {
				delete(sm.sessions, session)
				session.Close()
			}
			total := len(sm.sessions)
			sm.mutex.Unlock()
			log.Printf("StreamManager: Session đã ngắt kết nối. Tổng: %d", total)
		}
	}
}

// CloseAll đóng mọi session đang mở, dùng khi shutdown server.
func (sm *StreamManager) CloseAll() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	for session := range sm.sessions {
		session.Close()
		delete(sm.sessions, session)
	}
}

type StreamHandler struct {
	manager  *StreamManager
	detector Detector
}

func NewStreamHandler(manager *StreamManager, detector Detector) *StreamHandler {
	return &StreamHandler{manager: manager, detector: detector}
}

// HandleStream sở hữu một session streaming từ lúc upgrade đến lúc ngắt kết nối.
// Mỗi message inbound (frame + speed) được xử lý tuần tự: không nhận frame N+1
// trước khi gửi xong response cho frame N, nên mỗi session chỉ có tối đa một
// lần detect đang chạy.
func (h *StreamHandler) HandleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("StreamHandler: Lỗi upgrade WebSocket: %v", err)
		return
	}

	h.manager.register <- conn
	defer func() {
		h.manager.unregister <- conn
	}()

	ctx := c.Request.Context()
	for {
		var req domain.FrameRequest
		err := conn.ReadJSON(&req)
		if err != nil {
			// Envelope không parse được: bỏ qua message này, session tiếp tục.
			// Mọi lỗi khác là lỗi transport và kết thúc session.
			if isMalformedEnvelope(err) {
				log.Printf("StreamHandler: Message không hợp lệ, bỏ qua: %v", err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("StreamHandler: Lỗi WebSocket: %v", err)
			}
			return
		}

		// Message không có ảnh thì không trả response
		if req.Image == "" {
			continue
		}

		response := h.handleFrame(ctx, req)
		if err := conn.WriteJSON(response); err != nil {
			log.Printf("StreamHandler: Lỗi gửi response: %v", err)
			return
		}
	}
}

// handleFrame xử lý đúng một frame. Decode hỏng hay detect lỗi đều cho
// yolo_result = null chứ không bao giờ kết thúc session.
func (h *StreamHandler) handleFrame(ctx context.Context, req domain.FrameRequest) domain.FrameResponse {
	response := domain.FrameResponse{
		Status:     "ok",
		ServerTime: time.Now().Format("2006-01-02T15:04:05.000000"),
	}

	frame, ok := service.DecodeFrame(req.Image)
	if !ok {
		return response
	}

	response.YoloResult = h.detector.DetectOrNone(ctx, frame, req.Speed)
	return response
}

// isMalformedEnvelope nhận diện lỗi decode JSON của một message đơn lẻ,
// loại lỗi duy nhất không được phép kết thúc session. ReadJSON trả về
// io.ErrUnexpectedEOF cho JSON bị cắt cụt và cho message rỗng.
func isMalformedEnvelope(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
