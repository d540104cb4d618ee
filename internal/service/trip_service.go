package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

// MQTTPublisher là phần của iotdataplane.Client mà TripService dùng.
type MQTTPublisher interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

type TripService struct {
	tripRepo  repository.TripRepository
	publisher MQTTPublisher // nil nếu không cấu hình IoT endpoint
}

func NewTripService(tripRepo repository.TripRepository, publisher MQTTPublisher) *TripService {
	return &TripService{tripRepo: tripRepo, publisher: publisher}
}

// SubmitTrip quyết toán một chuyến đi: toàn bộ phần ghi nằm trong transaction
// của TripRepository.SettleTrip. Notification MQTT sau commit là best-effort,
// lỗi chỉ log chứ không ảnh hưởng kết quả trả về.
func (s *TripService) SubmitTrip(ctx context.Context, dto domain.TripSubmitDTO) (*domain.TripSubmitResultDTO, error) {
	newScore, trip, err := s.tripRepo.SettleTrip(ctx, dto)
	if err != nil {
		return nil, err
	}

	log.Printf("TripService: Đã quyết toán trip %s cho driver %s: tổng trừ %d, điểm mới %d",
		trip.ID, dto.UserID, trip.TotalDeduction, newScore)

	s.notifyScore(ctx, domain.ScoreNotification{
		UserID:         dto.UserID,
		Plate:          dto.Plate,
		TotalDeduction: trip.TotalDeduction,
		NewScore:       newScore,
		SettledAt:      trip.StartTime,
	})

	return &domain.TripSubmitResultDTO{Status: "success", NewScore: newScore}, nil
}

func (s *TripService) notifyScore(ctx context.Context, notification domain.ScoreNotification) {
	if s.publisher == nil {
		return
	}

	topic := fmt.Sprintf("icss/drivers/%s/score", notification.UserID)
	payloadBytes, err := json.Marshal(notification)
	if err != nil {
		log.Printf("TripService: Lỗi marshal score notification: %v", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = s.publisher.Publish(pubCtx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     1,
		Payload: payloadBytes,
	})
	if err != nil {
		log.Printf("TripService: Lỗi publish score notification tới topic %s: %v", topic, err)
		return
	}
	log.Printf("TripService: Đã publish điểm mới %d tới topic %s", notification.NewScore, topic)
}
