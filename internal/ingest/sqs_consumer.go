package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/config"
	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSConsumer nhận trip submission từ các thiết bị telematics không giữ được
// phiên HTTP: payload message trùng với TripSubmitDTO và đi qua cùng một
// đường quyết toán của TripService.
type SQSConsumer struct {
	sqsClient   *sqs.Client
	queueURL    string
	tripService *service.TripService
}

func NewSQSConsumer(client *sqs.Client, cfg *config.Config, tripService *service.TripService) *SQSConsumer {
	return &SQSConsumer{
		sqsClient:   client,
		queueURL:    cfg.SQSTripQueueURL,
		tripService: tripService,
	}
}

func (c *SQSConsumer) Start(ctx context.Context) {
	log.Printf("SQS Consumer đang bắt đầu lắng nghe queue: %s", c.queueURL)
	for {
		select {
		case <-ctx.Done():
			log.Println("SQS Consumer: context cancelled, stopping.")
			return
		default:
			receiveInput := &sqs.ReceiveMessageInput{
				QueueUrl:            &c.queueURL,
				MaxNumberOfMessages: 10,
				WaitTimeSeconds:     20,
				VisibilityTimeout:   60,
			}

			result, err := c.sqsClient.ReceiveMessage(ctx, receiveInput)
			if err != nil {
				log.Printf("SQS Consumer: Lỗi khi nhận message: %v", err)
				select {
				case <-time.After(5 * time.Second):
				case <-ctx.Done():
					log.Println("SQS Consumer: context cancelled while waiting for retry.")
					return
				}
				continue
			}

			if len(result.Messages) == 0 {
				continue
			}

			log.Printf("SQS Consumer: Đã nhận %d message(s)", len(result.Messages))

			for _, message := range result.Messages {
				if message.Body == nil {
					log.Println("SQS Consumer: Nhận được message với body rỗng. Đang xóa...")
					c.deleteMessage(ctx, message.ReceiptHandle)
					continue
				}

				if c.processTripMessage(ctx, *message.Body) {
					c.deleteMessage(ctx, message.ReceiptHandle)
				} else {
					log.Printf("SQS Consumer: Message ID %s sẽ được xử lý lại sau visibility timeout.", *message.MessageId)
				}
			}
		}
	}
}

// processTripMessage trả về true nếu message nên được xóa khỏi queue:
// quyết toán thành công, hoặc message là poison (JSON hỏng, driver không tồn tại)
// và retry cũng không cứu được.
func (c *SQSConsumer) processTripMessage(ctx context.Context, body string) bool {
	var dto domain.TripSubmitDTO
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		log.Printf("SQS Consumer: Lỗi unmarshal trip submission, xóa message: %v", err)
		return true
	}
	if dto.UserID == "" || dto.Plate == "" {
		log.Println("SQS Consumer: Trip submission thiếu user_id/plate, xóa message.")
		return true
	}

	result, err := c.tripService.SubmitTrip(ctx, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("SQS Consumer: Driver '%s' không tồn tại, xóa message.", dto.UserID)
			return true
		}
		log.Printf("SQS Consumer: Lỗi quyết toán trip cho driver '%s': %v", dto.UserID, err)
		return false
	}

	log.Printf("SQS Consumer: Đã quyết toán trip cho driver '%s', điểm mới: %d", dto.UserID, result.NewScore)
	return true
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		log.Println("SQS Consumer: Receipt handle rỗng, không thể xóa message.")
		return
	}
	_, delErr := c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &c.queueURL,
		ReceiptHandle: receiptHandle,
	})
	if delErr != nil {
		log.Printf("SQS Consumer: Lỗi khi xóa message: %v", delErr)
	}
}
