package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/api"
	"github.com/acckaguya/TrafficSign-System/internal/api/handler"
	"github.com/acckaguya/TrafficSign-System/internal/api/middleware"
	"github.com/acckaguya/TrafficSign-System/internal/config"
	"github.com/acckaguya/TrafficSign-System/internal/ingest"
	"github.com/acckaguya/TrafficSign-System/internal/repository/postgresql"
	"github.com/acckaguya/TrafficSign-System/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsgo_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Cấu hình đã được tải.")

	// 2. Setup Database Connection
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Không thể kết nối database: %v", err)
	}
	defer db.Close()
	log.Println("Đã kết nối database thành công!")

	if err := postgresql.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("Không thể khởi tạo schema: %v", err)
	}
	log.Println("Schema đã sẵn sàng.")

	// 3. Khởi tạo AWS SDK Config
	awsSDKCfg, err := awsgo_config.LoadDefaultConfig(context.TODO(), awsgo_config.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Không thể tải AWS SDK config: %v", err)
	}
	log.Println("Đã tải AWS SDK config thành công cho region:", cfg.AWSRegion)

	// 4. Khởi tạo AWS Clients
	sqsClient := sqs.NewFromConfig(awsSDKCfg)
	var iotDataPlaneClient *iotdataplane.Client
	if cfg.IoTMQTTEndpoint != "" {
		iotDataPlaneClient = iotdataplane.NewFromConfig(awsSDKCfg, func(o *iotdataplane.Options) {
			endpointWithSchema := cfg.IoTMQTTEndpoint
			if !strings.HasPrefix(endpointWithSchema, "https://") && !strings.HasPrefix(endpointWithSchema, "http://") {
				endpointWithSchema = "https://" + endpointWithSchema
			}
			o.BaseEndpoint = aws.String(endpointWithSchema)
		})
	} else {
		log.Println("CẢNH BÁO: IOT_MQTT_ENDPOINT chưa được cấu hình. Score notification sẽ không được publish.")
	}

	rekognitionClient := rekognition.NewFromConfig(awsSDKCfg)
	// Detector được tạo đúng một lần ở đây và inject vào session loop;
	// model không cấu hình thì detector chạy ở chế độ tắt (mọi frame: không detect).
	detectorService := service.NewDetectorService(rekognitionClient, cfg.DetectorModelARN,
		cfg.DetectorMinConfidence, cfg.DetectorTimeout)

	// 5. Initialize Repositories
	driverRepo := postgresql.NewPgDriverRepository(db)
	vehicleRepo := postgresql.NewPgVehicleRepository(db)
	tripRepo := postgresql.NewPgTripRepository(db)
	signRepo := postgresql.NewPgSignRepository(db)

	// init stream manager cho các session WebSocket
	streamManager := handler.NewStreamManager()
	go streamManager.Start()
	log.Println("Stream Manager đã được khởi động.")

	// 6. Initialize Services
	authService := service.NewAuthService(driverRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	driverService := service.NewDriverService(driverRepo, vehicleRepo, tripRepo)
	tripService := service.NewTripService(tripRepo, mqttPublisherOrNil(iotDataPlaneClient))
	signService := service.NewSignService(signRepo)

	// 7. Initialize Auth Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 8. Khởi tạo và Chạy SQS Consumer
	var wg sync.WaitGroup
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())

	if cfg.SQSTripQueueURL == "" {
		log.Println("CẢNH BÁO: SQS_TRIP_QUEUE_URL chưa được cấu hình. SQS Consumer sẽ không chạy.")
	} else {
		sqsConsumer := ingest.NewSQSConsumer(sqsClient, cfg, tripService)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sqsConsumer.Start(consumerCtx)
			log.Println("SQS Consumer đã dừng.")
		}()
	}

	// 9. Setup HTTP Router
	streamHandler := handler.NewStreamHandler(streamManager, detectorService)
	router := api.SetupRouter(authService, driverService, tripService, signService, authMiddleware, streamHandler)

	// 10. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	cancelConsumer()
	streamManager.CloseAll()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server buộc phải tắt: %v", err)
	}

	if cfg.SQSTripQueueURL != "" {
		log.Println("Đang chờ SQS consumer dừng (tối đa 5 giây)...")
		c := make(chan struct{})
		go func() {
			defer close(c)
			wg.Wait()
		}()
		select {
		case <-c:
			log.Println("SQS consumer đã dừng hoàn toàn.")
		case <-time.After(5 * time.Second):
			log.Println("SQS consumer không dừng trong thời gian chờ.")
		}
	}

	log.Println("Server đã tắt.")
}

// mqttPublisherOrNil tránh đưa typed-nil *iotdataplane.Client vào interface.
func mqttPublisherOrNil(client *iotdataplane.Client) service.MQTTPublisher {
	if client == nil {
		return nil
	}
	return client
}
