package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AWSRegion       string
	SQSTripQueueURL string // Queue nhận trip submission từ thiết bị telematics
	IoTMQTTEndpoint string

	// Cấu hình detector (Rekognition Custom Labels)
	DetectorModelARN      string
	DetectorMinConfidence float64       // Ngưỡng confidence tối thiểu (%)
	DetectorTimeout       time.Duration // Giới hạn thời gian cho một lần detect

	JWTSecret          string
	JWTExpirationHours time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Cảnh báo: Không thể tải file .env: %v", err)
	}

	dbPort := getEnvInt("DB_PORT", 5432)

	jwtExpHours := getEnvInt("JWT_EXPIRATION_HOURS", 24)

	minConf := getEnvFloat("DETECTOR_MIN_CONFIDENCE", 15)
	detectTimeoutMs := getEnvInt("DETECTOR_TIMEOUT_MS", 5000)

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "youruser"),
		DBPassword: getEnv("DB_PASSWORD", "yourpassword"),
		DBName:     getEnv("DB_NAME", "driving_monitor_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		AWSRegion:       getEnv("AWS_REGION", "ap-southeast-1"),
		SQSTripQueueURL: getEnv("SQS_TRIP_QUEUE_URL", ""),
		IoTMQTTEndpoint: getEnv("IOT_MQTT_ENDPOINT", ""),

		DetectorModelARN:      getEnv("DETECTOR_MODEL_ARN", ""),
		DetectorMinConfidence: minConf,
		DetectorTimeout:       time.Duration(detectTimeoutMs) * time.Millisecond,

		JWTSecret:          getEnv("JWT_SECRET", "your-very-secret-key-for-jwt-!@#$"),
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Biến môi trường '%s' không được đặt, sử dụng giá trị mặc định: '%s'", key, fallback)
	return fallback
}

// getEnvInt parse giá trị số; giá trị hỏng dùng mặc định thay vì 0
// (timeout 0 sẽ làm mọi lần detect hết hạn ngay lập tức).
func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, strconv.Itoa(fallback))
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Biến môi trường '%s' có giá trị không hợp lệ '%s', sử dụng mặc định: %d", key, raw, fallback)
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Biến môi trường '%s' có giá trị không hợp lệ '%s', sử dụng mặc định: %g", key, raw, fallback)
		return fallback
	}
	return value
}
