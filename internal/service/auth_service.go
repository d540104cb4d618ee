package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("user id hoặc mật khẩu không đúng")
var ErrUserAlreadyExists = errors.New("user id đã được đăng ký")
var ErrTokenInvalid = errors.New("token không hợp lệ hoặc đã hết hạn")

type AuthService struct {
	driverRepo         repository.DriverRepository
	jwtSecret          string
	jwtExpirationHours time.Duration
}

func NewAuthService(driverRepo repository.DriverRepository, jwtSecret string, jwtExpHours time.Duration) *AuthService {
	return &AuthService{
		driverRepo:         driverRepo,
		jwtSecret:          jwtSecret,
		jwtExpirationHours: jwtExpHours,
	}
}

func (s *AuthService) Register(ctx context.Context, dto domain.RegisterDriverDTO) (*domain.Driver, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("lỗi hash mật khẩu: %w", err)
	}

	driver := &domain.Driver{
		UserID:      dto.UserID,
		Name:        dto.Name,
		Password:    string(hashedPassword),
		Role:        "driver",
		CreditScore: domain.CreditScoreInitial, // Điểm khởi tạo tối đa
	}

	createdDriver, err := s.driverRepo.Create(ctx, driver)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("lỗi khi tạo driver: %w", err)
	}
	createdDriver.Password = ""
	return createdDriver, nil
}

// Login xác thực mật khẩu và phát hành JWT. Hồ sơ đầy đủ (xe + lịch sử)
// do DriverService lắp, handler tự ghép vào response.
func (s *AuthService) Login(ctx context.Context, dto domain.LoginDriverDTO) (string, *domain.Driver, error) {
	driver, err := s.driverRepo.FindByUserID(ctx, dto.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lỗi khi tìm driver: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(driver.Password), []byte(dto.Password))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(s.jwtExpirationHours)
	customClaims := jwt.MapClaims{
		"sub":  driver.UserID,
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(),
		"role": driver.Role,
		"name": driver.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, customClaims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("lỗi tạo token: %w", err)
	}

	driver.Password = ""
	return tokenString, driver, nil
}

// ValidateToken dùng cho middleware
func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không mong muốn: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, nil, fmt.Errorf("%w: token có định dạng sai", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, fmt.Errorf("%w: token đã hết hạn", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, nil, fmt.Errorf("%w: token chưa hợp lệ", ErrTokenInvalid)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, nil, ErrTokenInvalid
	}
	return token, claims, nil
}
