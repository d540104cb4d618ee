package repository

import (
	"context"
	"errors"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateEntry = errors.New("bản ghi đã tồn tại")

type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Driver, error)
	UpdateProfile(ctx context.Context, userID string, name *string, phone *string) (*domain.Driver, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Vehicle, error)
	// Delete xóa xe theo (userID, plate); trả về ErrNotFound nếu xe không tồn tại
	// hoặc không thuộc driver này.
	Delete(ctx context.Context, userID string, plate string) error
}

type TripRepository interface {
	// SettleTrip là đơn vị nguyên tử của Violation Aggregator: khóa dòng driver,
	// ghi trip + toàn bộ event, cập nhật credit_score đã clamp - tất cả trong
	// một transaction. Driver không tồn tại => ErrNotFound, không ghi gì cả.
	SettleTrip(ctx context.Context, dto domain.TripSubmitDTO) (newScore int, trip *domain.Trip, err error)
	// FindByUserID trả về trips theo start_time giảm dần, cùng start_time thì
	// theo id giảm dần để thứ tự ổn định.
	FindByUserID(ctx context.Context, userID string) ([]domain.Trip, error)
	FindEventsByTripID(ctx context.Context, tripID string) ([]domain.ViolationEvent, error)
}

type SignRepository interface {
	Upsert(ctx context.Context, sign *domain.SignDefinition) (*domain.SignDefinition, error)
	FindByClassID(ctx context.Context, classID string) (*domain.SignDefinition, error)
	FindAll(ctx context.Context) ([]domain.SignDefinition, error)
}
