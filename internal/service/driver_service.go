package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
)

var ErrVehicleNotOwned = errors.New("không tìm thấy xe hoặc không có quyền xóa")

type DriverService struct {
	driverRepo  repository.DriverRepository
	vehicleRepo repository.VehicleRepository
	tripRepo    repository.TripRepository
}

func NewDriverService(
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	tripRepo repository.TripRepository,
) *DriverService {
	return &DriverService{
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
	}
}

// GetProfile lắp hồ sơ trả về cho frontend: thông tin driver, danh sách biển số
// và lịch sử vi phạm flatten từ trips (mới nhất trước) + events của từng trip.
func (s *DriverService) GetProfile(ctx context.Context, userID string) (*domain.DriverProfileDTO, error) {
	driver, err := s.driverRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lấy danh sách xe: %w", err)
	}
	plates := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		plates = append(plates, v.Plate)
	}

	// Trips đã được repo sắp theo start_time giảm dần, id giảm dần khi bằng nhau
	trips, err := s.tripRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lấy lịch sử trip: %w", err)
	}

	history := make([]domain.ViolationHistoryDTO, 0)
	for _, trip := range trips {
		events, err := s.tripRepo.FindEventsByTripID(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("lỗi khi lấy event của trip %s: %w", trip.ID, err)
		}
		for _, event := range events {
			history = append(history, domain.ViolationHistoryDTO{
				Date:      event.Timestamp,
				Type:      event.EventType,
				Desc:      event.Description,
				Deduction: event.Deduction,
				Plate:     trip.Plate,
			})
		}
	}

	profile := &domain.DriverProfileDTO{
		ID:          driver.UserID,
		Name:        driver.Name,
		CreditScore: driver.CreditScore,
		Vehicles:    plates,
		History:     history,
	}
	if driver.Phone.Valid {
		profile.Phone = driver.Phone.String
	}
	return profile, nil
}

func (s *DriverService) UpdateProfile(ctx context.Context, dto domain.UpdateDriverDTO) (*domain.DriverProfileDTO, error) {
	_, err := s.driverRepo.UpdateProfile(ctx, dto.UserID, dto.Name, dto.Phone)
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, dto.UserID)
}

func (s *DriverService) AddVehicle(ctx context.Context, dto domain.AddVehicleDTO) (*domain.Vehicle, error) {
	// Kiểm tra driver tồn tại trước để trả lỗi rõ ràng thay vì lỗi khóa ngoại
	if _, err := s.driverRepo.FindByUserID(ctx, dto.UserID); err != nil {
		return nil, err
	}
	vehicle := &domain.Vehicle{
		UserID: dto.UserID,
		Plate:  dto.Plate,
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *DriverService) RemoveVehicle(ctx context.Context, dto domain.DeleteVehicleDTO) error {
	err := s.vehicleRepo.Delete(ctx, dto.UserID, dto.Plate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVehicleNotOwned
		}
		return fmt.Errorf("lỗi khi xóa xe: %w", err)
	}
	return nil
}
