package service

import (
	"context"
	"testing"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

type fakeDriverRepository struct {
	drivers map[string]*domain.Driver
}

func (f *fakeDriverRepository) Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if _, exists := f.drivers[driver.UserID]; exists {
		return nil, repository.ErrDuplicateEntry
	}
	f.drivers[driver.UserID] = driver
	return driver, nil
}

func (f *fakeDriverRepository) FindByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	driver, ok := f.drivers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return driver, nil
}

func (f *fakeDriverRepository) UpdateProfile(ctx context.Context, userID string, name *string, phone *string) (*domain.Driver, error) {
	driver, ok := f.drivers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		driver.Name = *name
	}
	if phone != nil {
		driver.Phone = null.StringFrom(*phone)
	}
	return driver, nil
}

type fakeVehicleRepository struct {
	vehicles []domain.Vehicle
}

func (f *fakeVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.Plate == vehicle.Plate {
			return nil, repository.ErrDuplicateEntry
		}
	}
	f.vehicles = append(f.vehicles, *vehicle)
	return vehicle, nil
}

func (f *fakeVehicleRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	var result []domain.Vehicle
	for _, v := range f.vehicles {
		if v.UserID == userID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (f *fakeVehicleRepository) Delete(ctx context.Context, userID string, plate string) error {
	for i, v := range f.vehicles {
		if v.UserID == userID && v.Plate == plate {
			f.vehicles = append(f.vehicles[:i], f.vehicles[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fixedTripRepository trả về trips theo đúng thứ tự đã cho, giống contract
// của repo thật (start_time giảm dần).
type fixedTripRepository struct {
	trips  []domain.Trip
	events map[string][]domain.ViolationEvent
}

func (f *fixedTripRepository) SettleTrip(ctx context.Context, dto domain.TripSubmitDTO) (int, *domain.Trip, error) {
	return 0, nil, repository.ErrNotFound
}

func (f *fixedTripRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Trip, error) {
	return f.trips, nil
}

func (f *fixedTripRepository) FindEventsByTripID(ctx context.Context, tripID string) ([]domain.ViolationEvent, error) {
	return f.events[tripID], nil
}

func TestDriverServiceGetProfile(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	driverRepo := &fakeDriverRepository{drivers: map[string]*domain.Driver{
		"D1": {UserID: "D1", Name: "Nguyen Van A", Phone: null.StringFrom("0901234567"), CreditScore: 72},
	}}
	vehicleRepo := &fakeVehicleRepository{vehicles: []domain.Vehicle{
		{UserID: "D1", Plate: "29A-123.45"},
		{UserID: "D1", Plate: "51G-678.90"},
		{UserID: "D2", Plate: "80B-000.01"},
	}}
	tripRepo := &fixedTripRepository{
		// Trip mới nhất đứng trước, như repo thật trả về
		trips: []domain.Trip{
			{ID: "trip-2", UserID: "D1", Plate: "51G-678.90", StartTime: base.Add(2 * time.Hour)},
			{ID: "trip-1", UserID: "D1", Plate: "29A-123.45", StartTime: base},
		},
		events: map[string][]domain.ViolationEvent{
			"trip-2": {
				{TripID: "trip-2", EventType: "speed", Description: "vượt tốc độ", Deduction: 6, Timestamp: base.Add(2 * time.Hour)},
			},
			"trip-1": {
				{TripID: "trip-1", EventType: "forbid", Description: "đi vào đường cấm", Deduction: 9, Timestamp: base},
				{TripID: "trip-1", EventType: "speed", Description: "vượt tốc độ", Deduction: 6, Timestamp: base.Add(time.Minute)},
			},
		},
	}

	s := NewDriverService(driverRepo, vehicleRepo, tripRepo)
	profile, err := s.GetProfile(context.Background(), "D1")
	require.NoError(t, err)

	assert.Equal(t, "D1", profile.ID)
	assert.Equal(t, "Nguyen Van A", profile.Name)
	assert.Equal(t, "0901234567", profile.Phone)
	assert.Equal(t, 72, profile.CreditScore)
	assert.Equal(t, []string{"29A-123.45", "51G-678.90"}, profile.Vehicles)

	// History flatten theo thứ tự trip (mới nhất trước), kèm biển số của trip
	require.Len(t, profile.History, 3)
	assert.Equal(t, "51G-678.90", profile.History[0].Plate)
	assert.Equal(t, 6, profile.History[0].Deduction)
	assert.Equal(t, "29A-123.45", profile.History[1].Plate)
	assert.Equal(t, "forbid", profile.History[1].Type)
	assert.Equal(t, "29A-123.45", profile.History[2].Plate)
}

func TestDriverServiceGetProfileNotFound(t *testing.T) {
	s := NewDriverService(
		&fakeDriverRepository{drivers: map[string]*domain.Driver{}},
		&fakeVehicleRepository{},
		&fixedTripRepository{},
	)
	_, err := s.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDriverServiceRemoveVehicle(t *testing.T) {
	vehicleRepo := &fakeVehicleRepository{vehicles: []domain.Vehicle{
		{UserID: "D1", Plate: "29A-123.45"},
	}}
	s := NewDriverService(
		&fakeDriverRepository{drivers: map[string]*domain.Driver{"D1": {UserID: "D1"}}},
		vehicleRepo,
		&fixedTripRepository{},
	)

	// Xe của driver khác: không được xóa
	err := s.RemoveVehicle(context.Background(), domain.DeleteVehicleDTO{UserID: "D2", Plate: "29A-123.45"})
	assert.ErrorIs(t, err, ErrVehicleNotOwned)
	assert.Len(t, vehicleRepo.vehicles, 1)

	err = s.RemoveVehicle(context.Background(), domain.DeleteVehicleDTO{UserID: "D1", Plate: "29A-123.45"})
	require.NoError(t, err)
	assert.Empty(t, vehicleRepo.vehicles)
}
