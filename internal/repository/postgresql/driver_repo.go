package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"github.com/lib/pq"
)

type pgDriverRepository struct {
	db *sql.DB
}

func NewPgDriverRepository(db *sql.DB) repository.DriverRepository {
	return &pgDriverRepository{db: db}
}

func (r *pgDriverRepository) Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	query := `INSERT INTO drivers (user_id, name, phone, password_hash, role, credit_score, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
	           RETURNING created_at`
	// driver.Password ở đây là password_hash
	err := r.db.QueryRowContext(ctx, query,
		driver.UserID, driver.Name, driver.Phone, driver.Password, driver.Role, driver.CreditScore,
	).Scan(&driver.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: user id '%s' đã được đăng ký", repository.ErrDuplicateEntry, driver.UserID)
			}
		}
		return nil, fmt.Errorf("DriverRepository.Create: %w", err)
	}
	driver.CreatedAt = driver.CreatedAt.In(time.UTC)
	return driver, nil
}

func (r *pgDriverRepository) FindByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	driver := &domain.Driver{}
	query := `SELECT user_id, name, phone, password_hash, role, credit_score, created_at
	           FROM drivers WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&driver.UserID, &driver.Name, &driver.Phone, &driver.Password, &driver.Role,
		&driver.CreditScore, &driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("DriverRepository.FindByUserID: %w", err)
	}
	driver.CreatedAt = driver.CreatedAt.In(time.UTC)
	return driver, nil
}

func (r *pgDriverRepository) UpdateProfile(ctx context.Context, userID string, name *string, phone *string) (*domain.Driver, error) {
	driver := &domain.Driver{}
	query := `UPDATE drivers
	           SET name = COALESCE($1, name), phone = COALESCE($2, phone)
	           WHERE user_id = $3
	           RETURNING user_id, name, phone, password_hash, role, credit_score, created_at`

	var nameVal, phoneVal sql.NullString
	if name != nil {
		nameVal = sql.NullString{String: *name, Valid: true}
	}
	if phone != nil {
		phoneVal = sql.NullString{String: *phone, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, nameVal, phoneVal, userID).Scan(
		&driver.UserID, &driver.Name, &driver.Phone, &driver.Password, &driver.Role,
		&driver.CreditScore, &driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: số điện thoại đã được sử dụng", repository.ErrDuplicateEntry)
			}
		}
		return nil, fmt.Errorf("DriverRepository.UpdateProfile: %w", err)
	}
	driver.CreatedAt = driver.CreatedAt.In(time.UTC)
	return driver, nil
}
