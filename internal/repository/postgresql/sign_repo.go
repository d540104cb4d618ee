package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"
)

type pgSignRepository struct {
	db *sql.DB
}

func NewPgSignRepository(db *sql.DB) repository.SignRepository {
	return &pgSignRepository{db: db}
}

func (r *pgSignRepository) Upsert(ctx context.Context, sign *domain.SignDefinition) (*domain.SignDefinition, error) {
	query := `INSERT INTO traffic_signs (class_id, name, type, limit_speed, default_deduction, advice)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           ON CONFLICT (class_id) DO UPDATE
	           SET name = EXCLUDED.name, type = EXCLUDED.type, limit_speed = EXCLUDED.limit_speed,
	               default_deduction = EXCLUDED.default_deduction, advice = EXCLUDED.advice
	           RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		sign.ClassID, sign.Name, sign.Type, sign.LimitSpeed, sign.DefaultDeduction, sign.Advice,
	).Scan(&sign.ID)
	if err != nil {
		return nil, fmt.Errorf("SignRepository.Upsert: %w", err)
	}
	return sign, nil
}

func (r *pgSignRepository) FindByClassID(ctx context.Context, classID string) (*domain.SignDefinition, error) {
	sign := &domain.SignDefinition{}
	query := `SELECT id, class_id, name, type, limit_speed, default_deduction, advice
	           FROM traffic_signs WHERE class_id = $1`
	err := r.db.QueryRowContext(ctx, query, classID).Scan(
		&sign.ID, &sign.ClassID, &sign.Name, &sign.Type, &sign.LimitSpeed,
		&sign.DefaultDeduction, &sign.Advice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("SignRepository.FindByClassID: %w", err)
	}
	return sign, nil
}

func (r *pgSignRepository) FindAll(ctx context.Context) ([]domain.SignDefinition, error) {
	query := `SELECT id, class_id, name, type, limit_speed, default_deduction, advice
	           FROM traffic_signs ORDER BY class_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("SignRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var signs []domain.SignDefinition
	for rows.Next() {
		var s domain.SignDefinition
		if err := rows.Scan(
			&s.ID, &s.ClassID, &s.Name, &s.Type, &s.LimitSpeed,
			&s.DefaultDeduction, &s.Advice,
		); err != nil {
			return nil, fmt.Errorf("SignRepository.FindAll (scanning row): %w", err)
		}
		signs = append(signs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("SignRepository.FindAll (rows error): %w", err)
	}
	return signs, nil
}
