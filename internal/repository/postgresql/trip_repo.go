package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"github.com/google/uuid"
)

type pgTripRepository struct {
	db *sql.DB
}

func NewPgTripRepository(db *sql.DB) repository.TripRepository {
	return &pgTripRepository{db: db}
}

// SettleTrip thực hiện toàn bộ quyết toán trong một transaction:
// khóa dòng driver bằng FOR UPDATE để hai lần quyết toán cùng một driver
// không bao giờ đọc chung một điểm cũ, sau đó ghi trip + event và cập nhật
// điểm đã clamp. Bất kỳ bước nào lỗi => rollback, không còn dấu vết.
func (r *pgTripRepository) SettleTrip(ctx context.Context, dto domain.TripSubmitDTO) (int, *domain.Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("TripRepository.SettleTrip (begin tx): %w", err)
	}
	defer tx.Rollback()

	var currentScore int
	err = tx.QueryRowContext(ctx,
		`SELECT credit_score FROM drivers WHERE user_id = $1 FOR UPDATE`,
		dto.UserID,
	).Scan(&currentScore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, repository.ErrNotFound
		}
		return 0, nil, fmt.Errorf("TripRepository.SettleTrip (lock driver): %w", err)
	}

	totalDeduction := domain.TotalDeduction(dto.Violations)
	newScore := domain.ClampScore(currentScore - totalDeduction)
	now := time.Now().UTC()

	trip := &domain.Trip{
		ID:             uuid.NewString(),
		UserID:         dto.UserID,
		Plate:          dto.Plate,
		StartTime:      now,
		TotalDeduction: totalDeduction,
	}
	trip.EndTime.SetValid(now)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_logs (id, user_id, plate, start_time, end_time, total_deduction)
		  VALUES ($1, $2, $3, $4, $5, $6)`,
		trip.ID, trip.UserID, trip.Plate, trip.StartTime, trip.EndTime, trip.TotalDeduction,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("TripRepository.SettleTrip (insert trip): %w", err)
	}

	for _, v := range dto.Violations {
		var signID sql.NullString
		if v.SignID != "" {
			signID = sql.NullString{String: v.SignID, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO trip_events (trip_id, sign_id, timestamp, event_type, description, deduction, speed_at_event)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			trip.ID, signID, now, v.Type, v.Desc, v.Deduction, v.Speed,
		)
		if err != nil {
			return 0, nil, fmt.Errorf("TripRepository.SettleTrip (insert event): %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE drivers SET credit_score = $1 WHERE user_id = $2`,
		newScore, dto.UserID,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("TripRepository.SettleTrip (update score): %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("TripRepository.SettleTrip (commit): %w", err)
	}
	return newScore, trip, nil
}

func (r *pgTripRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Trip, error) {
	query := `SELECT id, user_id, plate, start_time, end_time, total_deduction, avg_speed, max_speed
	           FROM trip_logs
	           WHERE user_id = $1
	           ORDER BY start_time DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("TripRepository.FindByUserID: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Plate, &t.StartTime, &t.EndTime,
			&t.TotalDeduction, &t.AvgSpeed, &t.MaxSpeed,
		); err != nil {
			return nil, fmt.Errorf("TripRepository.FindByUserID (scanning row): %w", err)
		}
		t.StartTime = t.StartTime.In(time.UTC)
		if t.EndTime.Valid {
			t.EndTime.Time = t.EndTime.Time.In(time.UTC)
		}
		trips = append(trips, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("TripRepository.FindByUserID (rows error): %w", err)
	}
	return trips, nil
}

func (r *pgTripRepository) FindEventsByTripID(ctx context.Context, tripID string) ([]domain.ViolationEvent, error) {
	query := `SELECT id, trip_id, sign_id, timestamp, event_type, description, deduction, speed_at_event, snapshot_url
	           FROM trip_events
	           WHERE trip_id = $1
	           ORDER BY timestamp, id`
	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("TripRepository.FindEventsByTripID: %w", err)
	}
	defer rows.Close()

	var events []domain.ViolationEvent
	for rows.Next() {
		var e domain.ViolationEvent
		if err := rows.Scan(
			&e.ID, &e.TripID, &e.SignID, &e.Timestamp, &e.EventType,
			&e.Description, &e.Deduction, &e.SpeedAtEvent, &e.SnapshotURL,
		); err != nil {
			return nil, fmt.Errorf("TripRepository.FindEventsByTripID (scanning row): %w", err)
		}
		e.Timestamp = e.Timestamp.In(time.UTC)
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("TripRepository.FindEventsByTripID (rows error): %w", err)
	}
	return events, nil
}
