package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/acckaguya/TrafficSign-System/internal/domain"
	"github.com/acckaguya/TrafficSign-System/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockDriverQuery  = `SELECT credit_score FROM drivers WHERE user_id = $1 FOR UPDATE`
	insertTripQuery  = `INSERT INTO trip_logs`
	insertEventQuery = `INSERT INTO trip_events`
	updateScoreQuery = `UPDATE drivers SET credit_score = $1 WHERE user_id = $2`
)

func newSettlementMock(t *testing.T) (repository.TripRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPgTripRepository(db), mock
}

// Đường đi đầy đủ của một lần quyết toán: khóa dòng driver, ghi trip + event,
// cập nhật điểm đã clamp, commit. Tổng trừ ghi trên trip phải bằng tổng
// deduction của các event.
func TestSettleTripPersistsAtomicUnit(t *testing.T) {
	repo, mock := newSettlementMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockDriverQuery)).
		WithArgs("D1").
		WillReturnRows(sqlmock.NewRows([]string{"credit_score"}).AddRow(100))
	mock.ExpectExec(insertTripQuery).
		WithArgs(sqlmock.AnyArg(), "D1", "29A-123.45", sqlmock.AnyArg(), sqlmock.AnyArg(), 50).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertEventQuery).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "speed", "vượt tốc độ", 30, 72).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertEventQuery).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "stop", "vượt đèn đỏ", 20, 0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateScoreQuery)).
		WithArgs(50, "D1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newScore, trip, err := repo.SettleTrip(context.Background(), domain.TripSubmitDTO{
		UserID: "D1",
		Plate:  "29A-123.45",
		Violations: []domain.ViolationItemDTO{
			{Type: "speed", Desc: "vượt tốc độ", Deduction: 30, Speed: 72},
			{Type: "stop", Desc: "vượt đèn đỏ", Deduction: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, newScore)
	assert.Equal(t, 50, trip.TotalDeduction, "tổng trừ trên trip bằng tổng deduction của các event")
	assert.Equal(t, "D1", trip.UserID)
	assert.True(t, trip.EndTime.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Điểm mới ghi xuống database là điểm đã clamp, không bao giờ âm.
func TestSettleTripClampsAtFloor(t *testing.T) {
	repo, mock := newSettlementMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockDriverQuery)).
		WithArgs("D1").
		WillReturnRows(sqlmock.NewRows([]string{"credit_score"}).AddRow(10))
	mock.ExpectExec(insertTripQuery).
		WithArgs(sqlmock.AnyArg(), "D1", "29A-123.45", sqlmock.AnyArg(), sqlmock.AnyArg(), 70).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertEventQuery).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "speed", "", 70, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(updateScoreQuery)).
		WithArgs(0, "D1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newScore, _, err := repo.SettleTrip(context.Background(), domain.TripSubmitDTO{
		UserID:     "D1",
		Plate:      "29A-123.45",
		Violations: []domain.ViolationItemDTO{{Type: "speed", Deduction: 70}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, newScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Driver không tồn tại: rollback ngay sau bước khóa dòng, không ghi gì cả.
func TestSettleTripDriverNotFound(t *testing.T) {
	repo, mock := newSettlementMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockDriverQuery)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	newScore, trip, err := repo.SettleTrip(context.Background(), domain.TripSubmitDTO{
		UserID:     "ghost",
		Plate:      "00X-000.00",
		Violations: []domain.ViolationItemDTO{{Type: "speed", Deduction: 10}},
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, newScore)
	assert.Nil(t, trip)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Lỗi giữa chừng (một event không ghi được): toàn bộ transaction rollback,
// điểm không được cập nhật, không commit.
func TestSettleTripRollbackOnEventFailure(t *testing.T) {
	repo, mock := newSettlementMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockDriverQuery)).
		WithArgs("D1").
		WillReturnRows(sqlmock.NewRows([]string{"credit_score"}).AddRow(40))
	mock.ExpectExec(insertTripQuery).
		WithArgs(sqlmock.AnyArg(), "D1", "29A-123.45", sqlmock.AnyArg(), sqlmock.AnyArg(), 15).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertEventQuery).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, trip, err := repo.SettleTrip(context.Background(), domain.TripSubmitDTO{
		UserID:     "D1",
		Plate:      "29A-123.45",
		Violations: []domain.ViolationItemDTO{{Type: "speed", Deduction: 15}},
	})
	require.Error(t, err)
	assert.Nil(t, trip)
	assert.NoError(t, mock.ExpectationsWereMet())
}
