package postgresql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/acckaguya/TrafficSign-System/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed schema.sql
var schemaSQL string

func NewDB(cfg *config.Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)

	db, err := sql.Open("pgx", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở kết nối database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("lỗi ping database: %w", err)
	}
	return db, nil
}

// InitSchema tạo bảng nếu chưa có và seed bộ biển báo mặc định.
// schema.sql chỉ chứa câu lệnh idempotent (IF NOT EXISTS / ON CONFLICT DO NOTHING).
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("lỗi khởi tạo schema: %w", err)
	}
	return nil
}
