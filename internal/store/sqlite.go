package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"calcform/internal/calculation"
)

const memoryDSN = ":memory:"

// SQLiteStore persists records in a SQLite database through GORM.
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and migrates the
// calculations table. Use ":memory:" for a private in-memory database.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}

	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:  NewGormLogger(logger),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	if path == memoryDSN {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&calculation.Calculation{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate calculations: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func dsn(path string) string {
	if path == memoryDSN || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// Path returns the database location the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Insert(ctx context.Context, c *calculation.Calculation) (uint, error) {
	if err := checkStorable(c); err != nil {
		return 0, err
	}

	c.ID = 0
	c.CreatedAt = time.Time{}

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return 0, fmt.Errorf("insert calculation: %w", err)
	}
	return c.ID, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uint) (*calculation.Calculation, error) {
	var c calculation.Calculation

	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get calculation %d: %w", id, err)
	}
	return &c, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]calculation.Calculation, error) {
	return s.List(ctx, Filter{Limit: limit})
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]calculation.Calculation, error) {
	q := s.db.WithContext(ctx).Model(&calculation.Calculation{})
	if f.Operator != "" {
		q = q.Where("operator = ?", f.Operator)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since.UTC())
	}
	if !f.Until.IsZero() {
		q = q.Where("created_at < ?", f.Until.UTC())
	}
	if f.Number != nil {
		n := *f.Number
		q = q.Where("(number1 = ? OR number2 = ? OR number3 = ? OR result = ?)", n, n, n, n)
	}

	var out []calculation.Calculation
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(f.limit()).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
