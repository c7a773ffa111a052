package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/matchmaker/internal/models"
)

// busyTimeoutMs lets a second process (CLI next to a running server) wait for the write lock.
const busyTimeoutMs = 5000

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=%d", dbPath, busyTimeoutMs))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers inside this process and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		rfq_id TEXT NOT NULL,
		supplier_id TEXT NOT NULL,
		match_score REAL NOT NULL,
		match_reason TEXT NOT NULL,
		recommended BOOLEAN NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (rfq_id, supplier_id)
	);

	CREATE INDEX IF NOT EXISTS idx_recommendations_rfq_id ON recommendations(rfq_id);
	CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const recommendationColumns = `id, rfq_id, supplier_id, match_score, match_reason, recommended, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := row.Scan(&rec.ID, &rec.RFQID, &rec.SupplierID, &rec.MatchScore,
		&rec.MatchReason, &rec.Recommended, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateSupplierRecommendation inserts a recommendation unless one already exists for the
// pair, then returns the stored row. When two callers race on the same pair both receive the
// winner's record.
func (s *SQLiteStorage) CreateSupplierRecommendation(ctx context.Context, input *models.RecommendationInput) (*models.Recommendation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recommendations (`+recommendationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (rfq_id, supplier_id) DO NOTHING`,
		uuid.NewString(), input.RFQID, input.SupplierID, input.MatchScore,
		input.MatchReason, input.Recommended, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recommendation: %w", err)
	}

	rec, err := s.getByPair(ctx, input.RFQID, input.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back recommendation: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStorage) getByPair(ctx context.Context, rfqID, supplierID string) (*models.Recommendation, error) {
	rec, err := scanRecommendation(s.db.QueryRowContext(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations WHERE rfq_id = ? AND supplier_id = ?`,
		rfqID, supplierID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rfq %s supplier %s: %w", rfqID, supplierID, ErrNotFound)
	}
	return rec, err
}

// GetSupplierRecommendations returns every stored recommendation for an RFQ, best score first.
func (s *SQLiteStorage) GetSupplierRecommendations(ctx context.Context, rfqID string) ([]*models.Recommendation, error) {
	return s.query(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations
		 WHERE rfq_id = ? ORDER BY match_score DESC, created_at, supplier_id`,
		rfqID,
	)
}

// GetRecommendation returns a recommendation by ID.
func (s *SQLiteStorage) GetRecommendation(ctx context.Context, id string) (*models.Recommendation, error) {
	rec, err := scanRecommendation(s.db.QueryRowContext(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recommendation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecommendations returns recommendations with offset and limit, newest first.
func (s *SQLiteStorage) ListRecommendations(ctx context.Context, offset, limit int) ([]*models.Recommendation, error) {
	return s.query(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

func (s *SQLiteStorage) query(ctx context.Context, query string, args ...any) ([]*models.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]*models.Recommendation, 0)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountRecommendations returns the total number of recommendations.
func (s *SQLiteStorage) CountRecommendations(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendations`).Scan(&count)
	return count, err
}

// CountRFQs returns the number of distinct RFQs with at least one recommendation.
func (s *SQLiteStorage) CountRFQs(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT rfq_id) FROM recommendations`).Scan(&count)
	return count, err
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
