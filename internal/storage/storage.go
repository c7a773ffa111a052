// Package storage persists match recommendations.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/matchmaker/internal/models"
)

// ErrNotFound is returned when a recommendation does not exist.
var ErrNotFound = errors.New("recommendation not found")

// RecommendationStore is the persistence contract the matching engine depends on.
// Implementations must keep at most one recommendation per (rfqID, supplierID) pair:
// creating an existing pair returns the stored record unchanged.
type RecommendationStore interface {
	GetSupplierRecommendations(ctx context.Context, rfqID string) ([]*models.Recommendation, error)
	CreateSupplierRecommendation(ctx context.Context, input *models.RecommendationInput) (*models.Recommendation, error)
}

// Storage is a RecommendationStore with lookup and stats operations for the service surface.
type Storage interface {
	RecommendationStore

	GetRecommendation(ctx context.Context, id string) (*models.Recommendation, error)
	ListRecommendations(ctx context.Context, offset, limit int) ([]*models.Recommendation, error)

	// Stats
	CountRecommendations(ctx context.Context) (int64, error)
	CountRFQs(ctx context.Context) (int64, error)

	Close() error
}

// Driver identifies a storage backend.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// New opens the storage backend named by driver. path is ignored for the memory driver.
func New(driver Driver, path string) (Storage, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLiteStorage(path)
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

func validateInput(input *models.RecommendationInput) error {
	if input == nil {
		return fmt.Errorf("recommendation input is nil")
	}
	if input.RFQID == "" || input.SupplierID == "" {
		return fmt.Errorf("rfq id and supplier id are required")
	}
	if input.MatchScore < 0 || input.MatchScore > 1 {
		return fmt.Errorf("match score %f out of range [0,1]", input.MatchScore)
	}
	return nil
}
