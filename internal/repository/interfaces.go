package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/loan-engine/internal/domain"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// CalculationRepository defines the interface for calculation data operations
type CalculationRepository interface {
	// Create stores a calculation together with its schedule
	Create(ctx context.Context, calculation *domain.Calculation) error

	// GetByID retrieves a calculation without its schedule
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error)

	// GetScheduleByCalculationID retrieves the schedule ordered by month
	GetScheduleByCalculationID(ctx context.Context, id uuid.UUID) ([]*domain.ScheduleRow, error)

	// DeleteCreatedBefore removes calculations created before cutoff
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CacheRepository defines the interface for cached calculation results
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
