// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scanner-service/internal/model"
)

// SnapshotRepository persists scanner configuration snapshots.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.StoredSnapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.StoredSnapshot, error)
	List(ctx context.Context, filter *SnapshotFilter) ([]*model.StoredSnapshot, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OperationRepository persists the programming operation audit log.
type OperationRepository interface {
	Create(ctx context.Context, operation *model.Operation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Operation, error)
	Update(ctx context.Context, operation *model.Operation) error
	List(ctx context.Context, filter *OperationFilter) ([]*model.Operation, int, error)
	GetOperationStats(ctx context.Context, filter *OperationFilter) (*OperationStats, error)
	DeleteOldOperations(ctx context.Context, olderThan time.Time) (int64, error)
}

// SnapshotFilter represents snapshot listing filters
type SnapshotFilter struct {
	Model     *string
	Source    *model.SnapshotSource
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

// OperationFilter represents operation listing filters
type OperationFilter struct {
	OperationType *model.OperationType
	Status        *model.OperationStatus
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
	Page          int
	PerPage       int
}

// OperationStats aggregates operation outcomes.
type OperationStats struct {
	TotalOperations int           `json:"total_operations"`
	SuccessfulOps   int           `json:"successful_ops"`
	FailedOps       int           `json:"failed_ops"`
	AvgDuration     time.Duration `json:"avg_duration"`
}
