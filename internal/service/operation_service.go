// internal/service/operation_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/model"
	"scanner-service/internal/repository"
	"scanner-service/internal/utils"
)

// OperationService exposes the programming operation audit log.
type OperationService struct {
	operationRepo repository.OperationRepository
	logger        *utils.ServiceLogger
}

// NewOperationService creates a new operation service instance
func NewOperationService(operationRepo repository.OperationRepository, logger *zap.Logger) *OperationService {
	return &OperationService{
		operationRepo: operationRepo,
		logger:        utils.NewServiceLogger(logger, "operation-service"),
	}
}

// PaginationResult represents pagination information
type PaginationResult struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// List retrieves operations with filtering and pagination.
func (os *OperationService) List(ctx context.Context, filter *repository.OperationFilter) ([]*model.Operation, *PaginationResult, error) {
	operations, total, err := os.operationRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list operations: %w", err)
	}

	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &PaginationResult{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}

	return operations, pagination, nil
}

// Get retrieves one operation record.
func (os *OperationService) Get(ctx context.Context, id uuid.UUID) (*model.Operation, error) {
	return os.operationRepo.GetByID(ctx, id)
}

// Stats aggregates operation outcomes over the filter window.
func (os *OperationService) Stats(ctx context.Context, filter *repository.OperationFilter) (*repository.OperationStats, error) {
	return os.operationRepo.GetOperationStats(ctx, filter)
}

// Cleanup removes operation records older than the retention window.
func (os *OperationService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := os.operationRepo.DeleteOldOperations(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		os.logger.Info("Operation log cleaned up", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}
