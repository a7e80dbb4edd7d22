// internal/repository/operation_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/database"
	"scanner-service/internal/model"
)

// operationRepository implements OperationRepository interface
type operationRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *database.DB, logger *zap.Logger) OperationRepository {
	return &operationRepository{
		db:     db,
		logger: logger,
	}
}

const operationColumns = `id, operation_type, status, port, detail, result,
	snapshot_id, started_at, completed_at, duration_ms, error_message, created_at`

// Create creates a new operation record
func (r *operationRepository) Create(ctx context.Context, operation *model.Operation) error {
	query := `
		INSERT INTO operations (
			id, operation_type, status, port, detail, result, snapshot_id, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		operation.ID, operation.OperationType, operation.Status, operation.Port,
		operation.Detail, operation.Result, operation.SnapshotID, operation.StartedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create operation", zap.Error(err))
		return fmt.Errorf("failed to create operation: %w", err)
	}

	return nil
}

// GetByID retrieves an operation by ID
func (r *operationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Operation, error) {
	query := fmt.Sprintf(`SELECT %s FROM operations WHERE id = $1`, operationColumns)

	operation := &model.Operation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&operation.ID, &operation.OperationType, &operation.Status, &operation.Port,
		&operation.Detail, &operation.Result, &operation.SnapshotID,
		&operation.StartedAt, &operation.CompletedAt, &operation.DurationMs,
		&operation.ErrorMessage, &operation.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("operation not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}

	return operation, nil
}

// Update updates an existing operation
func (r *operationRepository) Update(ctx context.Context, operation *model.Operation) error {
	query := `
		UPDATE operations SET
			status = $2, result = $3, snapshot_id = $4, completed_at = $5,
			duration_ms = $6, error_message = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		operation.ID, operation.Status, operation.Result, operation.SnapshotID,
		operation.CompletedAt, operation.DurationMs, operation.ErrorMessage,
	)

	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("operation not found with id: %s", operation.ID)
	}

	return nil
}

// List retrieves operations with filtering and pagination
func (r *operationRepository) List(ctx context.Context, filter *OperationFilter) ([]*model.Operation, int, error) {
	whereClause, args, argIndex := buildOperationWhere(filter)

	// Count total records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM operations %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count operations: %w", err)
	}

	// Build ORDER BY clause; the sort column is validated against a
	// fixed set since it cannot be a bind parameter
	orderBy := "started_at DESC"
	if filter.SortBy != "" {
		switch filter.SortBy {
		case "started_at", "completed_at", "duration_ms", "operation_type", "status":
		default:
			return nil, 0, fmt.Errorf("invalid sort column: %s", filter.SortBy)
		}
		order := "ASC"
		if strings.EqualFold(filter.SortOrder, "desc") {
			order = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s", filter.SortBy, order)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	query := fmt.Sprintf(`
		SELECT %s FROM operations %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, operationColumns, whereClause, orderBy, argIndex, argIndex+1)

	args = append(args, perPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	operations := []*model.Operation{}
	for rows.Next() {
		operation := &model.Operation{}
		err := rows.Scan(
			&operation.ID, &operation.OperationType, &operation.Status, &operation.Port,
			&operation.Detail, &operation.Result, &operation.SnapshotID,
			&operation.StartedAt, &operation.CompletedAt, &operation.DurationMs,
			&operation.ErrorMessage, &operation.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan operation row", zap.Error(err))
			continue
		}
		operations = append(operations, operation)
	}

	return operations, total, nil
}

// GetOperationStats retrieves operation statistics
func (r *operationRepository) GetOperationStats(ctx context.Context, filter *OperationFilter) (*OperationStats, error) {
	whereClause, args, _ := buildOperationWhere(filter)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total_operations,
			COUNT(CASE WHEN status = 'SUCCESS' THEN 1 END) as successful_ops,
			COUNT(CASE WHEN status = 'FAILED' THEN 1 END) as failed_ops,
			AVG(duration_ms) as avg_duration_ms
		FROM operations %s
	`, whereClause)

	stats := &OperationStats{}
	var avgDurationMs sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalOperations,
		&stats.SuccessfulOps,
		&stats.FailedOps,
		&avgDurationMs,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get operation stats: %w", err)
	}

	if avgDurationMs.Valid {
		stats.AvgDuration = time.Duration(avgDurationMs.Float64) * time.Millisecond
	}

	return stats, nil
}

// DeleteOldOperations removes old operation records
func (r *operationRepository) DeleteOldOperations(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM operations WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old operations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Info("Deleted old operations",
		zap.Int64("rows_deleted", rowsAffected),
		zap.Time("older_than", olderThan),
	)

	return rowsAffected, nil
}

// buildOperationWhere assembles the WHERE clause shared by List and
// GetOperationStats.
func buildOperationWhere(filter *OperationFilter) (string, []interface{}, int) {
	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.OperationType != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("operation_type = $%d", argIndex))
		args = append(args, *filter.OperationType)
		argIndex++
	}

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.StartDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *filter.EndDate)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	return whereClause, args, argIndex
}
