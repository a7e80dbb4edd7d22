// internal/repository/snapshot_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/database"
	"scanner-service/internal/model"
)

// snapshotRepository implements SnapshotRepository interface
type snapshotRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB, logger *zap.Logger) SnapshotRepository {
	return &snapshotRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new snapshot
func (r *snapshotRepository) Create(ctx context.Context, snapshot *model.StoredSnapshot) error {
	query := `
		INSERT INTO snapshots (
			id, label, model, firmware, source, channel_count, data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.Label, snapshot.Model, snapshot.Firmware,
		snapshot.Source, snapshot.ChannelCount, snapshot.Data, snapshot.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create snapshot", zap.Error(err))
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	return nil
}

// GetByID retrieves a snapshot by ID
func (r *snapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredSnapshot, error) {
	query := `
		SELECT id, label, model, firmware, source, channel_count, data, created_at
		FROM snapshots WHERE id = $1
	`

	snapshot := &model.StoredSnapshot{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&snapshot.ID, &snapshot.Label, &snapshot.Model, &snapshot.Firmware,
		&snapshot.Source, &snapshot.ChannelCount, &snapshot.Data, &snapshot.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("snapshot not found with id: %s", id)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// List retrieves snapshots with filtering and pagination
func (r *snapshotRepository) List(ctx context.Context, filter *SnapshotFilter) ([]*model.StoredSnapshot, int, error) {
	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Model != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("model = $%d", argIndex))
		args = append(args, *filter.Model)
		argIndex++
	}

	if filter.Source != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("source = $%d", argIndex))
		args = append(args, *filter.Source)
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

	// Count total records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM snapshots %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count snapshots: %w", err)
	}

	// Build main query with pagination
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
		SELECT id, label, model, firmware, source, channel_count, data, created_at
		FROM snapshots %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, perPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*model.StoredSnapshot{}
	for rows.Next() {
		snapshot := &model.StoredSnapshot{}
		err := rows.Scan(
			&snapshot.ID, &snapshot.Label, &snapshot.Model, &snapshot.Firmware,
			&snapshot.Source, &snapshot.ChannelCount, &snapshot.Data, &snapshot.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan snapshot row", zap.Error(err))
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, total, nil
}

// Delete removes a snapshot
func (r *snapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM snapshots WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("snapshot not found with id: %s", id)
	}

	return nil
}
