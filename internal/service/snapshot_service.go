// internal/service/snapshot_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/fileio"
	"scanner-service/internal/model"
	"scanner-service/internal/repository"
	"scanner-service/internal/utils"
)

// SnapshotService manages stored snapshots and their file renditions.
type SnapshotService struct {
	snapshotRepo repository.SnapshotRepository
	logger       *utils.ServiceLogger
}

// NewSnapshotService creates a new snapshot service instance
func NewSnapshotService(snapshotRepo repository.SnapshotRepository, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		snapshotRepo: snapshotRepo,
		logger:       utils.NewServiceLogger(logger, "snapshot-service"),
	}
}

// List retrieves stored snapshots with filtering and pagination.
func (ss *SnapshotService) List(ctx context.Context, filter *repository.SnapshotFilter) ([]*model.StoredSnapshot, *PaginationResult, error) {
	snapshots, total, err := ss.snapshotRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
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

	return snapshots, pagination, nil
}

// Get retrieves one stored snapshot.
func (ss *SnapshotService) Get(ctx context.Context, id uuid.UUID) (*model.StoredSnapshot, error) {
	return ss.snapshotRepo.GetByID(ctx, id)
}

// Delete removes a stored snapshot.
func (ss *SnapshotService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ss.snapshotRepo.Delete(ctx, id); err != nil {
		return err
	}
	ss.logger.Info("Snapshot deleted", zap.String("snapshot_id", id.String()))
	return nil
}

// Document unpacks a stored snapshot back into its file form.
func (ss *SnapshotService) Document(ctx context.Context, id uuid.UUID) (*fileio.Snapshot, error) {
	stored, err := ss.snapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return documentFromJSON(stored.Data)
}

// WriteJSON streams a stored snapshot as its JSON file form.
func (ss *SnapshotService) WriteJSON(ctx context.Context, id uuid.UUID, w io.Writer) error {
	snap, err := ss.Document(ctx, id)
	if err != nil {
		return err
	}
	return fileio.EncodeSnapshot(w, snap)
}

// WriteCSV streams a stored snapshot's channels as the CSV table form.
func (ss *SnapshotService) WriteCSV(ctx context.Context, id uuid.UUID, w io.Writer) error {
	snap, err := ss.Document(ctx, id)
	if err != nil {
		return err
	}
	return fileio.WriteChannelCSV(w, snap.Channels)
}

// StoreDocument persists an uploaded snapshot document for later import.
func (ss *SnapshotService) StoreDocument(ctx context.Context, label string, snap *fileio.Snapshot) (*model.StoredSnapshot, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	var doc model.JSONObject
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	stored := &model.StoredSnapshot{
		ID:           uuid.New(),
		Label:        label,
		Model:        snap.Model,
		Firmware:     snap.Firmware,
		Source:       model.SnapshotSourceFile,
		ChannelCount: len(snap.Channels),
		Data:         doc,
		CreatedAt:    snap.CreatedAt,
	}
	if err := ss.snapshotRepo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	ss.logger.Info("Snapshot stored",
		zap.String("snapshot_id", stored.ID.String()),
		zap.String("source", string(stored.Source)),
		zap.Int("channel_count", stored.ChannelCount),
	)
	return stored, nil
}

// documentFromJSON rebuilds the file form from the JSONB column. Going
// through the JSON text keeps one set of decoding rules.
func documentFromJSON(data model.JSONObject) (*fileio.Snapshot, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode stored snapshot: %w", err)
	}
	var snap fileio.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode stored snapshot: %w", err)
	}
	return &snap, nil
}
