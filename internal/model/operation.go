// internal/model/operation.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// OperationType represents the type of operation
type OperationType string

const (
	OperationTypeExportAll      OperationType = "EXPORT_ALL"
	OperationTypeExportChannels OperationType = "EXPORT_CHANNELS"
	OperationTypeImport         OperationType = "IMPORT"
	OperationTypeReadChannel    OperationType = "READ_CHANNEL"
	OperationTypeWriteChannel   OperationType = "WRITE_CHANNEL"
	OperationTypeReadSetting    OperationType = "READ_SETTING"
	OperationTypeWriteSetting   OperationType = "WRITE_SETTING"
	OperationTypeClearBank      OperationType = "CLEAR_BANK"
	OperationTypeClearAll       OperationType = "CLEAR_ALL"
	OperationTypeUnlock         OperationType = "UNLOCK"
	OperationTypeInfo           OperationType = "INFO"
	OperationTypeTest           OperationType = "TEST"
	OperationTypeShell          OperationType = "SHELL"
)

// OperationStatus represents the status of an operation
type OperationStatus string

const (
	OperationStatusProcessing OperationStatus = "PROCESSING"
	OperationStatusSuccess    OperationStatus = "SUCCESS"
	OperationStatusPartial    OperationStatus = "PARTIAL" // completed with per-item failures
	OperationStatusFailed     OperationStatus = "FAILED"
)

// Operation is the persisted record of one programming-session
// operation against the scanner.
type Operation struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OperationType OperationType   `json:"operation_type" db:"operation_type"`
	Status        OperationStatus `json:"status" db:"status"`
	Port          string          `json:"port" db:"port"`
	Detail        JSONObject      `json:"detail" db:"detail"`
	Result        JSONObject      `json:"result" db:"result"`
	SnapshotID    *uuid.UUID      `json:"snapshot_id" db:"snapshot_id"`
	StartedAt     time.Time       `json:"started_at" db:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at" db:"completed_at"`
	DurationMs    *int            `json:"duration_ms" db:"duration_ms"`
	ErrorMessage  *string         `json:"error_message" db:"error_message"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// IsCompleted checks if the operation has reached a terminal status.
func (op *Operation) IsCompleted() bool {
	return op.Status == OperationStatusSuccess ||
		op.Status == OperationStatusPartial ||
		op.Status == OperationStatusFailed
}
