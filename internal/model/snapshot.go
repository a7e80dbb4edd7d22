// internal/model/snapshot.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotSource records where a stored snapshot came from.
type SnapshotSource string

const (
	SnapshotSourceDevice SnapshotSource = "DEVICE" // read off the scanner
	SnapshotSourceFile   SnapshotSource = "FILE"   // uploaded for import
)

// StoredSnapshot is a persisted scanner configuration image. The full
// document (identity, settings, channels) lives in Data as JSONB; the
// remaining columns exist so snapshots can be listed and filtered
// without unpacking the document.
type StoredSnapshot struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Label        string         `json:"label" db:"label"`
	Model        string         `json:"model" db:"model"`
	Firmware     string         `json:"firmware" db:"firmware"`
	Source       SnapshotSource `json:"source" db:"source"`
	ChannelCount int            `json:"channel_count" db:"channel_count"`
	Data         JSONObject     `json:"data" db:"data"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
