// internal/fileio/snapshot.go
package fileio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"scanner-service/internal/bc125"
)

// FormatVersion identifies the snapshot file layout.
const FormatVersion = 1

// ChannelRecord pairs a channel's dictionary form with the slot it was
// read from. The index lives here, never inside the dictionary.
type ChannelRecord struct {
	Index int        `json:"index"`
	Data  bc125.Dict `json:"data"`
}

// Snapshot is the full on-disk image of a scanner: identity, every
// global setting and every programmed channel slot.
type Snapshot struct {
	FormatVersion int                   `json:"format_version"`
	Model         string                `json:"model"`
	Firmware      string                `json:"firmware"`
	CreatedAt     time.Time             `json:"created_at"`
	Settings      map[string]bc125.Dict `json:"settings"`
	Channels      []ChannelRecord       `json:"channels"`
}

// NewSnapshot returns an empty snapshot stamped with the current format
// version and time.
func NewSnapshot(model, firmware string) *Snapshot {
	return &Snapshot{
		FormatVersion: FormatVersion,
		Model:         model,
		Firmware:      firmware,
		CreatedAt:     time.Now().UTC(),
		Settings:      make(map[string]bc125.Dict),
		Channels:      make([]ChannelRecord, 0, bc125.NumChannels),
	}
}

// EncodeSnapshot writes the snapshot as indented JSON.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads and structurally validates a snapshot document.
// Field values are not validated here; the import pipeline does that
// through each object's FromDict.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot format version %d", snap.FormatVersion)
	}
	seen := make(map[int]bool, len(snap.Channels))
	for _, record := range snap.Channels {
		if !bc125.ValidChannelIndex(record.Index) {
			return nil, fmt.Errorf("%w: snapshot channel index %d", bc125.ErrFieldOutOfRange, record.Index)
		}
		if seen[record.Index] {
			return nil, fmt.Errorf("duplicate snapshot channel index %d", record.Index)
		}
		seen[record.Index] = true
	}
	return &snap, nil
}

// WriteSnapshotFile writes the snapshot to a file.
func WriteSnapshotFile(path string, snap *Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer file.Close()
	return EncodeSnapshot(file, snap)
}

// ReadSnapshotFile reads a snapshot from a file.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()
	return DecodeSnapshot(file)
}
