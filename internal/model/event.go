// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventScannerConnected    EventType = "SCANNER_CONNECTED"
	EventScannerDisconnected EventType = "SCANNER_DISCONNECTED"
	EventOperationStarted    EventType = "OPERATION_STARTED"
	EventOperationProgress   EventType = "OPERATION_PROGRESS"
	EventOperationCompleted  EventType = "OPERATION_COMPLETED"
	EventOperationFailed     EventType = "OPERATION_FAILED"
)

// ScannerEvent represents an event pushed to WebSocket subscribers.
type ScannerEvent struct {
	ID        uuid.UUID  `json:"id"`
	EventType EventType  `json:"event_type"`
	Data      JSONObject `json:"data"`
	Timestamp time.Time  `json:"timestamp"`
	Source    string     `json:"source"`
	Severity  string     `json:"severity"` // INFO, WARNING, ERROR
}

// OperationEventData represents operation-related events
type OperationEventData struct {
	OperationID   uuid.UUID       `json:"operation_id"`
	OperationType OperationType   `json:"operation_type"`
	Status        OperationStatus `json:"status"`
	Duration      *int            `json:"duration_ms,omitempty"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
}

// ProgressEventData reports bulk operation progress, one tick per
// completed item.
type ProgressEventData struct {
	OperationID uuid.UUID `json:"operation_id"`
	Done        int       `json:"done"`
	Total       int       `json:"total"`
	CurrentItem string    `json:"current_item"`
}
