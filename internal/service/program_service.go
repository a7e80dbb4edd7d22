// internal/service/program_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/bc125"
	"scanner-service/internal/config"
	"scanner-service/internal/discovery"
	"scanner-service/internal/fileio"
	"scanner-service/internal/model"
	"scanner-service/internal/protocol"
	"scanner-service/internal/repository"
	"scanner-service/internal/utils"
)

// EventPublisher pushes service events to subscribers. Implemented by
// the WebSocket event bus.
type EventPublisher interface {
	Publish(event *model.ScannerEvent)
}

// ProgramService drives programming sessions against the scanner and
// records every operation in the audit log. Sessions are exclusive: the
// command protocol is strictly request/reply over one port, so only one
// operation runs at a time.
type ProgramService struct {
	snapshotRepo  repository.SnapshotRepository
	operationRepo repository.OperationRepository
	finder        *discovery.Finder
	config        *config.Config
	logger        *utils.ServiceLogger
	events        EventPublisher
	mutex         sync.Mutex
}

// NewProgramService creates a new program service instance
func NewProgramService(
	snapshotRepo repository.SnapshotRepository,
	operationRepo repository.OperationRepository,
	finder *discovery.Finder,
	config *config.Config,
	events EventPublisher,
	logger *zap.Logger,
) *ProgramService {
	return &ProgramService{
		snapshotRepo:  snapshotRepo,
		operationRepo: operationRepo,
		finder:        finder,
		config:        config,
		logger:        utils.NewServiceLogger(logger, "program-service"),
		events:        events,
	}
}

// sessionFunc runs inside an open session. It may fill op.Result and
// downgrade op.Status to PARTIAL; any error marks the operation FAILED.
type sessionFunc func(ctx context.Context, session *bc125.Session, op *model.Operation) error

// runOperation owns the full lifecycle of one operation: exclusive
// session, transport setup, program mode entry/exit, audit record,
// events. Program mode is always released through the tolerant write so
// a failed operation cannot leave the scanner wedged.
func (ps *ProgramService) runOperation(
	ctx context.Context,
	opType model.OperationType,
	detail model.JSONObject,
	programMode bool,
	fn sessionFunc,
) (*model.Operation, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	transport, port, err := ps.openTransport(ctx)
	if err != nil {
		return nil, err
	}

	op := &model.Operation{
		ID:            uuid.New(),
		OperationType: opType,
		Status:        model.OperationStatusProcessing,
		Port:          port,
		Detail:        detail,
		StartedAt:     time.Now(),
	}
	if err := ps.operationRepo.Create(ctx, op); err != nil {
		ps.logger.Error("Failed to record operation start", zap.Error(err))
	}

	opLogger := utils.NewOperationLogger(ps.logger.Logger, string(opType), op.ID.String())
	opLogger.Start(zap.String("port", port))
	ps.publishOperationEvent(model.EventOperationStarted, op, "INFO")

	runErr := func() error {
		opCtx, cancel := context.WithTimeout(ctx, ps.config.Scanner.OperationTimeout)
		defer cancel()

		if err := transport.Open(opCtx); err != nil {
			return fmt.Errorf("open transport on %s: %w", port, err)
		}
		defer transport.Close()

		session := bc125.NewSession(transport, ps.logger.Logger)

		if programMode {
			if err := session.Write(opCtx, bc125.NewEnterProgramMode()); err != nil {
				return fmt.Errorf("enter program mode: %w", err)
			}
			defer session.WriteTolerant(opCtx, bc125.NewExitProgramMode())
		}

		return fn(opCtx, session, op)
	}()

	now := time.Now()
	duration := int(now.Sub(op.StartedAt).Milliseconds())
	op.CompletedAt = &now
	op.DurationMs = &duration

	if runErr != nil {
		op.Status = model.OperationStatusFailed
		message := runErr.Error()
		op.ErrorMessage = &message
		opLogger.Error(runErr)
		ps.publishOperationEvent(model.EventOperationFailed, op, "ERROR")
	} else {
		if op.Status == model.OperationStatusProcessing {
			op.Status = model.OperationStatusSuccess
		}
		opLogger.Success(zap.String("status", string(op.Status)))
		ps.publishOperationEvent(model.EventOperationCompleted, op, "INFO")
	}

	if err := ps.operationRepo.Update(ctx, op); err != nil {
		ps.logger.Error("Failed to record operation completion", zap.Error(err))
	}

	return op, runErr
}

// openTransport picks the transport per configuration: the simulated
// command log, a configured port, or the best discovered candidate.
func (ps *ProgramService) openTransport(ctx context.Context) (protocol.Transport, string, error) {
	if ps.config.Scanner.Simulated {
		path := ps.config.Scanner.SimulatedLogPath
		return protocol.NewSimulatedTransport(path, ps.logger.Logger), "simulated:" + path, nil
	}

	port := ps.config.Scanner.Port
	if port == "" {
		discovered, err := ps.finder.BestPort(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("port discovery failed: %w", err)
		}
		if discovered == "" {
			return nil, "", fmt.Errorf("no scanner port found; connect the scanner or set scanner.port")
		}
		port = discovered
	}

	serialConfig := &protocol.SerialConfig{
		Port:     port,
		BaudRate: ps.config.Scanner.BaudRate,
		DataBits: ps.config.Scanner.DataBits,
		StopBits: ps.config.Scanner.StopBits,
		Parity:   ps.config.Scanner.Parity,
		Timeout:  ps.config.Scanner.Timeout,
	}
	return protocol.NewSerialTransport(serialConfig, ps.logger.Logger), port, nil
}

func (ps *ProgramService) publishOperationEvent(eventType model.EventType, op *model.Operation, severity string) {
	if ps.events == nil {
		return
	}
	data := model.JSONObject{
		"operation_id":   op.ID.String(),
		"operation_type": op.OperationType,
		"status":         op.Status,
		"port":           op.Port,
	}
	if op.DurationMs != nil {
		data["duration_ms"] = *op.DurationMs
	}
	if op.ErrorMessage != nil {
		data["error_message"] = *op.ErrorMessage
	}
	ps.events.Publish(&model.ScannerEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Data:      data,
		Timestamp: time.Now(),
		Source:    "program-service",
		Severity:  severity,
	})
}

func (ps *ProgramService) publishProgress(op *model.Operation, done, total int, item string) {
	if ps.events == nil {
		return
	}
	ps.events.Publish(&model.ScannerEvent{
		ID:        uuid.New(),
		EventType: model.EventOperationProgress,
		Data: model.JSONObject{
			"operation_id": op.ID.String(),
			"done":         done,
			"total":        total,
			"current_item": item,
		},
		Timestamp: time.Now(),
		Source:    "program-service",
		Severity:  "INFO",
	})
}

// readIdentity fetches the model and firmware strings.
func readIdentity(ctx context.Context, session *bc125.Session) (string, string, error) {
	var deviceModel bc125.DeviceModel
	if err := session.Fetch(ctx, &deviceModel); err != nil {
		return "", "", fmt.Errorf("read model: %w", err)
	}
	var firmware bc125.FirmwareVersion
	if err := session.Fetch(ctx, &firmware); err != nil {
		return "", "", fmt.Errorf("read firmware: %w", err)
	}
	return deviceModel.Model, firmware.Version, nil
}

// InfoResult carries the scanner's identity.
type InfoResult struct {
	Model    string `json:"model"`
	Firmware string `json:"firmware"`
	Port     string `json:"port"`
}

// Info reads the scanner's model and firmware version. Identity queries
// work outside program mode.
func (ps *ProgramService) Info(ctx context.Context) (*InfoResult, error) {
	result := &InfoResult{}
	op, err := ps.runOperation(ctx, model.OperationTypeInfo, nil, false,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			deviceModel, firmware, err := readIdentity(ctx, session)
			if err != nil {
				return err
			}
			result.Model = deviceModel
			result.Firmware = firmware
			op.Result = model.JSONObject{"model": deviceModel, "firmware": firmware}
			return nil
		})
	if err != nil {
		return nil, err
	}
	result.Port = op.Port
	return result, nil
}

// TestResult reports a connectivity check.
type TestResult struct {
	Success      bool   `json:"success"`
	Port         string `json:"port"`
	Model        string `json:"model,omitempty"`
	Duration     string `json:"duration"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Test checks that a scanner answers on the port. Failures are reported
// in the result rather than as an error.
func (ps *ProgramService) Test(ctx context.Context) (*TestResult, error) {
	startTime := time.Now()
	result := &TestResult{}
	op, err := ps.runOperation(ctx, model.OperationTypeTest, nil, false,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			var deviceModel bc125.DeviceModel
			if err := session.Fetch(ctx, &deviceModel); err != nil {
				return err
			}
			result.Model = deviceModel.Model
			op.Result = model.JSONObject{"model": deviceModel.Model}
			return nil
		})
	result.Duration = time.Since(startTime).String()
	if op != nil {
		result.Port = op.Port
	}
	if err != nil {
		result.Success = false
		result.ErrorMessage = err.Error()
		return result, nil
	}
	result.Success = true
	return result, nil
}

// ExportAll reads the complete scanner state into a stored snapshot:
// identity, every setting, every channel slot. Per-item failures are
// recorded and the export continues; the operation finishes PARTIAL
// when any item failed.
func (ps *ProgramService) ExportAll(ctx context.Context, label string) (*model.StoredSnapshot, error) {
	var stored *model.StoredSnapshot

	_, err := ps.runOperation(ctx, model.OperationTypeExportAll, model.JSONObject{"label": label}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			deviceModel, firmware, err := readIdentity(ctx, session)
			if err != nil {
				return err
			}

			snap := fileio.NewSnapshot(deviceModel, firmware)
			failures := []model.JSONObject{}

			settingNames := bc125.SettingNames()
			total := len(settingNames) + bc125.NumChannels
			done := 0

			for _, name := range settingNames {
				setting, _ := bc125.NewSetting(name)
				if err := session.Fetch(ctx, setting); err != nil {
					failures = append(failures, model.JSONObject{"kind": string(setting.Kind()), "item": name, "error": err.Error()})
				} else {
					snap.Settings[name] = setting.ToDict()
				}
				done++
				ps.publishProgress(op, done, total, name)
			}

			for index := bc125.FirstChannel; index <= bc125.NumChannels; index++ {
				var channel bc125.Channel
				if err := session.Fetch(ctx, &channel, index); err != nil {
					failures = append(failures, model.JSONObject{"kind": string(bc125.KindChannel), "index": index, "error": err.Error()})
				} else {
					snap.Channels = append(snap.Channels, fileio.ChannelRecord{Index: index, Data: channel.ToDict()})
				}
				done++
				if done%50 == 0 || done == total {
					ps.publishProgress(op, done, total, fmt.Sprintf("channel %d", index))
				}
			}

			stored = &model.StoredSnapshot{
				ID:           uuid.New(),
				Label:        label,
				Model:        deviceModel,
				Firmware:     firmware,
				Source:       model.SnapshotSourceDevice,
				ChannelCount: len(snap.Channels),
				Data:         snapshotToJSON(snap),
				CreatedAt:    time.Now(),
			}
			if err := ps.snapshotRepo.Create(ctx, stored); err != nil {
				return fmt.Errorf("store snapshot: %w", err)
			}

			snapshotID := stored.ID
			op.SnapshotID = &snapshotID
			op.Result = model.JSONObject{
				"snapshot_id":   stored.ID.String(),
				"channel_count": stored.ChannelCount,
				"failures":      failures,
			}
			if len(failures) > 0 {
				op.Status = model.OperationStatusPartial
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ExportChannels reads every channel slot. Unlike the full export, any
// read failure aborts with the failing index in the error.
func (ps *ProgramService) ExportChannels(ctx context.Context) ([]fileio.ChannelRecord, error) {
	var records []fileio.ChannelRecord

	_, err := ps.runOperation(ctx, model.OperationTypeExportChannels, nil, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			records = make([]fileio.ChannelRecord, 0, bc125.NumChannels)
			for index := bc125.FirstChannel; index <= bc125.NumChannels; index++ {
				var channel bc125.Channel
				if err := session.Fetch(ctx, &channel, index); err != nil {
					return fmt.Errorf("%s index %d: %w", bc125.KindChannel, index, err)
				}
				records = append(records, fileio.ChannelRecord{Index: index, Data: channel.ToDict()})
				if index%50 == 0 || index == bc125.NumChannels {
					ps.publishProgress(op, index, bc125.NumChannels, fmt.Sprintf("channel %d", index))
				}
			}
			op.Result = model.JSONObject{"channel_count": len(records)}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Import programs the scanner from a snapshot document: settings first,
// then channels. The first failure aborts the import with kind and
// index context; slots and settings already written stay written.
func (ps *ProgramService) Import(ctx context.Context, snap *fileio.Snapshot) (*model.Operation, error) {
	detail := model.JSONObject{
		"model":         snap.Model,
		"channel_count": len(snap.Channels),
	}
	return ps.runOperation(ctx, model.OperationTypeImport, detail, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			total := len(snap.Settings) + len(snap.Channels)
			done := 0

			for _, name := range bc125.SettingNames() {
				dict, ok := snap.Settings[name]
				if !ok {
					continue
				}
				setting, _ := bc125.NewSetting(name)
				if err := setting.FromDict(dict); err != nil {
					return fmt.Errorf("%s: %w", setting.Kind(), err)
				}
				if err := session.Write(ctx, setting); err != nil {
					return fmt.Errorf("%s: %w", setting.Kind(), err)
				}
				done++
				ps.publishProgress(op, done, total, name)
			}

			for _, record := range snap.Channels {
				var channel bc125.Channel
				if err := channel.FromDict(record.Data); err != nil {
					return fmt.Errorf("%s index %d: %w", bc125.KindChannel, record.Index, err)
				}
				if err := session.Write(ctx, &channel, record.Index); err != nil {
					return fmt.Errorf("%s index %d: %w", bc125.KindChannel, record.Index, err)
				}
				done++
				if done%50 == 0 || done == total {
					ps.publishProgress(op, done, total, fmt.Sprintf("channel %d", record.Index))
				}
			}

			op.Result = model.JSONObject{"items_written": done}
			return nil
		})
}

// ImportChannels programs channel slots only, aborting on the first
// failure.
func (ps *ProgramService) ImportChannels(ctx context.Context, records []fileio.ChannelRecord) (*model.Operation, error) {
	detail := model.JSONObject{"channel_count": len(records)}
	return ps.runOperation(ctx, model.OperationTypeImport, detail, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			for n, record := range records {
				var channel bc125.Channel
				if err := channel.FromDict(record.Data); err != nil {
					return fmt.Errorf("%s index %d: %w", bc125.KindChannel, record.Index, err)
				}
				if err := session.Write(ctx, &channel, record.Index); err != nil {
					return fmt.Errorf("%s index %d: %w", bc125.KindChannel, record.Index, err)
				}
				if (n+1)%50 == 0 || n+1 == len(records) {
					ps.publishProgress(op, n+1, len(records), fmt.Sprintf("channel %d", record.Index))
				}
			}
			op.Result = model.JSONObject{"items_written": len(records)}
			return nil
		})
}

// ReadChannel reads one channel slot.
func (ps *ProgramService) ReadChannel(ctx context.Context, index int) (bc125.Dict, error) {
	if !bc125.ValidChannelIndex(index) {
		return nil, fmt.Errorf("%w: channel index %d", bc125.ErrFieldOutOfRange, index)
	}
	var dict bc125.Dict
	_, err := ps.runOperation(ctx, model.OperationTypeReadChannel, model.JSONObject{"index": index}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			var channel bc125.Channel
			if err := session.Fetch(ctx, &channel, index); err != nil {
				return err
			}
			dict = channel.ToDict()
			op.Result = model.JSONObject(dict)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return dict, nil
}

// WriteChannel programs one channel slot from its dictionary form.
func (ps *ProgramService) WriteChannel(ctx context.Context, index int, data bc125.Dict) (*model.Operation, error) {
	if !bc125.ValidChannelIndex(index) {
		return nil, fmt.Errorf("%w: channel index %d", bc125.ErrFieldOutOfRange, index)
	}
	var channel bc125.Channel
	if err := channel.FromDict(data); err != nil {
		return nil, err
	}
	return ps.runOperation(ctx, model.OperationTypeWriteChannel, model.JSONObject{"index": index}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			return session.Write(ctx, &channel, index)
		})
}

// DeleteChannel clears one channel slot.
func (ps *ProgramService) DeleteChannel(ctx context.Context, index int) (*model.Operation, error) {
	if !bc125.ValidChannelIndex(index) {
		return nil, fmt.Errorf("%w: channel index %d", bc125.ErrFieldOutOfRange, index)
	}
	return ps.runOperation(ctx, model.OperationTypeWriteChannel, model.JSONObject{"index": index, "delete": true}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			return session.Write(ctx, &bc125.DeleteChannel{}, index)
		})
}

// ReadSetting reads one global setting by name.
func (ps *ProgramService) ReadSetting(ctx context.Context, name string) (bc125.Dict, error) {
	setting, ok := bc125.NewSetting(name)
	if !ok {
		return nil, fmt.Errorf("unknown setting: %s", name)
	}
	var dict bc125.Dict
	_, err := ps.runOperation(ctx, model.OperationTypeReadSetting, model.JSONObject{"setting": setting.Name()}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			if err := session.Fetch(ctx, setting); err != nil {
				return err
			}
			dict = setting.ToDict()
			op.Result = model.JSONObject(dict)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return dict, nil
}

// WriteSetting programs one global setting from its dictionary form.
func (ps *ProgramService) WriteSetting(ctx context.Context, name string, data bc125.Dict) (*model.Operation, error) {
	setting, ok := bc125.NewSetting(name)
	if !ok {
		return nil, fmt.Errorf("unknown setting: %s", name)
	}
	if err := setting.FromDict(data); err != nil {
		return nil, err
	}
	return ps.runOperation(ctx, model.OperationTypeWriteSetting, model.JSONObject{"setting": setting.Name()}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			return session.Write(ctx, setting)
		})
}

// ClearBank wipes one bank by deleting each of its channel slots. The
// device has no bank-granular wipe command, so the bank's index range
// is walked with per-slot deletes; a failure aborts mid-bank.
func (ps *ProgramService) ClearBank(ctx context.Context, bank int) (*model.Operation, error) {
	if !bc125.ValidBankNumber(bank) {
		return nil, fmt.Errorf("%w: bank %d", bc125.ErrFieldOutOfRange, bank)
	}
	return ps.runOperation(ctx, model.OperationTypeClearBank, model.JSONObject{"bank": bank}, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			first, last := bc125.BankRange(bank)
			for index := first; index <= last; index++ {
				if err := session.Write(ctx, &bc125.DeleteChannel{}, index); err != nil {
					return fmt.Errorf("%s index %d: %w", bc125.KindDeleteChannel, index, err)
				}
			}
			op.Result = model.JSONObject{"channels_cleared": last - first + 1}
			return nil
		})
}

// ClearAllMemory factory-resets the scanner's memory.
func (ps *ProgramService) ClearAllMemory(ctx context.Context) (*model.Operation, error) {
	return ps.runOperation(ctx, model.OperationTypeClearAll, nil, true,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			return session.Write(ctx, bc125.NewClearAllMemory())
		})
}

// Unlock recovers a scanner wedged in program mode by a dead session.
// The release is sent with rejected replies tolerated, so unlocking an
// already-unlocked scanner succeeds.
func (ps *ProgramService) Unlock(ctx context.Context) (*model.Operation, error) {
	return ps.runOperation(ctx, model.OperationTypeUnlock, nil, false,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			return session.WriteTolerant(ctx, &bc125.Unlock{})
		})
}

// Shell sends one raw command line and returns the raw reply. No
// rejection check: the caller sees exactly what the scanner said.
func (ps *ProgramService) Shell(ctx context.Context, command string) (string, error) {
	var reply string
	_, err := ps.runOperation(ctx, model.OperationTypeShell, model.JSONObject{"command": command}, false,
		func(ctx context.Context, session *bc125.Session, op *model.Operation) error {
			r, err := session.Execute(ctx, command)
			if err != nil {
				return err
			}
			reply = r
			op.Result = model.JSONObject{"reply": r}
			return nil
		})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// snapshotToJSON flattens a snapshot document into the JSONB column
// shape.
func snapshotToJSON(snap *fileio.Snapshot) model.JSONObject {
	settings := make(map[string]interface{}, len(snap.Settings))
	for name, dict := range snap.Settings {
		settings[name] = map[string]interface{}(dict)
	}
	channels := make([]interface{}, 0, len(snap.Channels))
	for _, record := range snap.Channels {
		channels = append(channels, map[string]interface{}{
			"index": record.Index,
			"data":  map[string]interface{}(record.Data),
		})
	}
	return model.JSONObject{
		"format_version": snap.FormatVersion,
		"model":          snap.Model,
		"firmware":       snap.Firmware,
		"created_at":     snap.CreatedAt,
		"settings":       settings,
		"channels":       channels,
	}
}
