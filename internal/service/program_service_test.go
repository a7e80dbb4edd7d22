// internal/service/program_service_test.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/bc125"
	"scanner-service/internal/config"
	"scanner-service/internal/discovery"
	"scanner-service/internal/fileio"
	"scanner-service/internal/model"
	"scanner-service/internal/repository"
)

// memSnapshotRepo is an in-memory SnapshotRepository.
type memSnapshotRepo struct {
	mutex     sync.Mutex
	snapshots map[uuid.UUID]*model.StoredSnapshot
}

func newMemSnapshotRepo() *memSnapshotRepo {
	return &memSnapshotRepo{snapshots: make(map[uuid.UUID]*model.StoredSnapshot)}
}

func (r *memSnapshotRepo) Create(ctx context.Context, snapshot *model.StoredSnapshot) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.snapshots[snapshot.ID] = snapshot
	return nil
}

func (r *memSnapshotRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredSnapshot, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	snapshot, ok := r.snapshots[id]
	if !ok {
		return nil, nil
	}
	return snapshot, nil
}

func (r *memSnapshotRepo) List(ctx context.Context, filter *repository.SnapshotFilter) ([]*model.StoredSnapshot, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]*model.StoredSnapshot, 0, len(r.snapshots))
	for _, snapshot := range r.snapshots {
		out = append(out, snapshot)
	}
	return out, len(out), nil
}

func (r *memSnapshotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.snapshots, id)
	return nil
}

// memOperationRepo is an in-memory OperationRepository that keeps the
// final state of every operation it saw.
type memOperationRepo struct {
	mutex      sync.Mutex
	operations map[uuid.UUID]*model.Operation
	order      []uuid.UUID
}

func newMemOperationRepo() *memOperationRepo {
	return &memOperationRepo{operations: make(map[uuid.UUID]*model.Operation)}
}

func (r *memOperationRepo) Create(ctx context.Context, operation *model.Operation) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	saved := *operation
	r.operations[operation.ID] = &saved
	r.order = append(r.order, operation.ID)
	return nil
}

func (r *memOperationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Operation, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.operations[id], nil
}

func (r *memOperationRepo) Update(ctx context.Context, operation *model.Operation) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	saved := *operation
	r.operations[operation.ID] = &saved
	return nil
}

func (r *memOperationRepo) List(ctx context.Context, filter *repository.OperationFilter) ([]*model.Operation, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]*model.Operation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.operations[id])
	}
	return out, len(out), nil
}

func (r *memOperationRepo) GetOperationStats(ctx context.Context, filter *repository.OperationFilter) (*repository.OperationStats, error) {
	return &repository.OperationStats{}, nil
}

func (r *memOperationRepo) DeleteOldOperations(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

func (r *memOperationRepo) last(t *testing.T) *model.Operation {
	t.Helper()
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if len(r.order) == 0 {
		t.Fatal("no operation recorded")
	}
	return r.operations[r.order[len(r.order)-1]]
}

// capturingPublisher collects published events.
type capturingPublisher struct {
	mutex  sync.Mutex
	events []*model.ScannerEvent
}

func (p *capturingPublisher) Publish(event *model.ScannerEvent) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) types() []model.EventType {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	out := make([]model.EventType, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.EventType)
	}
	return out
}

type programServiceFixture struct {
	service    *ProgramService
	operations *memOperationRepo
	snapshots  *memSnapshotRepo
	events     *capturingPublisher
	logPath    string
}

// newProgramServiceFixture builds a service over the simulated transport,
// which echoes every command into a log file.
func newProgramServiceFixture(t *testing.T) *programServiceFixture {
	t.Helper()

	logPath := filepath.Join(t.TempDir(), "commands.log")
	cfg := &config.Config{}
	cfg.Scanner.Simulated = true
	cfg.Scanner.SimulatedLogPath = logPath
	cfg.Scanner.OperationTimeout = 30 * time.Second

	operations := newMemOperationRepo()
	snapshots := newMemSnapshotRepo()
	events := &capturingPublisher{}
	logger := zap.NewNop()

	service := NewProgramService(
		snapshots,
		operations,
		discovery.NewFinder(logger),
		cfg,
		events,
		logger,
	)
	return &programServiceFixture{
		service:    service,
		operations: operations,
		snapshots:  snapshots,
		events:     events,
		logPath:    logPath,
	}
}

func (f *programServiceFixture) commandLog(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.logPath)
	if err != nil {
		t.Fatalf("read command log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestProgramServiceWriteChannel(t *testing.T) {
	f := newProgramServiceFixture(t)

	data := bc125.Dict{
		"name": "FIRE1", "frequency": "154.265", "mode": "FM",
		"tone": "D023N", "delay": 2, "lockout": false, "priority": true,
	}
	op, err := f.service.WriteChannel(context.Background(), 37, data)
	if err != nil {
		t.Fatalf("WriteChannel error: %v", err)
	}
	if op.Status != model.OperationStatusSuccess {
		t.Errorf("Status = %s, want SUCCESS", op.Status)
	}
	if op.OperationType != model.OperationTypeWriteChannel {
		t.Errorf("OperationType = %s", op.OperationType)
	}
	if op.CompletedAt == nil || op.DurationMs == nil {
		t.Error("completion fields not stamped")
	}

	// Program mode brackets the write.
	want := []string{"PRG", "CIN,37,FIRE1,1542650,FM,128,2,0,1", "EPG"}
	got := f.commandLog(t)
	if len(got) != len(want) {
		t.Fatalf("command log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command log[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	saved := f.operations.last(t)
	if saved.Status != model.OperationStatusSuccess {
		t.Errorf("recorded Status = %s, want SUCCESS", saved.Status)
	}
}

func TestProgramServiceWriteChannelRejectsBadInput(t *testing.T) {
	f := newProgramServiceFixture(t)
	ctx := context.Background()

	valid := bc125.Dict{
		"name": "FIRE1", "frequency": "154.265", "mode": "FM",
		"tone": "NONE", "delay": 2, "lockout": false, "priority": false,
	}
	if _, err := f.service.WriteChannel(ctx, 501, valid); err == nil {
		t.Error("WriteChannel(501) = nil, want error")
	}

	bad := bc125.Dict{"name": "FIRE1"}
	if _, err := f.service.WriteChannel(ctx, 1, bad); err == nil {
		t.Error("WriteChannel with incomplete dict = nil, want error")
	}

	// Input validation happens before any session is opened.
	if len(f.operations.order) != 0 {
		t.Errorf("recorded %d operations, want 0", len(f.operations.order))
	}
}

func TestProgramServiceDeleteChannel(t *testing.T) {
	f := newProgramServiceFixture(t)

	op, err := f.service.DeleteChannel(context.Background(), 100)
	if err != nil {
		t.Fatalf("DeleteChannel error: %v", err)
	}
	if op.Status != model.OperationStatusSuccess {
		t.Errorf("Status = %s, want SUCCESS", op.Status)
	}

	got := f.commandLog(t)
	if len(got) != 3 || got[1] != "DCH,100" {
		t.Errorf("command log = %v, want PRG, DCH,100, EPG", got)
	}
}

func TestProgramServiceWriteSetting(t *testing.T) {
	f := newProgramServiceFixture(t)

	op, err := f.service.WriteSetting(context.Background(), "volume", bc125.Dict{"level": 9})
	if err != nil {
		t.Fatalf("WriteSetting error: %v", err)
	}
	if op.OperationType != model.OperationTypeWriteSetting {
		t.Errorf("OperationType = %s", op.OperationType)
	}

	got := f.commandLog(t)
	if len(got) != 3 || got[1] != "VOL,9" {
		t.Errorf("command log = %v, want PRG, VOL,9, EPG", got)
	}
}

func TestProgramServiceWriteSettingUnknownName(t *testing.T) {
	f := newProgramServiceFixture(t)

	if _, err := f.service.WriteSetting(context.Background(), "contrast", bc125.Dict{"level": 1}); err == nil {
		t.Error("WriteSetting(contrast) = nil, want error")
	}
	if len(f.operations.order) != 0 {
		t.Errorf("recorded %d operations, want 0", len(f.operations.order))
	}
}

func TestProgramServiceClearBank(t *testing.T) {
	f := newProgramServiceFixture(t)

	op, err := f.service.ClearBank(context.Background(), 2)
	if err != nil {
		t.Fatalf("ClearBank error: %v", err)
	}
	if op.Result["channels_cleared"] != bc125.ChannelsPerBank {
		t.Errorf("channels_cleared = %v, want %d", op.Result["channels_cleared"], bc125.ChannelsPerBank)
	}

	got := f.commandLog(t)
	// PRG + 50 deletes + EPG
	if len(got) != bc125.ChannelsPerBank+2 {
		t.Fatalf("command log has %d lines, want %d", len(got), bc125.ChannelsPerBank+2)
	}
	if got[1] != "DCH,51" || got[bc125.ChannelsPerBank] != "DCH,100" {
		t.Errorf("bank walk starts %q ends %q, want DCH,51 .. DCH,100", got[1], got[bc125.ChannelsPerBank])
	}

	if _, err := f.service.ClearBank(context.Background(), 11); err == nil {
		t.Error("ClearBank(11) = nil, want error")
	}
}

func TestProgramServiceClearAllMemory(t *testing.T) {
	f := newProgramServiceFixture(t)

	op, err := f.service.ClearAllMemory(context.Background())
	if err != nil {
		t.Fatalf("ClearAllMemory error: %v", err)
	}
	if op.OperationType != model.OperationTypeClearAll {
		t.Errorf("OperationType = %s", op.OperationType)
	}

	got := f.commandLog(t)
	if len(got) != 3 || got[1] != "CLR" {
		t.Errorf("command log = %v, want PRG, CLR, EPG", got)
	}
}

func TestProgramServiceUnlock(t *testing.T) {
	f := newProgramServiceFixture(t)

	op, err := f.service.Unlock(context.Background())
	if err != nil {
		t.Fatalf("Unlock error: %v", err)
	}
	if op.OperationType != model.OperationTypeUnlock {
		t.Errorf("OperationType = %s", op.OperationType)
	}

	// Unlock never enters program mode; it only issues the release.
	got := f.commandLog(t)
	if len(got) != 1 || got[0] != "EPG" {
		t.Errorf("command log = %v, want a single EPG", got)
	}
}

func TestProgramServiceShell(t *testing.T) {
	f := newProgramServiceFixture(t)

	reply, err := f.service.Shell(context.Background(), "WX")
	if err != nil {
		t.Fatalf("Shell error: %v", err)
	}
	// The simulated transport echoes the command as its reply.
	if reply != "WX" {
		t.Errorf("Shell reply = %q, want WX", reply)
	}

	saved := f.operations.last(t)
	if saved.OperationType != model.OperationTypeShell {
		t.Errorf("OperationType = %s", saved.OperationType)
	}
	if saved.Result["reply"] != "WX" {
		t.Errorf("recorded reply = %v", saved.Result["reply"])
	}
}

func TestProgramServiceImport(t *testing.T) {
	f := newProgramServiceFixture(t)

	snap := fileio.NewSnapshot("BC125AT", "Version 1.06.06")
	snap.Settings["volume"] = bc125.Dict{"level": 10}
	snap.Settings["squelch"] = bc125.Dict{"level": 3}
	snap.Channels = append(snap.Channels,
		fileio.ChannelRecord{Index: 1, Data: bc125.Dict{
			"name": "FIRE1", "frequency": "154.265", "mode": "FM",
			"tone": "D023N", "delay": 2, "lockout": false, "priority": true,
		}},
		fileio.ChannelRecord{Index: 51, Data: bc125.Dict{
			"name": "EMS", "frequency": "155.34", "mode": "FM",
			"tone": "NONE", "delay": 2, "lockout": false, "priority": false,
		}},
	)

	op, err := f.service.Import(context.Background(), snap)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if op.Status != model.OperationStatusSuccess {
		t.Errorf("Status = %s, want SUCCESS", op.Status)
	}
	if op.Result["items_written"] != 4 {
		t.Errorf("items_written = %v, want 4", op.Result["items_written"])
	}

	// Settings go first, then channels, all inside one program-mode bracket.
	want := []string{
		"PRG",
		"VOL,10",
		"SQL,3",
		"CIN,1,FIRE1,1542650,FM,128,2,0,1",
		"CIN,51,EMS,1553400,FM,0,2,0,0",
		"EPG",
	}
	got := f.commandLog(t)
	if len(got) != len(want) {
		t.Fatalf("command log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command log[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProgramServiceImportAbortsOnBadRecord(t *testing.T) {
	f := newProgramServiceFixture(t)

	snap := fileio.NewSnapshot("BC125AT", "Version 1.06.06")
	snap.Channels = append(snap.Channels,
		fileio.ChannelRecord{Index: 1, Data: bc125.Dict{
			"name": "OK", "frequency": "154.265", "mode": "FM",
			"tone": "NONE", "delay": 2, "lockout": false, "priority": false,
		}},
		fileio.ChannelRecord{Index: 2, Data: bc125.Dict{
			"name": "BAD", "frequency": "88.1", "mode": "FM",
			"tone": "NONE", "delay": 2, "lockout": false, "priority": false,
		}},
		fileio.ChannelRecord{Index: 3, Data: bc125.Dict{
			"name": "NEVER", "frequency": "154.28", "mode": "FM",
			"tone": "NONE", "delay": 2, "lockout": false, "priority": false,
		}},
	)

	_, err := f.service.Import(context.Background(), snap)
	if err == nil {
		t.Fatal("Import with bad record = nil, want error")
	}
	if !strings.Contains(err.Error(), "index 2") {
		t.Errorf("error %q does not name the failing index", err)
	}

	// The record before the failure stays written, the ones after never go out.
	got := f.commandLog(t)
	if len(got) != 3 || !strings.HasPrefix(got[1], "CIN,1,") || got[2] != "EPG" {
		t.Errorf("command log = %v, want PRG, CIN,1, EPG", got)
	}

	saved := f.operations.last(t)
	if saved.Status != model.OperationStatusFailed {
		t.Errorf("recorded Status = %s, want FAILED", saved.Status)
	}
}

func TestProgramServiceExportChannelsAbortsOnBadReply(t *testing.T) {
	f := newProgramServiceFixture(t)

	// The simulated echo of a channel fetch has no payload, so the first
	// slot read fails to parse and the export must return nothing.
	records, err := f.service.ExportChannels(context.Background())
	if err == nil {
		t.Fatal("ExportChannels over simulated transport = nil, want error")
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error %q does not name the failing index", err)
	}
	if records != nil {
		t.Errorf("records = %v, want nil on abort", records)
	}
}

func TestProgramServiceFailureIsAudited(t *testing.T) {
	f := newProgramServiceFixture(t)

	// The simulated echo of MDL has no payload field, so the identity
	// read cannot parse and the operation must fail.
	if _, err := f.service.Info(context.Background()); err == nil {
		t.Fatal("Info over simulated transport = nil, want error")
	}

	saved := f.operations.last(t)
	if saved.Status != model.OperationStatusFailed {
		t.Errorf("recorded Status = %s, want FAILED", saved.Status)
	}
	if saved.ErrorMessage == nil || *saved.ErrorMessage == "" {
		t.Error("recorded ErrorMessage empty")
	}

	types := f.events.types()
	if len(types) < 2 || types[0] != model.EventOperationStarted || types[len(types)-1] != model.EventOperationFailed {
		t.Errorf("event sequence = %v, want started .. failed", types)
	}
}

func TestProgramServicePublishesLifecycleEvents(t *testing.T) {
	f := newProgramServiceFixture(t)

	if _, err := f.service.DeleteChannel(context.Background(), 1); err != nil {
		t.Fatalf("DeleteChannel error: %v", err)
	}

	types := f.events.types()
	if len(types) != 2 {
		t.Fatalf("event types = %v, want started and completed", types)
	}
	if types[0] != model.EventOperationStarted || types[1] != model.EventOperationCompleted {
		t.Errorf("event sequence = %v", types)
	}
}
