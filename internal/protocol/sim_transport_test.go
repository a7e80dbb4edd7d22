// internal/protocol/sim_transport_test.go
package protocol

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestSimulatedTransportSendEchoes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.log")
	transport := NewSimulatedTransport(path, zap.NewNop())
	ctx := context.Background()

	if err := transport.Open(ctx); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !transport.IsOpen() {
		t.Fatal("IsOpen() = false after Open")
	}

	for _, command := range []string{"PRG", "CIN,1,FIRE1,1542650,FM,128,2,0,1", "EPG"} {
		reply, err := transport.Send(ctx, command)
		if err != nil {
			t.Fatalf("Send(%q) error: %v", command, err)
		}
		if reply != command {
			t.Errorf("Send(%q) reply = %q, want the command echoed", command, reply)
		}
	}

	if err := transport.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if transport.IsOpen() {
		t.Error("IsOpen() = true after Close")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read command log: %v", err)
	}
	want := "PRG\nCIN,1,FIRE1,1542650,FM,128,2,0,1\nEPG\n"
	if string(data) != want {
		t.Errorf("command log = %q, want %q", string(data), want)
	}
}

func TestSimulatedTransportSendBeforeOpen(t *testing.T) {
	transport := NewSimulatedTransport(filepath.Join(t.TempDir(), "commands.log"), zap.NewNop())

	if _, err := transport.Send(context.Background(), "MDL"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Send before Open error = %v, want ErrNotOpen", err)
	}
}

func TestSimulatedTransportReopenTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.log")
	transport := NewSimulatedTransport(path, zap.NewNop())
	ctx := context.Background()

	if err := transport.Open(ctx); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if _, err := transport.Send(ctx, "MDL"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if err := transport.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// A fresh run starts a fresh dump.
	if err := transport.Open(ctx); err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	if _, err := transport.Send(ctx, "VER"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if err := transport.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read command log: %v", err)
	}
	if string(data) != "VER\n" {
		t.Errorf("command log = %q, want %q", string(data), "VER\n")
	}
}

func TestSimulatedTransportStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.log")
	transport := NewSimulatedTransport(path, zap.NewNop())
	ctx := context.Background()

	if err := transport.Open(ctx); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer transport.Close()

	if _, err := transport.Send(ctx, "MDL"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if _, err := transport.Send(ctx, "VOL"); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	stats := transport.Stats()
	if stats.CommandCount != 2 {
		t.Errorf("CommandCount = %d, want 2", stats.CommandCount)
	}
	if stats.BytesWritten != 8 {
		t.Errorf("BytesWritten = %d, want 8", stats.BytesWritten)
	}
	if !stats.IsConnected {
		t.Error("IsConnected = false, want true")
	}
	if stats.LastActivity.IsZero() {
		t.Error("LastActivity not stamped")
	}
}

func TestSimulatedTransportCancelledContext(t *testing.T) {
	transport := NewSimulatedTransport(filepath.Join(t.TempDir(), "commands.log"), zap.NewNop())
	if err := transport.Open(context.Background()); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer transport.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := transport.Send(ctx, "MDL"); !errors.Is(err, context.Canceled) {
		t.Errorf("Send with cancelled context error = %v, want context.Canceled", err)
	}
}
