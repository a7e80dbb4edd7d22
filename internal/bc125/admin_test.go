// internal/bc125/admin_test.go
package bc125

import (
	"errors"
	"testing"
)

func TestActionWireCommands(t *testing.T) {
	tests := []struct {
		name     string
		writer   Writer
		expected string
	}{
		{name: "enter program mode", writer: NewEnterProgramMode(), expected: "PRG"},
		{name: "exit program mode", writer: NewExitProgramMode(), expected: "EPG"},
		{name: "clear all memory", writer: NewClearAllMemory(), expected: "CLR"},
		{name: "unlock", writer: &Unlock{}, expected: "EPG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.writer.WriteCommand()
			if err != nil {
				t.Fatalf("WriteCommand error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("WriteCommand = %q, want %q", got, tt.expected)
			}
			if tt.writer.Indexed() {
				t.Error("action reports Indexed() = true")
			}
			if _, err := tt.writer.WriteCommand(1); !errors.Is(err, ErrIndexNotApplicable) {
				t.Errorf("WriteCommand(1) error = %v, want ErrIndexNotApplicable", err)
			}
		})
	}
}

func TestDeleteChannelWireCommand(t *testing.T) {
	var d DeleteChannel
	got, err := d.WriteCommand(100)
	if err != nil {
		t.Fatalf("WriteCommand error: %v", err)
	}
	if got != "DCH,100" {
		t.Errorf("WriteCommand = %q, want DCH,100", got)
	}

	if _, err := d.WriteCommand(); !errors.Is(err, ErrIndexRequired) {
		t.Errorf("WriteCommand() error = %v, want ErrIndexRequired", err)
	}
	for _, index := range []int{0, 501} {
		if _, err := d.WriteCommand(index); !errors.Is(err, ErrFieldOutOfRange) {
			t.Errorf("WriteCommand(%d) error = %v, want ErrFieldOutOfRange", index, err)
		}
	}
}

func TestDeviceIdentityParse(t *testing.T) {
	var model DeviceModel
	if cmd, err := model.FetchCommand(); err != nil || cmd != "MDL" {
		t.Fatalf("FetchCommand = %q, %v", cmd, err)
	}
	if err := model.ParseResponse("MDL,BC125AT"); err != nil {
		t.Fatalf("ParseResponse error: %v", err)
	}
	if model.Model != "BC125AT" {
		t.Errorf("Model = %q, want BC125AT", model.Model)
	}

	var version FirmwareVersion
	if cmd, err := version.FetchCommand(); err != nil || cmd != "VER" {
		t.Fatalf("FetchCommand = %q, %v", cmd, err)
	}
	if err := version.ParseResponse("VER,Version 1.06.06"); err != nil {
		t.Fatalf("ParseResponse error: %v", err)
	}
	if version.Version != "Version 1.06.06" {
		t.Errorf("Version = %q", version.Version)
	}

	if err := model.ParseResponse("VER,x"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("ParseResponse(wrong kind) error = %v, want ErrMalformedResponse", err)
	}
}
