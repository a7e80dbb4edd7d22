// internal/bc125/settings_test.go
package bc125

import (
	"errors"
	"reflect"
	"testing"
)

func TestSettingNames(t *testing.T) {
	want := []string{
		"backlight",
		"charge_timer",
		"key_beep",
		"priority_mode",
		"scan_channel_group",
		"volume",
		"squelch",
	}
	if got := SettingNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("SettingNames() = %v, want %v", got, want)
	}
}

func TestNewSetting(t *testing.T) {
	for _, name := range SettingNames() {
		setting, ok := NewSetting(name)
		if !ok {
			t.Fatalf("NewSetting(%q) not found", name)
		}
		if setting.Name() != name {
			t.Errorf("NewSetting(%q).Name() = %q", name, setting.Name())
		}
		if setting.Indexed() {
			t.Errorf("setting %q reports Indexed() = true", name)
		}
	}

	// Lookup is case-insensitive.
	if _, ok := NewSetting("VOLUME"); !ok {
		t.Error("NewSetting(\"VOLUME\") not found")
	}
	if _, ok := NewSetting("contrast"); ok {
		t.Error("NewSetting(\"contrast\") found, want miss")
	}
}

func TestSettingWireCommands(t *testing.T) {
	tests := []struct {
		name      string
		setting   Setting
		wantFetch string
		wantWrite string
	}{
		{
			name:      "backlight",
			setting:   &Backlight{Mode: "KS"},
			wantFetch: "BLT",
			wantWrite: "BLT,KS",
		},
		{
			name:      "charge timer",
			setting:   &BatteryChargeTimer{Hours: 14},
			wantFetch: "BSV",
			wantWrite: "BSV,14",
		},
		{
			name:      "key beep muted and locked",
			setting:   &KeyBeep{Level: 99, Lock: true},
			wantFetch: "KBP",
			wantWrite: "KBP,99,1",
		},
		{
			name:      "priority mode",
			setting:   &PriorityMode{Mode: 3},
			wantFetch: "PRI",
			wantWrite: "PRI,3",
		},
		{
			name: "scan channel group",
			setting: &ScanChannelGroup{Enabled: [NumBanks]bool{
				true, false, true, true, true, true, true, true, true, false,
			}},
			wantFetch: "SCG",
			wantWrite: "SCG,0100000001",
		},
		{
			name:      "volume",
			setting:   &Volume{Level: 8},
			wantFetch: "VOL",
			wantWrite: "VOL,8",
		},
		{
			name:      "squelch",
			setting:   &Squelch{Level: 0},
			wantFetch: "SQL",
			wantWrite: "SQL,0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetch, err := tt.setting.FetchCommand()
			if err != nil {
				t.Fatalf("FetchCommand error: %v", err)
			}
			if fetch != tt.wantFetch {
				t.Errorf("FetchCommand = %q, want %q", fetch, tt.wantFetch)
			}

			write, err := tt.setting.WriteCommand()
			if err != nil {
				t.Fatalf("WriteCommand error: %v", err)
			}
			if write != tt.wantWrite {
				t.Errorf("WriteCommand = %q, want %q", write, tt.wantWrite)
			}
		})
	}
}

func TestSettingRejectsIndex(t *testing.T) {
	var v Volume
	if _, err := v.FetchCommand(3); !errors.Is(err, ErrIndexNotApplicable) {
		t.Errorf("FetchCommand(3) error = %v, want ErrIndexNotApplicable", err)
	}
	if _, err := v.WriteCommand(3); !errors.Is(err, ErrIndexNotApplicable) {
		t.Errorf("WriteCommand(3) error = %v, want ErrIndexNotApplicable", err)
	}
}

func TestSettingWriteCommandOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		setting Setting
	}{
		{name: "backlight bad mode", setting: &Backlight{Mode: "ON"}},
		{name: "charge timer zero hours", setting: &BatteryChargeTimer{Hours: 0}},
		{name: "charge timer too long", setting: &BatteryChargeTimer{Hours: 17}},
		{name: "key beep bad level", setting: &KeyBeep{Level: 5}},
		{name: "priority mode too high", setting: &PriorityMode{Mode: 4}},
		{name: "all banks disabled", setting: &ScanChannelGroup{}},
		{name: "volume too loud", setting: &Volume{Level: 16}},
		{name: "squelch negative", setting: &Squelch{Level: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.setting.WriteCommand(); !errors.Is(err, ErrFieldOutOfRange) {
				t.Errorf("WriteCommand error = %v, want ErrFieldOutOfRange", err)
			}
		})
	}
}

func TestSettingParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		setting Setting
		raw     string
		want    Setting
	}{
		{
			name:    "backlight",
			setting: &Backlight{},
			raw:     "BLT,SQ",
			want:    &Backlight{Mode: "SQ"},
		},
		{
			name:    "charge timer",
			setting: &BatteryChargeTimer{},
			raw:     "BSV,16",
			want:    &BatteryChargeTimer{Hours: 16},
		},
		{
			name:    "key beep",
			setting: &KeyBeep{},
			raw:     "KBP,0,0",
			want:    &KeyBeep{Level: 0, Lock: false},
		},
		{
			name:    "priority mode",
			setting: &PriorityMode{},
			raw:     "PRI,0",
			want:    &PriorityMode{Mode: 0},
		},
		{
			name:    "scan channel group",
			setting: &ScanChannelGroup{},
			raw:     "SCG,0111111111",
			want: &ScanChannelGroup{Enabled: [NumBanks]bool{
				true, false, false, false, false, false, false, false, false, false,
			}},
		},
		{
			name:    "volume",
			setting: &Volume{},
			raw:     "VOL,15",
			want:    &Volume{Level: 15},
		},
		{
			name:    "squelch",
			setting: &Squelch{},
			raw:     "SQL,7",
			want:    &Squelch{Level: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.setting.ParseResponse(tt.raw); err != nil {
				t.Fatalf("ParseResponse(%q) error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(tt.setting, tt.want) {
				t.Errorf("ParseResponse(%q) = %+v, want %+v", tt.raw, tt.setting, tt.want)
			}
		})
	}
}

func TestSettingParseResponseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		setting Setting
		raw     string
	}{
		{name: "backlight wrong kind", setting: &Backlight{}, raw: "VOL,5"},
		{name: "backlight unknown mode", setting: &Backlight{}, raw: "BLT,XX"},
		{name: "charge timer out of range", setting: &BatteryChargeTimer{}, raw: "BSV,17"},
		{name: "key beep missing lock", setting: &KeyBeep{}, raw: "KBP,99"},
		{name: "key beep odd level", setting: &KeyBeep{}, raw: "KBP,50,0"},
		{name: "priority mode non-numeric", setting: &PriorityMode{}, raw: "PRI,x"},
		{name: "mask too short", setting: &ScanChannelGroup{}, raw: "SCG,01010"},
		{name: "mask bad digit", setting: &ScanChannelGroup{}, raw: "SCG,0101010102"},
		{name: "volume out of range", setting: &Volume{}, raw: "VOL,16"},
		{name: "squelch extra field", setting: &Squelch{}, raw: "SQL,7,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.setting.ParseResponse(tt.raw); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("ParseResponse(%q) error = %v, want ErrMalformedResponse", tt.raw, err)
			}
		})
	}
}

func TestSettingDictRoundTrip(t *testing.T) {
	settings := []Setting{
		&Backlight{Mode: "AO"},
		&BatteryChargeTimer{Hours: 9},
		&KeyBeep{Level: 99, Lock: true},
		&PriorityMode{Mode: 2},
		&ScanChannelGroup{Enabled: [NumBanks]bool{
			true, true, false, true, true, true, true, true, true, true,
		}},
		&Volume{Level: 11},
		&Squelch{Level: 4},
	}

	for _, original := range settings {
		t.Run(original.Name(), func(t *testing.T) {
			restored, ok := NewSetting(original.Name())
			if !ok {
				t.Fatalf("NewSetting(%q) not found", original.Name())
			}
			if err := restored.FromDict(original.ToDict()); err != nil {
				t.Fatalf("FromDict error: %v", err)
			}
			if !reflect.DeepEqual(restored, original) {
				t.Errorf("dict round trip = %+v, want %+v", restored, original)
			}
		})
	}
}

func TestScanChannelGroupDict(t *testing.T) {
	group := &ScanChannelGroup{Enabled: [NumBanks]bool{
		true, false, true, true, true, true, true, true, true, true,
	}}
	d := group.ToDict()

	if len(d) != NumBanks {
		t.Fatalf("ToDict has %d keys, want %d", len(d), NumBanks)
	}
	if d["bank_1"] != true || d["bank_2"] != false || d["bank_10"] != true {
		t.Errorf("ToDict bank keys wrong: %v", d)
	}

	// Disabling every bank must fail closed.
	for i := FirstBank; i <= NumBanks; i++ {
		d[bankKey(i)] = false
	}
	var restored ScanChannelGroup
	if err := restored.FromDict(d); !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("FromDict with all banks disabled error = %v, want ErrInvalidFieldValue", err)
	}
}

func TestSettingFromDictRejectsBadShapes(t *testing.T) {
	var b Backlight
	if err := b.FromDict(Dict{}); !errors.Is(err, ErrMissingField) {
		t.Errorf("FromDict(empty) error = %v, want ErrMissingField", err)
	}
	if err := b.FromDict(Dict{"mode": "AO", "extra": 1}); !errors.Is(err, ErrUnexpectedField) {
		t.Errorf("FromDict(extra key) error = %v, want ErrUnexpectedField", err)
	}
	if err := b.FromDict(Dict{"mode": 3}); !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("FromDict(wrong type) error = %v, want ErrInvalidFieldValue", err)
	}

	// Mode strings are normalized before validation.
	if err := b.FromDict(Dict{"mode": " ks "}); err != nil {
		t.Fatalf("FromDict(lowercase mode) error: %v", err)
	}
	if b.Mode != "KS" {
		t.Errorf("Mode = %q, want KS", b.Mode)
	}
}
