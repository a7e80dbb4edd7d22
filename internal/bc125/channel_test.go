// internal/bc125/channel_test.go
package bc125

import (
	"errors"
	"strings"
	"testing"
)

func TestFreqToWire(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "four decimals", input: "145.5855", expected: "1455855"},
		{name: "three decimals", input: "154.265", expected: "1542650"},
		{name: "whole MHz", input: "462", expected: "4620000"},
		{name: "zero marks empty slot", input: "0", expected: "0"},
		{name: "leading spaces", input: " 25.0 ", expected: "250000"},
		{name: "too many decimals", input: "154.26505", wantErr: true},
		{name: "negative", input: "-154.265", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FreqToWire(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFieldValue) {
					t.Fatalf("FreqToWire(%q) error = %v, want ErrInvalidFieldValue", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FreqToWire(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("FreqToWire(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFreqToMHz(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "trailing zeros trimmed", input: "1542650", expected: "154.265"},
		{name: "all decimals kept", input: "1455855", expected: "145.5855"},
		{name: "whole MHz", input: "4620000", expected: "462"},
		{name: "zero", input: "0", expected: "0"},
		{name: "non-numeric", input: "x", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FreqToMHz(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("FreqToMHz(%q) error = %v, want ErrMalformedResponse", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FreqToMHz(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("FreqToMHz(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFreqRoundTrip(t *testing.T) {
	for _, mhz := range []string{"25", "54", "108.5", "145.5855", "154.265", "380", "462.7125", "512"} {
		wire, err := FreqToWire(mhz)
		if err != nil {
			t.Fatalf("FreqToWire(%q) error: %v", mhz, err)
		}
		back, err := FreqToMHz(wire)
		if err != nil {
			t.Fatalf("FreqToMHz(%q) error: %v", wire, err)
		}
		if back != mhz {
			t.Errorf("round trip %q -> %q -> %q", mhz, wire, back)
		}
	}
}

func TestValidWireFreq(t *testing.T) {
	valid := []int64{0, 250000, 540000, 1080000, 1740000, 2250000, 3800000, 4000000, 5120000, 1455855}
	invalid := []int64{1, 249999, 540001, 1000000, 2000000, 3900000, 5120001}

	for _, v := range valid {
		if !ValidWireFreq(v) {
			t.Errorf("ValidWireFreq(%d) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if ValidWireFreq(v) {
			t.Errorf("ValidWireFreq(%d) = true, want false", v)
		}
	}
}

func validTestChannel() Channel {
	return Channel{
		Name:         "FIRE1",
		FrequencyMHz: "154.265",
		Mode:         ModeFM,
		ToneCode:     128,
		Delay:        2,
		Lockout:      false,
		Priority:     true,
	}
}

func TestChannelWriteCommand(t *testing.T) {
	ch := validTestChannel()
	got, err := ch.WriteCommand(37)
	if err != nil {
		t.Fatalf("WriteCommand error: %v", err)
	}
	want := "CIN,37,FIRE1,1542650,FM,128,2,0,1"
	if got != want {
		t.Errorf("WriteCommand = %q, want %q", got, want)
	}
}

func TestChannelWriteCommandIndexRules(t *testing.T) {
	ch := validTestChannel()
	if _, err := ch.WriteCommand(); !errors.Is(err, ErrIndexRequired) {
		t.Errorf("WriteCommand() error = %v, want ErrIndexRequired", err)
	}
	if _, err := ch.WriteCommand(1, 2); !errors.Is(err, ErrIndexRequired) {
		t.Errorf("WriteCommand(1, 2) error = %v, want ErrIndexRequired", err)
	} else if !strings.Contains(err.Error(), "2 indices") {
		t.Errorf("WriteCommand(1, 2) error %q does not report the index count", err)
	}
	if _, err := ch.WriteCommand(0); !errors.Is(err, ErrFieldOutOfRange) {
		t.Errorf("WriteCommand(0) error = %v, want ErrFieldOutOfRange", err)
	}
	if _, err := ch.WriteCommand(501); !errors.Is(err, ErrFieldOutOfRange) {
		t.Errorf("WriteCommand(501) error = %v, want ErrFieldOutOfRange", err)
	}
}

func TestChannelValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Channel)
	}{
		{name: "name too long", mutate: func(c *Channel) { c.Name = "ABCDEFGHIJKLMNOPQ" }},
		{name: "name with delimiter", mutate: func(c *Channel) { c.Name = "A,B" }},
		{name: "name with CR", mutate: func(c *Channel) { c.Name = "A\rB" }},
		{name: "name with tab", mutate: func(c *Channel) { c.Name = "A\tB" }},
		{name: "name with escape byte", mutate: func(c *Channel) { c.Name = "A\x1bB" }},
		{name: "frequency outside coverage", mutate: func(c *Channel) { c.FrequencyMHz = "88.1" }},
		{name: "bad mode", mutate: func(c *Channel) { c.Mode = "WFM" }},
		{name: "tone outside table", mutate: func(c *Channel) { c.ToneCode = 50 }},
		{name: "bad delay", mutate: func(c *Channel) { c.Delay = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := validTestChannel()
			tt.mutate(&ch)
			if err := ch.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	ch := validTestChannel()
	if err := ch.Validate(); err != nil {
		t.Errorf("Validate() on valid channel: %v", err)
	}

	// Zero frequency marks an unprogrammed slot and is always accepted.
	ch.FrequencyMHz = "0"
	if err := ch.Validate(); err != nil {
		t.Errorf("Validate() with zero frequency: %v", err)
	}
}

func TestChannelFetchCommand(t *testing.T) {
	var ch Channel
	got, err := ch.FetchCommand(500)
	if err != nil {
		t.Fatalf("FetchCommand error: %v", err)
	}
	if got != "CIN,500" {
		t.Errorf("FetchCommand = %q, want %q", got, "CIN,500")
	}
}

func TestChannelParseResponse(t *testing.T) {
	var ch Channel
	if err := ch.ParseResponse("CIN,37,FIRE1,1542650,FM,128,2,0,1"); err != nil {
		t.Fatalf("ParseResponse error: %v", err)
	}

	want := validTestChannel()
	if ch != want {
		t.Errorf("ParseResponse = %+v, want %+v", ch, want)
	}
}

func TestChannelParseResponseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "wrong kind", input: "VOL,5"},
		{name: "missing fields", input: "CIN,37,FIRE1,1542650,FM"},
		{name: "extra field", input: "CIN,37,FIRE1,1542650,FM,128,2,0,1,9"},
		{name: "non-numeric frequency", input: "CIN,37,FIRE1,xx,FM,128,2,0,1"},
		{name: "unknown mode", input: "CIN,37,FIRE1,1542650,WFM,128,2,0,1"},
		{name: "tone outside table fails closed", input: "CIN,37,FIRE1,1542650,FM,50,2,0,1"},
		{name: "bad delay", input: "CIN,37,FIRE1,1542650,FM,128,9,0,1"},
		{name: "non-binary flag", input: "CIN,37,FIRE1,1542650,FM,128,2,2,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ch Channel
			if err := ch.ParseResponse(tt.input); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("ParseResponse(%q) error = %v, want ErrMalformedResponse", tt.input, err)
			}
		})
	}
}

func TestChannelDictRoundTrip(t *testing.T) {
	original := validTestChannel()
	d := original.ToDict()

	if d["tone"] != "D023N" {
		t.Errorf("ToDict tone = %v, want label D023N", d["tone"])
	}

	var restored Channel
	if err := restored.FromDict(d); err != nil {
		t.Fatalf("FromDict error: %v", err)
	}
	if restored != original {
		t.Errorf("dict round trip = %+v, want %+v", restored, original)
	}
}

func TestChannelFromDictCanonicalizesFrequency(t *testing.T) {
	source := validTestChannel()
	d := source.ToDict()
	d["frequency"] = "154.2650"

	var ch Channel
	if err := ch.FromDict(d); err != nil {
		t.Fatalf("FromDict error: %v", err)
	}
	if ch.FrequencyMHz != "154.265" {
		t.Errorf("FrequencyMHz = %q, want canonical %q", ch.FrequencyMHz, "154.265")
	}
}

func TestChannelFromDictNumericToneCompatibility(t *testing.T) {
	source := validTestChannel()
	d := source.ToDict()
	d["tone"] = "128"

	var ch Channel
	if err := ch.FromDict(d); err != nil {
		t.Fatalf("FromDict error: %v", err)
	}
	if ch.ToneCode != 128 {
		t.Errorf("ToneCode = %d, want 128", ch.ToneCode)
	}
}

func TestChannelFromDictRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Dict)
		want   error
	}{
		{name: "missing key", mutate: func(d Dict) { delete(d, "mode") }, want: ErrMissingField},
		{name: "unexpected key", mutate: func(d Dict) { d["extra"] = 1 }, want: ErrUnexpectedField},
		{name: "wrong type", mutate: func(d Dict) { d["delay"] = "two" }, want: ErrInvalidFieldValue},
		{name: "unknown tone", mutate: func(d Dict) { d["tone"] = "D999N" }, want: ErrInvalidFieldValue},
		{name: "invalid field value", mutate: func(d Dict) { d["mode"] = "WFM" }, want: ErrInvalidFieldValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := validTestChannel()
			d := source.ToDict()
			tt.mutate(d)
			var ch Channel
			if err := ch.FromDict(d); !errors.Is(err, tt.want) {
				t.Errorf("FromDict error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChannelFromDictAcceptsJSONNumbers(t *testing.T) {
	// JSON decoding yields float64 for every number.
	source := validTestChannel()
	d := source.ToDict()
	d["delay"] = float64(2)

	var ch Channel
	if err := ch.FromDict(d); err != nil {
		t.Fatalf("FromDict error: %v", err)
	}
	if ch.Delay != 2 {
		t.Errorf("Delay = %d, want 2", ch.Delay)
	}
}
