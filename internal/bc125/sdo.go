// internal/bc125/sdo.go
package bc125

import (
	"fmt"
	"strconv"
	"strings"
)

// A scanner data object (SDO) maps one addressable unit of scanner state
// to the text commands that fetch or write it, and to a generic dictionary
// used by the file import/export pipeline. The wire grammar is positional:
// comma-delimited ASCII fields, the first always the kind identifier, the
// second the index for index-addressed kinds, the rest the field values in
// a fixed kind-specific order shared by write commands and responses.

// Delimiter separates fields of a command or response.
const Delimiter = ","

// Kind identifies a concrete SDO variant. It doubles as the wire command
// identifier.
type Kind string

const (
	KindDeviceModel      Kind = "MDL"
	KindFirmwareVersion  Kind = "VER"
	KindChannel          Kind = "CIN"
	KindDeleteChannel    Kind = "DCH"
	KindBacklight        Kind = "BLT"
	KindChargeTimer      Kind = "BSV"
	KindKeyBeep          Kind = "KBP"
	KindPriorityMode     Kind = "PRI"
	KindScanChannelGroup Kind = "SCG"
	KindVolume           Kind = "VOL"
	KindSquelch          Kind = "SQL"
	KindClearMemory      Kind = "CLR"
	KindEnterProgram     Kind = "PRG"
	KindExitProgram      Kind = "EPG"
)

// Dict is the interchange representation used by file encoders. Keys are
// field names; values are strings, integers or booleans. An SDO's index is
// never part of its Dict — the pipeline carries it separately.
type Dict map[string]interface{}

// Object is implemented by every SDO variant.
type Object interface {
	// Kind returns the variant's kind tag.
	Kind() Kind
	// Indexed reports whether the variant is index-addressed.
	Indexed() bool
}

// Fetcher is implemented by variants that can be read from the scanner.
// FetchCommand and ParseResponse are always paired: anything fetchable
// must be able to decode the scanner's reply.
type Fetcher interface {
	Object
	FetchCommand(index ...int) (string, error)
	ParseResponse(raw string) error
}

// Writer is implemented by variants that can be programmed to the scanner.
type Writer interface {
	Object
	WriteCommand(index ...int) (string, error)
}

// DictConverter is implemented by variants that participate in file
// import/export. ToDict and FromDict are always paired.
type DictConverter interface {
	Object
	ToDict() Dict
	FromDict(d Dict) error
}

// resolveIndex enforces the index addressing rules: an index-addressed
// kind requires exactly one index, a non-indexed kind forbids any.
func resolveIndex(o Object, index []int) (int, error) {
	if o.Indexed() {
		switch len(index) {
		case 1:
			return index[0], nil
		case 0:
			return 0, fmt.Errorf("%w: %s", ErrIndexRequired, o.Kind())
		default:
			return 0, fmt.Errorf("%w: %s: got %d indices, want exactly one", ErrIndexRequired, o.Kind(), len(index))
		}
	}
	if len(index) != 0 {
		return 0, fmt.Errorf("%w: %s", ErrIndexNotApplicable, o.Kind())
	}
	return 0, nil
}

// joinCommand builds a command string from a kind identifier and
// positional fields.
func joinCommand(kind Kind, fields ...string) string {
	if len(fields) == 0 {
		return string(kind)
	}
	return string(kind) + Delimiter + strings.Join(fields, Delimiter)
}

// splitResponse validates a raw reply against the expected kind and
// positional arity, and returns the positional values. The reply echoes
// the kind identifier first; arity counts the fields after it.
func splitResponse(expected Kind, arity int, raw string) ([]string, error) {
	parts := strings.Split(strings.TrimRight(raw, "\r\n"), Delimiter)
	if Kind(parts[0]) != expected {
		return nil, fmt.Errorf("%w: %s: got kind identifier %q", ErrMalformedResponse, expected, parts[0])
	}
	if len(parts)-1 != arity {
		return nil, fmt.Errorf("%w: %s: got %d fields, want %d", ErrMalformedResponse, expected, len(parts)-1, arity)
	}
	return parts[1:], nil
}

// requireKeys checks that a dictionary's key set exactly matches the
// variant's declared field set.
func requireKeys(kind Kind, d Dict, keys ...string) error {
	for _, key := range keys {
		if _, ok := d[key]; !ok {
			return fmt.Errorf("%w: %s: %q", ErrMissingField, kind, key)
		}
	}
	if len(d) != len(keys) {
		declared := make(map[string]bool, len(keys))
		for _, key := range keys {
			declared[key] = true
		}
		for key := range d {
			if !declared[key] {
				return fmt.Errorf("%w: %s: %q", ErrUnexpectedField, kind, key)
			}
		}
	}
	return nil
}

// dictString coerces a dictionary value to a string.
func dictString(kind Kind, d Dict, key string) (string, error) {
	switch v := d[key].(type) {
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s: %q must be a string", ErrInvalidFieldValue, kind, key)
	}
}

// dictInt coerces a dictionary value to an int. JSON decoding yields
// float64 for numbers, so whole floats are accepted.
func dictInt(kind Kind, d Dict, key string) (int, error) {
	switch v := d[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %s: %q must be an integer", ErrInvalidFieldValue, kind, key)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s: %q must be an integer", ErrInvalidFieldValue, kind, key)
	}
}

// dictBool coerces a dictionary value to a bool.
func dictBool(kind Kind, d Dict, key string) (bool, error) {
	switch v := d[key].(type) {
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("%w: %s: %q must be a boolean", ErrInvalidFieldValue, kind, key)
	}
}

// parseWireInt decodes a positional integer value from a response.
func parseWireInt(kind Kind, field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: non-numeric %s %q", ErrMalformedResponse, kind, field, raw)
	}
	return v, nil
}

// parseWireFlag decodes a 0/1 positional flag from a response.
func parseWireFlag(kind Kind, field, raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s: %s must be 0 or 1, got %q", ErrMalformedResponse, kind, field, raw)
	}
}

// flagField encodes a boolean as the wire 0/1 form.
func flagField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
