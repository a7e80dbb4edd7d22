// internal/bc125/channel.go
package bc125

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Channel modes supported by the receiver.
const (
	ModeAuto = "AUTO"
	ModeAM   = "AM"
	ModeFM   = "FM"
	ModeNFM  = "NFM"
)

// Delay settings the scanner accepts, in seconds. Negative values mean
// "resume after N seconds even if the transmission continues".
var validDelays = []int{-10, -5, 0, 1, 2, 3, 4, 5}

// MaxNameLength is the channel name limit imposed by the firmware.
const MaxNameLength = 16

// Receiver coverage bands, in wire frequency units (MHz * 10^4). Zero
// marks an unprogrammed slot and is accepted everywhere.
var freqBands = [][2]int64{
	{250000, 540000},   // 25–54 MHz
	{1080000, 1740000}, // 108–174 MHz
	{2250000, 3800000}, // 225–380 MHz
	{4000000, 5120000}, // 400–512 MHz
}

// FreqToWire converts a decimal MHz string to the scanner's wire form,
// an integer count of 100 Hz steps ("145.5855" -> "1455855").
func FreqToWire(mhz string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(mhz))
	if err != nil {
		return "", fmt.Errorf("%w: frequency %q", ErrInvalidFieldValue, mhz)
	}
	scaled := d.Shift(4)
	if !scaled.IsInteger() || scaled.IsNegative() {
		return "", fmt.Errorf("%w: frequency %q", ErrInvalidFieldValue, mhz)
	}
	return scaled.String(), nil
}

// FreqToMHz converts the wire form back to a decimal MHz string with
// trailing zeros trimmed ("1542650" -> "154.265").
func FreqToMHz(wire string) (string, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(wire), 10, 64)
	if err != nil || v < 0 {
		return "", fmt.Errorf("%w: CIN: non-numeric frequency %q", ErrMalformedResponse, wire)
	}
	whole := v / 10000
	frac := strings.TrimRight(fmt.Sprintf("%04d", v%10000), "0")
	if frac == "" {
		return strconv.FormatInt(whole, 10), nil
	}
	return fmt.Sprintf("%d.%s", whole, frac), nil
}

// ValidWireFreq reports whether a wire frequency is zero or inside one of
// the receiver's coverage bands.
func ValidWireFreq(v int64) bool {
	if v == 0 {
		return true
	}
	for _, band := range freqBands {
		if v >= band[0] && v <= band[1] {
			return true
		}
	}
	return false
}

// Channel is one memory slot: name, frequency, modulation, tone squelch,
// resume delay and the lockout/priority flags. It is index-addressed over
// the full channel range; the index is supplied per call and is not part
// of the channel's own state.
type Channel struct {
	Name         string
	FrequencyMHz string
	Mode         string
	ToneCode     int
	Delay        int
	Lockout      bool
	Priority     bool
}

// channel wire arity: index + name, frequency, mode, tone, delay,
// lockout, priority.
const channelArity = 8

func (c *Channel) Kind() Kind    { return KindChannel }
func (c *Channel) Indexed() bool { return true }

// Validate runs every field's domain check. It is called eagerly before
// any command string is produced.
func (c *Channel) Validate() error {
	if len(c.Name) > MaxNameLength {
		return fmt.Errorf("%w: CIN: name %q exceeds %d characters", ErrFieldOutOfRange, c.Name, MaxNameLength)
	}
	if strings.Contains(c.Name, Delimiter) || strings.ContainsFunc(c.Name, unicode.IsControl) {
		return fmt.Errorf("%w: CIN: name %q contains reserved characters", ErrFieldOutOfRange, c.Name)
	}
	wire, err := FreqToWire(c.FrequencyMHz)
	if err != nil {
		return err
	}
	v, _ := strconv.ParseInt(wire, 10, 64)
	if !ValidWireFreq(v) {
		return fmt.Errorf("%w: CIN: frequency %s MHz outside receiver coverage", ErrFieldOutOfRange, c.FrequencyMHz)
	}
	switch c.Mode {
	case ModeAuto, ModeAM, ModeFM, ModeNFM:
	default:
		return fmt.Errorf("%w: CIN: mode %q", ErrFieldOutOfRange, c.Mode)
	}
	if !ValidToneCode(c.ToneCode) {
		return fmt.Errorf("%w: CIN: tone code %d", ErrFieldOutOfRange, c.ToneCode)
	}
	if !validDelay(c.Delay) {
		return fmt.Errorf("%w: CIN: delay %d", ErrFieldOutOfRange, c.Delay)
	}
	return nil
}

// FetchCommand returns the command that reads one channel slot.
func (c *Channel) FetchCommand(index ...int) (string, error) {
	idx, err := resolveIndex(c, index)
	if err != nil {
		return "", err
	}
	if !ValidChannelIndex(idx) {
		return "", fmt.Errorf("%w: CIN: channel index %d", ErrFieldOutOfRange, idx)
	}
	return joinCommand(KindChannel, strconv.Itoa(idx)), nil
}

// WriteCommand serializes the channel positionally. Validation precedes
// serialization.
func (c *Channel) WriteCommand(index ...int) (string, error) {
	idx, err := resolveIndex(c, index)
	if err != nil {
		return "", err
	}
	if !ValidChannelIndex(idx) {
		return "", fmt.Errorf("%w: CIN: channel index %d", ErrFieldOutOfRange, idx)
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	wire, err := FreqToWire(c.FrequencyMHz)
	if err != nil {
		return "", err
	}
	return joinCommand(KindChannel,
		strconv.Itoa(idx),
		c.Name,
		wire,
		c.Mode,
		strconv.Itoa(c.ToneCode),
		strconv.Itoa(c.Delay),
		flagField(c.Lockout),
		flagField(c.Priority),
	), nil
}

// ParseResponse populates the channel from the scanner's reply. The
// echoed index is validated but not retained. A tone code outside the
// tone table fails closed rather than being replaced with "no tone".
func (c *Channel) ParseResponse(raw string) error {
	fields, err := splitResponse(KindChannel, channelArity, raw)
	if err != nil {
		return err
	}
	if _, err := parseWireInt(KindChannel, "index", fields[0]); err != nil {
		return err
	}
	mhz, err := FreqToMHz(fields[2])
	if err != nil {
		return err
	}
	mode := strings.TrimSpace(fields[3])
	switch mode {
	case ModeAuto, ModeAM, ModeFM, ModeNFM:
	default:
		return fmt.Errorf("%w: CIN: mode %q", ErrMalformedResponse, fields[3])
	}
	tone, err := parseWireInt(KindChannel, "tone", fields[4])
	if err != nil {
		return err
	}
	if !ValidToneCode(tone) {
		return fmt.Errorf("%w: CIN: tone code %d outside tone table", ErrMalformedResponse, tone)
	}
	delay, err := parseWireInt(KindChannel, "delay", fields[5])
	if err != nil {
		return err
	}
	if !validDelay(delay) {
		return fmt.Errorf("%w: CIN: delay %d", ErrMalformedResponse, delay)
	}
	lockout, err := parseWireFlag(KindChannel, "lockout", fields[6])
	if err != nil {
		return err
	}
	priority, err := parseWireFlag(KindChannel, "priority", fields[7])
	if err != nil {
		return err
	}

	c.Name = fields[1]
	c.FrequencyMHz = mhz
	c.Mode = mode
	c.ToneCode = tone
	c.Delay = delay
	c.Lockout = lockout
	c.Priority = priority
	return nil
}

var channelFields = []string{"name", "frequency", "mode", "tone", "delay", "lockout", "priority"}

// ToDict returns the channel's dictionary form. The tone is exported as
// its human-readable label.
func (c *Channel) ToDict() Dict {
	label, _ := ToneLabel(c.ToneCode)
	return Dict{
		"name":      c.Name,
		"frequency": c.FrequencyMHz,
		"mode":      c.Mode,
		"tone":      label,
		"delay":     c.Delay,
		"lockout":   c.Lockout,
		"priority":  c.Priority,
	}
}

// FromDict populates the channel from its dictionary form. The tone field
// accepts the canonical label or a legacy numeric wire code.
func (c *Channel) FromDict(d Dict) error {
	if err := requireKeys(KindChannel, d, channelFields...); err != nil {
		return err
	}
	name, err := dictString(KindChannel, d, "name")
	if err != nil {
		return err
	}
	mhz, err := dictString(KindChannel, d, "frequency")
	if err != nil {
		return err
	}
	mode, err := dictString(KindChannel, d, "mode")
	if err != nil {
		return err
	}
	toneText, err := dictString(KindChannel, d, "tone")
	if err != nil {
		return err
	}
	tone, err := ParseTone(toneText)
	if err != nil {
		return fmt.Errorf("%w: CIN: tone %q: %v", ErrInvalidFieldValue, toneText, err)
	}
	delay, err := dictInt(KindChannel, d, "delay")
	if err != nil {
		return err
	}
	lockout, err := dictBool(KindChannel, d, "lockout")
	if err != nil {
		return err
	}
	priority, err := dictBool(KindChannel, d, "priority")
	if err != nil {
		return err
	}

	// Canonicalize the frequency so "154.2650" and "154.265" compare
	// equal after a round trip.
	if wire, werr := FreqToWire(mhz); werr == nil {
		if canonical, merr := FreqToMHz(wire); merr == nil {
			mhz = canonical
		}
	}

	ch := Channel{
		Name:         name,
		FrequencyMHz: mhz,
		Mode:         mode,
		ToneCode:     tone,
		Delay:        delay,
		Lockout:      lockout,
		Priority:     priority,
	}
	if err := ch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFieldValue, err)
	}
	*c = ch
	return nil
}

func validDelay(d int) bool {
	for _, v := range validDelays {
		if v == d {
			return true
		}
	}
	return false
}
