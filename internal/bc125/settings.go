// internal/bc125/settings.go
package bc125

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting is a global, non-indexed scanner setting with the full
// fetch/write/parse/dict contract.
type Setting interface {
	Fetcher
	Writer
	DictConverter
	// Name is the stable identifier used by the API and file formats.
	Name() string
}

// Setting names.
const (
	SettingBacklight        = "backlight"
	SettingChargeTimer      = "charge_timer"
	SettingKeyBeep          = "key_beep"
	SettingPriorityMode     = "priority_mode"
	SettingScanChannelGroup = "scan_channel_group"
	SettingVolume           = "volume"
	SettingSquelch          = "squelch"
)

var settingFactories = map[string]func() Setting{
	SettingBacklight:        func() Setting { return &Backlight{} },
	SettingChargeTimer:      func() Setting { return &BatteryChargeTimer{} },
	SettingKeyBeep:          func() Setting { return &KeyBeep{} },
	SettingPriorityMode:     func() Setting { return &PriorityMode{} },
	SettingScanChannelGroup: func() Setting { return &ScanChannelGroup{} },
	SettingVolume:           func() Setting { return &Volume{} },
	SettingSquelch:          func() Setting { return &Squelch{} },
}

// settingOrder fixes the export/import order of the catalog.
var settingOrder = []string{
	SettingBacklight,
	SettingChargeTimer,
	SettingKeyBeep,
	SettingPriorityMode,
	SettingScanChannelGroup,
	SettingVolume,
	SettingSquelch,
}

// NewSetting returns a fresh instance of the named setting, or false if
// the name is not in the catalog.
func NewSetting(name string) (Setting, bool) {
	factory, ok := settingFactories[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// SettingNames returns the catalog's setting names in export order.
func SettingNames() []string {
	names := make([]string, len(settingOrder))
	copy(names, settingOrder)
	return names
}

// globalSetting carries the shared non-indexed addressing behavior.
type globalSetting struct{}

func (globalSetting) Indexed() bool { return false }

// fetchGlobal builds the fetch command for a non-indexed kind.
func fetchGlobal(o Object, index []int) (string, error) {
	if _, err := resolveIndex(o, index); err != nil {
		return "", err
	}
	return joinCommand(o.Kind()), nil
}

// Backlight controls the LCD backlight behavior.
type Backlight struct {
	globalSetting
	Mode string
}

// Backlight modes: always on, always off, keypress, key+squelch, squelch.
var backlightModes = []string{"AO", "AF", "KY", "KS", "SQ"}

func (b *Backlight) Kind() Kind   { return KindBacklight }
func (b *Backlight) Name() string { return SettingBacklight }

func (b *Backlight) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(b, index)
}

func (b *Backlight) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(b, index); err != nil {
		return "", err
	}
	if !validBacklightMode(b.Mode) {
		return "", fmt.Errorf("%w: BLT: mode %q", ErrFieldOutOfRange, b.Mode)
	}
	return joinCommand(KindBacklight, b.Mode), nil
}

func (b *Backlight) ParseResponse(raw string) error {
	fields, err := splitResponse(KindBacklight, 1, raw)
	if err != nil {
		return err
	}
	mode := strings.TrimSpace(fields[0])
	if !validBacklightMode(mode) {
		return fmt.Errorf("%w: BLT: mode %q", ErrMalformedResponse, fields[0])
	}
	b.Mode = mode
	return nil
}

func (b *Backlight) ToDict() Dict {
	return Dict{"mode": b.Mode}
}

func (b *Backlight) FromDict(d Dict) error {
	if err := requireKeys(KindBacklight, d, "mode"); err != nil {
		return err
	}
	mode, err := dictString(KindBacklight, d, "mode")
	if err != nil {
		return err
	}
	mode = strings.ToUpper(strings.TrimSpace(mode))
	if !validBacklightMode(mode) {
		return fmt.Errorf("%w: BLT: mode %q", ErrInvalidFieldValue, mode)
	}
	b.Mode = mode
	return nil
}

func validBacklightMode(mode string) bool {
	for _, m := range backlightModes {
		if m == mode {
			return true
		}
	}
	return false
}

// BatteryChargeTimer sets how many hours the scanner charges its
// batteries over USB before stopping.
type BatteryChargeTimer struct {
	globalSetting
	Hours int
}

// Charge timer limits, in hours.
const (
	minChargeHours = 1
	maxChargeHours = 16
)

func (t *BatteryChargeTimer) Kind() Kind   { return KindChargeTimer }
func (t *BatteryChargeTimer) Name() string { return SettingChargeTimer }

func (t *BatteryChargeTimer) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(t, index)
}

func (t *BatteryChargeTimer) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(t, index); err != nil {
		return "", err
	}
	if t.Hours < minChargeHours || t.Hours > maxChargeHours {
		return "", fmt.Errorf("%w: BSV: hours %d", ErrFieldOutOfRange, t.Hours)
	}
	return joinCommand(KindChargeTimer, strconv.Itoa(t.Hours)), nil
}

func (t *BatteryChargeTimer) ParseResponse(raw string) error {
	fields, err := splitResponse(KindChargeTimer, 1, raw)
	if err != nil {
		return err
	}
	hours, err := parseWireInt(KindChargeTimer, "hours", fields[0])
	if err != nil {
		return err
	}
	if hours < minChargeHours || hours > maxChargeHours {
		return fmt.Errorf("%w: BSV: hours %d", ErrMalformedResponse, hours)
	}
	t.Hours = hours
	return nil
}

func (t *BatteryChargeTimer) ToDict() Dict {
	return Dict{"hours": t.Hours}
}

func (t *BatteryChargeTimer) FromDict(d Dict) error {
	if err := requireKeys(KindChargeTimer, d, "hours"); err != nil {
		return err
	}
	hours, err := dictInt(KindChargeTimer, d, "hours")
	if err != nil {
		return err
	}
	if hours < minChargeHours || hours > maxChargeHours {
		return fmt.Errorf("%w: BSV: hours %d", ErrInvalidFieldValue, hours)
	}
	t.Hours = hours
	return nil
}

// KeyBeep controls keypad beep volume and the keypad lock.
type KeyBeep struct {
	globalSetting
	Level int // 0 = auto, 99 = off
	Lock  bool
}

func (k *KeyBeep) Kind() Kind   { return KindKeyBeep }
func (k *KeyBeep) Name() string { return SettingKeyBeep }

func (k *KeyBeep) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(k, index)
}

func (k *KeyBeep) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(k, index); err != nil {
		return "", err
	}
	if k.Level != 0 && k.Level != 99 {
		return "", fmt.Errorf("%w: KBP: level %d", ErrFieldOutOfRange, k.Level)
	}
	return joinCommand(KindKeyBeep, strconv.Itoa(k.Level), flagField(k.Lock)), nil
}

func (k *KeyBeep) ParseResponse(raw string) error {
	fields, err := splitResponse(KindKeyBeep, 2, raw)
	if err != nil {
		return err
	}
	level, err := parseWireInt(KindKeyBeep, "level", fields[0])
	if err != nil {
		return err
	}
	if level != 0 && level != 99 {
		return fmt.Errorf("%w: KBP: level %d", ErrMalformedResponse, level)
	}
	lock, err := parseWireFlag(KindKeyBeep, "lock", fields[1])
	if err != nil {
		return err
	}
	k.Level = level
	k.Lock = lock
	return nil
}

func (k *KeyBeep) ToDict() Dict {
	return Dict{"level": k.Level, "lock": k.Lock}
}

func (k *KeyBeep) FromDict(d Dict) error {
	if err := requireKeys(KindKeyBeep, d, "level", "lock"); err != nil {
		return err
	}
	level, err := dictInt(KindKeyBeep, d, "level")
	if err != nil {
		return err
	}
	if level != 0 && level != 99 {
		return fmt.Errorf("%w: KBP: level %d", ErrInvalidFieldValue, level)
	}
	lock, err := dictBool(KindKeyBeep, d, "lock")
	if err != nil {
		return err
	}
	k.Level = level
	k.Lock = lock
	return nil
}

// PriorityMode selects the scan priority behavior: 0 off, 1 on,
// 2 plus on, 3 do-not-disturb.
type PriorityMode struct {
	globalSetting
	Mode int
}

func (p *PriorityMode) Kind() Kind   { return KindPriorityMode }
func (p *PriorityMode) Name() string { return SettingPriorityMode }

func (p *PriorityMode) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(p, index)
}

func (p *PriorityMode) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(p, index); err != nil {
		return "", err
	}
	if p.Mode < 0 || p.Mode > 3 {
		return "", fmt.Errorf("%w: PRI: mode %d", ErrFieldOutOfRange, p.Mode)
	}
	return joinCommand(KindPriorityMode, strconv.Itoa(p.Mode)), nil
}

func (p *PriorityMode) ParseResponse(raw string) error {
	fields, err := splitResponse(KindPriorityMode, 1, raw)
	if err != nil {
		return err
	}
	mode, err := parseWireInt(KindPriorityMode, "mode", fields[0])
	if err != nil {
		return err
	}
	if mode < 0 || mode > 3 {
		return fmt.Errorf("%w: PRI: mode %d", ErrMalformedResponse, mode)
	}
	p.Mode = mode
	return nil
}

func (p *PriorityMode) ToDict() Dict {
	return Dict{"mode": p.Mode}
}

func (p *PriorityMode) FromDict(d Dict) error {
	if err := requireKeys(KindPriorityMode, d, "mode"); err != nil {
		return err
	}
	mode, err := dictInt(KindPriorityMode, d, "mode")
	if err != nil {
		return err
	}
	if mode < 0 || mode > 3 {
		return fmt.Errorf("%w: PRI: mode %d", ErrInvalidFieldValue, mode)
	}
	p.Mode = mode
	return nil
}

// ScanChannelGroup holds which banks take part in a memory scan. The wire
// form is a ten-digit mask, one digit per bank, 0 enabled and 1 disabled.
// The firmware refuses to disable every bank at once.
type ScanChannelGroup struct {
	globalSetting
	Enabled [NumBanks]bool
}

func (s *ScanChannelGroup) Kind() Kind   { return KindScanChannelGroup }
func (s *ScanChannelGroup) Name() string { return SettingScanChannelGroup }

func (s *ScanChannelGroup) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(s, index)
}

func (s *ScanChannelGroup) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(s, index); err != nil {
		return "", err
	}
	if !s.anyEnabled() {
		return "", fmt.Errorf("%w: SCG: at least one bank must stay enabled", ErrFieldOutOfRange)
	}
	mask := make([]byte, NumBanks)
	for i, enabled := range s.Enabled {
		if enabled {
			mask[i] = '0'
		} else {
			mask[i] = '1'
		}
	}
	return joinCommand(KindScanChannelGroup, string(mask)), nil
}

func (s *ScanChannelGroup) ParseResponse(raw string) error {
	fields, err := splitResponse(KindScanChannelGroup, 1, raw)
	if err != nil {
		return err
	}
	mask := strings.TrimSpace(fields[0])
	if len(mask) != NumBanks {
		return fmt.Errorf("%w: SCG: mask %q must have %d digits", ErrMalformedResponse, mask, NumBanks)
	}
	var enabled [NumBanks]bool
	for i, digit := range mask {
		switch digit {
		case '0':
			enabled[i] = true
		case '1':
			enabled[i] = false
		default:
			return fmt.Errorf("%w: SCG: mask digit %q", ErrMalformedResponse, string(digit))
		}
	}
	s.Enabled = enabled
	return nil
}

func (s *ScanChannelGroup) ToDict() Dict {
	d := make(Dict, NumBanks)
	for i, enabled := range s.Enabled {
		d[bankKey(i+FirstBank)] = enabled
	}
	return d
}

func (s *ScanChannelGroup) FromDict(d Dict) error {
	keys := make([]string, NumBanks)
	for i := range keys {
		keys[i] = bankKey(i + FirstBank)
	}
	if err := requireKeys(KindScanChannelGroup, d, keys...); err != nil {
		return err
	}
	var enabled [NumBanks]bool
	for i, key := range keys {
		v, err := dictBool(KindScanChannelGroup, d, key)
		if err != nil {
			return err
		}
		enabled[i] = v
	}
	group := ScanChannelGroup{Enabled: enabled}
	if !group.anyEnabled() {
		return fmt.Errorf("%w: SCG: at least one bank must stay enabled", ErrInvalidFieldValue)
	}
	s.Enabled = enabled
	return nil
}

func (s *ScanChannelGroup) anyEnabled() bool {
	for _, enabled := range s.Enabled {
		if enabled {
			return true
		}
	}
	return false
}

func bankKey(bank int) string {
	return "bank_" + strconv.Itoa(bank)
}

// Volume is the speaker volume, 0..15.
type Volume struct {
	globalSetting
	Level int
}

func (v *Volume) Kind() Kind   { return KindVolume }
func (v *Volume) Name() string { return SettingVolume }

func (v *Volume) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(v, index)
}

func (v *Volume) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(v, index); err != nil {
		return "", err
	}
	if v.Level < 0 || v.Level > 15 {
		return "", fmt.Errorf("%w: VOL: level %d", ErrFieldOutOfRange, v.Level)
	}
	return joinCommand(KindVolume, strconv.Itoa(v.Level)), nil
}

func (v *Volume) ParseResponse(raw string) error {
	fields, err := splitResponse(KindVolume, 1, raw)
	if err != nil {
		return err
	}
	level, err := parseWireInt(KindVolume, "level", fields[0])
	if err != nil {
		return err
	}
	if level < 0 || level > 15 {
		return fmt.Errorf("%w: VOL: level %d", ErrMalformedResponse, level)
	}
	v.Level = level
	return nil
}

func (v *Volume) ToDict() Dict {
	return Dict{"level": v.Level}
}

func (v *Volume) FromDict(d Dict) error {
	if err := requireKeys(KindVolume, d, "level"); err != nil {
		return err
	}
	level, err := dictInt(KindVolume, d, "level")
	if err != nil {
		return err
	}
	if level < 0 || level > 15 {
		return fmt.Errorf("%w: VOL: level %d", ErrInvalidFieldValue, level)
	}
	v.Level = level
	return nil
}

// Squelch is the squelch threshold, 0..15.
type Squelch struct {
	globalSetting
	Level int
}

func (s *Squelch) Kind() Kind   { return KindSquelch }
func (s *Squelch) Name() string { return SettingSquelch }

func (s *Squelch) FetchCommand(index ...int) (string, error) {
	return fetchGlobal(s, index)
}

func (s *Squelch) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(s, index); err != nil {
		return "", err
	}
	if s.Level < 0 || s.Level > 15 {
		return "", fmt.Errorf("%w: SQL: level %d", ErrFieldOutOfRange, s.Level)
	}
	return joinCommand(KindSquelch, strconv.Itoa(s.Level)), nil
}

func (s *Squelch) ParseResponse(raw string) error {
	fields, err := splitResponse(KindSquelch, 1, raw)
	if err != nil {
		return err
	}
	level, err := parseWireInt(KindSquelch, "level", fields[0])
	if err != nil {
		return err
	}
	if level < 0 || level > 15 {
		return fmt.Errorf("%w: SQL: level %d", ErrMalformedResponse, level)
	}
	s.Level = level
	return nil
}

func (s *Squelch) ToDict() Dict {
	return Dict{"level": s.Level}
}

func (s *Squelch) FromDict(d Dict) error {
	if err := requireKeys(KindSquelch, d, "level"); err != nil {
		return err
	}
	level, err := dictInt(KindSquelch, d, "level")
	if err != nil {
		return err
	}
	if level < 0 || level > 15 {
		return fmt.Errorf("%w: SQL: level %d", ErrInvalidFieldValue, level)
	}
	s.Level = level
	return nil
}

var (
	_ Setting = (*Backlight)(nil)
	_ Setting = (*BatteryChargeTimer)(nil)
	_ Setting = (*KeyBeep)(nil)
	_ Setting = (*PriorityMode)(nil)
	_ Setting = (*ScanChannelGroup)(nil)
	_ Setting = (*Volume)(nil)
	_ Setting = (*Squelch)(nil)
)
