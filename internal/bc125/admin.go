// internal/bc125/admin.go
package bc125

import (
	"fmt"
	"strconv"
)

// action is the common shape of the pure command variants: write-only,
// no fields, no index, no dictionary form.
type action struct {
	kind Kind
}

func (a action) Kind() Kind    { return a.kind }
func (a action) Indexed() bool { return false }

func (a action) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(a, index); err != nil {
		return "", err
	}
	return joinCommand(a.kind), nil
}

// EnterProgramMode puts the scanner into program mode. Every memory read
// or write command is rejected outside of it.
type EnterProgramMode struct{ action }

// NewEnterProgramMode returns the PRG action.
func NewEnterProgramMode() *EnterProgramMode {
	return &EnterProgramMode{action{KindEnterProgram}}
}

// ExitProgramMode returns the scanner to normal operation.
type ExitProgramMode struct{ action }

// NewExitProgramMode returns the EPG action.
func NewExitProgramMode() *ExitProgramMode {
	return &ExitProgramMode{action{KindExitProgram}}
}

// ClearAllMemory wipes every channel and restores factory settings. The
// scanner takes several seconds to complete it.
type ClearAllMemory struct{ action }

// NewClearAllMemory returns the CLR action.
func NewClearAllMemory() *ClearAllMemory {
	return &ClearAllMemory{action{KindClearMemory}}
}

// Unlock recovers the scanner from a wedged programming session. A write
// sequence that dies halfway leaves the device awaiting an acknowledgement
// and rejecting all further commands until program mode is released; the
// unlock action issues that release. It is harmless when the scanner is
// not wedged, so the session layer sends it with rejected replies
// tolerated, which makes it idempotent.
type Unlock struct{}

func (u *Unlock) Kind() Kind    { return KindExitProgram }
func (u *Unlock) Indexed() bool { return false }

func (u *Unlock) WriteCommand(index ...int) (string, error) {
	if _, err := resolveIndex(u, index); err != nil {
		return "", err
	}
	return joinCommand(KindExitProgram), nil
}

// DeleteChannel clears one channel slot. Write-only and index-addressed;
// it has no field values and no dictionary form. Bank-scope wipes are
// driven by iterating this action over a bank's index range.
type DeleteChannel struct{}

func (d *DeleteChannel) Kind() Kind    { return KindDeleteChannel }
func (d *DeleteChannel) Indexed() bool { return true }

func (d *DeleteChannel) WriteCommand(index ...int) (string, error) {
	idx, err := resolveIndex(d, index)
	if err != nil {
		return "", err
	}
	if !ValidChannelIndex(idx) {
		return "", fmt.Errorf("%w: DCH: channel index %d", ErrFieldOutOfRange, idx)
	}
	return joinCommand(KindDeleteChannel, strconv.Itoa(idx)), nil
}

var (
	_ Writer = (*EnterProgramMode)(nil)
	_ Writer = (*ExitProgramMode)(nil)
	_ Writer = (*ClearAllMemory)(nil)
	_ Writer = (*Unlock)(nil)
	_ Writer = (*DeleteChannel)(nil)
)
