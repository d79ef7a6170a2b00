package wext

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode is an interface operating mode (IW_MODE_*).
type Mode uint32

const (
	ModeAuto Mode = iota
	ModeAdHoc
	ModeManaged
	ModeMaster
	ModeRepeater
	ModeSecondary
	ModeMonitor
)

var modeNames = []string{"auto", "ad-hoc", "managed", "master", "repeater", "secondary", "monitor"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("unknown(%d)", uint32(m))
}

// ParseMode validates a raw mode value from the kernel.
func ParseMode(v uint32) (Mode, error) {
	if v > uint32(ModeMonitor) {
		return 0, errors.Wrapf(ErrUnknownMode, "mode %d", v)
	}
	return Mode(v), nil
}

// LookupMode finds a mode by name.
func LookupMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownMode, "%q", s)
}
