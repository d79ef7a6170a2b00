package wext

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	ErrBufferExhausted = errors.New("wext: scan results do not fit in buffer")
	ErrMalformedStream = errors.New("wext: malformed event stream")
	ErrUnknownMode     = errors.New("wext: unknown operating mode")
	ErrInvalidArgument = errors.New("wext: invalid argument")
	ErrUnknownFlag     = errors.New("wext: unknown flag")
	ErrDisabled        = errors.New("wext: parameter disabled")
	ErrNoChannel       = errors.New("wext: no matching channel")
	ErrNotSupported    = errors.New("wext: not supported")
)

// A ControlError is a control request rejected by the kernel.
type ControlError struct {
	Op    string
	Iface string
	Cmd   uint
	Err   error
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("%s: %s (%#x): %v", e.Iface, e.Op, e.Cmd, e.Err)
}

func (e *ControlError) Unwrap() error { return e.Err }

// PermissionDenied reports whether the request needed more privilege.
func (e *ControlError) PermissionDenied() bool {
	return errors.Is(e.Err, unix.EPERM) || errors.Is(e.Err, unix.EACCES)
}

// NotReady reports whether the kernel asked to try again.
func (e *ControlError) NotReady() bool { return errors.Is(e.Err, unix.EAGAIN) }

// TooBig reports whether the supplied buffer was too small.
func (e *ControlError) TooBig() bool { return errors.Is(e.Err, unix.E2BIG) }

// Stage identifies the step of scan collection that failed.
type Stage int

const (
	StageVersion Stage = iota
	StageStart
	StagePoll
	StageCollect
	StageDecode
	StageAggregate
)

func (s Stage) String() string {
	switch s {
	case StageVersion:
		return "version"
	case StageStart:
		return "start"
	case StagePoll:
		return "poll"
	case StageCollect:
		return "collect"
	case StageDecode:
		return "decode"
	case StageAggregate:
		return "aggregate"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// A ScanError is a failed scan collection tagged with the failing stage.
type ScanError struct {
	Stage Stage
	Err   error
}

func (e *ScanError) Error() string { return "scan " + e.Stage.String() + ": " + e.Err.Error() }

func (e *ScanError) Unwrap() error { return e.Err }

func scanErr(s Stage, err error) error {
	if err == nil {
		return nil
	}
	return &ScanError{Stage: s, Err: err}
}
