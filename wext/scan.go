package wext

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ScanState is the readiness of scan results.
type ScanState int

const (
	ScanNotReady ScanState = iota
	ScanReady
	// ScanReadyTooSmall means results exist but did not fit the empty
	// status buffer, which is expected.
	ScanReadyTooSmall
)

// Ready reports whether results can be collected.
func (s ScanState) Ready() bool { return s != ScanNotReady }

func (s ScanState) String() string {
	switch s {
	case ScanReady:
		return "ready"
	case ScanReadyTooSmall:
		return "ready (buffer too small)"
	default:
		return "not ready"
	}
}

// StartScan asks the driver to scan. It usually needs CAP_NET_ADMIN;
// see ControlError.PermissionDenied.
func (c *Client) StartScan(ifname string) error {
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	r.SetPoint(nil, 0, 0)
	return c.do("start scan", SIOCSIWSCAN, r)
}

// ScanStatus checks for scan results without fetching them.
func (c *Client) ScanStatus(ifname string) (ScanState, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return ScanNotReady, err
	}
	r.SetPoint(make([]byte, 1), 0, 0)
	err = c.do("scan status", SIOCGIWSCAN, r)
	var cerr *ControlError
	switch {
	case err == nil:
		return ScanReady, nil
	case errors.As(err, &cerr) && cerr.TooBig():
		return ScanReadyTooSmall, nil
	case errors.As(err, &cerr) && cerr.NotReady():
		return ScanNotReady, nil
	}
	return ScanNotReady, err
}

// CollectRaw fetches the raw scan result stream. A buffer of initial
// bytes is doubled on every too-small reply, at most maxAttempts times.
func (c *Client) CollectRaw(ifname string, initial, maxAttempts int) ([]byte, error) {
	if initial <= 0 || maxAttempts < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "buffer %d, attempts %d", initial, maxAttempts)
	}
	r, err := newRequest(ifname)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, initial)
	for attempt := 0; ; attempt++ {
		r.SetPoint(buf, len(buf), 0)
		err := c.do("get scan", SIOCGIWSCAN, r)
		if err == nil {
			n := int(r.Length)
			if n > len(buf) {
				return nil, errors.Wrapf(ErrMalformedStream, "kernel reported %d bytes in %d byte buffer", n, len(buf))
			}
			return buf[:n], nil
		}
		var cerr *ControlError
		if !errors.As(err, &cerr) || !cerr.TooBig() {
			return nil, err
		}
		if attempt >= maxAttempts {
			return nil, errors.Wrapf(ErrBufferExhausted, "%s: %d bytes after %d attempts", ifname, len(buf), attempt+1)
		}
		size := 2 * len(buf)
		if int(r.Length) > size {
			// Newer kernels report the size they need.
			size = int(r.Length)
		}
		log.Debugf("%s: scan buffer %d too small, growing to %d", ifname, len(buf), size)
		buf = make([]byte, size)
	}
}

// Collect fetches and decodes the results of a finished scan. The
// records are newest first, as Aggregate returns them. Errors are
// *ScanError values naming the stage that failed.
func (c *Client) Collect(ifname string) ([]ScanInfo, error) {
	version, err := c.Version(ifname)
	if err != nil {
		return nil, scanErr(StageVersion, err)
	}
	raw, err := c.CollectRaw(ifname, c.BufferSize, c.MaxAttempts)
	if err != nil {
		return nil, scanErr(StageCollect, err)
	}
	infos, err := Aggregate(stageSource{NewStream(raw, version)})
	if err != nil {
		var serr *ScanError
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, scanErr(StageAggregate, err)
	}
	return infos, nil
}

// stageSource tags decoder failures so Collect can tell them apart from
// aggregation failures.
type stageSource struct{ s *Stream }

func (ss stageSource) Next() (Event, error) {
	ev, err := ss.s.Next()
	if err != nil && err != io.EOF {
		return nil, scanErr(StageDecode, err)
	}
	return ev, err
}
