package wlan

import (
	"context"
	"testing"
	"time"

	"github.com/josharian/native"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/bikeos/wapi/wext"
)

// scanKernel acks a scan after pending polls and then returns one cell.
type scanKernel struct {
	pending int
	polls   int
	started bool
}

func (k *scanKernel) Control(cmd uint, r *wext.Request) error {
	switch cmd {
	case wext.SIOCSIWSCAN:
		k.started = true
	case wext.SIOCGIWRANGE:
		r.Data[280] = 22 // we_version_compiled
		r.Length = 568
	case wext.SIOCGIWSCAN:
		if len(r.Data) == 1 {
			k.polls++
			if k.polls <= k.pending {
				return unix.EAGAIN
			}
			return unix.E2BIG
		}
		hdr := wext.NativeLayout.Header
		ev := make([]byte, hdr+16)
		native.Endian.PutUint16(ev, uint16(len(ev)))
		native.Endian.PutUint16(ev[2:], wext.SIOCGIWAP)
		native.Endian.PutUint16(ev[hdr:], 1)
		copy(ev[hdr+2:], []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01})
		r.Length = uint16(copy(r.Data, ev))
	}
	return nil
}

func TestScan(t *testing.T) {
	k := &scanKernel{pending: 2}
	w := NewWifiClient("wlan0", wext.NewClient(k))
	infos, err := w.Scan(context.Background(), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !k.started || k.polls != 3 {
		t.Fatalf("started %v, polled %d times", k.started, k.polls)
	}
	if len(infos) != 1 || infos[0].AP.String() != "de:ad:be:ef:00:01" {
		t.Fatalf("unexpected result %+v", infos)
	}
}

func TestScanCancel(t *testing.T) {
	k := &scanKernel{pending: 1 << 30}
	w := NewWifiClient("wlan0", wext.NewClient(k))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := w.Scan(ctx, time.Millisecond)
	var serr *wext.ScanError
	if !errors.As(err, &serr) || serr.Stage != wext.StagePoll {
		t.Fatalf("got %v, wanted poll failure", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, wanted deadline", err)
	}
}

func TestScanStartDenied(t *testing.T) {
	wc := wext.NewClient(wext.ControllerFunc(func(uint, *wext.Request) error { return unix.EPERM }))
	_, err := NewWifiClient("wlan0", wc).Scan(context.Background(), time.Millisecond)
	var serr *wext.ScanError
	if !errors.As(err, &serr) || serr.Stage != wext.StageStart {
		t.Fatalf("got %v, wanted start failure", err)
	}
	var cerr *wext.ControlError
	if !errors.As(err, &cerr) || !cerr.PermissionDenied() {
		t.Fatalf("got %v, wanted permission denied", err)
	}
}

func TestManaged(t *testing.T) {
	var cmd uint
	var mode uint32
	wc := wext.NewClient(wext.ControllerFunc(func(c uint, r *wext.Request) error {
		cmd, mode = c, r.Mode()
		return nil
	}))
	if err := NewWifiClient("wlan0", wc).Managed(); err != nil {
		t.Fatal(err)
	}
	if cmd != wext.SIOCSIWMODE || mode != uint32(wext.ModeManaged) {
		t.Fatalf("sent %#x mode %d", cmd, mode)
	}
}

func TestFrequencies(t *testing.T) {
	wc := wext.NewClient(wext.ControllerFunc(func(c uint, r *wext.Request) error {
		r.Data[280] = 22 // we_version_compiled
		r.Data[306] = 2  // num_frequency
		for i, mhz := range []uint32{2412, 2437} {
			off := 308 + 8*i
			native.Endian.PutUint32(r.Data[off:], mhz)
			native.Endian.PutUint16(r.Data[off+4:], 6)
		}
		r.Length = 568
		return nil
	}))
	fs, err := NewWifiClient("wlan0", wc).Frequencies()
	if err != nil {
		t.Fatal(err)
	}
	_, ok1 := fs[2412]
	_, ok6 := fs[2437]
	if len(fs) != 2 || !ok1 || !ok6 {
		t.Fatalf("got %v", fs)
	}
}
