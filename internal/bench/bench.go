package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bikeos/wapi/wext"
	"github.com/bikeos/wapi/wlan"
)

// Config controls a scan benchmark.
type Config struct {
	Duration     time.Duration
	PollInterval time.Duration
	ScanTimeout  time.Duration
	// BufferSize and MaxAttempts follow wext.Client.SetScanBuffer.
	BufferSize  int
	MaxAttempts int
}

func (cfg Config) apply(w *wlan.Wifi) {
	w.Client().SetScanBuffer(cfg.BufferSize, cfg.MaxAttempts)
}

// stats tracks the scans of one device.
type stats struct {
	scans  int
	fails  int
	aps    int
	total  time.Duration
	bssids map[string]struct{}
}

func (s *stats) add(aps []string, d time.Duration) {
	s.scans++
	s.aps = len(aps)
	s.total += d
	for _, ap := range aps {
		s.bssids[ap] = struct{}{}
	}
}

func (s *stats) mean() time.Duration {
	if s.scans == 0 {
		return 0
	}
	return s.total / time.Duration(s.scans)
}

func (s *stats) String() string {
	return fmt.Sprintf("%4d scans %3d failed %3d aps %4d unique  mean %v",
		s.scans, s.fails, s.aps, len(s.bssids), s.mean().Round(time.Millisecond))
}

// Run scans every device back to back for cfg.Duration.
func Run(cfg Config) error {
	wdevs, werr := wlan.Enumerate()
	if werr != nil {
		return werr
	}
	if len(wdevs) == 0 {
		return errors.New("no devices")
	}

	wifis := make([]*wlan.Wifi, len(wdevs))
	for i := range wdevs {
		if wifis[i], werr = wlan.NewWifi(wdevs[i]); werr != nil {
			return werr
		}
		defer wifis[i].Close()
		cfg.apply(wifis[i])
		if err := wifis[i].Up(); err != nil {
			log.Warnf("%s: %v", wifis[i].Name(), err)
		}
	}

	var m sync.Mutex
	startTime := time.Now()
	st := make([]*stats, len(wifis))
	for i := range st {
		st[i] = &stats{bssids: make(map[string]struct{})}
	}
	update := func() {
		m.Lock()
		defer m.Unlock()
		fmt.Printf("\033[%dA", len(wifis)+1)
		for i := 0; i < len(wifis); i++ {
			fmt.Printf("%s: %s\r\n", wifis[i].Name(), st[i])
		}
		fmt.Printf("time: %5.2fs\r\n", time.Since(startTime).Seconds())
	}
	fmt.Printf("benchmarking %d devices for %v\n", len(wifis), cfg.Duration)
	for i := 0; i < len(wifis)+1; i++ {
		fmt.Println()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()
	errc := make(chan error, len(wifis))
	var wg sync.WaitGroup
	wg.Add(len(wifis))
	for i := range wifis {
		go func(n int) {
			defer wg.Done()
			errc <- benchDev(ctx, cfg, wifis[n], func(aps []string, d time.Duration, err error) {
				m.Lock()
				if err != nil {
					st[n].fails++
				} else {
					st[n].add(aps, d)
				}
				m.Unlock()
				update()
			})
		}(i)
	}
	wg.Wait()
	update()
	close(errc)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

// benchDev scans until ctx is done, calling cb after every scan.
func benchDev(ctx context.Context, cfg Config, w *wlan.Wifi, cb func([]string, time.Duration, error)) error {
	for ctx.Err() == nil {
		sctx, cancel := context.WithTimeout(ctx, cfg.ScanTimeout)
		start := time.Now()
		infos, err := w.Scan(sctx, cfg.PollInterval)
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		var cerr *wext.ControlError
		if errors.As(err, &cerr) && cerr.PermissionDenied() {
			return errors.Wrapf(err, "%s: scanning needs CAP_NET_ADMIN", w.Name())
		}
		if err != nil {
			log.Debugf("%s: %v", w.Name(), err)
			cb(nil, 0, err)
			continue
		}
		aps := make([]string, len(infos))
		for i, si := range infos {
			aps[i] = si.AP.String()
		}
		cb(aps, time.Since(start), nil)
	}
	return nil
}
