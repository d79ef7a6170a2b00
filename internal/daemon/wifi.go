package daemon

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bikeos/wapi/wext"
	"github.com/bikeos/wapi/wlan"
)

type wifiMon struct {
	d    *daemon
	devs map[string]*daemonCtx
}

var switchTime = 3 * time.Second
var watchDogTime = 30 * time.Second
var bootStaggerTime = 500 * time.Millisecond

var errDevRemoved = errors.New("device removed")

func (d *daemon) startWifi() error {
	wm := &wifiMon{d: d, devs: make(map[string]*daemonCtx)}
	if _, werr := wlan.Enumerate(); werr != nil {
		return werr
	}
	d.worker(func() error { return wm.monDevs() })
	return nil
}

func (wm *wifiMon) monDevs() error {
	for {
		wdevs, werr := wlan.Enumerate()
		if werr != nil {
			return werr
		}
		curdevs := make(map[string]wlan.Device)
		for _, wdev := range wdevs {
			curdevs[wdev.Name()] = wdev
		}
		for n, dc := range wm.devs {
			if _, ok := curdevs[n]; !ok {
				log.Infof("wifi %q removed", n)
				dc.Cancel(errDevRemoved)
				delete(wm.devs, n)
				wm.d.board.remove(n)
			}
		}
		for n, dev := range curdevs {
			if _, ok := wm.devs[n]; ok {
				continue
			}
			w, err := wlan.NewWifi(dev)
			if err != nil {
				log.Errorf("%s: %v", n, err)
				continue
			}
			dc := newDaemonCtx(wm.d.dc.ctx)
			wm.devs[n] = dc
			log.Infof("wifi %q added", n)
			wm.d.device(dc, func() error { return wm.d.wifiScanner(dc, w) })

			// Triggering every scan at once drains power; stagger.
			if !sleep(wm.d.dc, bootStaggerTime) {
				return nil
			}
		}

		updateTime := switchTime
		if len(wm.devs) > 0 {
			updateTime = watchDogTime
		}
		if !sleep(wm.d.dc, updateTime) {
			return nil
		}
	}
}

// sleep waits for d and reports false if dc ended first.
func sleep(dc *daemonCtx, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-dc.Done():
		return false
	}
}

func (d *daemon) wifiScanner(dc *daemonCtx, w *wlan.Wifi) (err error) {
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	w.Client().SetScanBuffer(d.cfg.BufferSize, d.cfg.MaxAttempts)
	sl, err := d.s.ScanLog(w.Name())
	if err != nil {
		return err
	}
	if m, merr := w.Client().Mode(w.Name()); merr == nil && m == wext.ModeMonitor {
		// Monitor interfaces cannot scan.
		log.Infof("%s: switching from monitor to managed mode", w.Name())
		if err = w.Down(); err != nil {
			return err
		}
		if err = w.Managed(); err != nil {
			return err
		}
	}
	if uerr := w.Up(); uerr != nil {
		log.Warnf("%s: %v", w.Name(), uerr)
	}

	log.Infof("%s: scanning every %v", w.Name(), d.cfg.ScanInterval)
	ticker := time.NewTicker(d.cfg.ScanInterval)
	defer ticker.Stop()
	for {
		if err := d.scanOnce(dc, w, sl); err != nil {
			return err
		}
		select {
		case <-ticker.C:
		case <-dc.Done():
			log.Infof("%s: scanner stopped: %v", w.Name(), dc.Err())
			return nil
		}
	}
}

// scanOnce runs one scan and records it. Only an unprivileged daemon is
// fatal; other failures are logged and retried on the next tick.
func (d *daemon) scanOnce(dc *daemonCtx, w *wlan.Wifi, sl *scanLog) error {
	ctx, cancel := context.WithTimeout(dc.ctx, d.cfg.ScanTimeout)
	defer cancel()
	start := time.Now()
	infos, err := w.Scan(ctx, d.cfg.PollInterval)
	var cerr *wext.ControlError
	switch {
	case err == nil:
	case errors.As(err, &cerr) && cerr.PermissionDenied():
		return errors.Wrap(err, "scanning needs CAP_NET_ADMIN")
	case dc.ctx.Err() != nil:
		return nil
	default:
		log.Errorf("%s: %v", w.Name(), err)
		return nil
	}
	d.board.set(w.Name(), infos)
	return sl.Write(start, wlan.Cells(w.Name(), infos))
}
