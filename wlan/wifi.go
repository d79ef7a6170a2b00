package wlan

import (
	"context"
	"math"
	"time"

	nl80211 "github.com/mdlayher/wifi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bikeos/wapi/wext"
)

// DefaultPollInterval is how often Scan checks for results.
var DefaultPollInterval = 250 * time.Millisecond

type Wifi struct {
	name  string
	iface *nl80211.Interface
	wc    *wext.Client
}

// NewWifi opens a wireless extensions socket for dev.
func NewWifi(dev Device) (*Wifi, error) {
	wc, err := wext.New()
	if err != nil {
		return nil, err
	}
	return &Wifi{name: dev.Name(), iface: dev.iface, wc: wc}, nil
}

// NewWifiClient wraps an existing client for the interface name.
func NewWifiClient(name string, wc *wext.Client) *Wifi {
	return &Wifi{name: name, wc: wc}
}

func (w *Wifi) Name() string { return w.name }

// Client exposes the wireless extensions client for single-shot requests.
func (w *Wifi) Client() *wext.Client { return w.wc }

func (w *Wifi) Down() error { return ifdown(w.name) }
func (w *Wifi) Up() error   { return ifup(w.name) }

func (w *Wifi) Close() error { return w.wc.Close() }

// Frequencies is the set of tunable frequencies in MHz.
func (w *Wifi) Frequencies() (map[int]struct{}, error) {
	rng, err := w.wc.Range(w.name)
	if err != nil {
		return nil, err
	}
	fs := make(map[int]struct{}, len(rng.Channels))
	for _, ch := range rng.Channels {
		fs[int(math.Round(ch.Frequency/1e6))] = struct{}{}
	}
	return fs, nil
}

// Managed puts the wifi device into station mode.
func (w *Wifi) Managed() error { return w.wc.SetMode(w.name, wext.ModeManaged) }

// Scan triggers a scan and polls every poll until results arrive or ctx
// is done. Failures are *wext.ScanError values.
func (w *Wifi) Scan(ctx context.Context, poll time.Duration) ([]wext.ScanInfo, error) {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	start := time.Now()
	if err := w.wc.StartScan(w.name); err != nil {
		return nil, &wext.ScanError{Stage: wext.StageStart, Err: err}
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, &wext.ScanError{Stage: wext.StagePoll, Err: ctx.Err()}
		}
		state, err := w.wc.ScanStatus(w.name)
		if err != nil {
			return nil, &wext.ScanError{Stage: wext.StagePoll, Err: err}
		}
		if !state.Ready() {
			continue
		}
		infos, err := w.wc.Collect(w.name)
		if err != nil {
			return nil, err
		}
		log.Debugf("%s: scan found %d cells in %v", w.name, len(infos), time.Since(start))
		return infos, nil
	}
}

// Associated returns the BSS the interface is connected to.
func (w *Wifi) Associated() (*nl80211.BSS, error) {
	if w.iface == nil {
		return nil, errors.Errorf("%s: no nl80211 interface", w.name)
	}
	c, err := nl80211.New()
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.BSS(w.iface)
}
