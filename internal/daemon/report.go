package daemon

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bikeos/wapi/wext"
)

type report struct {
	devs   map[string]devbssids
	bssids map[string]struct{}
}

type devbssids map[string]struct{}

var reportInterval = 10 * time.Second

func newReport() *report {
	return &report{devs: make(map[string]devbssids), bssids: make(map[string]struct{})}
}

func (d *daemon) startReports() error {
	r := newReport()
	d.worker(func() error { return r.run(d.dc, d.board) })
	return nil
}

func (r *report) run(dc *daemonCtx, b *board) error {
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-dc.Done():
			return nil
		}
		gained, stuck := r.update(b.Latest())
		log.Info(r.say(gained, stuck))
	}
}

// update folds in the latest scans. It returns how many access points
// were never seen before and how many devices saw nothing new.
func (r *report) update(scans map[string][]wext.ScanInfo) (gained, stuck int) {
	oldtotal := len(r.bssids)
	for dev, infos := range scans {
		bs, ok := r.devs[dev]
		if !ok {
			bs = make(devbssids)
			r.devs[dev] = bs
		}
		old := len(bs)
		for _, si := range infos {
			k := si.AP.String()
			bs[k] = struct{}{}
			r.bssids[k] = struct{}{}
		}
		if len(bs) == old {
			stuck++
		}
	}
	return len(r.bssids) - oldtotal, stuck
}

func (r *report) say(gained int, stuck int) string {
	say := fmt.Sprintf("radio report: total unique bssids: %d. gained %d.", len(r.bssids), gained)
	if stuck != 0 {
		say += fmt.Sprintf(" %d devices stuck!", stuck)
	}
	return say
}
