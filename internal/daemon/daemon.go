package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bikeos/wapi/internal/http"
)

type Config struct {
	OutDirPath string

	ScanInterval time.Duration
	PollInterval time.Duration
	ScanTimeout  time.Duration
	// BufferSize overrides the initial scan buffer when above zero.
	// MaxAttempts is used as given, zero disables buffer growth; a
	// negative value keeps the default.
	BufferSize  int
	MaxAttempts int

	// ListenAddr serves the scan API when not empty.
	ListenAddr string
	RootDir    string
}

type daemon struct {
	cfg   Config
	s     *store
	board *board
	dc    *daemonCtx
	wg    sync.WaitGroup
	devwg sync.WaitGroup
	errc  chan error
	donec chan struct{}
}

func Run(cfg Config) error {
	errc := make(chan error, 1)
	d := &daemon{
		cfg:   cfg,
		board: newBoard(),
		dc:    newDaemonCtx(context.Background()),
		errc:  make(chan error),
		donec: make(chan struct{}),
	}
	go func() { errc <- d.run() }()
	return <-errc
}

func (d *daemon) run() (err error) {
	defer func() {
		d.dc.Cancel(err)
		close(d.donec)
		d.wg.Wait()
		d.devwg.Wait()
		if d.s != nil {
			if cerr := d.s.Close(); err == nil {
				err = cerr
			}
		}
	}()
	s, serr := newStore(d.cfg.OutDirPath)
	if serr != nil {
		return serr
	}
	d.s = s
	log.Infof("logging scans to %s", s.nowdir)
	if err := d.startWifi(); err != nil {
		return err
	}
	if err := d.startReports(); err != nil {
		return err
	}
	if d.cfg.ListenAddr != "" {
		cfg := http.ServerConfig{ListenAddr: d.cfg.ListenAddr, RootDir: d.cfg.RootDir}
		d.worker(func() error { return http.Serve(d.dc.ctx, cfg, d.board) })
	}
	return <-d.errc
}

func (d *daemon) worker(f func() error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		select {
		case d.errc <- f():
		case <-d.donec:
		}
	}()
}

// device runs the worker of one wifi device. Only failures stop the
// daemon, and not those of a device that went away.
func (d *daemon) device(dc *daemonCtx, f func() error) {
	d.devwg.Add(1)
	go func() {
		defer d.devwg.Done()
		err := f()
		if err == nil || errors.Is(err, errDevRemoved) || errors.Is(dc.Err(), errDevRemoved) {
			return
		}
		select {
		case d.errc <- err:
		case <-d.donec:
		}
	}()
}
