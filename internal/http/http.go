package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bikeos/wapi/wext"
	"github.com/bikeos/wapi/wlan"
)

type ServerConfig struct {
	ListenAddr string
	RootDir    string
}

// A ScanSource has the latest scan result of each device.
type ScanSource interface {
	Latest() map[string][]wext.ScanInfo
}

type apiHandler struct {
	src ScanSource
}

func (ah *apiHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	scans := ah.src.Latest()
	devs := make([]string, 0, len(scans))
	for dev := range scans {
		devs = append(devs, dev)
	}
	sort.Strings(devs)
	resp := []wlan.Cell{}
	for _, dev := range devs {
		resp = append(resp, wlan.Cells(dev, scans[dev])...)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("http error: %v", err)
	}
}

// NewHandler routes the scan API and, if RootDir is set, static files.
func NewHandler(cfg ServerConfig, src ScanSource) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/scan", &apiHandler{src: src})
	if cfg.RootDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.RootDir)))
	}
	return mux
}

// Serve runs the server until ctx is done.
func Serve(ctx context.Context, cfg ServerConfig, src ScanSource) error {
	s := &http.Server{Addr: cfg.ListenAddr, Handler: NewHandler(cfg, src)}
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()
	log.Infof("serving http on %s", cfg.ListenAddr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}
