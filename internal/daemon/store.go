package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bikeos/wapi/wlan"
)

type store struct {
	basedir string
	nowdir  string

	mu   sync.Mutex
	logs map[string]*scanLog
}

func newStore(basedir string) (*store, error) {
	if _, err := os.Stat(basedir); err != nil {
		return nil, err
	}
	nd := filepath.Join(basedir, "log", time.Now().UTC().Format(time.RFC3339))
	if err := os.MkdirAll(nd, 0755); err != nil {
		return nil, err
	}
	s := &store{
		basedir: basedir,
		nowdir:  nd,
		logs:    make(map[string]*scanLog),
	}
	return s, nil
}

func (s *store) Close() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, sl := range s.logs {
		if cerr := sl.f.Close(); err == nil {
			err = cerr
		}
		delete(s.logs, name)
	}
	return err
}

// Wifi is the directory for a wifi device.
func (s *store) Wifi(name string) (string, error) {
	wifid := filepath.Join(s.nowdir, "wifi", name)
	if err := os.MkdirAll(wifid, 0755); err != nil {
		return "", err
	}
	return wifid, nil
}

// ScanLog is the JSON lines scan history of a wifi device.
func (s *store) ScanLog(name string) (*scanLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.logs[name]; ok {
		return sl, nil
	}
	wifid, err := s.Wifi(name)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(wifid, "scan.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	sl := &scanLog{f: f, enc: json.NewEncoder(f)}
	s.logs[name] = sl
	return sl, nil
}

type scanLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

type scanEntry struct {
	Time  time.Time   `json:"time"`
	Cells []wlan.Cell `json:"cells"`
}

func (sl *scanLog) Write(t time.Time, cells []wlan.Cell) error {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.enc.Encode(scanEntry{Time: t.UTC(), Cells: cells})
}
