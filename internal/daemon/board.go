package daemon

import (
	"sync"

	"github.com/bikeos/wapi/wext"
)

// board holds the latest scan of every device.
type board struct {
	mu    sync.RWMutex
	scans map[string][]wext.ScanInfo
}

func newBoard() *board { return &board{scans: make(map[string][]wext.ScanInfo)} }

func (b *board) set(dev string, infos []wext.ScanInfo) {
	b.mu.Lock()
	b.scans[dev] = infos
	b.mu.Unlock()
}

func (b *board) remove(dev string) {
	b.mu.Lock()
	delete(b.scans, dev)
	b.mu.Unlock()
}

// Latest returns the most recent scan of each device. Callers must not
// modify the records.
func (b *board) Latest() map[string][]wext.ScanInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m := make(map[string][]wext.ScanInfo, len(b.scans))
	for dev, infos := range b.scans {
		m[dev] = infos
	}
	return m
}
