package daemon

import (
	"net"
	"testing"

	"github.com/bikeos/wapi/wext"
)

func scanOf(macs ...byte) []wext.ScanInfo {
	infos := make([]wext.ScanInfo, len(macs))
	for i, m := range macs {
		infos[i] = wext.ScanInfo{AP: net.HardwareAddr{0, 0, 0, 0, 0, m}}
	}
	return infos
}

func TestReportUpdate(t *testing.T) {
	var tts = []struct {
		scans  map[string][]wext.ScanInfo
		gained int
		stuck  int
		total  int
	}{
		{
			map[string][]wext.ScanInfo{"wlan0": scanOf(1, 2), "wlan1": scanOf(2, 3)},
			3, 0, 3,
		},
		{
			map[string][]wext.ScanInfo{"wlan0": scanOf(1, 2), "wlan1": scanOf(1)},
			0, 1, 3,
		},
		{
			map[string][]wext.ScanInfo{"wlan0": scanOf(4), "wlan1": scanOf()},
			1, 1, 4,
		},
		{
			map[string][]wext.ScanInfo{},
			0, 0, 4,
		},
	}
	r := newReport()
	for i, tt := range tts {
		gained, stuck := r.update(tt.scans)
		if gained != tt.gained || stuck != tt.stuck || len(r.bssids) != tt.total {
			t.Errorf("#%d: wanted gained %d stuck %d total %d, got %d %d %d",
				i, tt.gained, tt.stuck, tt.total, gained, stuck, len(r.bssids))
		}
	}
}

func TestReportSay(t *testing.T) {
	r := newReport()
	r.update(map[string][]wext.ScanInfo{"wlan0": scanOf(1, 2)})
	if s := r.say(2, 0); s != "radio report: total unique bssids: 2. gained 2." {
		t.Errorf("got %q", s)
	}
	if s := r.say(0, 1); s != "radio report: total unique bssids: 2. gained 0. 1 devices stuck!" {
		t.Errorf("got %q", s)
	}
}
