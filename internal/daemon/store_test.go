package daemon

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bikeos/wapi/wlan"
)

func TestStoreScanLog(t *testing.T) {
	dir := t.TempDir()
	s, err := newStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	sl, err := s.ScanLog("wlan0")
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := s.ScanLog("wlan0"); again != sl {
		t.Fatal("scan log reopened")
	}
	when := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []scanEntry{
		{when, []wlan.Cell{{Device: "wlan0", BSSID: "00:00:00:00:00:01", ESSID: "home", Channel: 6}}},
		{when.Add(time.Minute), []wlan.Cell{}},
	}
	for _, e := range entries {
		if err := sl.Write(e.Time, e.Cells); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(s.nowdir, "wifi", "wlan0", "scan.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []scanEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e scanEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatal(err)
		}
		got = append(got, e)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Fatalf("unexpected log (-want +got):\n%s", diff)
	}
}

func TestStoreMissingBase(t *testing.T) {
	if _, err := newStore(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing base directory")
	}
}
