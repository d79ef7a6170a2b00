package wlan

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bikeos/wapi/wext"
)

func TestFrequencyToChannel(t *testing.T) {
	var tts = []struct {
		mhz, ch int
	}{
		{2412, 1},
		{2437, 6},
		{2472, 13},
		{2484, 14},
		{5180, 36},
		{5825, 165},
		{4920, 184},
		{60480, 2},
		{900, 0},
	}
	for i, tt := range tts {
		if ch := FrequencyToChannel(tt.mhz); ch != tt.ch {
			t.Errorf("#%d: %d MHz = channel %d, wanted %d", i, tt.mhz, ch, tt.ch)
		}
	}
}

func TestNewCell(t *testing.T) {
	ap := net.HardwareAddr{0, 1, 2, 3, 4, 5}
	var tts = []struct {
		si   wext.ScanInfo
		want Cell
	}{
		{
			wext.ScanInfo{
				AP:      ap,
				HasFreq: true, Freq: 2.437e9,
				HasMode: true, Mode: wext.ModeMaster,
				HasESSID: true, ESSID: "home",
				HasBitrate: true, Bitrate: 54000000,
				HasQuality: true, Quality: wext.Quality{Qual: 55},
				HasEncode: true, Encrypted: true,
			},
			Cell{
				Device: "wlan0", BSSID: "00:01:02:03:04:05", ESSID: "home",
				Freq: 2.437e9, Channel: 6, Mode: "master", Bitrate: 54000000,
				Quality: 55, Encrypted: true,
			},
		},
		{
			wext.ScanInfo{AP: ap, HasFreq: true, Freq: 11},
			Cell{Device: "wlan0", BSSID: "00:01:02:03:04:05", Channel: 11},
		},
		{
			wext.ScanInfo{AP: ap},
			Cell{Device: "wlan0", BSSID: "00:01:02:03:04:05"},
		},
	}
	for i, tt := range tts {
		if diff := cmp.Diff(tt.want, NewCell("wlan0", tt.si)); diff != "" {
			t.Errorf("#%d: unexpected cell (-want +got):\n%s", i, diff)
		}
	}
}
