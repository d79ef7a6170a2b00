package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/bikeos/wapi/wlan"
)

var escapes = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestFormatCellsAlignment(t *testing.T) {
	defer func(v bool) { color.NoColor = v }(color.NoColor)
	color.NoColor = false

	out := formatCells([]wlan.Cell{
		{BSSID: "00:11:22:33:44:55", ESSID: "home", Channel: 1, Freq: 2.412e9, Mode: "master", Bitrate: 54000000, Quality: 70, Encrypted: true},
		{BSSID: "66:77:88:99:aa:bb", ESSID: "a much longer name", Channel: 36, Mode: "master", Quality: 5},
	})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	col := strings.Index(escapes.ReplaceAllString(lines[0], ""), "ENC")
	var tts = []struct {
		line string
		at   int
	}{
		{lines[1], strings.Index(lines[1], "\x1b[")},
		{lines[2], strings.LastIndex(lines[2], "off")},
	}
	for i, tt := range tts {
		if tt.at != col {
			t.Errorf("#%d: ENC cell at %d, header at %d: %q", i, tt.at, col, tt.line)
		}
	}
	if !strings.HasSuffix(lines[1], color.YellowString("on")) {
		t.Errorf("encrypted cell not colored: %q", lines[1])
	}
	if strings.Contains(lines[2], "\x1b[") {
		t.Errorf("open cell colored: %q", lines[2])
	}
}
