package wlan

import (
	"math"

	"github.com/bikeos/wapi/wext"
)

// Cell is the flattened, JSON friendly form of a scan record.
type Cell struct {
	Device    string  `json:"device"`
	BSSID     string  `json:"bssid"`
	ESSID     string  `json:"essid,omitempty"`
	Freq      float64 `json:"freq,omitempty"`
	Channel   int     `json:"channel,omitempty"`
	Mode      string  `json:"mode,omitempty"`
	Bitrate   int     `json:"bitrate,omitempty"`
	Quality   int     `json:"quality,omitempty"`
	Encrypted bool    `json:"encrypted"`
	Protocol  string  `json:"protocol,omitempty"`
}

func NewCell(dev string, si wext.ScanInfo) Cell {
	c := Cell{Device: dev, BSSID: si.AP.String()}
	if si.HasESSID {
		c.ESSID = si.ESSID
	}
	switch {
	case !si.HasFreq:
	case si.Freq < 1e3:
		// Some drivers report the channel number instead.
		c.Channel = int(si.Freq)
	default:
		c.Freq = si.Freq
		c.Channel = FrequencyToChannel(int(math.Round(si.Freq / 1e6)))
	}
	if si.HasMode {
		c.Mode = si.Mode.String()
	}
	if si.HasBitrate {
		c.Bitrate = si.Bitrate
	}
	if si.HasQuality {
		c.Quality = int(si.Quality.Qual)
	}
	if si.HasEncode {
		c.Encrypted = si.Encrypted
	}
	if si.HasProtocol {
		c.Protocol = si.Protocol
	}
	return c
}

// Cells converts a scan result, keeping its order.
func Cells(dev string, infos []wext.ScanInfo) []Cell {
	cs := make([]Cell, len(infos))
	for i, si := range infos {
		cs[i] = NewCell(dev, si)
	}
	return cs
}
