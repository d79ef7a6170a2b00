package wext

import (
	"bytes"
	"io"
	"net"

	"github.com/pkg/errors"
)

const iwEncodeDisabled = 0x8000

// ScanInfo is what a scan reported about one access point. Each Has
// field tells whether the kernel sent the matching value.
type ScanInfo struct {
	AP net.HardwareAddr

	HasFreq bool
	Freq    float64

	HasMode bool
	Mode    Mode

	HasESSID  bool
	ESSIDFlag ESSIDFlag
	ESSID     string

	HasBitrate bool
	Bitrate    int

	HasQuality bool
	Quality    Quality

	HasEncode bool
	Encrypted bool

	HasProtocol bool
	Protocol    string
}

// An EventSource yields scan events until io.EOF.
type EventSource interface {
	Next() (Event, error)
}

// Aggregate folds an event sequence into one ScanInfo per access point.
// Every AddrEvent starts a new record. Records are returned newest
// first: the last access point in the stream is at index 0. On error no
// records are returned.
func Aggregate(src EventSource) ([]ScanInfo, error) {
	var found []ScanInfo
	var cur *ScanInfo
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if a, ok := ev.(AddrEvent); ok {
			if cur != nil {
				found = append(found, *cur)
			}
			cur = &ScanInfo{AP: a.Addr}
			continue
		}
		if cur == nil {
			return nil, errors.Wrapf(ErrMalformedStream, "%T before access point address", ev)
		}
		if err := cur.apply(ev); err != nil {
			return nil, err
		}
	}
	if cur != nil {
		found = append(found, *cur)
	}
	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	return found, nil
}

func (si *ScanInfo) apply(ev Event) error {
	switch e := ev.(type) {
	case FreqEvent:
		si.HasFreq, si.Freq = true, DecodeFrequency(e.Freq)
	case ModeEvent:
		m, err := ParseMode(e.Mode)
		if err != nil {
			return errors.Wrapf(err, "access point %v", si.AP)
		}
		si.HasMode, si.Mode = true, m
	case ESSIDEvent:
		si.HasESSID, si.ESSIDFlag, si.ESSID = true, essidFlag(e.Flags), ""
		essid := e.ESSID
		if len(essid) > ESSIDMaxSize {
			essid = essid[:ESSIDMaxSize]
		}
		if i := bytes.IndexByte(essid, 0); i >= 0 {
			essid = essid[:i]
		}
		si.ESSID = string(essid)
	case RateEvent:
		// One event per offered rate; keep the fastest.
		if !si.HasBitrate || int(e.Param.Value) > si.Bitrate {
			si.HasBitrate, si.Bitrate = true, int(e.Param.Value)
		}
	case QualityEvent:
		si.HasQuality, si.Quality = true, e.Quality
	case EncodeEvent:
		si.HasEncode, si.Encrypted = true, e.Flags&iwEncodeDisabled == 0
	case NameEvent:
		si.HasProtocol, si.Protocol = true, e.Name
	}
	return nil
}
