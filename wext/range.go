package wext

import (
	"github.com/josharian/native"
	"github.com/pkg/errors"
)

// Offsets into struct iw_range.
const (
	rangeSize            = 568
	rangeNumBitrates     = 52
	rangeBitrates        = 56
	rangeNumTxPower      = 244
	rangeTxPower         = 248
	rangeWEVersion       = 280
	rangeWESource        = 281
	rangeNumFrequency    = 306
	rangeFrequencies     = 308
	rangeMaxBitrates     = 32
	rangeMaxTxPower      = 8
	rangeMaxFrequencies  = 32
	rangeMinLength       = 300
	rangeLegacyWEVersion = 9
	freqSize             = 8
)

// Channel pairs a channel number with its frequency.
type Channel struct {
	Number    int
	Frequency float64
}

// Range is the subset of iw_range the client uses.
type Range struct {
	// WEVersion is the wireless extensions version the driver was
	// compiled against. It selects the scan event layout.
	WEVersion int
	// WESource is the version of the driver source.
	WESource int
	Bitrates []int
	TxPower  []int
	Channels []Channel
}

// Range fetches the driver's range table.
func (c *Client) Range(ifname string) (*Range, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 2*rangeSize)
	r.SetPoint(buf, len(buf), 0)
	if err := c.do("get range", SIOCGIWRANGE, r); err != nil {
		return nil, err
	}
	n := int(r.Length)
	if n > len(buf) {
		n = len(buf)
	}
	return parseRange(buf[:n]), nil
}

func parseRange(b []byte) *Range {
	if len(b) < rangeMinLength {
		return &Range{WEVersion: rangeLegacyWEVersion}
	}
	rng := &Range{
		WEVersion: int(b[rangeWEVersion]),
		WESource:  int(b[rangeWESource]),
	}
	for i := 0; i < clampCount(b[rangeNumBitrates], rangeMaxBitrates); i++ {
		rng.Bitrates = append(rng.Bitrates, int(int32(native.Endian.Uint32(b[rangeBitrates+4*i:]))))
	}
	for i := 0; i < clampCount(b[rangeNumTxPower], rangeMaxTxPower); i++ {
		rng.TxPower = append(rng.TxPower, int(int32(native.Endian.Uint32(b[rangeTxPower+4*i:]))))
	}
	// The frequency table sits past the legacy minimum length.
	numFreq := 0
	if len(b) > rangeNumFrequency {
		numFreq = clampCount(b[rangeNumFrequency], rangeMaxFrequencies)
	}
	for i := 0; i < numFreq; i++ {
		off := rangeFrequencies + freqSize*i
		if off+freqSize > len(b) {
			break
		}
		f := decodeFreq(b[off:])
		rng.Channels = append(rng.Channels, Channel{Number: int(f.I), Frequency: DecodeFrequency(f)})
	}
	return rng
}

func clampCount(n byte, limit int) int {
	if int(n) > limit {
		return limit
	}
	return int(n)
}

// Version returns the wireless extensions version of the interface.
func (c *Client) Version(ifname string) (int, error) {
	rng, err := c.Range(ifname)
	if err != nil {
		return 0, err
	}
	return rng.WEVersion, nil
}

// FrequencyToChannel finds the channel number for hz.
func (c *Client) FrequencyToChannel(ifname string, hz float64) (int, error) {
	rng, err := c.Range(ifname)
	if err != nil {
		return 0, err
	}
	for _, ch := range rng.Channels {
		if ch.Frequency == hz {
			return ch.Number, nil
		}
	}
	return 0, errors.Wrapf(ErrNoChannel, "frequency %g", hz)
}

// ChannelToFrequency finds the frequency in Hz for a channel number.
func (c *Client) ChannelToFrequency(ifname string, ch int) (float64, error) {
	rng, err := c.Range(ifname)
	if err != nil {
		return 0, err
	}
	for _, rc := range rng.Channels {
		if rc.Number == ch {
			return rc.Frequency, nil
		}
	}
	return 0, errors.Wrapf(ErrNoChannel, "channel %d", ch)
}
