package wext

import (
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// iwRange mirrors struct iw_range from linux/wireless.h with natural
// alignment, so the compiler places every field.
type iwRange struct {
	Throughput         uint32
	MinNWID, MaxNWID   uint32
	OldNumChannels     uint16
	OldNumFrequency    uint8
	ScanCapa           uint8
	EventCapa          [6]uint32
	Sensitivity        int32
	MaxQual, AvgQual   [4]uint8
	NumBitrates        uint8
	Bitrates           [32]int32
	MinRTS, MaxRTS     int32
	MinFrag, MaxFrag   int32
	MinPMP, MaxPMP     int32
	MinPMT, MaxPMT     int32
	PMPFlags, PMTFlags uint16
	PMCapa             uint16
	EncodingSize       [8]uint16
	NumEncodingSizes   uint8
	MaxEncodingTokens  uint8
	EncodingLoginIndex uint8
	TxPowerCapa        uint16
	NumTxPower         uint8
	TxPower            [8]int32
	WEVersionCompiled  uint8
	WEVersionSource    uint8
	RetryCapa          uint16
	RetryFlags         uint16
	RTimeFlags         uint16
	MinRetry, MaxRetry int32
	MinRTime, MaxRTime int32
	NumChannels        uint16
	NumFrequency       uint8
	Freq               [32]struct {
		M     int32
		E     int16
		I     uint8
		Flags uint8
	}
	EncCapa uint32
}

func rangeReply(version int, rates []int32, freqs []Freq) []byte {
	var r iwRange
	r.WEVersionCompiled, r.WEVersionSource = uint8(version), 16
	r.NumBitrates = uint8(len(rates))
	copy(r.Bitrates[:], rates)
	r.NumTxPower = 2
	r.TxPower[0], r.TxPower[1] = 1, 20
	r.NumFrequency = uint8(len(freqs))
	for i, f := range freqs {
		r.Freq[i].M, r.Freq[i].E, r.Freq[i].I, r.Freq[i].Flags = f.M, f.E, f.I, f.Flags
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&r)), unsafe.Sizeof(r))
	return append([]byte(nil), b...)
}

func TestRangeLayout(t *testing.T) {
	var r iwRange
	var tts = []struct {
		name      string
		got, want uintptr
	}{
		{"size", unsafe.Sizeof(r), rangeSize},
		{"num_bitrates", unsafe.Offsetof(r.NumBitrates), rangeNumBitrates},
		{"bitrates", unsafe.Offsetof(r.Bitrates), rangeBitrates},
		{"num_txpower", unsafe.Offsetof(r.NumTxPower), rangeNumTxPower},
		{"txpower", unsafe.Offsetof(r.TxPower), rangeTxPower},
		{"we_version_compiled", unsafe.Offsetof(r.WEVersionCompiled), rangeWEVersion},
		{"we_version_source", unsafe.Offsetof(r.WEVersionSource), rangeWESource},
		{"num_frequency", unsafe.Offsetof(r.NumFrequency), rangeNumFrequency},
		{"freq", unsafe.Offsetof(r.Freq), rangeFrequencies},
	}
	for i, tt := range tts {
		if tt.got != tt.want {
			t.Errorf("#%d: %s at %d, parsed at %d", i, tt.name, tt.got, tt.want)
		}
	}
	if unsafe.Sizeof(r) != 568 || unsafe.Offsetof(r.NumTxPower) != 244 {
		t.Errorf("iw_range mirror is %d bytes with num_txpower at %d", unsafe.Sizeof(r), unsafe.Offsetof(r.NumTxPower))
	}
}

func rangeClient(reply []byte) *Client {
	return NewClient(ControllerFunc(func(cmd uint, r *Request) error {
		if cmd != SIOCGIWRANGE {
			return errors.Errorf("unexpected command %#x", cmd)
		}
		r.Length = uint16(copy(r.Data, reply))
		return nil
	}))
}

var testChannels = []Freq{
	{M: 2412, E: 6, I: 1},
	{M: 2437, E: 6, I: 6},
	{M: 5180, E: 6, I: 36},
}

func TestRange(t *testing.T) {
	c := rangeClient(rangeReply(21, []int32{1000000, 11000000}, testChannels))
	rng, err := c.Range("wlan0")
	if err != nil {
		t.Fatal(err)
	}
	want := &Range{
		WEVersion: 21,
		WESource:  16,
		Bitrates:  []int{1000000, 11000000},
		TxPower:   []int{1, 20},
		Channels: []Channel{
			{Number: 1, Frequency: 2.412e9},
			{Number: 6, Frequency: 2.437e9},
			{Number: 36, Frequency: 5.18e9},
		},
	}
	if diff := cmp.Diff(want, rng); diff != "" {
		t.Fatalf("unexpected range (-want +got):\n%s", diff)
	}
}

func TestRangeLegacy(t *testing.T) {
	c := rangeClient(make([]byte, 120))
	v, err := c.Version("wlan0")
	if err != nil {
		t.Fatal(err)
	}
	if v != rangeLegacyWEVersion {
		t.Fatalf("version %d, wanted %d", v, rangeLegacyWEVersion)
	}
}

func TestRangeShortFrequencyTable(t *testing.T) {
	reply := rangeReply(22, nil, testChannels)
	rng := parseRange(reply[:rangeFrequencies+freqSize+3])
	if len(rng.Channels) != 1 {
		t.Fatalf("got %d channels from a cut table, wanted 1", len(rng.Channels))
	}
	reply[rangeNumBitrates] = 200
	if rng := parseRange(reply); len(rng.Bitrates) != rangeMaxBitrates {
		t.Fatalf("got %d bitrates, wanted %d", len(rng.Bitrates), rangeMaxBitrates)
	}
}

func TestChannelLookup(t *testing.T) {
	c := rangeClient(rangeReply(22, nil, testChannels))
	ch, err := c.FrequencyToChannel("wlan0", 2.437e9)
	if err != nil || ch != 6 {
		t.Fatalf("got %d %v", ch, err)
	}
	hz, err := c.ChannelToFrequency("wlan0", 36)
	if err != nil || hz != 5.18e9 {
		t.Fatalf("got %g %v", hz, err)
	}
	if _, err := c.FrequencyToChannel("wlan0", 2.45e9); !errors.Is(err, ErrNoChannel) {
		t.Fatalf("got %v, wanted no channel", err)
	}
	if _, err := c.ChannelToFrequency("wlan0", 14); !errors.Is(err, ErrNoChannel) {
		t.Fatalf("got %v, wanted no channel", err)
	}
}
