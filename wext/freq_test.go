package wext

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestEncodeFrequency(t *testing.T) {
	var tts = []struct {
		hz   float64
		want Freq
	}{
		{2.412e9, Freq{M: 241200000, E: 1}},
		{5.18e9, Freq{M: 518000000, E: 1}},
		{1e9, Freq{M: 100000000, E: 1}},
		{2.4e10, Freq{M: 240000000, E: 2}},
		{2.4123456789e9, Freq{M: 241234500, E: 1}},
		{999999999, Freq{M: 999999999}},
		{1e8, Freq{M: 100000000}},
		{2437, Freq{M: 2437}},
		{11.9, Freq{M: 11}},
	}
	for i, tt := range tts {
		f, err := EncodeFrequency(tt.hz)
		if err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
		if f != tt.want {
			t.Errorf("#%d: encode(%g) = %+v, wanted %+v", i, tt.hz, f, tt.want)
		}
	}
}

func TestFrequencyRoundTrip(t *testing.T) {
	var tts = []struct {
		hz    float64
		exact bool
	}{
		{1, true},
		{2437, true},
		{123456789, true},
		{999999999, true},
		{2.412e9, true},
		{5.745e9, true},
		{2.4123456789e9, false},
		{6.0123456e10, false},
	}
	for i, tt := range tts {
		f, err := EncodeFrequency(tt.hz)
		if err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
		got := DecodeFrequency(f)
		if tt.exact && got != tt.hz {
			t.Errorf("#%d: round trip %g, got %g", i, tt.hz, got)
		}
		if rel := math.Abs(got-tt.hz) / tt.hz; rel > 0.01 {
			t.Errorf("#%d: round trip %g, got %g (off by %g)", i, tt.hz, got, rel)
		}
	}
}

func TestEncodeFrequencyInvalid(t *testing.T) {
	for i, hz := range []float64{0, -2.412e9, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := EncodeFrequency(hz); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("#%d: encode(%g) = %v, wanted invalid argument", i, hz, err)
		}
	}
}

func TestDecodeFrequency(t *testing.T) {
	var tts = []struct {
		f    Freq
		want float64
	}{
		{Freq{M: 2437, E: 6}, 2.437e9},
		{Freq{M: 241200000, E: 1}, 2.412e9},
		{Freq{M: 6}, 6},
		{Freq{}, 0},
		{Freq{M: -5, E: 2}, -500},
	}
	for i, tt := range tts {
		if got := DecodeFrequency(tt.f); got != tt.want {
			t.Errorf("#%d: decode(%+v) = %g, wanted %g", i, tt.f, got, tt.want)
		}
	}
}

func TestPowerConversion(t *testing.T) {
	var tts = []struct {
		dbm, mw int
	}{
		{0, 1},
		{10, 10},
		{20, 100},
		{30, 1000},
	}
	for i, tt := range tts {
		if got := DBmToMilliwatt(tt.dbm); got != tt.mw {
			t.Errorf("#%d: %d dBm = %d mW, wanted %d", i, tt.dbm, got, tt.mw)
		}
		if got := MilliwattToDBm(tt.mw); got != tt.dbm {
			t.Errorf("#%d: %d mW = %d dBm, wanted %d", i, tt.mw, got, tt.dbm)
		}
	}
	if got := DBmToMilliwatt(15); got != 31 {
		t.Errorf("15 dBm = %d mW, wanted 31", got)
	}
	if got := MilliwattToDBm(50); got != 17 {
		t.Errorf("50 mW = %d dBm, wanted 17", got)
	}
}
