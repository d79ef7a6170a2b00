package wext

import (
	"math"

	"github.com/pkg/errors"
)

// Freq is the wire form of a frequency: M * 10^E. I carries the channel
// index in range tables.
type Freq struct {
	M     int32
	E     int16
	I     uint8
	Flags uint8
}

// DecodeFrequency converts a wire frequency into Hz.
func DecodeFrequency(f Freq) float64 {
	return float64(f.M) * math.Pow10(int(f.E))
}

// EncodeFrequency converts Hz into the wire form the kernel expects.
// Values of 1e9 and above keep six significant digits and a non-zero
// exponent; anything lower is sent as a plain integer.
func EncodeFrequency(v float64) (Freq, error) {
	if !(v > 0) || math.IsInf(v, 1) {
		return Freq{}, errors.Wrapf(ErrInvalidArgument, "frequency %g", v)
	}
	e := floorLog10(v)
	if e > 8 {
		m := int32(math.Floor(v/math.Pow10(e-6))) * 100
		return Freq{M: m, E: int16(e - 8)}, nil
	}
	return Freq{M: int32(math.Floor(v))}, nil
}

// floorLog10 corrects math.Log10, which is inexact at powers of ten.
func floorLog10(v float64) int {
	e := int(math.Floor(math.Log10(v)))
	if math.Pow10(e+1) <= v {
		e++
	} else if math.Pow10(e) > v {
		e--
	}
	return e
}

// FreqFlag tells whether the driver picked the frequency.
type FreqFlag int

const (
	FreqAuto FreqFlag = iota
	FreqFixed
)

func (f FreqFlag) String() string {
	if f == FreqFixed {
		return "fixed"
	}
	return "auto"
}

const iwFreqFixed = 0x01
