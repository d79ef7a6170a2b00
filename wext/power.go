package wext

import "math"

// DBmToMilliwatt converts dBm to milliwatts, rounding down.
func DBmToMilliwatt(dbm int) int {
	return int(math.Floor(math.Pow(10, float64(dbm)/10)))
}

// MilliwattToDBm converts milliwatts to dBm, rounding up. mw must be
// positive.
func MilliwattToDBm(mw int) int {
	x := 10 * math.Log10(float64(mw))
	if r := math.Round(x); math.Abs(x-r) < 1e-9 {
		return int(r)
	}
	return int(math.Ceil(x))
}
