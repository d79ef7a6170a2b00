package wlan

// FrequencyToChannel maps a frequency in MHz to its 802.11 channel
// number, or 0 if it is outside the known bands.
func FrequencyToChannel(mhz int) int {
	switch {
	case mhz == 2484:
		return 14
	case mhz >= 2412 && mhz < 2484:
		return (mhz - 2407) / 5
	case mhz >= 4910 && mhz <= 4980:
		return (mhz - 4000) / 5
	case mhz >= 5000 && mhz <= 45000:
		return (mhz - 5000) / 5
	case mhz >= 58320 && mhz <= 64800:
		return (mhz - 56160) / 2160
	}
	return 0
}
