package wext

import (
	"bytes"
	"net"

	"github.com/pkg/errors"
)

// Frequency returns the operating frequency in Hz.
func (c *Client) Frequency(ifname string) (float64, FreqFlag, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return 0, 0, err
	}
	if err := c.do("get frequency", SIOCGIWFREQ, r); err != nil {
		return 0, 0, err
	}
	f := r.Freq()
	flag := FreqAuto
	if f.Flags&iwFreqFixed != 0 {
		flag = FreqFixed
	}
	return DecodeFrequency(f), flag, nil
}

// SetFrequency tunes the interface to hz.
func (c *Client) SetFrequency(ifname string, hz float64, flag FreqFlag) error {
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	f, err := EncodeFrequency(hz)
	if err != nil {
		return err
	}
	if flag == FreqFixed {
		f.Flags = iwFreqFixed
	}
	r.SetFreq(f)
	return c.do("set frequency", SIOCSIWFREQ, r)
}

// ESSIDFlag tells whether the ESSID is in use or the interface accepts any.
type ESSIDFlag int

const (
	ESSIDOn ESSIDFlag = iota
	ESSIDOff
)

func (f ESSIDFlag) String() string {
	if f == ESSIDOff {
		return "off"
	}
	return "on"
}

func essidFlag(flags uint16) ESSIDFlag {
	if flags != 0 {
		return ESSIDOn
	}
	return ESSIDOff
}

// ESSID returns the network name of the interface.
func (c *Client) ESSID(ifname string) (string, ESSIDFlag, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return "", 0, err
	}
	buf := make([]byte, ESSIDMaxSize+1)
	r.SetPoint(buf, len(buf), 0)
	if err := c.do("get essid", SIOCGIWESSID, r); err != nil {
		return "", 0, err
	}
	n := int(r.Length)
	if n > ESSIDMaxSize {
		n = ESSIDMaxSize
	}
	essid := buf[:n]
	if i := bytes.IndexByte(essid, 0); i >= 0 {
		essid = essid[:i]
	}
	return string(essid), essidFlag(r.Flags), nil
}

// SetESSID sets the network name. Names longer than ESSIDMaxSize bytes
// are truncated.
func (c *Client) SetESSID(ifname, essid string, flag ESSIDFlag) error {
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	if len(essid) > ESSIDMaxSize {
		essid = essid[:ESSIDMaxSize]
	}
	buf := make([]byte, ESSIDMaxSize+1)
	n := copy(buf, essid)
	var flags uint16
	if flag == ESSIDOn {
		flags = 1
	}
	r.SetPoint(buf, n, flags)
	return c.do("set essid", SIOCSIWESSID, r)
}

// Mode returns the operating mode.
func (c *Client) Mode(ifname string) (Mode, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return 0, err
	}
	if err := c.do("get mode", SIOCGIWMODE, r); err != nil {
		return 0, err
	}
	return ParseMode(r.Mode())
}

// SetMode changes the operating mode.
func (c *Client) SetMode(ifname string, m Mode) error {
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	if _, err := ParseMode(uint32(m)); err != nil {
		return err
	}
	r.SetMode(uint32(m))
	return c.do("set mode", SIOCSIWMODE, r)
}

// BroadcastAddr is the "any" access point address.
func BroadcastAddr() net.HardwareAddr {
	return net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// NullAddr is the "off" access point address.
func NullAddr() net.HardwareAddr { return make(net.HardwareAddr, hwAddrLen) }

// AP returns the address of the associated access point.
func (c *Client) AP(ifname string) (net.HardwareAddr, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return nil, err
	}
	if err := c.do("get ap", SIOCGIWAP, r); err != nil {
		return nil, err
	}
	return r.Addr(), nil
}

// SetAP forces association with the access point at addr.
func (c *Client) SetAP(ifname string, addr net.HardwareAddr) error {
	if len(addr) != hwAddrLen {
		return errors.Wrapf(ErrInvalidArgument, "hardware address %v", addr)
	}
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	r.SetAddr(arphrdEther, addr)
	return c.do("set ap", SIOCSIWAP, r)
}

// BitrateFlag tells whether the bitrate is fixed or picked by the driver.
type BitrateFlag int

const (
	BitrateAuto BitrateFlag = iota
	BitrateFixed
)

func (f BitrateFlag) String() string {
	if f == BitrateFixed {
		return "fixed"
	}
	return "auto"
}

// Bitrate returns the bitrate in bits/second.
func (c *Client) Bitrate(ifname string) (int, BitrateFlag, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return 0, 0, err
	}
	if err := c.do("get bitrate", SIOCGIWRATE, r); err != nil {
		return 0, 0, err
	}
	p := r.Param()
	if p.Disabled {
		return 0, 0, errors.Wrap(ErrDisabled, "bitrate")
	}
	flag := BitrateAuto
	if p.Fixed {
		flag = BitrateFixed
	}
	return int(p.Value), flag, nil
}

// SetBitrate sets the bitrate in bits/second.
func (c *Client) SetBitrate(ifname string, bitrate int, flag BitrateFlag) error {
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	r.SetParam(Param{Value: int32(bitrate), Fixed: flag == BitrateFixed})
	return c.do("set bitrate", SIOCSIWRATE, r)
}

// TxPowerFlag is the unit of a transmit power value.
type TxPowerFlag int

const (
	TxPowerDBm TxPowerFlag = iota
	TxPowerMilliwatt
	TxPowerRelative
)

func (f TxPowerFlag) String() string {
	switch f {
	case TxPowerMilliwatt:
		return "mW"
	case TxPowerRelative:
		return "relative"
	default:
		return "dBm"
	}
}

const (
	iwTxPowDBm      = 0x0000
	iwTxPowMwatt    = 0x0001
	iwTxPowRelative = 0x0002
	iwTxPowType     = 0x00FF
)

// TxPower returns the transmit power and its unit.
func (c *Client) TxPower(ifname string) (int, TxPowerFlag, error) {
	r, err := newRequest(ifname)
	if err != nil {
		return 0, 0, err
	}
	if err := c.do("get txpower", SIOCGIWTXPOW, r); err != nil {
		return 0, 0, err
	}
	p := r.Param()
	if p.Disabled {
		return 0, 0, errors.Wrap(ErrDisabled, "txpower")
	}
	var flag TxPowerFlag
	switch p.Flags & iwTxPowType {
	case iwTxPowDBm:
		flag = TxPowerDBm
	case iwTxPowMwatt:
		flag = TxPowerMilliwatt
	case iwTxPowRelative:
		flag = TxPowerRelative
	default:
		return 0, 0, errors.Wrapf(ErrUnknownFlag, "txpower flags %#x", p.Flags)
	}
	return int(p.Value), flag, nil
}

// SetTxPower sets the transmit power.
func (c *Client) SetTxPower(ifname string, power int, flag TxPowerFlag) error {
	r, err := newRequest(ifname)
	if err != nil {
		return err
	}
	var flags uint16
	switch flag {
	case TxPowerDBm:
		flags = iwTxPowDBm
	case TxPowerMilliwatt:
		flags = iwTxPowMwatt
	case TxPowerRelative:
		flags = iwTxPowRelative
	default:
		return errors.Wrapf(ErrUnknownFlag, "txpower flag %d", flag)
	}
	r.SetParam(Param{Value: int32(power), Flags: flags})
	return c.do("set txpower", SIOCSIWTXPOW, r)
}
