package wlan

import (
	"net"

	nl80211 "github.com/mdlayher/wifi"
)

type Device struct {
	iface *nl80211.Interface
}

func (d *Device) Name() string { return d.iface.Name }

func (d *Device) HardwareAddr() net.HardwareAddr { return d.iface.HardwareAddr }

// Frequency is the tuned frequency in MHz, or 0 if the interface is down.
func (d *Device) Frequency() int { return d.iface.Frequency }

func Enumerate() ([]Device, error) {
	c, err := nl80211.New()
	if err != nil {
		return nil, err
	}
	defer c.Close()
	ifaces, err := c.Interfaces()
	if err != nil {
		return nil, err
	}
	ret := []Device{}
	for _, iface := range ifaces {
		// P2P devices have no netdev to issue ioctls against.
		if iface.Name == "" {
			continue
		}
		ret = append(ret, Device{iface})
	}
	return ret, nil
}
