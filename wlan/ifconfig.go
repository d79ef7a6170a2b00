package wlan

import (
	"bytes"
	"os/exec"

	"github.com/pkg/errors"
)

var ifconfigPath = "/sbin/ifconfig"

func ifconfig(iface, state string) error {
	out, err := exec.Command(ifconfigPath, iface, state).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "ifconfig %s %s: %s", iface, state, bytes.TrimSpace(out))
	}
	return nil
}

func ifdown(iface string) error { return ifconfig(iface, "down") }

func ifup(iface string) error { return ifconfig(iface, "up") }
