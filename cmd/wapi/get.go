package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bikeos/wapi/wext"
)

var (
	flagFixed     bool
	flagESSIDOff  bool
	flagPowerUnit string
)

func addGetSetCommands(root *cobra.Command) {
	freqCmd := &cobra.Command{
		Use:   "freq <iface> [hz|channel]",
		Short: "get or set the frequency",
		Args:  cobra.RangeArgs(1, 2),
		Run:   freqCommand,
	}
	freqCmd.Flags().BoolVar(&flagFixed, "fixed", true, "pin the frequency")
	root.AddCommand(freqCmd)

	essidCmd := &cobra.Command{
		Use:   "essid <iface> [essid]",
		Short: "get or set the network name",
		Args:  cobra.RangeArgs(1, 2),
		Run:   essidCommand,
	}
	essidCmd.Flags().BoolVar(&flagESSIDOff, "off", false, "accept any network")
	root.AddCommand(essidCmd)

	root.AddCommand(&cobra.Command{
		Use:   "mode <iface> [" + strings.Join(modeNames(), "|") + "]",
		Short: "get or set the operating mode",
		Args:  cobra.RangeArgs(1, 2),
		Run:   modeCommand,
	})

	root.AddCommand(&cobra.Command{
		Use:   "ap <iface> [addr|any|off]",
		Short: "get or set the access point",
		Args:  cobra.RangeArgs(1, 2),
		Run:   apCommand,
	})

	bitrateCmd := &cobra.Command{
		Use:   "bitrate <iface> [bits/s]",
		Short: "get or set the bitrate",
		Args:  cobra.RangeArgs(1, 2),
		Run:   bitrateCommand,
	}
	bitrateCmd.Flags().BoolVar(&flagFixed, "fixed", true, "pin the bitrate")
	root.AddCommand(bitrateCmd)

	txpowerCmd := &cobra.Command{
		Use:   "txpower <iface> [power]",
		Short: "get or set the transmit power",
		Args:  cobra.RangeArgs(1, 2),
		Run:   txpowerCommand,
	}
	txpowerCmd.Flags().StringVar(&flagPowerUnit, "unit", "dbm", "power unit: dbm, mw or relative")
	root.AddCommand(txpowerCmd)
}

func modeNames() (ns []string) {
	for m := wext.ModeAuto; m <= wext.ModeMonitor; m++ {
		ns = append(ns, m.String())
	}
	return ns
}

func freqCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	iface := args[0]
	if len(args) == 1 {
		hz, flag, err := c.Frequency(iface)
		fatalIf(err)
		ch, cerr := c.FrequencyToChannel(iface, hz)
		if cerr != nil {
			fmt.Printf("%g Hz (%v)\n", hz, flag)
			return
		}
		fmt.Printf("%g Hz, channel %d (%v)\n", hz, ch, flag)
		return
	}
	hz, err := parseFrequency(c, iface, args[1])
	fatalIf(err)
	flag := wext.FreqAuto
	if flagFixed {
		flag = wext.FreqFixed
	}
	fatalIf(c.SetFrequency(iface, hz, flag))
}

// parseFrequency reads Hz, or a channel number when the value is small.
func parseFrequency(c *wext.Client, iface, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(wext.ErrInvalidArgument, "frequency %q", s)
	}
	if v < 1e3 {
		return c.ChannelToFrequency(iface, int(v))
	}
	return v, nil
}

func essidCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	if len(args) == 1 {
		essid, flag, err := c.ESSID(args[0])
		fatalIf(err)
		fmt.Printf("%q (%v)\n", essid, flag)
		return
	}
	flag := wext.ESSIDOn
	if flagESSIDOff {
		flag = wext.ESSIDOff
	}
	fatalIf(c.SetESSID(args[0], args[1], flag))
}

func modeCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	if len(args) == 1 {
		m, err := c.Mode(args[0])
		fatalIf(err)
		fmt.Println(m)
		return
	}
	m, err := wext.LookupMode(args[1])
	fatalIf(err)
	fatalIf(c.SetMode(args[0], m))
}

func apCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	if len(args) == 1 {
		addr, err := c.AP(args[0])
		fatalIf(err)
		fmt.Println(addr)
		return
	}
	var addr net.HardwareAddr
	switch args[1] {
	case "any":
		addr = wext.BroadcastAddr()
	case "off":
		addr = wext.NullAddr()
	default:
		var err error
		addr, err = net.ParseMAC(args[1])
		fatalIf(err)
	}
	fatalIf(c.SetAP(args[0], addr))
}

func bitrateCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	if len(args) == 1 {
		rate, flag, err := c.Bitrate(args[0])
		fatalIf(err)
		fmt.Printf("%d b/s (%v)\n", rate, flag)
		return
	}
	rate, err := strconv.Atoi(args[1])
	fatalIf(err)
	flag := wext.BitrateAuto
	if flagFixed {
		flag = wext.BitrateFixed
	}
	fatalIf(c.SetBitrate(args[0], rate, flag))
}

func txpowerCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	if len(args) == 1 {
		power, flag, err := c.TxPower(args[0])
		fatalIf(err)
		switch flag {
		case wext.TxPowerDBm:
			fmt.Printf("%d dBm (%d mW)\n", power, wext.DBmToMilliwatt(power))
		case wext.TxPowerMilliwatt:
			if power <= 0 {
				fmt.Printf("%d mW\n", power)
				return
			}
			fmt.Printf("%d mW (%d dBm)\n", power, wext.MilliwattToDBm(power))
		default:
			fmt.Printf("%d (%v)\n", power, flag)
		}
		return
	}
	power, err := strconv.Atoi(args[1])
	fatalIf(err)
	var flag wext.TxPowerFlag
	switch strings.ToLower(flagPowerUnit) {
	case "dbm":
		flag = wext.TxPowerDBm
	case "mw":
		flag = wext.TxPowerMilliwatt
	case "relative":
		flag = wext.TxPowerRelative
	default:
		fatalIf(errors.Wrapf(wext.ErrUnknownFlag, "power unit %q", flagPowerUnit))
	}
	fatalIf(c.SetTxPower(args[0], power, flag))
}
