package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bikeos/wapi/wlan"
)

var flagSorted bool

var header = color.New(color.Bold, color.FgCyan)

func addScanCommands(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list wireless interfaces",
		Args:  cobra.NoArgs,
		Run:   listCommand,
	})

	rangeCmd := &cobra.Command{
		Use:   "range <iface>",
		Short: "show the driver's range table",
		Args:  cobra.ExactArgs(1),
		Run:   rangeCommand,
	}
	root.AddCommand(rangeCmd)

	scanCmd := &cobra.Command{
		Use:   "scan <iface>",
		Short: "scan for access points",
		Args:  cobra.ExactArgs(1),
		Run:   scanCommand,
	}
	scanCmd.Flags().BoolVar(&flagSorted, "sorted", false, "sort by ESSID instead of kernel order")
	addScanFlags(scanCmd)
	root.AddCommand(scanCmd)
}

// printTable aligns rows under a colored header.
func printTable(head string, rows func(w io.Writer)) {
	fmt.Print(layoutTable(head, rows, nil))
}

// layoutTable aligns rows under a colored header. Color codes would
// count as cell width, so paint sees each row only after alignment.
func layoutTable(head string, rows func(w io.Writer), paint func(string) string) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, head)
	rows(tw)
	fatalIf(tw.Flush())
	var out strings.Builder
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	out.WriteString(header.Sprint(lines[0]) + "\n")
	for _, l := range lines[1:] {
		if paint != nil {
			l = paint(l)
		}
		out.WriteString(l + "\n")
	}
	return out.String()
}

func listCommand(cmd *cobra.Command, args []string) {
	wdevs, err := wlan.Enumerate()
	fatalIf(err)
	printTable("IFACE\tADDR\tFREQ\tCHANNELS\tSSID", func(w io.Writer) {
		for i := range wdevs {
			freq := "-"
			if mhz := wdevs[i].Frequency(); mhz != 0 {
				freq = fmt.Sprintf("%d MHz (ch %d)", mhz, wlan.FrequencyToChannel(mhz))
			}
			chans, ssid := "-", "-"
			if wf, err := wlan.NewWifi(wdevs[i]); err == nil {
				if fs, ferr := wf.Frequencies(); ferr == nil {
					chans = fmt.Sprint(len(fs))
				}
				if bss, berr := wf.Associated(); berr == nil {
					ssid = fmt.Sprintf("%q (%v)", bss.SSID, bss.BSSID)
				}
				wf.Close()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", wdevs[i].Name(), wdevs[i].HardwareAddr(), freq, chans, ssid)
		}
	})
}

func rangeCommand(cmd *cobra.Command, args []string) {
	c := newClient()
	defer c.Close()
	rng, err := c.Range(args[0])
	fatalIf(err)
	fmt.Printf("wireless extensions %d (source %d)\n", rng.WEVersion, rng.WESource)
	if len(rng.Bitrates) > 0 {
		rates := make([]string, len(rng.Bitrates))
		for i, r := range rng.Bitrates {
			rates[i] = fmt.Sprintf("%g", float64(r)/1e6)
		}
		fmt.Printf("bitrates (Mb/s): %s\n", strings.Join(rates, " "))
	}
	if len(rng.TxPower) > 0 {
		fmt.Printf("txpower levels: %v\n", rng.TxPower)
	}
	printTable("CHANNEL\tFREQ", func(w io.Writer) {
		for _, ch := range rng.Channels {
			fmt.Fprintf(w, "%d\t%.3f GHz\n", ch.Number, ch.Frequency/1e9)
		}
	})
}

func scanCommand(cmd *cobra.Command, args []string) {
	w := wlan.NewWifiClient(args[0], newClient())
	defer w.Close()
	ctx, cancel := context.WithTimeout(context.Background(), flagScanTimeout)
	defer cancel()
	infos, err := w.Scan(ctx, flagPollInterval)
	fatalIf(err)
	cells := wlan.Cells(w.Name(), infos)
	if flagSorted {
		sort.SliceStable(cells, func(i, j int) bool {
			if cells[i].ESSID != cells[j].ESSID {
				return cells[i].ESSID < cells[j].ESSID
			}
			return cells[i].BSSID < cells[j].BSSID
		})
	}
	printCells(cells)
}

func printCells(cells []wlan.Cell) {
	fmt.Print(formatCells(cells))
	fmt.Printf("%d cells\n", len(cells))
}

func formatCells(cells []wlan.Cell) string {
	rows := func(w io.Writer) {
		for _, c := range cells {
			freq := "-"
			if c.Freq != 0 {
				freq = fmt.Sprintf("%.3f", c.Freq/1e9)
			}
			enc := "off"
			if c.Encrypted {
				enc = "on"
			}
			fmt.Fprintf(w, "%s\t%q\t%d\t%s\t%s\t%g\t%d\t%s\n",
				c.BSSID, c.ESSID, c.Channel, freq, c.Mode, float64(c.Bitrate)/1e6, c.Quality, enc)
		}
	}
	// ENC is the last column.
	paint := func(l string) string {
		if strings.HasSuffix(l, " on") {
			return l[:len(l)-len("on")] + color.YellowString("on")
		}
		return l
	}
	return layoutTable("BSSID\tESSID\tCH\tFREQ\tMODE\tRATE\tQUAL\tENC", rows, paint)
}
