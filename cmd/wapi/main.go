package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bikeos/wapi/internal/bench"
	"github.com/bikeos/wapi/internal/daemon"
	"github.com/bikeos/wapi/wext"
	"github.com/bikeos/wapi/wlan"
)

var (
	rootCmd = &cobra.Command{
		Use:   "wapi",
		Short: "Query, tune and scan wireless interfaces.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	flagDebug        bool
	flagOutDirPath   string
	flagListenAddr   string
	flagRootDir      string
	flagScanInterval time.Duration
	flagPollInterval time.Duration
	flagScanTimeout  time.Duration
	flagBufferSize   = wext.DefaultBufferSize
	flagMaxAttempts  = wext.DefaultMaxAttempts
	flagBenchDur     time.Duration
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log every failed request")

	addGetSetCommands(rootCmd)
	addScanCommands(rootCmd)

	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "scan all interfaces and log the results",
		Run:   daemonCommand,
	}
	daemonCmd.Flags().StringVar(&flagOutDirPath, "outdir", "/var/lib/wapi", "directory for recorded data")
	daemonCmd.Flags().StringVar(&flagListenAddr, "listen", "", "serve the scan API on this address")
	daemonCmd.Flags().StringVar(&flagRootDir, "webroot", "", "static files served next to the API")
	daemonCmd.Flags().DurationVar(&flagScanInterval, "interval", 30*time.Second, "time between scans")
	addScanFlags(daemonCmd)
	rootCmd.AddCommand(daemonCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark scans on all interfaces",
		Run:   benchCommand,
	}
	benchCmd.Flags().DurationVar(&flagBenchDur, "time", 30*time.Second, "duration of benchmark")
	addScanFlags(benchCmd)
	rootCmd.AddCommand(benchCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&flagPollInterval, "poll", wlan.DefaultPollInterval, "time between result polls")
	cmd.Flags().DurationVar(&flagScanTimeout, "timeout", 10*time.Second, "give up on a scan after this long")
	cmd.Flags().IntVar(&flagBufferSize, "buffer", wext.DefaultBufferSize, "initial scan buffer size")
	cmd.Flags().IntVar(&flagMaxAttempts, "retries", wext.DefaultMaxAttempts, "scan buffer doublings")
}

func daemonCommand(cmd *cobra.Command, args []string) {
	cfg := daemon.Config{
		OutDirPath:   flagOutDirPath,
		ScanInterval: flagScanInterval,
		PollInterval: flagPollInterval,
		ScanTimeout:  flagScanTimeout,
		BufferSize:   flagBufferSize,
		MaxAttempts:  flagMaxAttempts,
		ListenAddr:   flagListenAddr,
		RootDir:      flagRootDir,
	}
	fatalIf(daemon.Run(cfg))
}

func benchCommand(cmd *cobra.Command, args []string) {
	cfg := bench.Config{
		Duration:     flagBenchDur,
		PollInterval: flagPollInterval,
		ScanTimeout:  flagScanTimeout,
		BufferSize:   flagBufferSize,
		MaxAttempts:  flagMaxAttempts,
	}
	fatalIf(bench.Run(cfg))
}

func main() {
	rootCmd.SetHelpTemplate(`{{.UsageString}}`)
	fatalIf(rootCmd.Execute())
}

func fatalIf(err error) {
	if err != nil {
		log.Error(err)
		panic(err)
	}
}

func newClient() *wext.Client {
	c, err := wext.New()
	fatalIf(err)
	c.SetScanBuffer(flagBufferSize, flagMaxAttempts)
	return c
}
