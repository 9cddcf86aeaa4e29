package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "powercap-metrics/internal/pkg/dotenv/autoload"

	"powercap-metrics/internal/config"
)

const usage = `usage: powermetrics <command> [flags]

commands:
  extract       write <device>_power_metrics.csv files from a metrics log
  split         write <file>_<device>.csv files for metrics_powercap_*.json logs
  plot          render power curves, statistics and comparison charts
  device-power  render one device across experiments with its power limits
  timewindow    render one device across experiments with its time windows
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	app, cleanup, err := initApplication(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialise application: %v\n", err)
		return 1
	}
	defer cleanup()

	config.LogConfig(app.Logger, app.Config)

	if err := cmd(ctx, app, args[1:], stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		app.Logger.Error("command failed", "command", args[0], "error", err.Error())
		fmt.Fprintf(stderr, "powermetrics %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
