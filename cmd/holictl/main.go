package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// Version is set at build time.
var Version = "dev" //nolint:gochecknoglobals // overridden with -ldflags

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	ctl := cli.NewApp()
	ctl.Name = "holictl"
	ctl.Usage = "Inspect, convert and publish staff holiday calendars"
	ctl.Version = Version
	ctl.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format (text or json)",
			Value: "text",
		},
	}
	ctl.Before = setupLogging
	ctl.Commands = []cli.Command{
		MonthCmd,
		ImportCmd,
		ICSCmd,
		PushCmd,
	}
	return ctl
}
