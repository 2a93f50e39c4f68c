package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/okian/holical/internal/adapters/xlsx"
	app "github.com/okian/holical/internal/app"
	"github.com/okian/holical/internal/client"
	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/view"
	"github.com/okian/holical/pkg/logger"
)

var errMissingFile = errors.New("missing spreadsheet argument")

// Flags shared by the commands that pick a month.
var monthFlags = []cli.Flag{ //nolint:gochecknoglobals // cli flag definitions
	&cli.IntFlag{
		Name:  "year",
		Usage: "Year to show; defaults to the current year",
	},
	&cli.IntFlag{
		Name:  "month",
		Usage: "Month to show (1-12); defaults to the current month",
	},
	&cli.StringFlag{
		Name:  "week-start",
		Usage: "First day of the week",
		Value: "monday",
	},
	&cli.StringFlag{
		Name:  "timezone",
		Usage: "IANA zone deciding which day is today",
		Value: "UTC",
	},
}

// MonthCmd prints a month grid with its events.
var MonthCmd = cli.Command{ //nolint:gochecknoglobals // cli command definition
	Name:      "month",
	Usage:     "Print the month calendar, from a spreadsheet or the demo rota",
	ArgsUsage: "[events.xlsx]",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "prev", Usage: "Show the month before"},
		&cli.BoolFlag{Name: "next", Usage: "Show the month after"},
		&cli.BoolFlag{Name: "today", Usage: "Jump to the current month"},
	}, monthFlags...),
	Action: showMonth,
}

// ImportCmd validates a spreadsheet without storing anything.
var ImportCmd = cli.Command{ //nolint:gochecknoglobals // cli command definition
	Name:      "import",
	Usage:     "Validate a spreadsheet and report accepted and rejected rows",
	ArgsUsage: "events.xlsx",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "max-rows",
			Usage: "Maximum data rows to read",
			Value: 5000,
		},
	},
	Action: checkImport,
}

// ICSCmd writes one month, or every event, as an iCalendar file.
var ICSCmd = cli.Command{ //nolint:gochecknoglobals // cli command definition
	Name:      "ics",
	Usage:     "Write a month as iCalendar, from a spreadsheet or the demo rota",
	ArgsUsage: "[events.xlsx]",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Write every event instead of one month",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Output file; stdout when empty",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Calendar name",
			Value: "Staff Holidays",
		},
	}, monthFlags...),
	Action: writeICS,
}

// PushCmd posts the events of a spreadsheet to a running server.
var PushCmd = cli.Command{ //nolint:gochecknoglobals // cli command definition
	Name:      "push",
	Usage:     "Send spreadsheet events to a holical server",
	ArgsUsage: "events.xlsx",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "Server base URL",
			Value: "http://localhost:9080",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent requests",
			Value: 4,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per request timeout",
			Value: 10 * time.Second,
		},
	},
	Action: pushEvents,
}

func setupLogging(c *cli.Context) error {
	if err := logger.InitWith(c.App.ErrWriter, c.String("log-format")); err != nil {
		return err
	}
	level := "warn"
	if c.Bool("debug") {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// newService builds and starts a service for the month flags. Without a
// spreadsheet the demo rota is seeded instead.
func newService(ctx context.Context, c *cli.Context, extra ...app.Option) (*app.Service, error) {
	weekStart, err := calendar.ParseWeekday(c.String("week-start"))
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(c.String("timezone"))
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.String("timezone"), err)
	}
	year, month := c.Int("year"), c.Int("month")
	if year != 0 || month != 0 {
		if _, err := calendar.NewNavigation(year, time.Month(month)); err != nil {
			return nil, err
		}
	}

	path := c.Args().First()
	opts := append([]app.Option{
		app.WithLogger(logger.Named("holictl")),
		app.WithWeekStart(weekStart),
		app.WithLocation(loc),
		app.WithInitialMonth(year, time.Month(month)),
		app.WithSeedDemo(path == ""),
	}, extra...)

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	if path == "" {
		return svc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		svc.Stop()
		return nil, err
	}
	defer func() { _ = f.Close() }()

	res, err := svc.ImportXLSX(ctx, f)
	if err != nil {
		svc.Stop()
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if n := res.Skipped(); n > 0 {
		fmt.Fprintf(c.App.ErrWriter, "skipped %d rows of %s\n", n, path)
	}
	return svc, nil
}

func showMonth(c *cli.Context) error {
	ctx := context.Background()
	svc, err := newService(ctx, c)
	if err != nil {
		return err
	}
	defer svc.Stop()

	ctl, err := svc.Controller(view.TextRenderer{W: c.App.Writer})
	if err != nil {
		return err
	}
	switch {
	case c.Bool("prev"):
		return ctl.OnPreviousMonth(ctx)
	case c.Bool("next"):
		return ctl.OnNextMonth(ctx)
	case c.Bool("today"):
		return ctl.OnToday(ctx)
	default:
		return ctl.Refresh(ctx)
	}
}

func openSpreadsheet(c *cli.Context) (*os.File, error) {
	path := c.Args().First()
	if path == "" {
		return nil, errMissingFile
	}
	return os.Open(path)
}

func checkImport(c *cli.Context) error {
	f, err := openSpreadsheet(c)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	events, report, err := xlsx.Import(f, xlsx.WithMaxRows(c.Int("max-rows")))
	if err != nil {
		return err
	}
	return printReport(c.App.Writer, len(events), report)
}

func printReport(w io.Writer, accepted int, report xlsx.Report) error {
	if _, err := fmt.Fprintf(w, "accepted: %d\nrejected: %d\n", accepted, len(report.Rejected)); err != nil {
		return err
	}
	for _, r := range report.Rejected {
		if _, err := fmt.Fprintf(w, "  row %d: %s\n", r.Row, r.Reason); err != nil {
			return err
		}
	}
	if report.Truncated {
		_, err := fmt.Fprintln(w, "truncated: row limit reached")
		return err
	}
	return nil
}

func writeICS(c *cli.Context) error {
	ctx := context.Background()
	svc, err := newService(ctx, c, app.WithCalendarName(c.String("name")))
	if err != nil {
		return err
	}
	defer svc.Stop()

	w := c.App.Writer
	if out := c.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	var n int
	if c.Bool("all") {
		n, err = svc.ExportAllICS(ctx, w)
	} else {
		n, err = svc.ExportICS(ctx, w, svc.InitialNavigation())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "wrote %d events\n", n)
	return nil
}

func pushEvents(c *cli.Context) error {
	f, err := openSpreadsheet(c)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	events, report, err := xlsx.Import(f)
	if err != nil {
		return err
	}
	if len(report.Rejected) > 0 {
		fmt.Fprintf(c.App.ErrWriter, "%d rows rejected; run import for details\n", len(report.Rejected))
	}

	workers := c.Int("workers")
	cl := client.New(c.String("url"),
		client.WithHTTPClient(&http.Client{Transport: pushTransport(workers)}),
		client.WithWorkers(workers),
		client.WithTimeout(c.Duration("timeout")),
	)
	sum, err := cl.Push(context.Background(), events)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "submitted: %d\ncreated: %d\nconflicts: %d\nfailed: %d\n",
		sum.Submitted, sum.Created, sum.Conflicts, sum.Failed)
	return err
}

// pushTransport keeps one idle connection per worker so concurrent pushes
// reuse connections instead of redialling.
func pushTransport(workers int) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if workers > t.MaxIdleConnsPerHost {
		t.MaxIdleConnsPerHost = workers
	}
	return t
}
