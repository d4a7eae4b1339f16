package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "runstash"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Reconcile browser-automation test artifacts into canonical reports",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}

	resultsFlag := &cli.StringFlag{
		Name:    "results",
		Aliases: []string{"r"},
		Usage:   "Root directory of the test run artifacts",
		Value:   "test-results",
	}
	stateFlag := &cli.StringFlag{
		Name:  "state-dir",
		Usage: "Directory holding the sequence counter and local report archive",
		Value: ".runstash",
	}
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Storage backend config file (YAML)",
		Value:   "runstash.yaml",
	}
	timeoutFlag := &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Bound for each storage call",
		Value: 60 * time.Second,
	}
	intentFlag := &cli.StringFlag{
		Name:  "intent",
		Usage: "Execution intent payload (YAML)",
	}
	insightsFlag := &cli.StringFlag{
		Name:  "insights",
		Usage: "Execution insights payload (YAML)",
	}
	developerFlag := &cli.StringFlag{
		Name:  "developer",
		Usage: "Developer name recorded on the report (default: $USER)",
	}
	environmentFlag := &cli.StringFlag{
		Name:  "environment",
		Usage: "Environment label recorded on the report",
	}
	parallelFlag := &cli.IntFlag{
		Name:  "parallel",
		Usage: "Trace extraction fan-out across test directories",
		Value: 4,
	}

	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "process",
		Usage:  "Scan a results directory and assemble a report locally",
		Action: app.process,
		Flags: []cli.Flag{
			resultsFlag, stateFlag,
			intentFlag, insightsFlag, developerFlag, environmentFlag, parallelFlag,
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "upload",
		Usage:  "Assemble a report and push it to the configured storage backend",
		Action: app.upload,
		Flags: []cli.Flag{
			resultsFlag, stateFlag, configFlag, timeoutFlag,
			intentFlag, insightsFlag, developerFlag, environmentFlag, parallelFlag,
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List uploaded reports from the backend index",
		Action: app.list,
		Flags: []cli.Flag{
			configFlag,
			timeoutFlag,
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "view",
		Usage:     "View one uploaded report",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.view,
		Flags:     []cli.Flag{configFlag, timeoutFlag},
		Description: `View an uploaded report.

Arguments:
  0           View the most recent report (default)
  -1          View the 2nd most recent report
  -2          View the 3rd most recent report
  <id-prefix> View the report whose execution id starts with the prefix`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "delete",
		Usage:     "Delete one uploaded report",
		ArgsUsage: "ID",
		Action:    app.delete,
		Flags:     []cli.Flag{configFlag, timeoutFlag},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "health",
		Usage:  "Check connectivity of the configured storage backend",
		Action: app.health,
		Flags:  []cli.Flag{configFlag, timeoutFlag},
	})

	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = version + " (commit: " + commit[:8] + ", built: " + date + ")"
	}
}
