package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/danmuck/ptvoice/internal/config"
	"github.com/danmuck/ptvoice/internal/logging"
	"github.com/danmuck/ptvoice/internal/observability"
)

const configKey = "config"

func main() {
	logging.ConfigureRuntime()
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		cli.HandleExitCoder(cli.NewExitError(fmt.Sprintf("ptvoicectl: %v", err), 1))
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "ptvoicectl"
	app.Usage = "inspect, create, and convert pxtone ptvoice instruments"
	app.Version = "0.1.0"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "ptvoicectl.toml path (default $" + config.EnvConfigPath + " or ./" + config.DefaultPath + ")"},
		cli.StringFlag{Name: "log-level", Usage: "trace|debug|info|warn|error|disabled"},
		cli.StringFlag{Name: "metrics-file", Usage: "write codec metrics in textfile format after the command"},
	}
	app.Before = beforeCommand
	app.After = afterCommand
	app.Commands = []cli.Command{
		cli.Command{
			Name:      "inspect",
			Usage:     "print the header, units, and lint warnings of a voice",
			ArgsUsage: "FILE",
			Action:    inspectCommand,
		},
		cli.Command{
			Name:      "create",
			Usage:     "write a new voice from configured defaults or the demo instrument",
			ArgsUsage: "OUT",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "demo", Usage: "two-unit demo voice"},
				cli.StringFlag{Name: "wave", Usage: "flat|sine|triangle|sawtooth|square (overrides defaults.wave)"},
				cli.IntFlag{Name: "units", Value: 1, Usage: "number of identical default units"},
			},
			Action: createCommand,
		},
		cli.Command{
			Name:      "scale-volume",
			Usage:     "multiply every unit's volume",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "factor", Value: 2, Usage: "volume multiplier"},
				cli.StringFlag{Name: "out", Usage: "output path (default \"modified <name>\" next to FILE)"},
			},
			Action: scaleVolumeCommand,
		},
		cli.Command{
			Name:      "export",
			Usage:     "convert a voice to its TOML text form",
			ArgsUsage: "FILE OUT.toml",
			Action:    exportCommand,
		},
		cli.Command{
			Name:      "import",
			Usage:     "convert a TOML text form back into a voice",
			ArgsUsage: "IN.toml OUT",
			Action:    importCommand,
		},
		cli.Command{
			Name:      "lint",
			Usage:     "report editor-compatibility warnings",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "strict", Usage: "fail when any warning is reported"},
			},
			Action: lintCommand,
		},
	}
	return app
}

func beforeCommand(c *cli.Context) error {
	path, explicit := config.ResolvePath(c.GlobalString("config"))
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return err
	}
	c.App.Metadata = map[string]interface{}{configKey: cfg}

	level := c.GlobalString("log-level")
	if level == "" && os.Getenv(logging.EnvLogLevel) == "" {
		level = cfg.LogLevel
	}
	if level != "" && !logging.SetLevel(level) {
		return fmt.Errorf("unknown log level %q", level)
	}
	log.Debug().Str("config", path).Bool("explicit", explicit).Msg("config resolved")
	return nil
}

func afterCommand(c *cli.Context) error {
	path := c.GlobalString("metrics-file")
	if path == "" {
		path = appConfig(c).MetricsTextfile
	}
	return observability.WriteTextfile(path)
}

func appConfig(c *cli.Context) config.Config {
	if cfg, ok := c.App.Metadata[configKey].(config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}
