package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lixenwraith/confmgr"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "confmgr",
		Usage:   "Read, merge and convert configuration locations",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			readCommand(),
			mergeCommand(),
			convertCommand(),
			exportCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "charset",
			Usage:   "Charset of every location (IANA name)",
			EnvVars: []string{"CONFMGR_CHARSET"},
			Value:   confmgr.DefaultCharsetName,
		},
		&cli.StringFlag{
			Name:    "bundle",
			Usage:   "Directory serving classpath:// locations",
			EnvVars: []string{"CONFMGR_BUNDLE"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log every resolution step to stderr",
		},
	}
}

// newManager builds a Manager for the given locations from the global flags.
func newManager(c *cli.Context, locations ...string) (*confmgr.Manager, error) {
	b := confmgr.NewBuilder().
		WithCharset(c.String("charset")).
		WithLocations(locations...)

	if dir := c.String("bundle"); dir != "" {
		b.WithBundle(os.DirFS(dir))
	}

	if c.Bool("verbose") {
		b.WithLogger(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	return b.Build()
}

// printEntries writes one key=value line per entry.
func printEntries(c *cli.Context, entries confmgr.Entries) {
	for _, e := range entries {
		fmt.Fprintln(c.App.Writer, e.String())
	}
}
