package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lixenwraith/confmgr"
)

// readCommand prints the entries of a single location.
func readCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Print the flattened entries of one location",
		ArgsUsage: "LOCATION",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sorted",
				Usage: "Sort entries by key",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("read requires exactly one LOCATION", 2)
			}

			loc, err := confmgr.ParseLocation(c.Args().First())
			if err != nil {
				return err
			}
			m, err := newManager(c)
			if err != nil {
				return err
			}

			entries, err := m.Read(loc)
			if err != nil {
				return err
			}
			if c.Bool("sorted") {
				entries = entries.Sorted()
			}
			printEntries(c, entries)
			return nil
		},
	}
}

// mergeCommand merges locations in order and prints or writes the result.
func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge locations, later ones overriding earlier ones",
		ArgsUsage: "LOCATION...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the merged entries to this location",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Print the merged entries as a document: properties, yaml, toml, json",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("merge requires at least one LOCATION", 2)
			}
			if c.IsSet("format") && c.IsSet("out") {
				return cli.Exit("merge accepts --format or --out, not both", 2)
			}

			m, err := newManager(c, c.Args().Slice()...)
			if err != nil {
				return err
			}

			if format := c.String("format"); format != "" {
				codec, err := confmgr.CodecByName(format)
				if err != nil {
					return err
				}
				return m.Dump(c.App.Writer, codec)
			}

			entries, err := m.Stream()
			if err != nil {
				return err
			}

			if out := c.String("out"); out != "" {
				loc, err := confmgr.ParseLocation(out)
				if err != nil {
					return err
				}
				return m.Write(loc, entries)
			}

			printEntries(c, entries)
			return nil
		},
	}
}

// convertCommand rewrites one location in the format of another.
func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Read SRC and write its entries to DST",
		ArgsUsage: "SRC DST",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("convert requires SRC and DST", 2)
			}

			locs, err := confmgr.ParseLocations(c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return err
			}
			m, err := newManager(c)
			if err != nil {
				return err
			}

			entries, err := m.Read(locs[0])
			if err != nil {
				return err
			}
			if err := m.Write(locs[1], entries); err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "wrote %d entries to %s\n", len(entries), locs[1])
			return nil
		},
	}
}

// exportCommand prints merged entries as environment assignments.
func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Print merged entries as KEY=VALUE environment assignments",
		ArgsUsage: "LOCATION...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Prefix for variable names, e.g. MYAPP_",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("export requires at least one LOCATION", 2)
			}

			m, err := newManager(c, c.Args().Slice()...)
			if err != nil {
				return err
			}

			envName := confmgr.DefaultEnvTransform(c.String("prefix"))
			return m.Load(confmgr.SinkFunc(func(key, value string) error {
				_, err := fmt.Fprintf(c.App.Writer, "%s=%s\n", envName(key), value)
				return err
			}))
		},
	}
}
