package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime"

	"github.com/bodgit/gpc"
	"github.com/bodgit/gpc/image"
	"github.com/urfave/cli/v2"
)

const (
	exitFailure     = 1
	exitNotPaletted = 2
	exitTooLarge    = 4
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// exitError maps encoder failures onto the exit statuses of the original
// tool.
func exitError(err error) error {
	switch {
	case errors.Is(err, image.ErrNotPaletted):
		return cli.NewExitError(err, exitNotPaletted)
	case errors.Is(err, image.ErrTooWide), errors.Is(err, image.ErrTooTall):
		return cli.NewExitError(err, exitTooLarge)
	default:
		return cli.NewExitError(err, exitFailure)
	}
}

// encoderFlags are accepted both before and after the command name.
func encoderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "x",
			Usage: "in-game X coordinate",
		},
		&cli.IntFlag{
			Name:  "y",
			Usage: "in-game Y coordinate",
		},
		&cli.BoolFlag{
			Name:    "quantize",
			EnvVars: []string{"GPC_QUANTIZE"},
			Usage:   "reduce images without a palette to 16 colors",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"GPC_WORKERS"},
			Value:   runtime.GOMAXPROCS(0),
			Usage:   "number of goroutines",
		},
	}
}

// lookup returns the innermost context where name was given, so a flag
// after the command name wins over the same flag before it.
func lookup(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return c
}

func newConverter(c *cli.Context) (*gpc.Converter, func(), error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	var db *gpc.AssetDB
	if file := c.String("db"); file != "" {
		var err error
		if db, err = gpc.NewAssetDB(file); err != nil {
			return nil, nil, err
		}
		n, err := db.Count()
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Printf("Cache %s holds %d conversions\n", file, n)
	}

	o := &image.Options{
		X:        lookup(c, "x").Int("x"),
		Y:        lookup(c, "y").Int("y"),
		Quantize: lookup(c, "quantize").Bool("quantize"),
		Workers:  lookup(c, "workers").Int("workers"),
	}

	return gpc.New(db, logger, o), func() {
		if db != nil {
			db.Close()
		}
	}, nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowAppHelpAndExit(c, exitFailure)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.NewExitError(err, exitFailure)
	}
	defer closer()

	for _, file := range c.Args().Slice() {
		out, err := m.ConvertFile(file)
		if err != nil {
			return exitError(fmt.Errorf("%s: %w", file, err))
		}
		if !c.Bool("quiet") {
			fmt.Println(out)
		}
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "makegpc"
	app.Usage = "Convert 16-color images to Fairytale/Cocktail Soft GPC"
	app.Version = "1.0.0"
	app.ArgsUsage = "FILE..."

	app.Flags = append([]cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GPC_DB"},
			Usage:   "path to conversion cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "do not print the names of written files",
		},
	}, encoderFlags()...)

	app.Action = convert

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert image files to GPC",
			Description: "Each FILE is written alongside the original with a .gpc extension.",
			ArgsUsage:   "FILE...",
			Flags:       encoderFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), exitFailure)
				}
				return convert(c)
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image under a directory",
			Description: "Images that have no palette or are too large are skipped.",
			ArgsUsage:   "DIRECTORY",
			Flags:       encoderFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), exitFailure)
				}

				m, closer, err := newConverter(c)
				if err != nil {
					return cli.NewExitError(err, exitFailure)
				}
				defer closer()

				if err := m.Scan(c.Args().First(), lookup(c, "workers").Int("workers")); err != nil {
					return cli.NewExitError(err, exitFailure)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
