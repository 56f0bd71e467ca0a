package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/quiteok"
	"github.com/urfave/cli/v2"
)

const defaultDB = "quiteok.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (*quiteok.Config, error) {
	cfg := quiteok.DefaultConfig()
	if file := c.String("config"); file != "" {
		var err error
		if cfg, err = quiteok.LoadConfig(file); err != nil {
			return nil, err
		}
	}

	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("channels") {
		cfg.Channels = c.Int("channels")
	}
	if c.IsSet("colorspace") {
		cfg.Colorspace = c.String("colorspace")
	}
	if c.IsSet("zstd") {
		cfg.Compress = c.Bool("zstd")
	}
	if c.IsSet("overwrite") {
		cfg.Overwrite = c.Bool("overwrite")
	}

	return cfg, cfg.Validate()
}

// withConverter sets up a converter, opening the catalog when useDB is set
func withConverter(c *cli.Context, useDB bool, fn func(*quiteok.Converter) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var db *quiteok.CatalogDB
	if useDB {
		if db, err = quiteok.NewCatalogDB(c.String("db")); err != nil {
			return cli.NewExitError(err, 1)
		}
		defer db.Close()
	}

	if err := fn(quiteok.New(db, cfg, newLogger(c))); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func outputArg(c *cli.Context, ext string) string {
	if c.NArg() > 1 {
		return c.Args().Get(1)
	}
	in := strings.TrimSuffix(c.Args().First(), ".zst")
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

func main() {
	app := cli.NewApp()

	app.Name = "qoi"
	app.Usage = "QOI image conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	encodeFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "channels",
			Usage: "channels to record in the header, 3 or 4 (default: detect)",
		},
		&cli.StringFlag{
			Name:  "colorspace",
			Usage: "colorspace to record in the header, srgb or linear",
		},
		&cli.BoolFlag{
			Name:  "zstd",
			Usage: "compress the output with zstd",
		},
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"QUITEOK_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"QUITEOK_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Encode a PNG, JPEG or GIF image as QOI",
			Description: "",
			ArgsUsage:   "FILE [OUTPUT]",
			Flags:       encodeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, true, func(m *quiteok.Converter) error {
					dst := outputArg(c, ".qoi")
					if c.Bool("zstd") && c.NArg() < 2 {
						dst += ".zst"
					}
					_, err := m.EncodeFile(c.Args().First(), dst)
					return err
				})
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a QOI image to PNG",
			Description: "",
			ArgsUsage:   "FILE [OUTPUT]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, false, func(m *quiteok.Converter) error {
					return m.DecodeFile(c.Args().First(), outputArg(c, ".png"))
				})
			},
		},
		{
			Name:        "info",
			Usage:       "Display the header of a QOI image",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				h, err := quiteok.Info(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("width: %d\nheight: %d\nchannels: %d\ncolorspace: %d\n", h.Width, h.Height, h.Channels, h.Colorspace)

				return nil
			},
		},
		{
			Name:        "verify",
			Usage:       "Check QOI images against the catalog",
			Description: "",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, true, func(m *quiteok.Converter) error {
					for _, file := range c.Args().Slice() {
						if err := m.Verify(file); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Usage: "number of images converted concurrently",
				},
				&cli.BoolFlag{
					Name:  "overwrite",
					Usage: "convert images even if the output exists",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withConverter(c, true, func(m *quiteok.Converter) error {
					return m.Scan(c.Args().First())
				})
			},
		},
		{
			Name:        "stats",
			Usage:       "Summarise the catalog",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := quiteok.NewCatalogDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				s, err := db.Stats()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("conversions: %d\nraw bytes: %d\nencoded bytes: %d\nratio: %.3f\n", s.Conversions, s.RawSize, s.EncodedSize, s.Ratio())

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
