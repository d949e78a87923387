package main

import "github.com/urfave/cli/v3"

var (
	configFile  string
	profilesDir string
	logLevel    string
	logFormat   string
	debug       bool

	// fileConfig is populated by the root Before hook.
	fileConfig Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func profilesDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "profiles-dir",
		Aliases:     []string{"dir"},
		Usage:       "directory containing profiling dumps",
		Destination: &profilesDir,
	}
}
