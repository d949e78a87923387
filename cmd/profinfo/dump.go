package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/profinfo/internal/logger"
	"github.com/samcharles93/profinfo/internal/report"
	"github.com/samcharles93/profinfo/pkg/profinfo"
)

func dumpCmd() *cli.Command {
	var (
		format string
		indent bool
	)

	return &cli.Command{
		Name:      "dump",
		Aliases:   []string{"show"},
		Usage:     "Print a summary of one or more profiling dumps",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (table, json)",
				Value:       "table",
				Destination: &format,
			},
			&cli.BoolFlag{
				Name:        "indent",
				Usage:       "indent json output",
				Destination: &indent,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("error: at least one profile file is required", 1)
			}
			if format != "table" && format != "json" {
				return cli.Exit(fmt.Sprintf("error: unknown format %q (want table or json)", format), 1)
			}

			out := cmd.Root().Writer
			for _, path := range files {
				start := time.Now()
				s, err := profinfo.Load(toolName, path)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				log.Debug("profile loaded",
					"path", path,
					"executions", s.NumExecutions(),
					"packets", s.Packets,
					"elapsed", time.Since(start),
				)

				if format == "json" {
					err = report.WriteJSON(out, path, s, indent)
				} else {
					err = report.WriteSummary(out, path, report.Summarize(s))
				}
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			return nil
		},
	}
}
