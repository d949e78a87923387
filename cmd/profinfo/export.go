package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/profinfo/internal/logger"
	"github.com/samcharles93/profinfo/internal/report"
	"github.com/samcharles93/profinfo/pkg/profinfo"
)

func exportCmd() *cli.Command {
	var (
		table     string
		out       string
		namesPath string
	)

	return &cli.Command{
		Name:      "export",
		Usage:     "Write one count table as a gzipped pprof profile",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "table",
				Aliases:     []string{"t"},
				Usage:       "count table (function, block, edge, opt-edge, bbtrace, value)",
				Value:       "function",
				Destination: &table,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output .pb.gz path",
				Required:    true,
				Destination: &out,
			},
			&cli.StringFlag{
				Name:        "names",
				Usage:       "file with one name per table index",
				Destination: &namesPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			if cmd.Args().Len() != 1 {
				return cli.Exit("error: exactly one profile file is required", 1)
			}
			kind, err := profinfo.ParseTable(table)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			names, err := readNames(namesPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read names: %v", err), 1)
			}

			path := cmd.Args().First()
			s, err := profinfo.Load(toolName, path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			p, err := report.Pprof(s, kind, names)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			f, err := os.Create(out)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := p.Write(f); err != nil {
				_ = f.Close()
				return cli.Exit(fmt.Sprintf("error: write %s: %v", out, err), 1)
			}
			if err := f.Close(); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("profile exported", "table", kind.String(), "samples", len(p.Sample), "out", out)
			return nil
		},
	}
}
