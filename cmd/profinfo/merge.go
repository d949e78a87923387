package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/profinfo/internal/logger"
	"github.com/samcharles93/profinfo/pkg/profinfo"
)

func mergeCmd() *cli.Command {
	var (
		out       string
		byteOrder string
		jobs      int64
	)

	return &cli.Command{
		Name:      "merge",
		Usage:     "Accumulate several profiling dumps into one",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output dump path",
				Required:    true,
				Destination: &out,
			},
			&cli.StringFlag{
				Name:        "byte-order",
				Usage:       "byte order of the output (native, little, big)",
				Value:       "native",
				Destination: &byteOrder,
			},
			&cli.Int64Flag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "number of files decoded concurrently",
				Value:       int64(runtime.NumCPU()),
				Destination: &jobs,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyMergeConfig(cmd, fileConfig, &byteOrder)

			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("error: at least one profile file is required", 1)
			}
			order, err := profinfo.ParseByteOrder(byteOrder)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			sessions, err := loadAll(ctx, files, int(jobs))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			merged := profinfo.NewSession()
			for _, s := range sessions {
				merged.Merge(s)
			}

			if err := writeDump(out, merged, order); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("profiles merged",
				"inputs", len(files),
				"out", out,
				"executions", merged.NumExecutions(),
				"byte_order", order.String(),
			)
			return nil
		},
	}
}

// loadAll decodes files concurrently and returns the sessions in argument
// order. The first failure cancels the remaining loads.
func loadAll(ctx context.Context, files []string, jobs int) ([]*profinfo.Session, error) {
	sessions := make([]*profinfo.Session, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := profinfo.Load(toolName, path)
			if err != nil {
				return err
			}
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// writeDump encodes s next to path and renames it into place, so an input
// named as the output is never truncated mid-merge.
func writeDump(path string, s *profinfo.Session, order binary.AppendByteOrder) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := profinfo.NewWriter(tmp, order).WriteSession(s); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
