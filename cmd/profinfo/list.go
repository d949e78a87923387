package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/profinfo/internal/api"
	"github.com/samcharles93/profinfo/internal/logger"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List profiling dumps in the profiles directory",
		Flags:   []cli.Flag{profilesDirFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyProfilesConfig(cmd, fileConfig)

			dir, err := resolveProfilesDir(profilesDir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			profiles, err := api.DiscoverProfiles(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(profiles) == 0 {
				log.Info("no profiles found", "path", dir)
				return nil
			}

			w := cmd.Root().Writer
			_, _ = fmt.Fprintf(w, "Profiles in %s:\n\n", dir)
			for _, p := range profiles {
				_, _ = fmt.Fprintf(w, "  %-40s %10s  %s\n",
					p.Name, humanize.Bytes(uint64(p.Size)), humanize.Time(time.Unix(p.ModTime, 0)))
			}
			_, _ = fmt.Fprintf(w, "\n%s found\n", humanize.Plural(len(profiles), "profile", "profiles"))
			return nil
		},
	}
}
