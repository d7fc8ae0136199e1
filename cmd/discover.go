package main

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	discoverAll      bool
	discoverNoDeploy bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover <region>",
	Short: "Run discovery for a region's next queued city",
	Long:  "Processes the region's next queued city end to end: search, filter, normalize, persist, verify the site build, and deploy. With --all, drains the region's whole queue, pausing between cities and stopping on the first failure. Progress is durable; rerunning resumes where the last run stopped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(args) != 1 {
			return eris.Errorf("usage: discover <region> [--all]; configured regions: %s",
				strings.Join(sortedRegionIDs(), ", "))
		}

		env, err := initEnv(ctx, discoverNoDeploy)
		if err != nil {
			return err
		}
		defer env.Close()

		id := args[0]
		if env.Ledger.Region(id) == nil {
			return eris.Errorf("unknown region %q; configured regions: %s",
				id, strings.Join(sortedRegionIDs(), ", "))
		}

		zap.L().Info("processing region", zap.String("region", id), zap.Bool("all", discoverAll))
		if discoverAll {
			return env.Orchestrator.RunAll(ctx, id)
		}
		return env.Orchestrator.RunNext(ctx, id)
	},
}

func sortedRegionIDs() []string {
	ids := cfg.RegionIDs()
	sort.Strings(ids)
	return ids
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverAll, "all", false, "drain the region's queue instead of one city")
	discoverCmd.Flags().BoolVar(&discoverNoDeploy, "no-deploy", false, "skip commit and deploy after verification")
	rootCmd.AddCommand(discoverCmd)
}
