package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aesthetic-atlas/directory-cli/internal/model"
	"github.com/aesthetic-atlas/directory-cli/internal/region"
)

var statusRegion string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-city discovery progress",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ledger, err := region.LoadLedger(cfg.Orch.LedgerPath)
		if err != nil {
			return err
		}
		// Show configured-but-unstarted cities too, without writing.
		ledger.Seed(cfg.Regions)

		ids := ledger.RegionIDs()
		sort.Strings(ids)
		if statusRegion != "" {
			if ledger.Region(statusRegion) == nil {
				return eris.Errorf("unknown region %q", statusRegion)
			}
			ids = []string{statusRegion}
		}
		if len(ids) == 0 {
			fmt.Fprintln(os.Stderr, "No regions configured.")
			return nil
		}

		formatStatus(os.Stdout, ledger, ids)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusRegion, "region", "", "show a single region")
	rootCmd.AddCommand(statusCmd)
}

// formatStatus writes per-city rows and per-region totals to w.
func formatStatus(out io.Writer, ledger *region.Ledger, ids []string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, id := range ids {
		r := ledger.Region(id)

		_, _ = fmt.Fprintf(w, "%s (%s)\n", r.Name, id)
		_, _ = fmt.Fprintln(w, "  CITY\tSTATUS\tCLINICS\tDATE\tERROR")
		for _, c := range r.Cities {
			clinics := ""
			if c.Status == model.CityStatusDone {
				clinics = fmt.Sprintf("%d", c.Clinics)
			}
			_, _ = fmt.Fprintf(w, "  %s, %s\t%s\t%s\t%s\t%s\n",
				c.City, c.State, c.Status, clinics, c.Date, c.Error)
		}

		done, queued, running, failed, clinics := r.Counts()
		_, _ = fmt.Fprintf(w, "  total\t%d done, %d queued, %d running, %d failed\t%d\t\t\n",
			done, queued, running, failed, clinics)
		_, _ = fmt.Fprintln(w)
	}

	_ = w.Flush()
}
