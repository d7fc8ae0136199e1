package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aesthetic-atlas/directory-cli/internal/region"
)

var requeueStuck bool

var requeueCmd = &cobra.Command{
	Use:   "requeue <region>",
	Short: "Reset failed cities of a region back to queued",
	Long:  "Failed cities are never retried automatically. After fixing the cause, requeue them and rerun discover. With --stuck, cities left in running by an interrupted run are reset too.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := region.LoadLedger(cfg.Orch.LedgerPath)
		if err != nil {
			return err
		}
		ledger.Seed(cfg.Regions)

		reset, err := ledger.Requeue(args[0], requeueStuck)
		if err != nil {
			return err
		}
		if reset == 0 {
			fmt.Fprintln(os.Stderr, "Nothing to requeue.")
			return nil
		}
		fmt.Printf("Requeued %d cities in %s.\n", reset, args[0])
		return nil
	},
}

func init() {
	requeueCmd.Flags().BoolVar(&requeueStuck, "stuck", false, "also reset cities stuck in running")
	rootCmd.AddCommand(requeueCmd)
}
