package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aesthetic-atlas/directory-cli/internal/content"
)

var migrateAssetsCmd = &cobra.Command{
	Use:   "migrate-assets",
	Short: "Upload local clinic assets to durable storage and rewrite records",
	Long:  "Uploads every unmapped image in the assets directory to the blob store, records each durable URL in the mapping file, and rewrites clinic records to reference the durable URLs. Already-mapped files are never re-uploaded; rerunning is safe.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		syncer, mappingFn, err := initAssets()
		if err != nil {
			return err
		}
		if syncer == nil {
			return eris.New("blob.token is required (DIRECTORY_BLOB_TOKEN)")
		}

		uploaded, err := syncer.UploadNew(ctx)
		if err != nil {
			return err
		}

		store := content.NewStore(cfg.Content)
		rewritten, err := store.RewriteAssetURLs(mappingFn())
		if err != nil {
			return err
		}

		fmt.Printf("Uploaded %d assets, rewrote %d records.\n", uploaded, rewritten)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateAssetsCmd)
}
