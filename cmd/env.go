package main

import (
	"context"

	"github.com/aesthetic-atlas/directory-cli/internal/assets"
	"github.com/aesthetic-atlas/directory-cli/internal/ci"
	"github.com/aesthetic-atlas/directory-cli/internal/content"
	"github.com/aesthetic-atlas/directory-cli/internal/discovery"
	"github.com/aesthetic-atlas/directory-cli/internal/history"
	"github.com/aesthetic-atlas/directory-cli/internal/region"
	"github.com/aesthetic-atlas/directory-cli/pkg/blob"
	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

// env holds the wired orchestrator and the resources commands must close.
type env struct {
	Ledger       *region.Ledger
	Orchestrator *region.Orchestrator
	History      *history.Store
}

// Close releases held resources.
func (e *env) Close() {
	if e.History != nil {
		_ = e.History.Close()
	}
}

// initLedger loads the region ledger and, when seed is set, adds any
// configured regions and cities it does not know yet.
func initLedger(seed bool) (*region.Ledger, error) {
	ledger, err := region.LoadLedger(cfg.Orch.LedgerPath)
	if err != nil {
		return nil, err
	}
	if seed {
		ledger.Seed(cfg.Regions)
		if err := ledger.Save(); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

// initHistory opens and migrates the run-history store.
func initHistory(ctx context.Context) (*history.Store, error) {
	st, err := history.New(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initAssets wires the durable asset store when a token is configured.
// Without one, asset sync is skipped and records keep local paths.
func initAssets() (region.AssetSyncer, func() map[string]string, error) {
	if cfg.Blob.Token == "" {
		return nil, nil, nil
	}
	mapping, err := assets.LoadMapping(cfg.Content.MappingPath)
	if err != nil {
		return nil, nil, err
	}
	var opts []blob.Option
	if cfg.Blob.BaseURL != "" {
		opts = append(opts, blob.WithBaseURL(cfg.Blob.BaseURL))
	}
	uploader := assets.NewUploader(blob.NewClient(cfg.Blob.Token, opts...), mapping, cfg.Content.AssetsDir)
	return uploader, mapping.Entries, nil
}

// initEnv wires the full orchestration environment from configuration.
func initEnv(ctx context.Context, noDeploy bool) (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ledger, err := initLedger(true)
	if err != nil {
		return nil, err
	}

	store := content.NewStore(cfg.Content)
	pipeline := discovery.NewPipeline(places.NewClient(cfg.Google.Key), store, cfg)

	syncer, mappingFn, err := initAssets()
	if err != nil {
		return nil, err
	}

	hist, err := initHistory(ctx)
	if err != nil {
		return nil, err
	}

	var deployer ci.Deployer = ci.NewGitDeployer(cfg.Deploy)
	if noDeploy {
		deployer = ci.NoopDeployer{}
	}

	orch := region.New(region.Options{
		Ledger:   ledger,
		Pipeline: pipeline,
		Store:    store,
		Assets:   syncer,
		Mapping:  mappingFn,
		Checker:  ci.NewExecChecker(cfg.Build),
		Deployer: deployer,
		History:  hist,
		Regions:  cfg.Regions,
		Orch:     cfg.Orch,
	})

	return &env{Ledger: ledger, Orchestrator: orch, History: hist}, nil
}
