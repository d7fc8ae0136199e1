package region

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aesthetic-atlas/directory-cli/internal/ci"
	"github.com/aesthetic-atlas/directory-cli/internal/config"
	"github.com/aesthetic-atlas/directory-cli/internal/content"
	"github.com/aesthetic-atlas/directory-cli/internal/discovery"
	"github.com/aesthetic-atlas/directory-cli/internal/history"
	"github.com/aesthetic-atlas/directory-cli/internal/model"
)

// maxLedgerErrLen bounds the failure message persisted per city so the
// ledger stays readable.
const maxLedgerErrLen = 200

// Runner executes the discovery pipeline for one city.
type Runner interface {
	Run(ctx context.Context, target discovery.CityTarget) (*discovery.RunResult, error)
}

// AssetSyncer pushes new local assets to the durable store.
type AssetSyncer interface {
	UploadNew(ctx context.Context) (int, error)
}

// Orchestrator drives the per-region state machine: run each queued city,
// repair and verify the content tree, then publish. Every status transition
// is persisted before and after the work it brackets.
type Orchestrator struct {
	ledger   *Ledger
	pipeline Runner
	store    *content.Store
	assets   AssetSyncer
	mapping  func() map[string]string
	checker  ci.Checker
	deployer ci.Deployer
	history  *history.Store
	regions  map[string]config.RegionDef

	cityTimeout time.Duration
	cityPause   time.Duration
}

// Options carries the orchestrator's collaborators. Assets, Mapping, and
// History may be nil; those stages are then skipped.
type Options struct {
	Ledger   *Ledger
	Pipeline Runner
	Store    *content.Store
	Assets   AssetSyncer
	Mapping  func() map[string]string
	Checker  ci.Checker
	Deployer ci.Deployer
	History  *history.Store
	Regions  map[string]config.RegionDef
	Orch     config.OrchConfig
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	timeout := time.Duration(opts.Orch.CityTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	pause := time.Duration(opts.Orch.CityPauseSecs) * time.Second
	return &Orchestrator{
		ledger:      opts.Ledger,
		pipeline:    opts.Pipeline,
		store:       opts.Store,
		assets:      opts.Assets,
		mapping:     opts.Mapping,
		checker:     opts.Checker,
		deployer:    opts.Deployer,
		history:     opts.History,
		regions:     opts.Regions,
		cityTimeout: timeout,
		cityPause:   pause,
	}
}

// RunNext processes the first queued city of a region, if any.
func (o *Orchestrator) RunNext(ctx context.Context, regionID string) error {
	region := o.ledger.Region(regionID)
	if region == nil {
		return eris.Errorf("region: unknown region %q", regionID)
	}
	queued := region.Queued()
	if len(queued) == 0 {
		zap.L().Info("no queued cities", zap.String("region", regionID))
		return nil
	}
	return o.RunCity(ctx, regionID, queued[0])
}

// RunAll processes every queued city in declaration order. The first city
// failure stops the batch; already-done cities keep their results and the
// operator requeues and reruns after fixing the cause.
func (o *Orchestrator) RunAll(ctx context.Context, regionID string) error {
	region := o.ledger.Region(regionID)
	if region == nil {
		return eris.Errorf("region: unknown region %q", regionID)
	}
	log := zap.L().With(zap.String("component", "region.orchestrator"), zap.String("region", regionID))

	queued := region.Queued()
	if len(queued) == 0 {
		log.Info("no queued cities")
		return nil
	}
	log.Info("starting region run", zap.Int("queued", len(queued)))

	for i, entry := range queued {
		if i > 0 && o.cityPause > 0 {
			select {
			case <-ctx.Done():
				return eris.Wrap(ctx.Err(), "region: canceled")
			case <-time.After(o.cityPause):
			}
		}
		if err := o.RunCity(ctx, regionID, entry); err != nil {
			return err
		}
	}

	done, qd, running, failed, clinics := region.Counts()
	log.Info("region run complete",
		zap.Int("done", done), zap.Int("queued", qd), zap.Int("running", running),
		zap.Int("failed", failed), zap.Int("clinics", clinics),
	)
	return nil
}

// RunCity processes a single city end to end: discover, repair, sync assets,
// verify the build, and deploy. The entry must belong to the named region's
// ledger slice.
func (o *Orchestrator) RunCity(ctx context.Context, regionID string, entry *model.CityEntry) error {
	log := zap.L().With(
		zap.String("component", "region.orchestrator"),
		zap.String("region", regionID),
		zap.String("city", entry.City),
		zap.String("state", entry.State),
	)

	entry.Status = model.CityStatusRunning
	entry.Error = ""
	if err := o.ledger.Save(); err != nil {
		return err
	}

	attemptID := o.recordStart(ctx, regionID, entry)

	result, err := o.discoverCity(ctx, regionID, entry)
	if err != nil {
		return o.failCity(ctx, log, entry, attemptID, err)
	}

	if fixed, err := o.store.FixEmptyCollections(); err != nil {
		return o.failCity(ctx, log, entry, attemptID, err)
	} else if fixed > 0 {
		log.Info("repaired ambiguous empty collections", zap.Int("files", fixed))
	}

	if err := o.syncAssets(ctx, log); err != nil {
		return o.failCity(ctx, log, entry, attemptID, err)
	}

	if err := o.verifyBuild(ctx, log); err != nil {
		return o.failCity(ctx, log, entry, attemptID, err)
	}

	message := fmt.Sprintf("Add %d clinics for %s, %s", result.RecordsWritten, entry.City, entry.State)
	if err := o.deployer.Publish(ctx, message); err != nil {
		// Content is verified; a publish failure is retried by the next
		// city's deploy or a manual push, never by re-discovering.
		log.Warn("deploy failed, keeping verified content", zap.Error(err))
	}

	entry.Status = model.CityStatusDone
	entry.Clinics = result.RecordsWritten
	entry.Date = time.Now().UTC().Format("2006-01-02")
	entry.Error = ""
	if err := o.ledger.Save(); err != nil {
		return err
	}
	o.recordComplete(ctx, attemptID, result.RecordsWritten)

	log.Info("city done",
		zap.Int("clinics", result.RecordsWritten),
		zap.Int("unique_places", result.UniquePlaces),
		zap.Int("api_calls", result.APICalls),
	)
	return nil
}

// discoverCity runs the pipeline under the per-city timeout.
func (o *Orchestrator) discoverCity(ctx context.Context, regionID string, entry *model.CityEntry) (*discovery.RunResult, error) {
	target := discovery.CityTarget{City: entry.City, State: entry.State}
	if def, ok := o.regions[regionID]; ok {
		for _, c := range def.Cities {
			if c.City == entry.City && c.State == entry.State {
				target.Lat, target.Lng, target.Radius = c.Lat, c.Lng, c.Radius
				break
			}
		}
	}

	cityCtx, cancel := context.WithTimeout(ctx, o.cityTimeout)
	defer cancel()
	return o.pipeline.Run(cityCtx, target)
}

// syncAssets uploads new local assets and rewrites record references to
// their durable URLs.
func (o *Orchestrator) syncAssets(ctx context.Context, log *zap.Logger) error {
	if o.assets == nil {
		return nil
	}
	uploaded, err := o.assets.UploadNew(ctx)
	if err != nil {
		return err
	}
	if uploaded > 0 {
		log.Info("uploaded new assets", zap.Int("files", uploaded))
	}
	if o.mapping == nil {
		return nil
	}
	rewritten, err := o.store.RewriteAssetURLs(o.mapping())
	if err != nil {
		return err
	}
	if rewritten > 0 {
		log.Info("rewrote asset references", zap.Int("files", rewritten))
	}
	return nil
}

// verifyBuild runs the build check, repairing the content tree and retrying
// once on failure. A second failure is final.
func (o *Orchestrator) verifyBuild(ctx context.Context, log *zap.Logger) error {
	if o.checker == nil {
		return nil
	}
	err := o.checker.Check(ctx)
	if err == nil {
		return nil
	}
	log.Warn("build check failed, repairing and retrying once", zap.Error(err))

	if _, fixErr := o.store.FixEmptyCollections(); fixErr != nil {
		return fixErr
	}
	return o.checker.Check(ctx)
}

// failCity persists the failed status with a truncated cause and returns
// the original error.
func (o *Orchestrator) failCity(ctx context.Context, log *zap.Logger, entry *model.CityEntry, attemptID string, cause error) error {
	entry.Status = model.CityStatusFailed
	entry.Error = truncateErr(cause.Error(), maxLedgerErrLen)
	entry.Date = time.Now().UTC().Format("2006-01-02")
	if err := o.ledger.Save(); err != nil {
		log.Error("persisting failure status failed", zap.Error(err))
	}
	o.recordFail(ctx, attemptID, entry.Error)
	log.Error("city failed", zap.Error(cause))
	return cause
}

func (o *Orchestrator) recordStart(ctx context.Context, regionID string, entry *model.CityEntry) string {
	if o.history == nil {
		return ""
	}
	id, err := o.history.Start(ctx, regionID, entry.City, entry.State)
	if err != nil {
		zap.L().Warn("recording run start failed", zap.Error(err))
		return ""
	}
	return id
}

func (o *Orchestrator) recordComplete(ctx context.Context, id string, records int) {
	if o.history == nil || id == "" {
		return
	}
	if err := o.history.Complete(ctx, id, records); err != nil {
		zap.L().Warn("recording run completion failed", zap.Error(err))
	}
}

func (o *Orchestrator) recordFail(ctx context.Context, id, msg string) {
	if o.history == nil || id == "" {
		return
	}
	if err := o.history.Fail(ctx, id, msg); err != nil {
		zap.L().Warn("recording run failure failed", zap.Error(err))
	}
}

func truncateErr(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
