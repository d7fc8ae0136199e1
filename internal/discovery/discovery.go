// Package discovery runs the per-city pipeline: paginated multi-query place
// search, relevance filtering, deduplication, address normalization,
// location provisioning, photo fetch, and idempotent record persistence.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
	"github.com/aesthetic-atlas/directory-cli/internal/content"
	"github.com/aesthetic-atlas/directory-cli/internal/model"
	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

// CityTarget identifies a city to discover and its search location bias.
type CityTarget struct {
	City   string
	State  string
	Lat    float64
	Lng    float64
	Radius float64
}

// RunResult summarizes one per-city pipeline invocation.
type RunResult struct {
	RecordsWritten int
	UniquePlaces   int
	CitiesCreated  int
	PhotosFetched  int
	APICalls       int
}

// Pipeline wires the discovery stages together. Execution is strictly
// sequential; the provider is a shared rate-limited resource.
type Pipeline struct {
	client       places.Client
	store        *content.Store
	searcher     *Searcher
	filter       *Filter
	photos       *PhotoFetcher
	queries      []string
	queryLimiter *rate.Limiter
	radius       float64
}

// NewPipeline creates a Pipeline from configuration.
func NewPipeline(client places.Client, store *content.Store, cfg *config.Config) *Pipeline {
	d := cfg.Discovery
	return &Pipeline{
		client:   client,
		store:    store,
		searcher: NewSearcher(client, d.MaxPages, d.PageSize, time.Duration(d.PageDelayMs)*time.Millisecond),
		filter:   NewFilter(d.Keywords, d.ExcludeKeywords),
		photos: NewPhotoFetcher(client, cfg.Content.AssetsDir, cfg.Content.AssetURLPrefix,
			d.PhotoMinBytes, d.PhotoMaxWidth),
		queries:      d.Queries,
		queryLimiter: rate.NewLimiter(rate.Every(time.Duration(d.QueryDelayMs)*time.Millisecond), 1),
		radius:       d.RadiusMeters,
	}
}

// Run discovers clinics for one city. Degraded queries and missing assets
// are absorbed; only persistence and context failures abort the run.
func (p *Pipeline) Run(ctx context.Context, target CityTarget) (*RunResult, error) {
	runID := uuid.NewString()[:8]
	log := zap.L().With(
		zap.String("component", "discovery.pipeline"),
		zap.String("run_id", runID),
		zap.String("city", target.City),
		zap.String("state", target.State),
	)

	if err := p.store.Init(); err != nil {
		return nil, err
	}

	radius := target.Radius
	if radius <= 0 {
		radius = p.radius
	}
	bias := places.LocationBias{
		Circle: places.Circle{
			Center: places.LatLng{Latitude: target.Lat, Longitude: target.Lng},
			Radius: radius,
		},
	}

	deduper := NewDeduper()
	result := &RunResult{}
	now := time.Now().UTC()

	for _, query := range p.queries {
		if err := p.queryLimiter.Wait(ctx); err != nil {
			return result, eris.Wrap(err, "discovery: query pacing")
		}

		fullQuery := fmt.Sprintf("%s in %s, %s", query, target.City, target.State)
		found, calls := p.searcher.Search(ctx, fullQuery, bias)
		result.APICalls += calls
		log.Info("query complete", zap.String("query", query), zap.Int("results", len(found)))

		for i := range found {
			if ctx.Err() != nil {
				return result, eris.Wrap(ctx.Err(), "discovery: canceled")
			}
			written, err := p.processPlace(ctx, log, &found[i], target, deduper, result, now)
			if err != nil {
				return result, err
			}
			if written {
				result.RecordsWritten++
			}
		}
	}

	result.UniquePlaces = deduper.Len()
	log.Info("city discovery complete",
		zap.Int("unique_places", result.UniquePlaces),
		zap.Int("records_written", result.RecordsWritten),
		zap.Int("cities_created", result.CitiesCreated),
		zap.Int("photos", result.PhotosFetched),
		zap.Int("api_calls", result.APICalls),
	)
	return result, nil
}

// processPlace runs one raw place through dedupe, filter, normalization,
// city provisioning, photo fetch, and persistence. Returns true when a
// record was written.
func (p *Pipeline) processPlace(ctx context.Context, log *zap.Logger, place *places.Place,
	target CityTarget, deduper *Deduper, result *RunResult, now time.Time) (bool, error) {

	if place.ID == "" || deduper.Seen(place.ID) {
		return false, nil
	}
	deduper.Mark(place.ID)

	if !p.filter.IsRelevant(place.Name()) {
		return false, nil
	}

	place = p.withDetails(ctx, log, place)
	if len(place.AddressComponents) == 0 {
		return false, nil
	}

	loc := ParseComponents(place.AddressComponents)
	if loc.Country != "US" {
		return false, nil
	}
	if loc.City == "" {
		// No locality component; attribute the record to the searched city
		// so citySlug still joins to a provisioned location record.
		loc.City = target.City
		loc.CitySlug = model.Slugify(target.City)
	}

	created, err := p.ensureCity(loc)
	if err != nil {
		return false, err
	}
	if created {
		result.CitiesCreated++
		log.Info("created city record", zap.String("city_slug", loc.CitySlug))
	}

	clinic := BuildClinic(place, loc, now)
	if logo := p.photos.Fetch(ctx, place, clinic.Slug); logo != nil {
		clinic.Logo = logo
		result.PhotosFetched++
	}

	if err := p.store.WriteClinic(clinic); err != nil {
		return false, err
	}
	log.Debug("wrote clinic", zap.String("slug", clinic.Slug), zap.String("city_slug", loc.CitySlug))
	return true, nil
}

// withDetails fetches the full place record when search results carried no
// reviews. A details failure falls back to the search result.
func (p *Pipeline) withDetails(ctx context.Context, log *zap.Logger, place *places.Place) *places.Place {
	if len(place.Reviews) > 0 {
		return place
	}
	detail, err := p.client.PlaceDetails(ctx, place.ID)
	if err != nil {
		log.Debug("details fetch failed", zap.String("place_id", place.ID), zap.Error(err))
		return place
	}
	return mergePlace(place, detail)
}

// mergePlace overlays detail fields onto the search result, keeping the
// search value wherever the detail response is empty.
func mergePlace(base, detail *places.Place) *places.Place {
	merged := *detail
	if merged.ID == "" {
		merged.ID = base.ID
	}
	if merged.DisplayName == nil {
		merged.DisplayName = base.DisplayName
	}
	if merged.FormattedAddress == "" {
		merged.FormattedAddress = base.FormattedAddress
	}
	if len(merged.AddressComponents) == 0 {
		merged.AddressComponents = base.AddressComponents
	}
	if merged.Location == nil {
		merged.Location = base.Location
	}
	if merged.Rating == 0 {
		merged.Rating = base.Rating
	}
	if merged.UserRatingCount == 0 {
		merged.UserRatingCount = base.UserRatingCount
	}
	if len(merged.Photos) == 0 {
		merged.Photos = base.Photos
	}
	if merged.PrimaryType == "" {
		merged.PrimaryType = base.PrimaryType
	}
	if merged.PrimaryTypeDisplayName == nil {
		merged.PrimaryTypeDisplayName = base.PrimaryTypeDisplayName
	}
	return &merged
}

// ensureCity provisions the location record for a normalized city on first
// encounter. Existing records are never touched.
func (p *Pipeline) ensureCity(loc model.NormalizedLocation) (bool, error) {
	if p.store.CityExists(loc.CitySlug) {
		return false, nil
	}
	city := &model.City{
		Name:          loc.City,
		Slug:          loc.CitySlug,
		State:         loc.State,
		StateFullName: loc.StateFullName,
		County:        loc.County,
		Description: fmt.Sprintf(
			"Find top plastic surgery clinics in %s, %s. Browse verified clinics with patient reviews, ratings, and contact information.",
			loc.City, loc.State),
		MetaDescription: fmt.Sprintf(
			"Top plastic surgery clinics in %s, %s. Compare board-certified surgeons with real patient reviews.",
			loc.City, loc.State),
		FeaturedClinics: []string{},
	}
	return p.store.WriteCity(city)
}
