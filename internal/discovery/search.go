package discovery

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

// Searcher issues paginated text searches with a location bias. It does not
// deduplicate; that is the caller's responsibility.
type Searcher struct {
	client   places.Client
	maxPages int
	pageSize int
	limiter  *rate.Limiter
}

// NewSearcher creates a Searcher. maxPages bounds pagination per query and
// pageDelay is the minimum spacing between paginated requests.
func NewSearcher(client places.Client, maxPages, pageSize int, pageDelay time.Duration) *Searcher {
	if maxPages <= 0 {
		maxPages = 3
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageDelay <= 0 {
		pageDelay = 200 * time.Millisecond
	}
	return &Searcher{
		client:   client,
		maxPages: maxPages,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

// Search runs one query, following continuation tokens up to the page cap.
// A provider error on any page is logged and pagination stops; the results
// gathered so far are returned. A degraded result is not a failure — one
// bad query must not abort a regional run.
func (s *Searcher) Search(ctx context.Context, query string, bias places.LocationBias) ([]places.Place, int) {
	log := zap.L().With(zap.String("component", "discovery.search"), zap.String("query", query))

	var (
		results   []places.Place
		pageToken string
		apiCalls  int
	)

	for page := 0; page < s.maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return results, apiCalls
		}

		resp, err := s.client.SearchText(ctx, places.SearchTextRequest{
			TextQuery:      query,
			LocationBias:   &bias,
			MaxResultCount: s.pageSize,
			PageToken:      pageToken,
		})
		apiCalls++
		if err != nil {
			log.Warn("search page failed, returning partial results",
				zap.Int("page", page+1),
				zap.Int("gathered", len(results)),
				zap.Error(err),
			)
			return results, apiCalls
		}

		results = append(results, resp.Places...)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return results, apiCalls
}
