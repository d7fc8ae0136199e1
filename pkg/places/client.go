// Package places is a client for the Google Places API (New) surface the
// discovery pipeline depends on: paginated text search, place details, and
// photo media download.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// searchFieldMask lists the place fields the pipeline consumes. Everything
// else is excluded to keep per-request cost down.
var searchFieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.addressComponents",
	"places.location",
	"places.rating",
	"places.userRatingCount",
	"places.nationalPhoneNumber",
	"places.internationalPhoneNumber",
	"places.websiteUri",
	"places.googleMapsUri",
	"places.photos",
	"places.reviews",
	"places.primaryType",
	"places.primaryTypeDisplayName",
}, ",")

var detailsFieldMask = strings.ReplaceAll(searchFieldMask, "places.", "")

// Client performs place-search provider operations.
type Client interface {
	SearchText(ctx context.Context, req SearchTextRequest) (*SearchTextResponse, error)
	PlaceDetails(ctx context.Context, placeID string) (*Place, error)
	PhotoMedia(ctx context.Context, photoName string, maxWidthPx int) ([]byte, error)
}

// LatLng is a geographic coordinate.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Circle is a circular location bias.
type Circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// LocationBias biases search results toward a circular area.
type LocationBias struct {
	Circle Circle `json:"circle"`
}

// SearchTextRequest is a single page of a text search.
type SearchTextRequest struct {
	TextQuery      string        `json:"textQuery"`
	LocationBias   *LocationBias `json:"locationBias,omitempty"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
	PageToken      string        `json:"pageToken,omitempty"`
}

// SearchTextResponse is one page of search results plus the continuation
// token for the next page, if any.
type SearchTextResponse struct {
	Places        []Place `json:"places"`
	NextPageToken string  `json:"nextPageToken"`
}

// LocalizedText is a text value with a language code.
type LocalizedText struct {
	Text string `json:"text"`
}

// AddressComponent is one structured component of a place's address, tagged
// with semantic types ("locality", "postal_code", ...).
type AddressComponent struct {
	LongText  string   `json:"longText"`
	ShortText string   `json:"shortText"`
	Types     []string `json:"types"`
}

// AuthorAttribution identifies a review author.
type AuthorAttribution struct {
	DisplayName string `json:"displayName"`
}

// Review is a provider review entry.
type Review struct {
	AuthorAttribution *AuthorAttribution `json:"authorAttribution,omitempty"`
	Rating            float64            `json:"rating"`
	PublishTime       string             `json:"publishTime,omitempty"`
	Text              *LocalizedText     `json:"text,omitempty"`
}

// Photo is a photo reference resolvable via PhotoMedia.
type Photo struct {
	Name string `json:"name"`
}

// Place is a provider-returned entity. The ID is the stable identity used
// for per-run deduplication.
type Place struct {
	ID                       string             `json:"id"`
	DisplayName              *LocalizedText     `json:"displayName,omitempty"`
	FormattedAddress         string             `json:"formattedAddress,omitempty"`
	AddressComponents        []AddressComponent `json:"addressComponents,omitempty"`
	Location                 *LatLng            `json:"location,omitempty"`
	Rating                   float64            `json:"rating,omitempty"`
	UserRatingCount          int                `json:"userRatingCount,omitempty"`
	NationalPhoneNumber      string             `json:"nationalPhoneNumber,omitempty"`
	InternationalPhoneNumber string             `json:"internationalPhoneNumber,omitempty"`
	WebsiteURI               string             `json:"websiteUri,omitempty"`
	GoogleMapsURI            string             `json:"googleMapsUri,omitempty"`
	Photos                   []Photo            `json:"photos,omitempty"`
	Reviews                  []Review           `json:"reviews,omitempty"`
	PrimaryType              string             `json:"primaryType,omitempty"`
	PrimaryTypeDisplayName   *LocalizedText     `json:"primaryTypeDisplayName,omitempty"`
}

// Name returns the display name text, if present.
func (p *Place) Name() string {
	if p.DisplayName == nil {
		return ""
	}
	return p.DisplayName.Text
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a place-search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchText(ctx context.Context, searchReq SearchTextRequest) (*SearchTextResponse, error) {
	body, err := json.Marshal(searchReq)
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask+",nextPageToken")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result SearchTextResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) PlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places/"+placeID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create details request")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var place Place
	if err := json.Unmarshal(respBody, &place); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal details")
	}
	return &place, nil
}

// PhotoMedia resolves a photo reference ("places/{id}/photos/{ref}") to its
// binary payload.
func (c *httpClient) PhotoMedia(ctx context.Context, photoName string, maxWidthPx int) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/media?maxWidthPx=%d&key=%s", c.baseURL, photoName, maxWidthPx, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create photo request")
	}
	return c.do(req)
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
