package discovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/aesthetic-atlas/directory-cli/internal/model"
	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

const (
	maxReviews    = 5
	maxReviewLen  = 500
	reviewSource  = "Google"
	fallbackName  = "Unknown Clinic"
	mapsURLFormat = "https://www.google.com/maps/place/?q=place_id:%s"
)

// BuildClinic maps a raw place plus its normalized location into the
// canonical record schema.
func BuildClinic(place *places.Place, loc model.NormalizedLocation, now time.Time) *model.Clinic {
	name := place.Name()
	if name == "" {
		name = fallbackName
	}

	phone := place.NationalPhoneNumber
	if phone == "" {
		phone = place.InternationalPhoneNumber
	}

	mapsURL := place.GoogleMapsURI
	if mapsURL == "" {
		mapsURL = fmt.Sprintf(mapsURLFormat, place.ID)
	}

	var website *string
	if place.WebsiteURI != "" {
		uri := place.WebsiteURI
		website = &uri
	}

	var coords model.Coordinates
	if place.Location != nil {
		coords = model.Coordinates{Lat: place.Location.Latitude, Lng: place.Location.Longitude}
	}

	label := ""
	if place.PrimaryTypeDisplayName != nil {
		label = place.PrimaryTypeDisplayName.Text
	}

	return &model.Clinic{
		Name:           name,
		Slug:           model.Slugify(name),
		City:           loc.CitySlug,
		CityDisplay:    loc.City,
		State:          loc.State,
		StateFullName:  loc.StateFullName,
		County:         loc.County,
		Neighborhood:   loc.Neighborhood,
		Address:        cleanAddress(place.FormattedAddress),
		ZipCode:        loc.ZipCode,
		Coordinates:    coords,
		Phone:          phone,
		Website:        website,
		GoogleMapsURL:  mapsURL,
		Category:       place.PrimaryType,
		CategoryLabel:  label,
		Description:    buildDescription(name, loc, place.Rating, place.UserRatingCount),
		Specialties:    buildSpecialties(label),
		Rating:         place.Rating,
		ReviewCount:    place.UserRatingCount,
		Reviews:        buildReviews(place.Reviews, now),
		Certifications: []string{},
		LastUpdated:    now.Format("2006-01-02"),
	}
}

// buildDescription templates the listing description from name, location,
// and rating signal.
func buildDescription(name string, loc model.NormalizedLocation, rating float64, count int) string {
	desc := fmt.Sprintf("%s is a plastic surgery practice located in %s, %s.", name, loc.City, loc.State)
	if rating > 0 {
		desc += fmt.Sprintf(" With a %g-star rating from %d reviews, they offer cosmetic and reconstructive surgery services.", rating, count)
	}
	return desc
}

// buildSpecialties seeds the specialty list from the category display label.
func buildSpecialties(label string) []string {
	base := []string{"Plastic Surgery", "Cosmetic Surgery"}
	if label == "" {
		return base
	}
	for _, s := range base {
		if strings.EqualFold(s, label) {
			return base
		}
	}
	return append([]string{label}, base...)
}

// buildReviews keeps the first five reviews, truncates text to 500
// characters, and reduces author names to first name plus initials.
func buildReviews(raw []places.Review, now time.Time) []model.Review {
	reviews := make([]model.Review, 0, maxReviews)
	for _, r := range raw {
		if len(reviews) == maxReviews {
			break
		}

		author := "Anonymous"
		if r.AuthorAttribution != nil && r.AuthorAttribution.DisplayName != "" {
			author = reduceAuthor(r.AuthorAttribution.DisplayName)
		}

		date := now.Format("2006-01-02")
		if r.PublishTime != "" {
			date, _, _ = strings.Cut(r.PublishTime, "T")
		}

		text := ""
		if r.Text != nil {
			text = truncate(r.Text.Text, maxReviewLen)
		}

		reviews = append(reviews, model.Review{
			Author: author,
			Rating: r.Rating,
			Date:   date,
			Text:   text,
			Source: reviewSource,
		})
	}
	return reviews
}

// reduceAuthor keeps the first name and reduces every subsequent token to
// its initial: "Jane Maria Doe" → "Jane M. D.".
func reduceAuthor(name string) string {
	tokens := strings.Fields(name)
	for i, tok := range tokens {
		if i == 0 {
			continue
		}
		tokens[i] = string([]rune(tok)[:1]) + "."
	}
	return strings.Join(tokens, " ")
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
