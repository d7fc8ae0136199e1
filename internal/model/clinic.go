// Package model defines the persisted record types for the directory.
package model

// Coordinates is a geographic point on a clinic record.
type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// Review is a bounded excerpt of a provider review.
type Review struct {
	Author string  `yaml:"author" json:"author"`
	Rating float64 `yaml:"rating" json:"rating"`
	Date   string  `yaml:"date" json:"date"`
	Text   string  `yaml:"text" json:"text"`
	Source string  `yaml:"source" json:"source"`
}

// Clinic is a single directory listing, persisted as one YAML file keyed by
// Slug. A rediscovery run overwrites the whole file (last write wins).
type Clinic struct {
	Name            string      `yaml:"name" json:"name"`
	Slug            string      `yaml:"slug" json:"slug"`
	City            string      `yaml:"city" json:"city"` // citySlug, joins to model.City
	CityDisplay     string      `yaml:"cityDisplay" json:"cityDisplay"`
	State           string      `yaml:"state" json:"state"`
	StateFullName   string      `yaml:"stateFullName" json:"stateFullName"`
	County          string      `yaml:"county" json:"county"`
	Neighborhood    string      `yaml:"neighborhood" json:"neighborhood"`
	Address         string      `yaml:"address" json:"address"`
	ZipCode         string      `yaml:"zipCode" json:"zipCode"`
	Coordinates     Coordinates `yaml:"coordinates" json:"coordinates"`
	Phone           string      `yaml:"phone" json:"phone"`
	Website         *string     `yaml:"website" json:"website"`
	GoogleMapsURL   string      `yaml:"googleMapsUrl" json:"googleMapsUrl"`
	Category        string      `yaml:"category" json:"category"`
	CategoryLabel   string      `yaml:"categoryLabel" json:"categoryLabel"`
	Description     string      `yaml:"description" json:"description"`
	Specialties     []string    `yaml:"specialties" json:"specialties"`
	Rating          float64     `yaml:"rating" json:"rating"`
	ReviewCount     int         `yaml:"reviewCount" json:"reviewCount"`
	Reviews         []Review    `yaml:"reviews" json:"reviews"`
	Logo            *string     `yaml:"logo" json:"logo"`
	YearEstablished *int        `yaml:"yearEstablished" json:"yearEstablished"`
	Certifications  []string    `yaml:"certifications" json:"certifications"`
	Verified        bool        `yaml:"verified" json:"verified"`
	Featured        bool        `yaml:"featured" json:"featured"`
	LastUpdated     string      `yaml:"lastUpdated" json:"lastUpdated"`
}
