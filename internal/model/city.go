package model

// City is the location record a set of clinics belongs to, persisted as one
// YAML file keyed by Slug. Created on first reference and never overwritten
// by the pipeline; later edits are manual curation.
type City struct {
	Name            string   `yaml:"name" json:"name"`
	Slug            string   `yaml:"slug" json:"slug"`
	State           string   `yaml:"state" json:"state"`
	StateFullName   string   `yaml:"stateFullName" json:"stateFullName"`
	County          string   `yaml:"county" json:"county"`
	Description     string   `yaml:"description" json:"description"`
	MetaDescription string   `yaml:"metaDescription" json:"metaDescription"`
	CoverImage      *string  `yaml:"coverImage" json:"coverImage"`
	FeaturedClinics []string `yaml:"featuredClinics" json:"featuredClinics"`
}

// NormalizedLocation is the canonical location tuple derived from a place's
// structured address components. Missing components are empty strings.
type NormalizedLocation struct {
	City          string `json:"city"`
	CitySlug      string `json:"city_slug"`
	State         string `json:"state"`
	StateFullName string `json:"state_full_name"`
	County        string `json:"county"`
	Neighborhood  string `json:"neighborhood"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
}
