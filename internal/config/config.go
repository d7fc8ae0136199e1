// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Loaded once at startup
// and passed by reference; there is no ambient module-level state.
type Config struct {
	Google    GoogleConfig         `yaml:"google" mapstructure:"google"`
	Blob      BlobConfig           `yaml:"blob" mapstructure:"blob"`
	Content   ContentConfig        `yaml:"content" mapstructure:"content"`
	Discovery DiscoveryConfig      `yaml:"discovery" mapstructure:"discovery"`
	Orch      OrchConfig           `yaml:"orchestrator" mapstructure:"orchestrator"`
	Regions   map[string]RegionDef `yaml:"regions" mapstructure:"regions"`
	Build     BuildConfig          `yaml:"build" mapstructure:"build"`
	Deploy    DeployConfig         `yaml:"deploy" mapstructure:"deploy"`
	History   HistoryConfig        `yaml:"history" mapstructure:"history"`
	Server    ServerConfig         `yaml:"server" mapstructure:"server"`
	Log       LogConfig            `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds place-search provider credentials.
type GoogleConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// BlobConfig holds durable asset store settings.
type BlobConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ContentConfig locates the persisted content tree.
type ContentConfig struct {
	ClinicsDir string `yaml:"clinics_dir" mapstructure:"clinics_dir"`
	CitiesDir  string `yaml:"cities_dir" mapstructure:"cities_dir"`
	AssetsDir  string `yaml:"assets_dir" mapstructure:"assets_dir"`
	// AssetURLPrefix is the site-relative path clinic records use to refer
	// to files in AssetsDir.
	AssetURLPrefix string `yaml:"asset_url_prefix" mapstructure:"asset_url_prefix"`
	MappingPath    string `yaml:"mapping_path" mapstructure:"mapping_path"`
}

// DiscoveryConfig configures the per-city discovery pipeline.
type DiscoveryConfig struct {
	Queries         []string `yaml:"queries" mapstructure:"queries"`
	Keywords        []string `yaml:"keywords" mapstructure:"keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords" mapstructure:"exclude_keywords"`
	MaxPages        int      `yaml:"max_pages" mapstructure:"max_pages"`
	PageSize        int      `yaml:"page_size" mapstructure:"page_size"`
	PageDelayMs     int      `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	QueryDelayMs    int      `yaml:"query_delay_ms" mapstructure:"query_delay_ms"`
	RadiusMeters    float64  `yaml:"radius_meters" mapstructure:"radius_meters"`
	PhotoMinBytes   int      `yaml:"photo_min_bytes" mapstructure:"photo_min_bytes"`
	PhotoMaxWidth   int      `yaml:"photo_max_width" mapstructure:"photo_max_width"`
}

// OrchConfig configures the region orchestrator.
type OrchConfig struct {
	LedgerPath      string `yaml:"ledger_path" mapstructure:"ledger_path"`
	CityTimeoutSecs int    `yaml:"city_timeout_secs" mapstructure:"city_timeout_secs"`
	CityPauseSecs   int    `yaml:"city_pause_secs" mapstructure:"city_pause_secs"`
}

// RegionDef declares a region and its cities for ledger seeding.
type RegionDef struct {
	Name   string    `yaml:"name" mapstructure:"name"`
	Cities []CityDef `yaml:"cities" mapstructure:"cities"`
}

// CityDef declares one city: search target name, state, and location bias.
type CityDef struct {
	City   string  `yaml:"city" mapstructure:"city"`
	State  string  `yaml:"state" mapstructure:"state"`
	Lat    float64 `yaml:"lat" mapstructure:"lat"`
	Lng    float64 `yaml:"lng" mapstructure:"lng"`
	Radius float64 `yaml:"radius" mapstructure:"radius"`
}

// BuildConfig configures the build verification check.
type BuildConfig struct {
	Command     string `yaml:"command" mapstructure:"command"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DeployConfig configures commit-and-publish.
type DeployConfig struct {
	Branch      string `yaml:"branch" mapstructure:"branch"`
	Script      string `yaml:"script" mapstructure:"script"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// defaultQueries maximizes coverage per city; overlapping results are
// collapsed by the deduplicator.
var defaultQueries = []string{
	"plastic surgery",
	"plastic surgeon",
	"cosmetic surgery",
	"cosmetic surgeon",
	"aesthetic surgery",
	"facial plastic surgery",
	"body contouring",
	"breast augmentation",
	"liposuction",
	"rhinoplasty",
	"facelift surgeon",
	"tummy tuck",
	"BBL surgeon",
	"mommy makeover",
	"medspa",
}

var defaultKeywords = []string{
	"plastic", "cosmetic", "aesthetic", "surgery", "surgeon",
	"rhinoplasty", "liposuction", "facelift", "augmentation",
	"body contour", "tummy tuck", "breast", "reconstructive",
	"med spa", "medspa", "medical spa", "bbl", "mommy makeover",
}

var defaultExcludeKeywords = []string{
	"dental", "dentist", "veterinary", "chiropract",
	"physical therapy", "optom", "orthodon",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DIRECTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so env-only values are picked up
	// by Unmarshal.
	v.SetDefault("google.key", "")
	v.SetDefault("blob.token", "")
	v.SetDefault("blob.base_url", "https://blob.vercel-storage.com")
	v.SetDefault("content.clinics_dir", "src/content/clinics")
	v.SetDefault("content.cities_dir", "src/content/cities")
	v.SetDefault("content.assets_dir", "public/images/clinics/logos")
	v.SetDefault("content.asset_url_prefix", "/images/clinics/logos")
	v.SetDefault("content.mapping_path", ".blob-mapping.json")
	v.SetDefault("discovery.queries", defaultQueries)
	v.SetDefault("discovery.keywords", defaultKeywords)
	v.SetDefault("discovery.exclude_keywords", defaultExcludeKeywords)
	v.SetDefault("discovery.max_pages", 3)
	v.SetDefault("discovery.page_size", 20)
	v.SetDefault("discovery.page_delay_ms", 200)
	v.SetDefault("discovery.query_delay_ms", 300)
	v.SetDefault("discovery.radius_meters", 50000)
	v.SetDefault("discovery.photo_min_bytes", 1000)
	v.SetDefault("discovery.photo_max_width", 800)
	v.SetDefault("orchestrator.ledger_path", ".clinic-locations.json")
	v.SetDefault("orchestrator.city_timeout_secs", 300)
	v.SetDefault("orchestrator.city_pause_secs", 5)
	v.SetDefault("build.command", "npm run build")
	v.SetDefault("build.timeout_secs", 120)
	v.SetDefault("deploy.branch", "main")
	v.SetDefault("deploy.script", "./deploy.sh")
	v.SetDefault("deploy.timeout_secs", 120)
	v.SetDefault("history.path", ".directory-runs.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration required for discovery is present.
func (c *Config) Validate() error {
	if c.Google.Key == "" {
		return eris.New("config: google.key is required (DIRECTORY_GOOGLE_KEY)")
	}
	if len(c.Discovery.Queries) == 0 {
		return eris.New("config: discovery.queries must not be empty")
	}
	return nil
}

// RegionIDs returns the configured region identifiers, for usage errors.
func (c *Config) RegionIDs() []string {
	ids := make([]string, 0, len(c.Regions))
	for id := range c.Regions {
		ids = append(ids, id)
	}
	return ids
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
