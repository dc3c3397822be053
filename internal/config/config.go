package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/harborwatch/marinetrack/internal/spatial"
)

// ErrConfiguration indicates a threshold or constant outside its valid domain
var ErrConfiguration = errors.New("configuration error")

// Config holds all tunable analytics parameters. Every field has a documented
// default; deployments override via environment variables at load time or by
// mutating the struct before wiring the services.
type Config struct {
	Port   string
	DBPath string // Archive database path; empty disables the archive

	// Encounter detection
	SliceWidth         time.Duration // Width of each detection slice
	DetectRadiusMeters float64       // Pairs farther apart than this are ignored
	TightRadiusMeters  float64       // STS transfer classification radius
	MediumRadiusMeters float64       // Rendezvous classification radius
	LooseRadiusMeters  float64       // Close approach classification radius

	// Risk scoring
	SlowSpeedKnots float64        // Below this a vessel counts as loitering-slow
	HighRiskScore  float64        // Risk score above which confidence is boosted
	SensitiveZones []spatial.Zone // Named areas carrying a scoring bonus

	// Activity aggregation
	TimelineInterval      time.Duration // Width of each timeline interval
	DarkVesselThreshold   time.Duration // Staleness beyond which a vessel is dark
	ClusterSize           int           // Entities per cluster in the density proxy
	MaxExpectedEntities   int           // Heatmap entity density normalization
	MaxExpectedEncounters int           // Heatmap encounter density normalization
	DefaultBinCount       int           // Heatmap bins when the caller omits a count
	SnapshotTolerance     time.Duration // Point-in-time sample matching window
}

// Load builds a Config from environment variables, falling back to defaults
func Load() *Config {
	cfg := Default()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.SliceWidth = envDuration("SLICE_WIDTH", cfg.SliceWidth)
	cfg.DetectRadiusMeters = envFloat("DETECT_RADIUS_M", cfg.DetectRadiusMeters)
	cfg.TightRadiusMeters = envFloat("TIGHT_RADIUS_M", cfg.TightRadiusMeters)
	cfg.MediumRadiusMeters = envFloat("MEDIUM_RADIUS_M", cfg.MediumRadiusMeters)
	cfg.LooseRadiusMeters = envFloat("LOOSE_RADIUS_M", cfg.LooseRadiusMeters)
	cfg.TimelineInterval = envDuration("TIMELINE_INTERVAL", cfg.TimelineInterval)
	cfg.DarkVesselThreshold = envDuration("DARK_VESSEL_THRESHOLD", cfg.DarkVesselThreshold)
	cfg.ClusterSize = envInt("CLUSTER_SIZE", cfg.ClusterSize)
	cfg.MaxExpectedEntities = envInt("MAX_EXPECTED_ENTITIES", cfg.MaxExpectedEntities)
	cfg.MaxExpectedEncounters = envInt("MAX_EXPECTED_ENCOUNTERS", cfg.MaxExpectedEncounters)
	cfg.DefaultBinCount = envInt("DEFAULT_BIN_COUNT", cfg.DefaultBinCount)
	cfg.SnapshotTolerance = envDuration("SNAPSHOT_TOLERANCE", cfg.SnapshotTolerance)

	return cfg
}

// Default returns the documented default configuration
func Default() *Config {
	return &Config{
		Port:   ":8080",
		DBPath: "",

		SliceWidth:         time.Hour,
		DetectRadiusMeters: 5500, // Roughly 0.05 degrees of latitude
		TightRadiusMeters:  1200, // Roughly 0.01 degrees, alongside for STS transfer
		MediumRadiusMeters: 2000,
		LooseRadiusMeters:  4000,

		SlowSpeedKnots: 3,
		HighRiskScore:  70,
		SensitiveZones: DefaultSensitiveZones(),

		TimelineInterval:      time.Hour,
		DarkVesselThreshold:   12 * time.Hour,
		ClusterSize:           50,
		MaxExpectedEntities:   200,
		MaxExpectedEncounters: 20,
		DefaultBinCount:       100,
		SnapshotTolerance:     30 * time.Minute,
	}
}

// DefaultSensitiveZones returns the built-in sensitive area list. Deployments
// with their own areas of interest replace this wholesale.
func DefaultSensitiveZones() []spatial.Zone {
	return []spatial.Zone{
		{Name: "Singapore Strait", Latitude: 1.2, Longitude: 103.8, RadiusMeters: 50000},
		{Name: "Strait of Hormuz", Latitude: 26.6, Longitude: 56.5, RadiusMeters: 60000},
		{Name: "Bab-el-Mandeb", Latitude: 12.6, Longitude: 43.3, RadiusMeters: 40000},
		{Name: "Bosporus Approach", Latitude: 41.1, Longitude: 29.1, RadiusMeters: 30000},
	}
}

// Validate checks every threshold and constant against its domain. Called once
// at startup and by tests that construct configs by hand.
func (c *Config) Validate() error {
	if c.SliceWidth <= 0 {
		return fmt.Errorf("%w: slice width must be positive, got %v", ErrConfiguration, c.SliceWidth)
	}
	if c.DetectRadiusMeters <= 0 {
		return fmt.Errorf("%w: detect radius must be positive, got %v", ErrConfiguration, c.DetectRadiusMeters)
	}
	if c.TightRadiusMeters <= 0 || c.MediumRadiusMeters <= 0 || c.LooseRadiusMeters <= 0 {
		return fmt.Errorf("%w: classification radii must be positive", ErrConfiguration)
	}
	if c.TightRadiusMeters > c.MediumRadiusMeters || c.MediumRadiusMeters > c.LooseRadiusMeters {
		return fmt.Errorf("%w: classification radii must be ordered tight <= medium <= loose", ErrConfiguration)
	}
	if c.LooseRadiusMeters > c.DetectRadiusMeters {
		return fmt.Errorf("%w: loose radius must not exceed detect radius", ErrConfiguration)
	}
	if c.SlowSpeedKnots <= 0 {
		return fmt.Errorf("%w: slow speed threshold must be positive, got %v", ErrConfiguration, c.SlowSpeedKnots)
	}
	if c.TimelineInterval <= 0 {
		return fmt.Errorf("%w: timeline interval must be positive, got %v", ErrConfiguration, c.TimelineInterval)
	}
	if c.DarkVesselThreshold <= 0 {
		return fmt.Errorf("%w: dark vessel threshold must be positive, got %v", ErrConfiguration, c.DarkVesselThreshold)
	}
	if c.ClusterSize <= 0 {
		return fmt.Errorf("%w: cluster size must be positive, got %d", ErrConfiguration, c.ClusterSize)
	}
	if c.MaxExpectedEntities <= 0 || c.MaxExpectedEncounters <= 0 {
		return fmt.Errorf("%w: heatmap normalization constants must be positive", ErrConfiguration)
	}
	if c.DefaultBinCount <= 0 {
		return fmt.Errorf("%w: bin count must be positive, got %d", ErrConfiguration, c.DefaultBinCount)
	}
	if c.SnapshotTolerance <= 0 {
		return fmt.Errorf("%w: snapshot tolerance must be positive, got %v", ErrConfiguration, c.SnapshotTolerance)
	}
	for _, z := range c.SensitiveZones {
		if z.RadiusMeters <= 0 {
			return fmt.Errorf("%w: zone %q has non-positive radius", ErrConfiguration, z.Name)
		}
	}
	return nil
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
