package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"review360/internal/domain/scoring"
)

const (
	EnvPrefix  = "REVIEW360_"
	EnvConfig  = EnvPrefix + "CONFIG"
	EnvDotFile = EnvPrefix + "ENV_FILE"

	EnvironmentProduction = "production"
)

type Config struct {
	Addr           string        `koanf:"addr"`
	DatabaseURL    string        `koanf:"database_url"`
	JWTSecret      string        `koanf:"jwt_secret"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	Environment    string        `koanf:"environment"`
	LogLevel       string        `koanf:"log_level"`
	LogFormat      string        `koanf:"log_format"`
	MigrationsDir  string        `koanf:"migrations_dir"`
	RunMigrations  bool          `koanf:"run_migrations"`
	RunSeed        bool          `koanf:"run_seed"`
	SeedOrgName    string        `koanf:"seed_org_name"`
	MaxBodyBytes   int64         `koanf:"max_body_bytes"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	MetricsEnabled bool          `koanf:"metrics_enabled"`

	// SnapshotInterval is how often ended periods are snapshotted; zero disables it.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`

	// Scoring fallbacks apply only when no coefficient row defines a key.
	DefaultEvaluatorWeight          float64 `koanf:"default_evaluator_weight"`
	DefaultCategoryWeight           float64 `koanf:"default_category_weight"`
	SelfWeight                      float64 `koanf:"self_weight"`
	MinHighConfidenceEvaluatorCount int     `koanf:"min_high_confidence_evaluator_count"`
	DefaultMinPct                   float64 `koanf:"default_min_pct"`
	DefaultMaxPct                   float64 `koanf:"default_max_pct"`
}

func Defaults() Config {
	std := scoring.StandardDefaults()
	return Config{
		Addr:           ":8080",
		TokenTTL:       12 * time.Hour,
		Environment:    "development",
		LogLevel:       "info",
		LogFormat:      "json",
		MigrationsDir:  "migrations",
		RunMigrations:  true,
		RunSeed:        false,
		SeedOrgName:    "Default Organization",
		MaxBodyBytes:   1 << 20,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		MetricsEnabled: true,

		SnapshotInterval: 0,

		DefaultEvaluatorWeight:          std.EvaluatorWeight,
		DefaultCategoryWeight:           std.CategoryWeight,
		SelfWeight:                      std.SelfWeight,
		MinHighConfidenceEvaluatorCount: std.Confidence.MinHighConfidenceEvaluatorCount,
		DefaultMinPct:                   0,
		DefaultMaxPct:                   10,
	}
}

// Load layers defaults, an optional .env file, an optional YAML file named by
// REVIEW360_CONFIG, then REVIEW360_* environment variables.
func Load() (Config, error) {
	dotFile := os.Getenv(EnvDotFile)
	if dotFile == "" {
		dotFile = ".env"
	}
	if err := godotenv.Load(dotFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotFile, err)
	}

	k := koanf.New(".")
	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Validate checks settings needed to serve. The offline score command only
// needs the scoring section, see ValidateScoring.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%sDATABASE_URL is required", EnvPrefix)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("%sJWT_SECRET is required", EnvPrefix)
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("%sJWT_SECRET must be at least 32 characters in production", EnvPrefix)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("%sMAX_BODY_BYTES must be at least 1024", EnvPrefix)
	}
	if c.SnapshotInterval < 0 {
		return fmt.Errorf("%sSNAPSHOT_INTERVAL must not be negative", EnvPrefix)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%sTOKEN_TTL must be positive", EnvPrefix)
	}
	return c.ValidateScoring()
}

func (c Config) ValidateScoring() error {
	if c.DefaultEvaluatorWeight < 0 || c.DefaultCategoryWeight < 0 || c.SelfWeight < 0 {
		return fmt.Errorf("default weights must not be negative")
	}
	if c.MinHighConfidenceEvaluatorCount < 1 {
		return fmt.Errorf("%sMIN_HIGH_CONFIDENCE_EVALUATOR_COUNT must be at least 1", EnvPrefix)
	}
	if c.DefaultMaxPct < c.DefaultMinPct {
		return fmt.Errorf("%sDEFAULT_MAX_PCT must not be below DEFAULT_MIN_PCT", EnvPrefix)
	}
	return nil
}

// Scoring returns the last-resort coefficient values for the resolver.
func (c Config) Scoring() scoring.Defaults {
	d := scoring.StandardDefaults()
	d.EvaluatorWeight = c.DefaultEvaluatorWeight
	d.CategoryWeight = c.DefaultCategoryWeight
	d.SelfWeight = c.SelfWeight
	d.Confidence.MinHighConfidenceEvaluatorCount = c.MinHighConfidenceEvaluatorCount
	return d
}
