package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/yungbote/dsaquest-backend/internal/platform/envutil"
	"github.com/yungbote/dsaquest-backend/internal/temporalx"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	LogMode     string `validate:"oneof=development production"`
	Port        string `validate:"required,numeric"`
	ServiceName string `validate:"required"`
	Environment string
	Version     string

	DatabaseDriver string `validate:"oneof=postgres sqlite"`
	SQLitePath     string

	ContentDir    string
	ContentBucket string
	ContentPrefix string

	JWTSecretKey   string
	JWTIssuer      string
	AllowedOrigins []string

	ContentReloadOnStart  bool
	ContentReloadInterval time.Duration `validate:"gte=0"`
	ReloadLockTTL         time.Duration `validate:"gt=0"`

	Temporal          temporalx.Config
	RunTemporalWorker bool
}

// LoadEnvFiles reads .env files when present. Variables already set in the
// process environment win.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadConfig() (Config, error) {
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("SERVICE_NAME", "dsaquest-backend"),
		Environment: envutil.String("ENVIRONMENT", "local"),
		Version:     envutil.String("VERSION", "dev"),

		DatabaseDriver: strings.ToLower(envutil.String("DATABASE_DRIVER", DriverPostgres)),
		SQLitePath:     envutil.String("SQLITE_PATH", "dsaquest.db"),

		ContentDir:    envutil.String("CONTENT_DIR", "content"),
		ContentBucket: envutil.String("CONTENT_BUCKET", ""),
		ContentPrefix: envutil.String("CONTENT_PREFIX", ""),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:      envutil.String("JWT_ISSUER", ""),
		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		ContentReloadOnStart:  envutil.Bool("CONTENT_RELOAD_ON_START", true),
		ContentReloadInterval: envutil.Duration("CONTENT_RELOAD_INTERVAL", 0),
		ReloadLockTTL:         envutil.Duration("CONTENT_RELOAD_LOCK_TTL", 5*time.Minute),

		Temporal:          temporalx.LoadConfig(),
		RunTemporalWorker: envutil.Bool("TEMPORAL_RUN_WORKER", true),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var configValidator = validator.New()

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %s %s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
