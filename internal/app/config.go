package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	dbpkg "github.com/yungbote/styleswipe-backend/internal/data/db"
	"github.com/yungbote/styleswipe-backend/internal/platform/envutil"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

const devJWTSecret = "defaultsecret"

// Config is read from an optional YAML file named by STYLESWIPE_CONFIG and
// then from the environment, which wins.
type Config struct {
	Env         string `yaml:"env"`
	Port        string `yaml:"port"`
	LogMode     string `yaml:"log_mode"`
	ServiceName string `yaml:"service_name"`

	DBDriver         string        `yaml:"db_driver"`
	PostgresHost     string        `yaml:"postgres_host"`
	PostgresPort     string        `yaml:"postgres_port"`
	PostgresUser     string        `yaml:"postgres_user"`
	PostgresPassword string        `yaml:"postgres_password"`
	PostgresName     string        `yaml:"postgres_name"`
	PostgresSSLMode  string        `yaml:"postgres_sslmode"`
	SQLitePath       string        `yaml:"sqlite_path"`
	DBMaxOpenConns   int           `yaml:"db_max_open_conns"`
	DBMaxIdleConns   int           `yaml:"db_max_idle_conns"`
	DBConnMaxLife    time.Duration `yaml:"db_conn_max_lifetime"`

	JWTSecretKey             string        `yaml:"jwt_secret_key"`
	AccessTokenTTL           time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL          time.Duration `yaml:"refresh_token_ttl"`
	SessionInactivityTimeout time.Duration `yaml:"session_inactivity_timeout"`
	BcryptCost               int           `yaml:"bcrypt_cost"`

	RedisAddr            string        `yaml:"redis_addr"`
	RedisPassword        string        `yaml:"redis_password"`
	RedisDB              int           `yaml:"redis_db"`
	SwipeLockTTL         time.Duration `yaml:"swipe_lock_ttl"`
	SwipeLockWait        time.Duration `yaml:"swipe_lock_wait"`
	SwipeConflictRetries int           `yaml:"swipe_conflict_retries"`

	FeedDefaultLimit           int     `yaml:"feed_default_limit"`
	FeedMaxLimit               int     `yaml:"feed_max_limit"`
	FeedDefaultExplorationRate float64 `yaml:"feed_default_exploration_rate"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	AvatarSize         int      `yaml:"avatar_size"`
}

func defaultConfig() Config {
	feed := services.DefaultFeedConfig()
	return Config{
		Env:                        "development",
		Port:                       "8080",
		LogMode:                    "development",
		ServiceName:                "styleswipe-api",
		DBDriver:                   dbpkg.DriverPostgres,
		PostgresHost:               "localhost",
		PostgresPort:               "5432",
		PostgresUser:               "postgres",
		PostgresName:               "styleswipe",
		PostgresSSLMode:            "disable",
		SQLitePath:                 "styleswipe.db",
		DBMaxOpenConns:             20,
		DBMaxIdleConns:             5,
		DBConnMaxLife:              30 * time.Minute,
		JWTSecretKey:               devJWTSecret,
		AccessTokenTTL:             services.DefaultAccessTTL,
		RefreshTokenTTL:            services.DefaultRefreshTTL,
		SessionInactivityTimeout:   services.DefaultInactivityTimeout,
		BcryptCost:                 10,
		SwipeLockTTL:               10 * time.Second,
		SwipeLockWait:              5 * time.Second,
		SwipeConflictRetries:       0,
		FeedDefaultLimit:           feed.DefaultLimit,
		FeedMaxLimit:               feed.MaxLimit,
		FeedDefaultExplorationRate: feed.DefaultExplorationRate,
		AvatarSize:                 services.DefaultAvatarSize,
	}
}

func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("STYLESWIPE_CONFIG", ""); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, cfg.validate()
}

func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = envutil.String("APP_ENV", c.Env)
	c.Port = envutil.String("PORT", c.Port)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.ServiceName)

	c.DBDriver = envutil.String("DB_DRIVER", c.DBDriver)
	c.PostgresHost = envutil.String("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = envutil.String("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = envutil.String("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresName = envutil.String("POSTGRES_NAME", c.PostgresName)
	c.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", c.PostgresSSLMode)
	c.SQLitePath = envutil.String("SQLITE_PATH", c.SQLitePath)
	c.DBMaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns)
	c.DBMaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", c.DBMaxIdleConns)
	c.DBConnMaxLife = envutil.Duration("DB_CONN_MAX_LIFETIME", c.DBConnMaxLife)

	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.RefreshTokenTTL = envutil.Duration("REFRESH_TOKEN_TTL", c.RefreshTokenTTL)
	c.SessionInactivityTimeout = envutil.Duration("SESSION_INACTIVITY_TIMEOUT", c.SessionInactivityTimeout)
	c.BcryptCost = envutil.Int("BCRYPT_COST", c.BcryptCost)

	c.RedisAddr = envutil.String("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envutil.String("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = envutil.Int("REDIS_DB", c.RedisDB)
	c.SwipeLockTTL = envutil.Duration("SWIPE_LOCK_TTL", c.SwipeLockTTL)
	c.SwipeLockWait = envutil.Duration("SWIPE_LOCK_WAIT", c.SwipeLockWait)
	c.SwipeConflictRetries = envutil.Int("SWIPE_CONFLICT_RETRIES", c.SwipeConflictRetries)

	c.FeedDefaultLimit = envutil.Int("FEED_DEFAULT_LIMIT", c.FeedDefaultLimit)
	c.FeedMaxLimit = envutil.Int("FEED_MAX_LIMIT", c.FeedMaxLimit)
	c.FeedDefaultExplorationRate = envutil.Float("FEED_DEFAULT_EXPLORATION_RATE", c.FeedDefaultExplorationRate)

	c.CORSAllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)
	c.AvatarSize = envutil.Int("AVATAR_SIZE", c.AvatarSize)
}

func (c Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.IsProduction() && c.JWTSecretKey == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET_KEY must be set in production"))
	}
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case dbpkg.DriverPostgres, dbpkg.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.FeedDefaultExplorationRate < 0 || c.FeedDefaultExplorationRate > 1 {
		errs = append(errs, fmt.Errorf("FEED_DEFAULT_EXPLORATION_RATE %v is outside [0,1]", c.FeedDefaultExplorationRate))
	}
	if c.FeedMaxLimit > 0 && c.FeedDefaultLimit > c.FeedMaxLimit {
		errs = append(errs, fmt.Errorf("FEED_DEFAULT_LIMIT %d exceeds FEED_MAX_LIMIT %d", c.FeedDefaultLimit, c.FeedMaxLimit))
	}
	if c.SwipeConflictRetries < 0 {
		errs = append(errs, errors.New("SWIPE_CONFLICT_RETRIES must not be negative"))
	}
	if c.AvatarSize < 32 || c.AvatarSize > 1024 {
		errs = append(errs, fmt.Errorf("AVATAR_SIZE %d is outside [32,1024]", c.AvatarSize))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) DB() dbpkg.Config {
	return dbpkg.Config{
		Driver:           c.DBDriver,
		PostgresHost:     c.PostgresHost,
		PostgresPort:     c.PostgresPort,
		PostgresUser:     c.PostgresUser,
		PostgresPassword: c.PostgresPassword,
		PostgresName:     c.PostgresName,
		PostgresSSLMode:  c.PostgresSSLMode,
		SQLitePath:       c.SQLitePath,
		MaxOpenConns:     c.DBMaxOpenConns,
		MaxIdleConns:     c.DBMaxIdleConns,
		ConnMaxLifetime:  c.DBConnMaxLife,
	}
}

func (c Config) Auth() services.AuthConfig {
	return services.AuthConfig{
		JWTSecretKey:      c.JWTSecretKey,
		AccessTTL:         c.AccessTokenTTL,
		RefreshTTL:        c.RefreshTokenTTL,
		InactivityTimeout: c.SessionInactivityTimeout,
		BcryptCost:        c.BcryptCost,
	}
}

func (c Config) Feed() services.FeedConfig {
	return services.FeedConfig{
		DefaultLimit:           c.FeedDefaultLimit,
		MaxLimit:               c.FeedMaxLimit,
		DefaultExplorationRate: c.FeedDefaultExplorationRate,
	}
}
