package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Scraper      ScraperConfig
	Cron         CronConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AUTOCITY_APP_ENV" required:"true"`
	Port         string `envconfig:"AUTOCITY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUTOCITY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUTOCITY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AUTOCITY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AUTOCITY_DB_DSN"`
	Driver string `envconfig:"AUTOCITY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUTOCITY_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOCITY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOCITY_DB_USER"`
	LegacyPassword string `envconfig:"AUTOCITY_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOCITY_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOCITY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOCITY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOCITY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOCITY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOCITY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTOCITY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUTOCITY_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOCITY_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOCITY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOCITY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTOCITY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTOCITY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOCITY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOCITY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ScraperConfig holds the competitor scrape knobs. MissThreshold is the
// number of consecutive scrapes a vehicle may be absent before it is
// considered sold.
type ScraperConfig struct {
	FetchTimeout  time.Duration `envconfig:"AUTOCITY_SCRAPER_FETCH_TIMEOUT" default:"20s"`
	FetchRetries  int           `envconfig:"AUTOCITY_SCRAPER_FETCH_RETRIES" default:"2"`
	UserAgent     string        `envconfig:"AUTOCITY_SCRAPER_USER_AGENT" default:"AutocityBot/1.0 (+https://autocity.nl/bot)"`
	MissThreshold int           `envconfig:"AUTOCITY_SCRAPER_MISS_THRESHOLD" default:"2"`
	LockTTL       time.Duration `envconfig:"AUTOCITY_SCRAPER_LOCK_TTL" default:"10m"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"AUTOCITY_CRON_INTERVAL" default:"6h"`
	LockTTL  time.Duration `envconfig:"AUTOCITY_CRON_LOCK_TTL" default:"5h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AUTOCITY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AUTOCITY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AUTOCITY_GOOGLE_APPLICATION_CREDENTIALS"`
}

// PubSubConfig names the optional inventory-event topic. Eventing stays off
// while the topic is empty.
type PubSubConfig struct {
	InventoryEventsTopic string `envconfig:"AUTOCITY_PUBSUB_INVENTORY_TOPIC"`
}

func (p PubSubConfig) EventingEnabled() bool {
	return strings.TrimSpace(p.InventoryEventsTopic) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AUTOCITY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
