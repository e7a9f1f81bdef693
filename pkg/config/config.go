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
	GCP          GCPConfig
	PubSub       PubSubConfig
	Generation   GenerationConfig
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
	Env          string `envconfig:"BLOOMCRATE_APP_ENV" required:"true"`
	Port         string `envconfig:"BLOOMCRATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLOOMCRATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLOOMCRATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BLOOMCRATE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BLOOMCRATE_DB_DSN"`
	Driver string `envconfig:"BLOOMCRATE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BLOOMCRATE_DB_HOST"`
	Port     int    `envconfig:"BLOOMCRATE_DB_PORT" default:"5432"`
	User     string `envconfig:"BLOOMCRATE_DB_USER"`
	Password string `envconfig:"BLOOMCRATE_DB_PASSWORD"`
	Name     string `envconfig:"BLOOMCRATE_DB_NAME"`
	SSLMode  string `envconfig:"BLOOMCRATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLOOMCRATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLOOMCRATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLOOMCRATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLOOMCRATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLOOMCRATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLOOMCRATE_REDIS_ADDR"`
	Password     string        `envconfig:"BLOOMCRATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLOOMCRATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLOOMCRATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLOOMCRATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLOOMCRATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLOOMCRATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLOOMCRATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BLOOMCRATE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	GenerationTopic        string `envconfig:"BLOOMCRATE_PUBSUB_GENERATION_TOPIC" default:"bc-generation-events"`
	GenerationSubscription string `envconfig:"BLOOMCRATE_PUBSUB_GENERATION_SUBSCRIPTION"`
}

// GenerationConfig tunes the batch order-generation engine.
type GenerationConfig struct {
	CronInterval  time.Duration `envconfig:"BLOOMCRATE_GENERATION_CRON_INTERVAL" default:"24h"`
	NotifyTimeout time.Duration `envconfig:"BLOOMCRATE_GENERATION_NOTIFY_TIMEOUT" default:"30s"`
	NotifyRetries uint64        `envconfig:"BLOOMCRATE_GENERATION_NOTIFY_RETRIES" default:"3"`
	PerformedBy   string        `envconfig:"BLOOMCRATE_GENERATION_PERFORMED_BY" default:"scheduler"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BLOOMCRATE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
