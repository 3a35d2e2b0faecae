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
	DB           DBConfig
	Redis        RedisConfig
	Checkout     CheckoutConfig
	Hyp          HypConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"FITCORE_APP_ENV" required:"true"`
	Port         string `envconfig:"FITCORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FITCORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FITCORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FITCORE_DB_DSN"`
	Driver string `envconfig:"FITCORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FITCORE_DB_HOST"`
	LegacyPort     int    `envconfig:"FITCORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FITCORE_DB_USER"`
	LegacyPassword string `envconfig:"FITCORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FITCORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FITCORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FITCORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FITCORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FITCORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FITCORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FITCORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FITCORE_REDIS_ADDR"`
	Password     string        `envconfig:"FITCORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FITCORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FITCORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FITCORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FITCORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FITCORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FITCORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	DraftTTL       time.Duration `envconfig:"FITCORE_CHECKOUT_DRAFT_TTL" default:"2h"`
	SubmitGuardTTL time.Duration `envconfig:"FITCORE_CHECKOUT_SUBMIT_GUARD_TTL" default:"2m"`
}

type HypConfig struct {
	BaseURL        string        `envconfig:"FITCORE_HYP_BASE_URL"`
	APIKey         string        `envconfig:"FITCORE_HYP_API_KEY"`
	TerminalID     string        `envconfig:"FITCORE_HYP_TERMINAL_ID"`
	ReturnBaseURL  string        `envconfig:"FITCORE_HYP_RETURN_BASE_URL"`
	RequestTimeout time.Duration `envconfig:"FITCORE_HYP_REQUEST_TIMEOUT" default:"15s"`
	PendingTTL     time.Duration `envconfig:"FITCORE_HYP_PENDING_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FITCORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FITCORE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FITCORE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FITCORE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FITCORE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	MessagingTopic        string `envconfig:"FITCORE_PUBSUB_MESSAGING_TOPIC" default:"fc-messaging-events"`
	MessagingSubscription string `envconfig:"FITCORE_PUBSUB_MESSAGING_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FITCORE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FITCORE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FITCORE_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
