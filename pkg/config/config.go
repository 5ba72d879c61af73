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
	JWT          JWTConfig
	Rewards      RewardsConfig
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
	Env          string `envconfig:"POPSPOT_APP_ENV" required:"true"`
	Port         string `envconfig:"POPSPOT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POPSPOT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POPSPOT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"POPSPOT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"POPSPOT_DB_DSN"`
	Driver string `envconfig:"POPSPOT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POPSPOT_DB_HOST"`
	LegacyPort     int    `envconfig:"POPSPOT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POPSPOT_DB_USER"`
	LegacyPassword string `envconfig:"POPSPOT_DB_PASSWORD"`
	LegacyName     string `envconfig:"POPSPOT_DB_NAME"`
	LegacySSLMode  string `envconfig:"POPSPOT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POPSPOT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POPSPOT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POPSPOT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POPSPOT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POPSPOT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POPSPOT_REDIS_ADDR"`
	Password     string        `envconfig:"POPSPOT_REDIS_PASSWORD"`
	DB           int           `envconfig:"POPSPOT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POPSPOT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POPSPOT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POPSPOT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POPSPOT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POPSPOT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"POPSPOT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"POPSPOT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"POPSPOT_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RewardsConfig struct {
	CodeLength       int `envconfig:"POPSPOT_REWARD_CODE_LENGTH" default:"10"`
	CodeMaxAttempts  int `envconfig:"POPSPOT_REWARD_CODE_MAX_ATTEMPTS" default:"5"`
	ClaimTTLDaysHint int `envconfig:"POPSPOT_REWARD_CLAIM_TTL_DAYS" default:"0"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POPSPOT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POPSPOT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"POPSPOT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"POPSPOT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"POPSPOT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	RewardsTopic        string `envconfig:"POPSPOT_PUBSUB_REWARDS_TOPIC" default:"ps-reward-events"`
	RewardsSubscription string `envconfig:"POPSPOT_PUBSUB_REWARDS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"POPSPOT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"POPSPOT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"POPSPOT_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"POPSPOT_OUTBOX_RETENTION_DAYS" default:"30"`
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
