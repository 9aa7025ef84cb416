package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the backend reads.
	EnvPrefix = "SHAKE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHAKE_DB_DSN"
	EnvDBHost = "SHAKE_DB_HOST"
	EnvDBUser = "SHAKE_DB_USER"
	EnvDBName = "SHAKE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Stripe        StripeConfig
	Payouts       PayoutsConfig
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
	Env          string `envconfig:"SHAKE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHAKE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHAKE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHAKE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHAKE_DB_DSN"`
	Driver string `envconfig:"SHAKE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHAKE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHAKE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHAKE_DB_USER"`
	LegacyPassword string `envconfig:"SHAKE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHAKE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHAKE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHAKE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHAKE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHAKE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHAKE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHAKE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHAKE_REDIS_ADDR"`
	Password     string        `envconfig:"SHAKE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHAKE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHAKE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHAKE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHAKE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHAKE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHAKE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHAKE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHAKE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHAKE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHAKE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHAKE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHAKE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHAKE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHAKE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHAKE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHAKE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHAKE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHAKE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHAKE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHAKE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHAKE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHAKE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHAKE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SHAKE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHAKE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"SHAKE_PUBSUB_NOTIFICATION_TOPIC" default:"ss-notification-events"`
}

type StripeConfig struct {
	APIKey string `envconfig:"SHAKE_STRIPE_API_KEY"`
	Env    string `envconfig:"SHAKE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PayoutsConfig struct {
	Currency       string `envconfig:"SHAKE_PAYOUTS_CURRENCY" default:"usd"`
	MaxWinnerCount int    `envconfig:"SHAKE_PAYOUTS_MAX_WINNER_COUNT" default:"25"`
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
