package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "campus"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CAMPUS_DB_DSN"
	EnvDBHost = "CAMPUS_DB_HOST"
	EnvDBUser = "CAMPUS_DB_USER"
	EnvDBName = "CAMPUS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	Docstore DocstoreConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Docstore.Driver == DocstoreDriverPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Docstore.Driver == DocstoreDriverSQLite && cfg.DB.DSN == "" {
		cfg.DB.DSN = "file:campus.db?cache=shared"
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAMPUS_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CAMPUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DocstoreDriverMemory   = "memory"
	DocstoreDriverRedis    = "redis"
	DocstoreDriverPostgres = "postgres"
	DocstoreDriverSQLite   = "sqlite"
)

// DocstoreConfig selects and tunes the backing document store driver.
type DocstoreConfig struct {
	Driver            string        `envconfig:"CAMPUS_DOCSTORE_DRIVER" default:"memory"`
	OpTimeout         time.Duration `envconfig:"CAMPUS_DOCSTORE_OP_TIMEOUT" default:"15s"`
	WatchPollInterval time.Duration `envconfig:"CAMPUS_DOCSTORE_WATCH_POLL_INTERVAL" default:"2s"`
	AutoMigrate       bool          `envconfig:"CAMPUS_DOCSTORE_AUTO_MIGRATE" default:"false"`
}

// Validate rejects unknown driver names early, before any client is built.
func (d DocstoreConfig) Validate() error {
	switch d.Driver {
	case DocstoreDriverMemory, DocstoreDriverRedis, DocstoreDriverPostgres, DocstoreDriverSQLite:
		return nil
	}
	return fmt.Errorf("unknown docstore driver %q", d.Driver)
}

type DBConfig struct {
	DSN string `envconfig:"CAMPUS_DB_DSN"`

	LegacyHost     string `envconfig:"CAMPUS_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUS_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUS_REDIS_URL"`
	Address      string        `envconfig:"CAMPUS_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CAMPUS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CAMPUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CAMPUS_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"CAMPUS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAMPUS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAMPUS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAMPUS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAMPUS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAMPUS_ARGON_KEY_LEN" default:"32"`
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
