package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override: GROWFI_DATABASE_HOST
// maps to database.host.
const EnvPrefix = "GROWFI"

// Config is the full runtime configuration of the API process.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	Mode              string        `mapstructure:"mode"` // debug, release, test
	RateLimit         bool          `mapstructure:"rate_limit"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
}

// Addr is the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// SecurityConfig tunes Argon2id for new password hashes.
type SecurityConfig struct {
	Argon2Memory  uint32 `mapstructure:"argon2_memory_kib"`
	Argon2Time    uint32 `mapstructure:"argon2_time"`
	Argon2Threads uint8  `mapstructure:"argon2_threads"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var defaults = map[string]any{
	"server.host":                "0.0.0.0",
	"server.port":                8000,
	"server.mode":                "debug",
	"server.rate_limit":          true,
	"server.max_body_bytes":      1 << 20,
	"server.read_header_timeout": "10s",
	"server.shutdown_timeout":    "10s",
	"server.openapi_path":        "docs/api/openapi.yaml",

	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "postgres",
	"database.password":          "postgres",
	"database.dbname":            "growfi",
	"database.sslmode":           "disable",
	"database.max_conns":         20,
	"database.min_conns":         2,
	"database.conn_max_lifetime": "30m",
	"database.auto_migrate":      true,

	"redis.host":         "localhost",
	"redis.port":         6379,
	"redis.password":     "",
	"redis.db":           0,
	"redis.pool_size":    10,
	"redis.dial_timeout": "5s",

	"jwt.secret": "",
	"jwt.expiry": "24h",
	"jwt.issuer": "growfi",

	"security.argon2_memory_kib": 64 * 1024,
	"security.argon2_time":       1,
	"security.argon2_threads":    4,

	"log.level":  "info",
	"log.pretty": false,
}

// Load reads configuration from path (or ./config.yaml, ./config/config.yaml
// when path is empty) and applies GROWFI_* environment overrides on top.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// No file is fine: env vars and defaults can carry everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.Mode == "release" && c.JWT.Secret == "" {
		return errors.New("jwt.secret is required in release mode")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt.expiry must be positive, got %s", c.JWT.Expiry)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds database.max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Security.Argon2Time == 0 || c.Security.Argon2Threads == 0 || c.Security.Argon2Memory < 8*1024 {
		return errors.New("security: argon2 needs time >= 1, threads >= 1 and memory >= 8192 KiB")
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}
