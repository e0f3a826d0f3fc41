package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string      `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string      `mapstructure:"cors_allowed_headers"`
		ReadTimeout        time.Duration `mapstructure:"read_timeout"`
		WriteTimeout       time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Auth.Operators maps an operator name to a bcrypt hash of their password
	Auth struct {
		Operators map[string]string `mapstructure:"operators"`
	} `mapstructure:"auth"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Kafka struct {
		Enabled  bool     `mapstructure:"enabled"`
		Brokers  []string `mapstructure:"brokers"`
		ClientID string   `mapstructure:"client_id"`
	} `mapstructure:"kafka"`

	Archive struct {
		Enabled   bool   `mapstructure:"enabled"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Prefix    string `mapstructure:"prefix"`
	} `mapstructure:"archive"`

	Ledger struct {
		Timezone string `mapstructure:"timezone"`
		Store    string `mapstructure:"store"`
	} `mapstructure:"ledger"`
}

// DSN builds the pgx connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Load reads configs/config.yaml (optional), .env (optional) and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile("configs/config.yaml")
}

func LoadFile(path string) (*Config, error) {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// Auto bind environment variables, server.port -> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type", "Idempotency-Key"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "ledger-backend")
	v.SetDefault("auth.operators", map[string]string{})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "ledger_db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.client_id", "ledger-backend")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.region", "auto")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.prefix", "statements")
	v.SetDefault("ledger.timezone", "Asia/Shanghai")
	v.SetDefault("ledger.store", StorePostgres)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found at %s, using defaults", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	// LEDGER_OPERATORS=alice:<bcrypt>,bob:<bcrypt>
	if ops := os.Getenv("LEDGER_OPERATORS"); ops != "" {
		if cfg.Auth.Operators == nil {
			cfg.Auth.Operators = make(map[string]string)
		}
		for _, pair := range strings.Split(ops, ",") {
			name, hash, ok := strings.Cut(strings.TrimSpace(pair), ":")
			if ok && name != "" && hash != "" {
				cfg.Auth.Operators[name] = hash
			}
		}
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
		cfg.Kafka.Enabled = true
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "${JWT_SECRET}" {
		return errors.New("JWT_SECRET not set")
	}
	switch c.Ledger.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("ledger.store must be %q or %q, got %q", StorePostgres, StoreMemory, c.Ledger.Store)
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return errors.New("archive.bucket is required when archive is enabled")
	}
	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		return fmt.Errorf("ledger.timezone: %w", err)
	}
	return nil
}
