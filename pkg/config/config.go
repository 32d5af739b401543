package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Skotchmaster/blog/pkg/tokens"
)

// Config is shared by every backend service. Values are read once at startup.
type Config struct {
	ServiceName string `env:"SERVICE_NAME"`
	ServerAddr  string `env:"SERVER_ADDR"  envDefault:":8080"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	ElasticsearchURL string   `env:"ELASTICSEARCH_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	SnowflakeNode       int64         `env:"SNOWFLAKE_NODE"        envDefault:"1"`
	LedgerSweepInterval time.Duration `env:"LEDGER_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load reads envFile (if it exists) into the process environment, then parses it.
func Load(envFile, serviceName string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("warning: could not load %s: %v", envFile, err)
		}
	}
	return parse(env.Options{}, serviceName)
}

// LoadFrom parses an explicit environment, ignoring the process one.
func LoadFrom(environ map[string]string, serviceName string) (*Config, error) {
	return parse(env.Options{Environment: environ}, serviceName)
}

func parse(opts env.Options, serviceName string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	cfg.KafkaBrokers = CSV(strings.Join(cfg.KafkaBrokers, ","))
	return cfg, nil
}

// Tokens builds the codec configuration; services that sign tokens must have JWT_SECRET.
func (c *Config) Tokens() (tokens.Config, error) {
	if err := RequireNonEmpty(c.JWTSecret, "JWT_SECRET"); err != nil {
		return tokens.Config{}, err
	}
	return tokens.Config{
		Secret:     []byte(c.JWTSecret),
		AccessTTL:  c.AccessTokenTTL,
		RefreshTTL: c.RefreshTokenTTL,
	}, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
