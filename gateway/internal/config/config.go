package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/Skotchmaster/blog/pkg/tokens"
)

// Route maps a path prefix to an upstream service.
type Route struct {
	Name        string
	Prefix      string
	Upstream    string
	Protected   bool
	Strip       string
	Roles       []string
	RateLimited bool
}

type Config struct {
	ListenAddr  string
	DatabaseURL string
	// LedgerURL is the user service base URL used for revocation checks
	// when DatabaseURL is empty.
	LedgerURL string
	LogLevel    string
	LogFile     string

	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	AuthRateLimit float64
	AuthRateBurst int

	Routes []Route
}

func (c *Config) Tokens() tokens.Config {
	return tokens.Config{Secret: c.JWTSecret, AccessTTL: c.AccessTTL, RefreshTTL: c.RefreshTTL}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("gateway_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("access_token_ttl", "15m")
	v.SetDefault("refresh_token_ttl", "168h")
	v.SetDefault("auth_rate_limit", 5)
	v.SetDefault("auth_rate_burst", 10)
	v.SetDefault("user_service_url", "http://localhost:9001")
	v.SetDefault("post_service_url", "http://localhost:9002")
	v.SetDefault("comment_service_url", "http://localhost:9003")
	return v
}

// Load reads an optional YAML file; environment variables override its keys.
func Load(file string) (*Config, error) {
	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read gateway config %s: %w", file, err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ListenAddr:    v.GetString("gateway_addr"),
		DatabaseURL:   v.GetString("database_url"),
		LedgerURL:     v.GetString("ledger_url"),
		LogLevel:      v.GetString("log_level"),
		LogFile:       v.GetString("log_file"),
		JWTSecret:     []byte(v.GetString("jwt_secret")),
		AccessTTL:     cast.ToDuration(v.Get("access_token_ttl")),
		RefreshTTL:    cast.ToDuration(v.Get("refresh_token_ttl")),
		AuthRateLimit: cast.ToFloat64(v.Get("auth_rate_limit")),
		AuthRateBurst: cast.ToInt(v.Get("auth_rate_burst")),
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}

	if v.IsSet("routes") {
		routes, err := parseRoutes(v.Get("routes"))
		if err != nil {
			return nil, err
		}
		cfg.Routes = routes
	} else {
		cfg.Routes = defaultRoutes(v)
	}
	return cfg, nil
}

func defaultRoutes(v *viper.Viper) []Route {
	users := v.GetString("user_service_url")
	return []Route{
		{Name: "auth", Prefix: "/api/v1/auth", Upstream: users, RateLimited: true},
		{Name: "users", Prefix: "/api/v1/users", Upstream: users, Protected: true},
		{Name: "post_service", Prefix: "/api/posts", Upstream: v.GetString("post_service_url"), Protected: true},
		{Name: "comment_service", Prefix: "/api/comments", Upstream: v.GetString("comment_service_url"), Protected: true},
	}
}

// parseRoutes accepts loosely typed YAML, e.g. protected: "true" or roles: ADMIN.
func parseRoutes(raw any) ([]Route, error) {
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}

	out := make([]Route, 0, len(items))
	for i, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
		r := Route{
			Name:        cast.ToString(m["name"]),
			Prefix:      strings.TrimSuffix(cast.ToString(m["prefix"]), "/"),
			Upstream:    cast.ToString(m["upstream"]),
			Protected:   cast.ToBool(m["protected"]),
			Strip:       cast.ToString(m["strip"]),
			Roles:       cast.ToStringSlice(m["roles"]),
			RateLimited: cast.ToBool(m["rate_limited"]),
		}
		if r.Prefix == "" || r.Upstream == "" {
			return nil, fmt.Errorf("routes[%d]: prefix and upstream are required", i)
		}
		if r.Name == "" {
			r.Name = r.Prefix
		}
		out = append(out, r)
	}
	return out, nil
}
