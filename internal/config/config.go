package config

import (
	"strings"
	"time"
)

// DefaultAPIURL is the hosted LibaasAI backend.
const DefaultAPIURL = "https://libaas-backend-production.up.railway.app"

// Config is the user-level libaas configuration.
type Config struct {
	APIURL         string        `yaml:"api_url" validate:"required,api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty" validate:"min=0"`
	UseGateway     bool          `yaml:"use_gateway,omitempty"`
	Gateway        GatewayConfig `yaml:"gateway,omitempty"`
	Log            LogConfig     `yaml:"log,omitempty"`
}

// GatewayConfig controls the local /api reverse proxy.
type GatewayConfig struct {
	Addr           string   `yaml:"addr" validate:"required,hostname_port"`
	URL            string   `yaml:"url" validate:"required,api_url"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" validate:"dive,api_url"`
}

// LogConfig controls where and how much is logged.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
	File  string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	return Config{
		APIURL: DefaultAPIURL,
		Gateway: GatewayConfig{
			Addr: "127.0.0.1:3000",
			URL:  "http://127.0.0.1:3000",
		},
		Log: LogConfig{Level: "info"},
	}
}

// BaseURL is the root every backend endpoint is joined to. When the local
// gateway is enabled requests go through its /api prefix instead.
func (c Config) BaseURL() string {
	if c.UseGateway {
		return trimSlash(c.Gateway.URL) + "/api"
	}
	return trimSlash(c.APIURL)
}

func (c *Config) normalize() {
	c.APIURL = trimSlash(strings.TrimSpace(c.APIURL))
	c.Gateway.URL = trimSlash(strings.TrimSpace(c.Gateway.URL))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func trimSlash(url string) string {
	return strings.TrimRight(url, "/")
}
