package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ConfigPath is the YAML file; a missing file is not an error.
	ConfigPath string
	// EnvFiles are dotenv files loaded into the process environment before
	// overrides are read. Variables already set are left alone.
	EnvFiles []string
	// Getenv reads overrides; nil means os.Getenv.
	Getenv func(string) string
}

// Load builds the effective configuration: defaults, then the YAML file,
// then environment overrides. The result is normalised and validated.
func Load(opts LoadOptions) (*Config, error) {
	for _, path := range opts.EnvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, liberrors.NewParseError(path, 0, err)
		}
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()
	if opts.ConfigPath != "" {
		if err := decodeFile(opts.ConfigPath, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return liberrors.NewParseError(path, 0, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return liberrors.NewParseError(path, extractLine(err), err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := firstNonEmpty(getenv("LIBAAS_API_URL"), getenv("NEXT_PUBLIC_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("LIBAAS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LIBAAS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := getenv("LIBAAS_GATEWAY_URL"); v != "" {
		cfg.Gateway.URL = v
	}
	if v := getenv("LIBAAS_GATEWAY_ADDR"); v != "" {
		cfg.Gateway.Addr = v
	}
	if v := getenv("LIBAAS_USE_GATEWAY"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return liberrors.NewValidationError("LIBAAS_USE_GATEWAY", "must be true or false", err)
		}
		cfg.UseGateway = enabled
	}
	if v := getenv("LIBAAS_REQUEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return liberrors.NewValidationError("LIBAAS_REQUEST_TIMEOUT", "must be a duration such as 30s", err)
		}
		cfg.RequestTimeout = timeout
	}
	return nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
