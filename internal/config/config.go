package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lapdeck/lapdeck/internal/errors"
)

// DefaultAPIURL is used when no configuration file or environment override exists.
const DefaultAPIURL = "http://localhost:8080"

// EnvAPIURL overrides the configured API base URL.
const EnvAPIURL = "LAPDECK_API_URL"

// FileName is the configuration file path relative to the user's home directory.
const FileName = ".lapdeck/config.yaml"

// Config holds the client configuration.
// The API base URL is the single value the application requires; the log
// settings tune the ambient logger.
type Config struct {
	// APIURL is the base URL of the catalog service, without a trailing slash.
	APIURL string `yaml:"api_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFormat is one of text, json.
	LogFormat string `yaml:"log_format,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads the configuration file from the user's home directory and applies
// the environment override. A missing file is not an error; defaults apply.
func Load() (Config, error) {
	path := ""
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, FileName)
	}
	return load(path)
}

// LoadFile reads the configuration from an explicit path, with the environment
// override applied on top.
func LoadFile(path string) (Config, error) {
	return load(path)
}

func load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Default(), errors.NewConfigInvalidError(path, err)
			}
		case os.IsNotExist(err):
			// No file is the common case on a fresh install.
		default:
			return Default(), errors.Wrap(errors.ErrCodeConfigNotFound, "cannot read configuration file", err)
		}
	}

	if env := os.Getenv(EnvAPIURL); env != "" {
		cfg.APIURL = env
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	return cfg, nil
}
