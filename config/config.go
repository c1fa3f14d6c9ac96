// Package config loads the rdb-app-sheets configuration from built-in defaults, an
// optional YAML file and RDB_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"

	"github.com/rdb-forms/rdb-app-sheets/submission"
)

const (
	DefaultCredentials    = "service_account.json"
	DefaultSpreadsheetURL = "https://docs.google.com/spreadsheets/d/1zDZoQEhg-3xIRW-Gemmm-R0lOiQ6Iiq_2ZMuQgZKJ3I/edit?gid=0#gid=0"
	DefaultWorksheet      = "RDB"
	DefaultHTTPAddr       = ":5000"
)

// Config holds the service configuration. It is read-only once loaded.
type Config struct {
	Root             string `yaml:"root" env:"RDB_ROOT"`
	Credentials      string `yaml:"credentials" env:"RDB_CREDENTIALS"`
	SpreadsheetURL   string `yaml:"spreadsheet-url" env:"RDB_SPREADSHEET_URL"`
	Worksheet        string `yaml:"worksheet" env:"RDB_WORKSHEET"`
	ValueInputOption string `yaml:"value-input-option" env:"RDB_VALUE_INPUT_OPTION"`
	SheetsEnabled    bool   `yaml:"sheets-enabled" env:"RDB_SHEETS_ENABLED"`
	HTTPAddr         string `yaml:"http-addr" env:"RDB_HTTP_ADDR"`
	MaxConnections   int    `yaml:"max-connections" env:"RDB_MAX_CONNECTIONS"`
	OTelEndpoint     string `yaml:"otel-endpoint" env:"RDB_OTEL_ENDPOINT"`
	Debug            bool   `yaml:"debug" env:"RDB_DEBUG"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:             DEFAULT_ROOT,
		Credentials:      DefaultCredentials,
		SpreadsheetURL:   DefaultSpreadsheetURL,
		Worksheet:        DefaultWorksheet,
		ValueInputOption: "RAW",
		SheetsEnabled:    true,
		HTTPAddr:         DefaultHTTPAddr,
	}
}

// Load returns the default configuration overlaid with the YAML file (if it exists) and
// then with any RDB_ environment variables. An empty file path skips the file.
func Load(file string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(file) != "" {
		b, err := os.ReadFile(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("unable to read configuration file (%w)", err)
		}

		if err == nil {
			if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("invalid configuration file %v (%w)", file, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root directory is required")
	}

	if strings.TrimSpace(c.Credentials) == "" {
		return fmt.Errorf("credentials file name is required")
	}

	if strings.TrimSpace(c.Worksheet) == "" {
		return fmt.Errorf("worksheet name is required")
	}

	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("HTTP address is required")
	}

	switch c.ValueInputOption {
	case "RAW", "USER_ENTERED":
	default:
		return fmt.Errorf("invalid value input option '%v' - expected RAW or USER_ENTERED", c.ValueInputOption)
	}

	if c.MaxConnections < 0 {
		return fmt.Errorf("invalid max connections (%v)", c.MaxConnections)
	}

	return nil
}

// CredentialsPath is the service account key path, relative to the application root
// unless the configured name is absolute.
func (c Config) CredentialsPath() string {
	if filepath.IsAbs(c.Credentials) {
		return c.Credentials
	}

	return filepath.Join(c.Root, c.Credentials)
}

func (c Config) Target() submission.Target {
	return submission.Target{
		Document:  c.SpreadsheetURL,
		Worksheet: c.Worksheet,
	}
}

// Submission returns the handler configuration.
func (c Config) Submission() submission.Config {
	return submission.Config{
		Target:      c.Target(),
		Credentials: c.CredentialsPath(),
	}
}
