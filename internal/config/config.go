// Package config loads the application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	APIREST    = "rest"
	APIGraphQL = "graphql"
)

// Config holds every setting the CLI needs. Command-line flags override
// the values read here.
type Config struct {
	Token              string `env:"GITHUB_TOKEN"`
	APIURL             string `env:"GITHUB_API_URL"`
	GraphQLURL         string `env:"GITHUB_GRAPHQL_URL"`
	StorePath          string `env:"GITHUB_FAVORITES_STORE"`
	Backend            string `env:"GITHUB_FAVORITES_BACKEND" envDefault:"file"`
	API                string `env:"GITHUB_FAVORITES_API" envDefault:"rest"`
	LogFile            string `env:"GITHUB_FAVORITES_LOG_FILE"`
	RefreshConcurrency int    `env:"GITHUB_FAVORITES_REFRESH_CONCURRENCY" envDefault:"4"`
}

// Load reads an optional .env file from the working directory and then
// parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Finalize fills defaults that depend on other settings and validates.
// Call it after flags have been applied.
func (c *Config) Finalize() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	switch c.API {
	case APIREST:
	case APIGraphQL:
		if c.Token == "" {
			return errors.New("the graphql API requires GITHUB_TOKEN")
		}
	default:
		return fmt.Errorf("unknown API %q (want %s or %s)", c.API, APIREST, APIGraphQL)
	}
	if c.RefreshConcurrency < 1 {
		return fmt.Errorf("refresh concurrency must be at least 1, got %d", c.RefreshConcurrency)
	}
	if c.GraphQLURL == "" && c.APIURL != "" {
		c.GraphQLURL = graphQLURLFor(c.APIURL)
	}
	if c.StorePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		c.StorePath = filepath.Join(home, ".github-favorites", defaultStoreFile(c.Backend))
	}
	return nil
}

// graphQLURLFor maps a GitHub Enterprise REST base URL such as
// https://ghe.example.com/api/v3 to its GraphQL endpoint.
func graphQLURLFor(apiURL string) string {
	base := strings.TrimSuffix(apiURL, "/")
	base = strings.TrimSuffix(base, "/api/v3")
	return base + "/api/graphql"
}

func defaultStoreFile(backend string) string {
	if backend == BackendSQLite {
		return "favorites.db"
	}
	return "favorites.json"
}
