package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/naka-gawa/github-favorites/internal/config"
	"github.com/naka-gawa/github-favorites/internal/gateway"
	"github.com/naka-gawa/github-favorites/internal/storage"
	"github.com/naka-gawa/github-favorites/internal/usecase"
)

// app bundles what every subcommand needs.
type app struct {
	favorites *usecase.Favorites
	logger    *log.Logger
	close     func() error
}

// newApp loads the configuration, applies flag overrides and injects
// dependencies into the favorites use case.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString("store"); v != "" {
		cfg.StorePath = v
	}
	if v, _ := flags.GetString("backend"); v != "" {
		cfg.Backend = v
	}
	if v, _ := flags.GetString("api"); v != "" {
		cfg.API = v
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	verbose, _ := flags.GetBool("verbose")
	logger := newLogger(verbose, cfg.LogFile)
	logger.Printf("Using %s store at %s, %s API.", cfg.Backend, cfg.StorePath, cfg.API)

	kv, closeKV, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:      cfg.Token,
		BaseURL:    cfg.APIURL,
		GraphQLURL: cfg.GraphQLURL,
		API:        cfg.API,
	}, logger)
	if err != nil {
		_ = closeKV()
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	favorites := usecase.NewFavorites(kv, githubGateway, logger)
	favorites.SetRefreshConcurrency(cfg.RefreshConcurrency)
	return &app{favorites: favorites, logger: logger, close: closeKV}, nil
}

func newLogger(verbose bool, logFile string) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	switch {
	case logFile != "":
		logger.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	case verbose:
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}
	return logger
}

func openStore(cfg *config.Config) (storage.KV, func() error, error) {
	if cfg.Backend == config.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o700); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		kv, err := storage.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	}
	return storage.NewFile(afero.NewOsFs(), cfg.StorePath), func() error { return nil }, nil
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
