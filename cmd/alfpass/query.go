package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/alfpass/internal/alfred"
	"github.com/matsen/alfpass/internal/clipboard"
	"github.com/matsen/alfpass/internal/config"
	"github.com/matsen/alfpass/internal/dispatch"
	"github.com/matsen/alfpass/internal/storage"
	"github.com/spf13/cobra"
)

func runQuery(cmd *cobra.Command, args []string) error {
	raw := strings.Join(args, " ")
	items := handleQuery(raw)
	if err := writeItems(cmd.OutOrStdout(), items); err != nil {
		// Nothing more can reach the launcher; keep the exit status clean.
		fmt.Fprintf(cmd.ErrOrStderr(), "error: writing results: %v\n", err)
	}
	return nil
}

// handleQuery runs one launcher query end to end. Every failure is turned
// into a result row.
func handleQuery(raw string) []alfred.Item {
	cfg, err := loadConfig()
	if err != nil {
		return []alfred.Item{alfred.Error("❌ Config error", err)}
	}

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return []alfred.Item{alfred.Error("❌ Log error", err)}
	}
	defer closeLog()

	dbPath := cfg.ResolveDBPath(dbFlag)
	db, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("opening database", "path", dbPath, "error", err)
		if storage.IsInitError(err) {
			return []alfred.Item{alfred.Info("❌ Database error", fmt.Sprintf("Could not initialize the database: %v", err))}
		}
		return []alfred.Item{alfred.Error("❌ Storage error", err)}
	}
	defer db.Close()

	d := dispatch.New(db, dispatcherOptions(cfg, logger)...)
	return d.Handle(raw)
}

// dispatcherOptions maps configuration onto dispatcher options.
func dispatcherOptions(cfg *config.Config, logger *slog.Logger) []dispatch.Option {
	opts := []dispatch.Option{
		dispatch.WithLengths(cfg.DefaultLength, cfg.MaxLength),
		dispatch.WithShortLabels(cfg.ShortLabels),
		dispatch.WithLogger(logger),
	}
	if cfg.CopyToClipboard {
		sys := clipboard.System{}
		if !sys.Available() {
			logger.Warn("copy_to_clipboard is set but no clipboard is available")
		}
		opts = append(opts, dispatch.WithCopier(sys))
	}
	return opts
}

// loadConfig reads .env files, the YAML config and environment overrides.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()

	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if logFileFlag != "" {
		cfg.LogFile = config.ExpandPath(logFileFlag)
	}
	return cfg, nil
}

// configPath is the config file named by --config, or the global one.
func configPath() string {
	if configFlag != "" {
		return config.ExpandPath(configFlag)
	}
	return config.GlobalConfigPath()
}

// newLogger returns a JSON logger appending to path, or a discarding logger
// when path is empty.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { f.Close() }, nil
}
