package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/dkazmin/rotabot/internal/adapters/notify"
	"github.com/dkazmin/rotabot/internal/adapters/secrets/passfile"
	"github.com/dkazmin/rotabot/internal/adapters/store/flatfile"
	"github.com/dkazmin/rotabot/internal/application"
	"github.com/dkazmin/rotabot/internal/ports"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".rotabot"

	dataDirKey        = "data.dir"
	passphraseFileKey = "auth.passphrase_file"
	passphrasesKey    = "auth.passphrases"
	notifyTargetKey   = "notify.target"
	logLevelKey       = "log.level"
)

type app struct {
	store  ports.Store
	router *application.Router
	logger *slog.Logger
	now    func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(dataDirKey, filepath.Join(homeDir, configDir, "data"))
	cfg.SetDefault(passphraseFileKey, filepath.Join(homeDir, configDir, "passphrases"))
	cfg.SetDefault(passphrasesKey, []string{"🐱", "🦁"})
	cfg.SetDefault(notifyTargetKey, "log")
	cfg.SetDefault(logLevelKey, "info")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	logger := newLogger(cfg.GetString(logLevelKey))

	store, err := flatfile.New(cfg.GetString(dataDirKey))
	if err != nil {
		return nil, fmt.Errorf("wire activity store: %w", err)
	}

	passphrases, err := loadPassphrases(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := application.NewEngine(store, ports.SystemRand{}, ports.SystemClock{}, passphrases, logger)
	if err != nil {
		return nil, fmt.Errorf("wire engine: %w", err)
	}

	notifier := notify.NewAsync(newSink(cfg.GetString(notifyTargetKey), logger), logger)

	return &app{
		store:  store,
		router: application.NewRouter(engine, notifier, logger),
		logger: logger,
		now:    time.Now,
	}, nil
}

// loadPassphrases prefers the passphrase file; the configured set is
// the fallback so a fresh install works out of the box.
func loadPassphrases(cfg *viper.Viper) ([]string, error) {
	phrases, err := passfile.New(cfg.GetString(passphraseFileKey)).Passphrases(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load passphrase file: %w", err)
	}
	if len(phrases) > 0 {
		return phrases, nil
	}
	return cfg.GetStringSlice(passphrasesKey), nil
}

func newSink(target string, logger *slog.Logger) notify.Sink {
	if target == "stderr" {
		return notify.NewWriterSink(os.Stderr)
	}
	return notify.NewLogSink(logger)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
