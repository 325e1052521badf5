package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"tally/internal/gemini"
	"tally/internal/reclassify"
	"tally/internal/storage"
)

// openStore opens the database at the configured path, creating parent
// directories as needed.
func openStore() (*storage.BoltStore, error) {
	path := viper.GetString("storage.path")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".local", "share", "tally", "tally.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return storage.Open(path, slog.Default())
}

func closeStore(store *storage.BoltStore) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
}

// classifierKey resolves the classifier credential. It is always passed
// explicitly into the engine, never read from ambient state there.
func classifierKey() string {
	return viper.GetString("gemini.api_key")
}

// newGeminiClient builds the classifier client from config.
func newGeminiClient() (*gemini.Client, error) {
	key := classifierKey()
	if key == "" {
		return nil, fmt.Errorf("classifier API key is not configured (set TALLY_GEMINI_API_KEY or gemini.api_key)")
	}
	var opts []gemini.Option
	if base := viper.GetString("gemini.base_url"); base != "" {
		opts = append(opts, gemini.WithBaseURL(base))
	}
	return gemini.NewClient(key, opts...)
}

// configuredModel returns the model to use, preferring the flag value.
func configuredModel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if m := viper.GetString("gemini.model"); m != "" {
		return m
	}
	return reclassify.DefaultModel
}
