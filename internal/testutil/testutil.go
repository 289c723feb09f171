// Package testutil provides shared helpers for test setup.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/lepinkainen/argos/internal/cache"
	"github.com/lepinkainen/argos/internal/config"
)

// ResetConfig resets viper to the built-in defaults and schedules a full
// reset when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	viper.Reset()
	config.SetDefaults()

	t.Cleanup(func() {
		viper.Reset()
	})
}

// SetTestConfig resets viper to the defaults plus the given overrides.
func SetTestConfig(t *testing.T, overrides map[string]any) {
	t.Helper()

	ResetConfig(t)
	for key, value := range overrides {
		viper.Set(key, value)
	}
}

// TempCache points the global response cache at a throwaway SQLite file
// and resets the singleton on cleanup.
func TempCache(t *testing.T) {
	t.Helper()

	if err := cache.ResetGlobal(); err != nil {
		t.Fatalf("failed to reset cache: %v", err)
	}
	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "cache.db"))

	t.Cleanup(func() {
		if err := cache.ResetGlobal(); err != nil {
			t.Errorf("failed to reset cache: %v", err)
		}
	})
}
