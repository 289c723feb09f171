package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/lepinkainen/argos/internal/metadata"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"normal", ModeNormal},
		{"speed", ModeSpeed},
		{"single", ModeSingle},
		{" Speed ", ModeSpeed},
		{"", ModeNormal},
		{"bogus", ModeNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.in), "ParseMode(%q)", tt.in)
	}
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg := Load()

	assert.Equal(t, ModeNormal, cfg.Mode)
	assert.Equal(t, metadata.LangNative, cfg.Language(metadata.GroupTitle))
	assert.False(t, cfg.OfficialEnabled)
	assert.Equal(t, "素人", cfg.UncreditedSentinel)
	assert.NotEmpty(t, cfg.Routing["censored"])
	assert.NotEmpty(t, cfg.FieldOrder[metadata.FieldTitle])
	assert.True(t, cfg.CompleteFields[metadata.FieldSynopsis])
	assert.True(t, cfg.AmbiguousProviders["iqqtv"])
}

func TestLoadOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("scrape.mode", "speed")
	viper.Set("language.title", "zh_cn")
	viper.Set("fields.title.order", "javdb, javbus")
	viper.Set("fields.skip", "trailer,want_count")
	viper.Set("routing.official", true)

	cfg := Load()

	assert.Equal(t, ModeSpeed, cfg.Mode)
	assert.Equal(t, metadata.LangZhCN, cfg.Language(metadata.GroupTitle))
	assert.Equal(t, []string{"javdb", "javbus"}, cfg.FieldOrder[metadata.FieldTitle])
	assert.True(t, cfg.SkipFields[metadata.FieldTrailer])
	assert.True(t, cfg.SkipFields[metadata.FieldWantCount])
	assert.True(t, cfg.OfficialEnabled)
}

func TestLanguageUnknownGroupDefaultsToNative(t *testing.T) {
	cfg := &Scraper{Languages: map[metadata.LanguageGroup]metadata.Language{}}
	assert.Equal(t, metadata.LangNative, cfg.Language(metadata.GroupSeries))
}

func TestConfiguredProviders(t *testing.T) {
	resetViper(t)
	viper.Set("fields.title.order", "a,b")
	viper.Set("routing.censored", "b,c")
	viper.Set("scrape.single_site", "d")

	cfg := Load()
	names := cfg.ConfiguredProviders()

	for _, want := range []string{"a", "b", "c", "d"} {
		assert.Contains(t, names, want)
	}
}

func TestConfiguredProvidersDefaultsAreRegistered(t *testing.T) {
	resetViper(t)

	// Every provider named by the default configuration must be one of
	// the shipped adapters, or startup validation would fail out of the box.
	shipped := map[string]bool{"javbus": true, "javdb": true, "mgstage": true}
	cfg := Load()
	for _, name := range cfg.ConfiguredProviders() {
		assert.True(t, shipped[name], "default config references unshipped provider %q", name)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"", nil},
		{",,", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitList(tt.in), "SplitList(%q)", tt.in)
	}
}
