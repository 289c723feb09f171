// Package config loads the scraper configuration from viper into a typed
// snapshot. The snapshot is read-only after Load; concurrent sessions
// share it without further locking.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/lepinkainen/argos/internal/metadata"
)

// Mode is the session-wide scrape policy switch.
type Mode string

const (
	// ModeNormal walks the full per-field waterfalls with language
	// validation enabled.
	ModeNormal Mode = "normal"
	// ModeSpeed resolves everything from the first provider that answers
	// the title and skips language validation.
	ModeSpeed Mode = "speed"
	// ModeSingle resolves every field from one appointed provider.
	ModeSingle Mode = "single"
)

// ParseMode maps a configuration string to a Mode, defaulting to normal.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSpeed:
		return ModeSpeed
	case ModeSingle:
		return ModeSingle
	default:
		return ModeNormal
	}
}

// Scraper is the full configuration surface of a resolution session.
type Scraper struct {
	Mode       Mode
	SingleSite string

	// Languages holds the target language per semantic field group.
	Languages map[metadata.LanguageGroup]metadata.Language

	// FieldOrder is the administrator-configured provider sequence per
	// field. FieldExclude removes providers known to never populate a
	// field.
	FieldOrder   map[metadata.Field][]string
	FieldExclude map[metadata.Field][]string

	// SkipFields are never resolved. CompleteFields keep walking the
	// waterfall union even when absent from the baseline set.
	SkipFields     map[metadata.Field]bool
	CompleteFields map[metadata.Field]bool

	// Routing maps an identifier category to its baseline provider list.
	Routing map[string][]string

	// RulesFile points at the YAML identifier-pattern routing rules.
	RulesFile string

	// AmbiguousProviders serve multiple localized variants at one
	// endpoint, so their free-text output needs language validation.
	AmbiguousProviders map[string]bool

	// OfficialEnabled turns on the first-party crawler promotion.
	OfficialEnabled bool

	// UncreditedSentinel is the placeholder token some sites use for an
	// unnamed performer; it is dropped from actor candidate lists.
	UncreditedSentinel string

	// StripNumericPrefix rewrites amateur identifiers to their short
	// form in the final record.
	StripNumericPrefix bool
}

// SetDefaults registers the default configuration values with viper.
// Called once at startup, before Load.
func SetDefaults() {
	viper.SetDefault("scrape.mode", string(ModeNormal))
	viper.SetDefault("scrape.single_site", "javbus")

	for _, group := range languageGroups {
		viper.SetDefault("language."+string(group), string(metadata.LangNative))
	}
	viper.SetDefault("language.ambiguous_providers",
		"airav,avsex,iqqtv,javlibrary,lulubar")

	for field, order := range defaultFieldOrder {
		viper.SetDefault("fields."+string(field)+".order", order)
	}
	for field, exclude := range defaultFieldExclude {
		viper.SetDefault("fields."+string(field)+".exclude", exclude)
	}
	viper.SetDefault("fields.skip", "")
	viper.SetDefault("fields.complete", "synopsis,cast,series,studio,publisher")

	for group, order := range defaultRouting {
		viper.SetDefault("routing."+group, order)
	}
	viper.SetDefault("routing.rules_file", "")
	viper.SetDefault("routing.official", false)

	viper.SetDefault("actor.uncredited_sentinel", "素人")
	viper.SetDefault("identifier.strip_numeric_prefix", false)

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h")

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.timeout", "60s")
}

var languageGroups = []metadata.LanguageGroup{
	metadata.GroupTitle, metadata.GroupSynopsis, metadata.GroupCast,
	metadata.GroupTags, metadata.GroupDirector, metadata.GroupSeries,
	metadata.GroupStudio, metadata.GroupPublisher,
}

// Load builds a Scraper snapshot from the current viper state.
func Load() *Scraper {
	s := &Scraper{
		Mode:               ParseMode(viper.GetString("scrape.mode")),
		SingleSite:         viper.GetString("scrape.single_site"),
		Languages:          make(map[metadata.LanguageGroup]metadata.Language),
		FieldOrder:         make(map[metadata.Field][]string),
		FieldExclude:       make(map[metadata.Field][]string),
		SkipFields:         fieldSet(viper.GetString("fields.skip")),
		CompleteFields:     fieldSet(viper.GetString("fields.complete")),
		Routing:            make(map[string][]string),
		RulesFile:          viper.GetString("routing.rules_file"),
		AmbiguousProviders: make(map[string]bool),
		OfficialEnabled:    viper.GetBool("routing.official"),
		UncreditedSentinel: viper.GetString("actor.uncredited_sentinel"),
		StripNumericPrefix: viper.GetBool("identifier.strip_numeric_prefix"),
	}

	for _, group := range languageGroups {
		s.Languages[group] = metadata.ParseLanguage(viper.GetString("language." + string(group)))
	}

	for _, name := range SplitList(viper.GetString("language.ambiguous_providers")) {
		s.AmbiguousProviders[name] = true
	}

	for _, spec := range metadata.Specs {
		s.FieldOrder[spec.Field] = SplitList(viper.GetString("fields." + string(spec.Field) + ".order"))
		s.FieldExclude[spec.Field] = SplitList(viper.GetString("fields." + string(spec.Field) + ".exclude"))
	}

	for group := range defaultRouting {
		s.Routing[group] = SplitList(viper.GetString("routing." + group))
	}

	return s
}

// Language returns the target language configured for a field group.
func (s *Scraper) Language(group metadata.LanguageGroup) metadata.Language {
	if lang, ok := s.Languages[group]; ok {
		return lang
	}
	return metadata.LangNative
}

// ConfiguredProviders returns every provider name referenced anywhere in
// the configuration, for registry validation at startup.
func (s *Scraper) ConfiguredProviders() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list []string) {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for _, spec := range metadata.Specs {
		add(s.FieldOrder[spec.Field])
	}
	for _, list := range s.Routing {
		add(list)
	}
	if s.SingleSite != "" {
		add([]string{s.SingleSite})
	}
	return names
}

// SplitList parses a comma-separated configuration string, trimming
// whitespace and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fieldSet(s string) map[metadata.Field]bool {
	set := make(map[metadata.Field]bool)
	for _, name := range SplitList(s) {
		set[metadata.Field(name)] = true
	}
	return set
}
