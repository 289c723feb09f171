package scrape

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/argos/internal/metadata"
)

// Rule routes identifiers of one catalog family to a specific provider.
// Matching identifiers get the provider promoted to the front of the
// waterfall for text and image fields, and removed from the waterfall
// for categorical fields: such studio-label sites are an excellent text
// and image source but routinely mis-attribute tags, ratings, directors
// and series for their own catalogs.
type Rule struct {
	Name     string `yaml:"name"`
	Pattern  string `yaml:"pattern"`
	Provider string `yaml:"provider"`

	re *regexp.Regexp
}

// Matches reports whether the rule applies to the identifier.
func (r *Rule) Matches(identifier string) bool {
	return r.re != nil && r.re.MatchString(identifier)
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads identifier routing rules from a YAML file. An empty
// path yields no rules. Individual rules with invalid patterns are
// skipped with a warning; a rule typo should not take the scraper down.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing rules: %w", err)
	}
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse routing rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for _, rule := range file.Rules {
		if rule.Pattern == "" || rule.Provider == "" {
			slog.Warn("Skipping incomplete routing rule", "rule", rule.Name)
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			slog.Warn("Skipping routing rule with invalid pattern", "rule", rule.Name, "pattern", rule.Pattern, "error", err)
			continue
		}
		rule.re = re
		rules = append(rules, rule)
	}
	return rules, nil
}

// promoteFields are the text/image fields a matching rule promotes its
// provider to the front of.
var promoteFields = map[metadata.Field]bool{
	metadata.FieldTitle:    true,
	metadata.FieldSynopsis: true,
	metadata.FieldCover:    true,
	metadata.FieldPoster:   true,
	metadata.FieldTrailer:  true,
	metadata.FieldGallery:  true,
}

// removeFields are the categorical fields a matching rule removes its
// provider from.
var removeFields = map[metadata.Field]bool{
	metadata.FieldTags:     true,
	metadata.FieldRating:   true,
	metadata.FieldDirector: true,
	metadata.FieldSeries:   true,
}
