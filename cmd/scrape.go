package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/lepinkainen/argos/internal/config"
	"github.com/lepinkainen/argos/internal/fetch"
	"github.com/lepinkainen/argos/internal/metadata"
	"github.com/lepinkainen/argos/internal/postproc"
	"github.com/lepinkainen/argos/internal/provider"
	"github.com/lepinkainen/argos/internal/provider/javbus"
	"github.com/lepinkainen/argos/internal/provider/javdb"
	"github.com/lepinkainen/argos/internal/provider/mgstage"
	"github.com/lepinkainen/argos/internal/scrape"
)

// ScrapeCmd represents the scrape command
type ScrapeCmd struct {
	Number   string   `short:"n" help:"Catalog number to resolve" required:""`
	URL      string   `help:"Appointed detail-page URL (skips provider search)"`
	Site     string   `short:"s" help:"Resolve every field from this one provider"`
	Mode     string   `short:"m" help:"Scrape mode: normal, speed or single"`
	Category string   `help:"Identifier category override (censored, uncensored, amateur, fc2, western, domestic)"`
	File     string   `help:"Path of the media file the number was parsed from"`
	Actors   []string `help:"Known actor aliases for title cleanup"`
}

func (s *ScrapeCmd) Run(cli *CLI) error {
	if s.Mode != "" {
		viper.Set("scrape.mode", s.Mode)
	}
	cfg := config.Load()

	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	if err := reg.Validate(cfg.ConfiguredProviders()); err != nil {
		return err
	}

	rules, err := scrape.LoadRules(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("failed to load routing rules: %w", err)
	}

	in := scrape.Input{
		Identifier:      s.Number,
		AppointProvider: s.Site,
		AppointURL:      s.URL,
		FilePath:        s.File,
		Category:        s.Category,
		KnownActors:     s.Actors,
	}
	if in.Category == "" {
		in.Category = classify(s.Number)
	}
	if in.Category == "amateur" {
		in.ShortIdentifier = shortForm(s.Number)
	}
	slog.Info("Scraping", "number", s.Number, "category", in.Category, "mode", cfg.Mode)

	session := scrape.NewSession(context.Background(), cfg, reg, rules, in)
	agg := session.Run()
	diags := postproc.Apply(agg, postproc.Options{
		ActorAliases:       s.Actors,
		StripNumericPrefix: cfg.StripNumericPrefix,
	})

	render(agg, diags, cli.Verbose)

	if agg.Failed() {
		return fmt.Errorf("no usable metadata found for %s", s.Number)
	}
	return nil
}

func buildRegistry() (*provider.Registry, error) {
	client := fetch.New()
	return provider.NewRegistry(
		javbus.New(client),
		javdb.New(),
		mgstage.New(client),
	)
}

var amateurPattern = regexp.MustCompile(`^\d{2,}[A-Za-z]+-\d+`)
var uncensoredPattern = regexp.MustCompile(`^\d{6}[-_]\d{2,3}$`)

// classify maps a catalog number to its routing category. The flag
// override exists because no heuristic gets every label right.
func classify(number string) string {
	upper := strings.ToUpper(strings.TrimSpace(number))
	switch {
	case strings.HasPrefix(upper, "FC2"):
		return "fc2"
	case amateurPattern.MatchString(upper):
		return "amateur"
	case uncensoredPattern.MatchString(upper) || strings.HasPrefix(upper, "HEYZO"):
		return "uncensored"
	default:
		return "censored"
	}
}

var numericPrefix = regexp.MustCompile(`^\d{2,}`)

func shortForm(number string) string {
	short := numericPrefix.ReplaceAllString(number, "")
	if short == number {
		return ""
	}
	return short
}

func render(agg *metadata.Aggregated, diags []postproc.Diagnostic, verbose bool) {
	if agg.Failed() {
		fmt.Printf("%s: not found\n", agg.Identifier)
		if verbose {
			fmt.Println()
			fmt.Print(agg.Log)
		}
		return
	}

	fmt.Printf("%s (%s)\n", agg.Identifier, agg.Year)
	for _, spec := range metadata.Specs {
		value := agg.Record.Get(spec.Field)
		if value.Empty() {
			continue
		}
		source := agg.Provider(spec.Field)
		if source == "" {
			fmt.Printf("  %-18s %s\n", spec.Label, value)
			continue
		}
		fmt.Printf("  %-18s %s  [%s]\n", spec.Label, value, source)
	}
	if len(agg.ActorCandidates) > 0 {
		fmt.Printf("  %-18s %s\n", "actor candidates", strings.Join(agg.ActorCandidates, ", "))
	}
	for _, d := range diags {
		fmt.Printf("  note: %s\n", d)
	}
	if verbose {
		fmt.Println()
		fmt.Print(agg.Log)
	}
}
