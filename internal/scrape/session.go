// Package scrape implements the field-resolution engine: per-field
// provider waterfalls over a session-scoped result cache, with language
// validation, backup fallback and provenance tracking.
package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/lepinkainen/argos/internal/cache"
	"github.com/lepinkainen/argos/internal/config"
	"github.com/lepinkainen/argos/internal/metadata"
	"github.com/lepinkainen/argos/internal/provider"
)

// fullFormProviders index amateur numbers under the numeric-prefixed
// form; every other provider is queried with the short form.
var fullFormProviders = map[string]bool{
	"mgstage": true,
	"avsex":   true,
}

// Input is the unit-of-work description for one identifier resolution.
type Input struct {
	// Identifier is the full catalog number (e.g. "259LUXU-1111").
	Identifier string
	// ShortIdentifier is the numeric-prefix-stripped form for amateur
	// numbers ("LUXU-1111"), empty otherwise.
	ShortIdentifier string
	// AppointProvider forces single-provider resolution (re-scrape of a
	// known-good source, or single mode).
	AppointProvider string
	// AppointURL skips provider search and fetches this detail page.
	AppointURL string
	// FilePath disambiguates multi-disc releases for providers that
	// need it.
	FilePath string
	// Category is the identifier's routing group (censored, amateur,
	// fc2, ...), classified by the caller.
	Category string
	// KnownActors carries externally resolved actor aliases, used by the
	// post-processing title cleanup.
	KnownActors []string
}

// Session owns all mutable state of one resolution run: the per-provider
// result cache, the aggregated record and the attempt log. Sessions are
// single-use and not safe for concurrent use; run concurrent identifiers
// in separate sessions sharing only the configuration snapshot.
type Session struct {
	cfg   *config.Scraper
	reg   *provider.Registry
	rules []Rule
	in    Input

	ctx     context.Context
	results map[string]provider.Result
	invoked []string
	persist bool
	agg     *metadata.Aggregated
	log     *Log

	// officialSource is the concrete site the first-party crawler
	// answered from, once confirmed via the title field.
	officialSource string
	// titleProvider is the provider that won the title field; speed
	// mode resolves every later field from it alone.
	titleProvider string
}

// NewSession prepares a session for one identifier.
func NewSession(ctx context.Context, cfg *config.Scraper, reg *provider.Registry, rules []Rule, in Input) *Session {
	return &Session{
		cfg:     cfg,
		reg:     reg,
		rules:   rules,
		in:      in,
		ctx:     ctx,
		results: make(map[string]provider.Result),
		persist: viper.GetBool("cache.enabled"),
		agg:     metadata.NewAggregated(),
		log:     &Log{},
	}
}

// Invoked returns the providers invoked so far, in invocation order.
func (s *Session) Invoked() []string {
	return s.invoked
}

// Run resolves every field and returns the aggregated record. Run never
// returns an error: every failure mode ends as an empty field (or an
// empty record when the title cannot be resolved anywhere).
func (s *Session) Run() *metadata.Aggregated {
	s.log.Line("scraping %s", s.in.Identifier)

	if s.cfg.Mode == config.ModeSingle || s.in.AppointProvider != "" {
		s.runSingle()
		return s.finish()
	}

	baseline := s.baseline()
	for _, spec := range metadata.Specs {
		if s.cfg.SkipFields[spec.Field] {
			continue
		}
		list := s.composeFor(spec.Field, baseline)
		s.resolveField(spec, list)

		if spec.Field == metadata.FieldTitle && !s.agg.Record.HasTitle() {
			// Without a title no provider result is usable for any
			// field, so scanning the rest would only burn requests.
			s.log.Line("title not found on any provider, giving up")
			return s.finish()
		}
	}

	s.collectCoverAlternatives()
	s.collectActorCandidates(s.actorSourceOrder(baseline))
	return s.finish()
}

func (s *Session) baseline() []string {
	if list, ok := s.cfg.Routing[s.in.Category]; ok && len(list) > 0 {
		return list
	}
	return s.cfg.Routing["censored"]
}

func (s *Session) composeFor(f metadata.Field, baseline []string) []string {
	if s.cfg.Mode == config.ModeSpeed && f != metadata.FieldTitle {
		// Speed mode trusts the title winner for everything else.
		if s.titleProvider == "" {
			return nil
		}
		return []string{s.titleProvider}
	}

	waterfall := f == metadata.FieldTitle || s.cfg.CompleteFields[f]
	list := Compose(ComposeInput{
		Field:       f,
		GlobalOrder: s.cfg.FieldOrder[f],
		Baseline:    baseline,
		Exclude:     s.cfg.FieldExclude[f],
		Waterfall:   waterfall,
		Identifier:  s.in.Identifier,
		ShortForm:   s.in.ShortIdentifier,
		Rules:       s.rules,
	})

	// First-party promotion happens after composition: the official
	// crawler is not part of any baseline set, so the intersection above
	// would silently drop it.
	if s.officialSource != "" && !officialExemptFields[f] {
		list = prepend(list, s.officialSource)
	}
	if s.cfg.OfficialEnabled && f == metadata.FieldTitle {
		list = prepend(list, "official")
	}
	return list
}

// officialExemptFields never get the confirmed first-party source
// promoted: the official page is trusted for images and factual data but
// not preferred for the fields considered most authoritative elsewhere.
var officialExemptFields = map[metadata.Field]bool{
	metadata.FieldTitle:            true,
	metadata.FieldOriginalTitle:    true,
	metadata.FieldSynopsis:         true,
	metadata.FieldOriginalSynopsis: true,
	metadata.FieldRating:           true,
	metadata.FieldWantCount:        true,
}

func prepend(list []string, name string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, name)
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// result returns the memoized result for a provider, invoking it at most
// once per session regardless of how many fields reference it.
func (s *Session) result(name string) provider.Result {
	if res, ok := s.results[name]; ok {
		return res
	}
	s.invoked = append(s.invoked, name)
	res := s.fetch(name)
	s.results[name] = res

	if name == "official" && res.Usable() {
		s.confirmOfficial(res)
	}
	return res
}

// fetch runs the provider through the persistent response cache (when
// enabled), so a re-scrape within the TTL window stays off the network.
// Failed results are never persisted.
func (s *Session) fetch(name string) provider.Result {
	invoke := func() (provider.Result, error) {
		return s.reg.Invoke(s.ctx, name, s.requestFor(name)), nil
	}
	if !s.persist {
		res, _ := invoke()
		return res
	}
	res, _, err := cache.GetOrFetchWithPolicy(
		cache.Key(name, s.in.Identifier), invoke, provider.Result.Usable)
	if err != nil {
		slog.Debug("Provider fetch failed", "provider", name, "error", err)
		return provider.Result{ProviderName: name}
	}
	return res
}

// confirmOfficial records the concrete site behind the first-party
// crawler and aliases its result under that name, so the promoted
// waterfall entries hit the session cache instead of re-invoking.
func (s *Session) confirmOfficial(res provider.Result) {
	source := strings.TrimSpace(res.Record.Source)
	if source == "" {
		return
	}
	s.officialSource = source
	if _, ok := s.results[source]; !ok {
		s.results[source] = res
	}
	s.log.Line("first-party source confirmed: %s", source)
}

// requestFor builds the provider request, choosing between the full and
// short identifier forms per provider.
func (s *Session) requestFor(name string) provider.Request {
	identifier := s.in.Identifier
	original := ""
	if s.in.ShortIdentifier != "" && !fullFormProviders[name] {
		identifier = s.in.ShortIdentifier
		original = s.in.Identifier
	}
	return provider.Request{
		Identifier:         identifier,
		OriginalIdentifier: original,
		AppointURL:         s.in.AppointURL,
		Language:           s.cfg.Language(metadata.GroupTitle),
		FilePath:           s.in.FilePath,
	}
}

// finish derives the trailing aggregate data and seals the session.
func (s *Session) finish() *metadata.Aggregated {
	// Provenance must only describe fields that actually hold a value;
	// drop the defaults the title win propagated onto fields that ended
	// up empty.
	for f := range s.agg.Provenance {
		if s.agg.Record.Get(f).Empty() {
			delete(s.agg.Provenance, f)
		}
	}

	s.agg.Identifier = s.in.Identifier
	s.agg.Letters = identifierLetters(preferredShort(s.in))
	s.agg.SearchTitle = s.agg.Record.OriginalTitle
	if m := yearPattern.FindString(s.agg.Record.ReleaseDate); m != "" {
		s.agg.Year = m
	}
	s.agg.Log = s.log.String()
	return s.agg
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// identifierLetters extracts the alphabetic series prefix of a catalog
// number ("LUXU-1111" -> "LUXU").
func identifierLetters(identifier string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(identifier) {
		if r < 'A' || r > 'Z' {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

func preferredShort(in Input) string {
	if in.ShortIdentifier != "" {
		return in.ShortIdentifier
	}
	return in.Identifier
}
