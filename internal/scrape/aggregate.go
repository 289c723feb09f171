package scrape

import (
	"strings"

	"github.com/lepinkainen/argos/internal/metadata"
)

// apply writes a decided field value into the aggregated record and
// updates provenance. It is the sole mutator of the aggregated record
// and runs only after a field's value is fully decided.
func (s *Session) apply(f metadata.Field, providerName string, value metadata.Value) {
	s.agg.Record.Set(f, value)
	s.agg.Provenance[f] = providerName

	if f == metadata.FieldTitle {
		s.titleProvider = providerName
		// A site that wins the title usually supplies a self-consistent
		// media bundle; seed the image/trailer provenance with it and
		// let field-specific winners override individually.
		for _, related := range []metadata.Field{
			metadata.FieldCover, metadata.FieldPoster,
			metadata.FieldGallery, metadata.FieldTrailer,
		} {
			if _, ok := s.agg.Provenance[related]; !ok {
				s.agg.Provenance[related] = providerName
			}
		}
	}
}

// collectCoverAlternatives records every usable cover URL in the cover
// waterfall's order. The downstream image fetcher walks this list when
// the winning URL fails to download.
func (s *Session) collectCoverAlternatives() {
	order := s.composeFor(metadata.FieldCover, s.baseline())
	seen := make(map[string]bool)
	for _, name := range order {
		res, ok := s.results[name]
		if !ok || !res.Usable() {
			continue
		}
		url := strings.TrimSpace(res.Record.Cover)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		s.agg.CoverAlternatives = append(s.agg.CoverAlternatives,
			metadata.ImageCandidate{Provider: name, URL: url})
	}
	// GBBH-1041: the winning cover URL can be dead while the page is
	// fine; without any alternative the record must not pretend to have
	// a cover at all.
	if len(s.agg.CoverAlternatives) == 0 {
		s.agg.Record.Cover = ""
		delete(s.agg.Provenance, metadata.FieldCover)
	}
}

// actorSourceOrder is the provider order used to gather actor-name
// candidates: title sources first, then cast sources, de-duplicated.
func (s *Session) actorSourceOrder(baseline []string) []string {
	var order []string
	seen := make(map[string]bool)
	for _, name := range append(
		s.composeFor(metadata.FieldTitle, baseline),
		s.composeFor(metadata.FieldCast, baseline)...) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}

// collectActorCandidates aggregates actor names across every consulted
// provider. Some sites credit the wrong cast (MOPP-023 is the canonical
// example), so the external image-search step gets the union to verify
// against, minus the uncredited-performer sentinel.
func (s *Session) collectActorCandidates(order []string) {
	seen := make(map[string]bool)
	for _, name := range order {
		res, ok := s.results[name]
		if !ok || !res.Usable() {
			continue
		}
		for _, actor := range res.Record.Cast {
			actor = strings.TrimSpace(actor)
			if actor == "" || actor == s.cfg.UncreditedSentinel || seen[actor] {
				continue
			}
			seen[actor] = true
			s.agg.ActorCandidates = append(s.agg.ActorCandidates, actor)
		}
	}
}

// runSingle resolves every field from one appointed provider, bypassing
// the waterfalls entirely.
func (s *Session) runSingle() {
	site := s.in.AppointProvider
	if site == "" {
		site = s.cfg.SingleSite
	}
	s.log.Line("single-site scrape via %s", site)

	res := s.result(site)
	if !res.Usable() {
		s.log.Line("%s returned no usable data", site)
		return
	}

	for _, spec := range metadata.Specs {
		if s.cfg.SkipFields[spec.Field] {
			continue
		}
		value := res.Record.Get(spec.Field)
		if value.Empty() {
			continue
		}
		s.apply(spec.Field, site, value)
	}

	if cover := strings.TrimSpace(res.Record.Cover); cover != "" {
		s.agg.CoverAlternatives = []metadata.ImageCandidate{{Provider: site, URL: cover}}
	}
	s.collectActorCandidates([]string{site})
}
