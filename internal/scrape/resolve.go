package scrape

import (
	"github.com/lepinkainen/argos/internal/config"
	"github.com/lepinkainen/argos/internal/langcheck"
	"github.com/lepinkainen/argos/internal/metadata"
)

type candidate struct {
	provider string
	value    metadata.Value
}

// resolveField walks the candidate list until one provider's value is
// accepted. Earlier position always wins; there is no scoring beyond the
// accept/reject gates. The first non-empty value seen is remembered as a
// backup (whatever the rejection reason) and used when the list runs out
// without an acceptance.
func (s *Session) resolveField(spec metadata.Spec, list []string) {
	if len(list) == 0 {
		return
	}
	s.log.Field(spec.Label, list)

	var backup *candidate
	for _, name := range list {
		res := s.result(name)
		if !res.Success {
			s.log.Rejected(name, "unavailable")
			continue
		}
		if !res.Record.HasTitle() {
			// Stale search hit or anti-bot page: nothing in this record
			// is trustworthy, whatever else it contains.
			s.log.Rejected(name, "stale result (no title)")
			continue
		}
		value := res.Record.Get(spec.Field)
		if value.Empty() {
			s.log.Rejected(name, "field empty")
			continue
		}
		if backup == nil {
			backup = &candidate{provider: name, value: value}
		}

		if s.needsLanguageCheck(spec, name) {
			required := s.requiredLanguage(spec, name)
			if !langcheck.Conforms(value.String(), required) {
				s.log.Rejected(name, "language mismatch")
				continue
			}
		}

		s.apply(spec.Field, name, value)
		s.log.Accepted(name, value.String())
		return
	}

	if backup != nil {
		s.apply(spec.Field, backup.provider, backup.value)
		s.log.Backup(backup.provider, backup.value.String())
		return
	}
	s.log.NotFound()
}

// needsLanguageCheck limits validation to free-text fields served by
// providers whose output language is ambiguous by design. Speed mode
// skips validation entirely and trusts provider order.
func (s *Session) needsLanguageCheck(spec metadata.Spec, providerName string) bool {
	if s.cfg.Mode == config.ModeSpeed {
		return false
	}
	return spec.FreeText && s.cfg.AmbiguousProviders[providerName]
}

// requiredLanguage determines which language the field must be in when
// served by the given provider. The "original" field variants (and
// trailer/want-count) always require the item's native language; other
// fields follow the configured target for their semantic group, which
// only multi-locale providers can deviate from.
func (s *Session) requiredLanguage(spec metadata.Spec, providerName string) metadata.Language {
	if metadata.OriginalLanguageFields[spec.Field] {
		return metadata.LangNative
	}
	if !s.cfg.AmbiguousProviders[providerName] {
		return metadata.LangNative
	}
	return s.cfg.Language(spec.Group)
}
