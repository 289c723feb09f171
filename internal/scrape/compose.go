package scrape

import "github.com/lepinkainen/argos/internal/metadata"

// shortFormProvider is the provider that specializes in amateur
// (numeric-prefixed) catalog numbers. For those identifiers it is
// promoted to the front of every waterfall except title and cast, where
// the configured order is kept: those two fields are the most
// authoritative and promoting a single site there would bias them.
const shortFormProvider = "mgstage"

// ComposeInput carries everything the priority-list composer needs.
// Compose is a pure function of this input: no randomness, no clock.
type ComposeInput struct {
	Field metadata.Field

	// GlobalOrder is the administrator-configured provider sequence for
	// the field.
	GlobalOrder []string

	// Baseline is the provider set known to carry this identifier's
	// catalog family, in its own priority order.
	Baseline []string

	// Exclude removes providers known to never populate the field.
	Exclude []string

	// Waterfall appends baseline-only providers so no viable source is
	// silently dropped (the trailer field never unions: its extraction
	// is too failure-prone to risk low-quality fallbacks).
	Waterfall bool

	// Identifier is the full catalog number; ShortForm is its
	// numeric-prefix-stripped variant when the amateur numbering
	// convention applies, empty otherwise.
	Identifier string
	ShortForm  string

	// Rules are the identifier-pattern routing rules.
	Rules []Rule
}

// Compose builds the ordered candidate provider list for one field.
func Compose(in ComposeInput) []string {
	global := compact(in.GlobalOrder)
	baseline := compact(in.Baseline)

	// Intersection first: configured order wins, but only providers that
	// actually know this catalog family stay.
	list := make([]string, 0, len(global)+len(baseline))
	for _, name := range global {
		if contains(baseline, name) {
			list = append(list, name)
		}
	}

	// Union: append baseline providers the configured order misses.
	if in.Waterfall && in.Field != metadata.FieldTrailer {
		for _, name := range baseline {
			if !contains(global, name) {
				list = append(list, name)
			}
		}
	}

	// Exclusions apply after the union, before any special routing.
	if len(in.Exclude) > 0 {
		filtered := list[:0]
		for _, name := range list {
			if !contains(in.Exclude, name) {
				filtered = append(filtered, name)
			}
		}
		list = filtered
	}

	if in.ShortForm != "" {
		if in.Field != metadata.FieldTitle && in.Field != metadata.FieldCast {
			list = moveToFront(list, shortFormProvider)
		}
		return list
	}

	for i := range in.Rules {
		rule := &in.Rules[i]
		if !rule.Matches(in.Identifier) {
			continue
		}
		switch {
		case promoteFields[in.Field]:
			if !contains(list, rule.Provider) {
				list = append(list, rule.Provider)
			}
			list = moveToFront(list, rule.Provider)
		case removeFields[in.Field]:
			list = remove(list, rule.Provider)
		default:
			if !contains(list, rule.Provider) {
				list = append(list, rule.Provider)
			}
		}
		break
	}

	return list
}

func compact(list []string) []string {
	out := make([]string, 0, len(list))
	for _, name := range list {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// moveToFront promotes name to position 0 when present, preserving the
// relative order of the rest. No-op when name is absent.
func moveToFront(list []string, name string) []string {
	if !contains(list, name) {
		return list
	}
	out := make([]string, 0, len(list))
	out = append(out, name)
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
