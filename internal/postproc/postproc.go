// Package postproc applies the ordered, best-effort normalization steps
// that run after aggregation. Every step rewrites what it can and
// reports what it had to skip as diagnostics instead of swallowing
// errors inline.
package postproc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lepinkainen/argos/internal/metadata"
)

// Diagnostic names one normalization rule that could not be applied.
type Diagnostic struct {
	Rule   string
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Rule, d.Detail)
}

// Options configures the normalization run.
type Options struct {
	// ActorAliases are externally resolved aliases of the credited
	// actors, used to trim trailing actor names from titles.
	ActorAliases []string
	// StripNumericPrefix rewrites an amateur identifier to its short
	// form and re-derives the letters classification.
	StripNumericPrefix bool
}

// Apply runs every normalization step in order on the aggregated record.
// A record without a title is returned untouched: there is nothing
// downstream that would consume it.
func Apply(agg *metadata.Aggregated, opts Options) []Diagnostic {
	if !agg.Record.HasTitle() {
		return nil
	}

	var diags []Diagnostic

	normalizeCast(agg)
	diags = append(diags, trimActorSuffix(agg, opts.ActorAliases)...)
	stripIdentifierEcho(agg)
	sanitizeTitles(agg)
	if opts.StripNumericPrefix {
		stripNumericPrefix(agg)
	}
	diags = append(diags, normalizeReleaseDate(agg)...)
	diags = append(diags, normalizeRating(agg)...)
	unescapeEntities(&agg.Record)
	cleanTags(&agg.Record)

	if agg.Record.Publisher == "" {
		agg.Record.Publisher = agg.Record.Studio
	}

	return diags
}

// normalizeCast strips bracket-enclosed qualifiers from actor names. The
// full names (with qualifiers) stay available as CastFull for consumers
// that need the disambiguated form.
func normalizeCast(agg *metadata.Aggregated) {
	full := dedupe(agg.Record.Cast)
	display := make([]string, 0, len(full))
	for _, name := range full {
		display = append(display, stripBrackets(name))
	}
	agg.CastFull = full
	agg.Record.Cast = dedupe(display)
}

var bracketPattern = regexp.MustCompile(`[（(][^）)]*[）)]`)

func stripBrackets(name string) string {
	return strings.TrimSpace(bracketPattern.ReplaceAllString(name, ""))
}

// trimActorSuffix removes a trailing credited-actor alias from the title
// strings. Aliases come from an external table and are matched as
// anchored suffixes; an alias that does not compile as a pattern is
// skipped and reported, never fatal.
func trimActorSuffix(agg *metadata.Aggregated, aliases []string) []Diagnostic {
	var diags []Diagnostic
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		re, err := regexp.Compile(" " + alias + "$")
		if err != nil {
			diags = append(diags, Diagnostic{
				Rule:   "actor-suffix",
				Detail: fmt.Sprintf("skipped alias %q: %v", alias, err),
			})
			continue
		}
		agg.Record.Title = re.ReplaceAllString(agg.Record.Title, "")
		agg.Record.OriginalTitle = re.ReplaceAllString(agg.Record.OriginalTitle, "")
	}
	agg.SearchTitle = agg.Record.OriginalTitle
	return diags
}

// stripIdentifierEcho drops a verbatim catalog-number prefix from the
// title strings; several sites prepend it to the display title.
func stripIdentifierEcho(agg *metadata.Aggregated) {
	for _, id := range []string{agg.Identifier, strings.ToUpper(agg.Identifier)} {
		if id == "" {
			continue
		}
		agg.Record.Title = strings.TrimSpace(strings.TrimPrefix(agg.Record.Title, id))
		agg.Record.OriginalTitle = strings.TrimSpace(strings.TrimPrefix(agg.Record.OriginalTitle, id))
	}
}

var pathSeparators = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "", "?", "",
	"\"", "", "<", "(", ">", ")", "|", "-",
)

// sanitizeTitles replaces path-unsafe characters (titles become file
// names downstream) and trims edge punctuation.
func sanitizeTitles(agg *metadata.Aggregated) {
	agg.Record.Title = strings.Trim(pathSeparators.Replace(agg.Record.Title), " -,.")
	agg.Record.OriginalTitle = strings.Trim(pathSeparators.Replace(agg.Record.OriginalTitle), " -,.")
}

var numericPrefixPattern = regexp.MustCompile(`^\d{2,}([A-Za-z])`)

// stripNumericPrefix rewrites "259LUXU-1111" style identifiers to their
// short form and re-derives the letters classification.
func stripNumericPrefix(agg *metadata.Aggregated) {
	short := numericPrefixPattern.ReplaceAllString(agg.Identifier, "$1")
	if short == agg.Identifier {
		return
	}
	agg.Identifier = short
	var b strings.Builder
	for _, r := range strings.ToUpper(short) {
		if r < 'A' || r > 'Z' {
			break
		}
		b.WriteRune(r)
	}
	agg.Letters = b.String()
}

var datePattern = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)

// normalizeReleaseDate canonicalizes the release date to YYYY-MM-DD when
// a 4-2-2 digit pattern is recoverable.
func normalizeReleaseDate(agg *metadata.Aggregated) []Diagnostic {
	release := strings.Trim(strings.TrimSpace(agg.Record.ReleaseDate), ". ")
	if release == "" {
		return nil
	}
	m := datePattern.FindStringSubmatch(release)
	if m == nil {
		return []Diagnostic{{
			Rule:   "release-date",
			Detail: fmt.Sprintf("unrecognized date %q", release),
		}}
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	agg.Record.ReleaseDate = fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	return nil
}

// normalizeRating formats the rating as a fixed one-decimal string.
func normalizeRating(agg *metadata.Aggregated) []Diagnostic {
	rating := strings.TrimSpace(agg.Record.Rating)
	if rating == "" {
		return nil
	}
	value, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return []Diagnostic{{
			Rule:   "rating",
			Detail: fmt.Sprintf("unparseable rating %q", rating),
		}}
	}
	agg.Record.Rating = fmt.Sprintf("%.1f", value)
	return nil
}

// entityRewrites folds the HTML entities and typographic leftovers the
// covered sites are known to emit. The pairs apply sequentially, in
// order: entity decoding runs first so an escaped <br/> is decoded and
// then removed by the later pair.
var entityRewrites = [][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&apos;", "'"},
	{"&quot;", `"`},
	{"&lsquo;", "「"},
	{"&rsquo;", "」"},
	{"&hellip;", "…"},
	{"<br/>", ""},
	{"・", "·"},
	{"“", "「"},
	{"”", "」"},
	{"...", "…"},
	{"\u00a0", ""},
	{"\u3000", ""},
	{"\u2800", ""},
}

func rewriteEntities(s string) string {
	for _, pair := range entityRewrites {
		s = strings.ReplaceAll(s, pair[0], pair[1])
	}
	return s
}

func unescapeEntities(r *metadata.Record) {
	for _, f := range []metadata.Field{
		metadata.FieldTitle, metadata.FieldOriginalTitle,
		metadata.FieldSynopsis, metadata.FieldOriginalSynopsis,
		metadata.FieldDirector, metadata.FieldSeries,
		metadata.FieldStudio, metadata.FieldPublisher,
	} {
		v := r.Get(f)
		r.Set(f, metadata.TextValue(rewriteEntities(v.Text)))
	}
	for i, name := range r.Cast {
		r.Cast[i] = rewriteEntities(name)
	}
	for i, tag := range r.Tags {
		r.Tags[i] = rewriteEntities(tag)
	}
}

var resolutionTag = regexp.MustCompile(`^\d+[kKpP]$`)

// cleanTags drops the resolution/quality noise tags some sites mix into
// their genre lists.
func cleanTags(r *metadata.Record) {
	var out []string
	for _, tag := range r.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || resolutionTag.MatchString(tag) {
			continue
		}
		if strings.HasSuffix(tag, "高画质") || strings.HasSuffix(tag, "高畫質") {
			continue
		}
		out = append(out, tag)
	}
	r.Tags = out
}

func dedupe(list []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
