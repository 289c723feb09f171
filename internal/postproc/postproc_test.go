package postproc

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/argos/internal/metadata"
)

func aggregated(rec metadata.Record) *metadata.Aggregated {
	agg := metadata.NewAggregated()
	agg.Record = rec
	agg.Identifier = "ABC-123"
	return agg
}

func TestApplySkipsTitlelessRecord(t *testing.T) {
	agg := aggregated(metadata.Record{Synopsis: "text"})
	diags := Apply(agg, Options{})
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, "text", agg.Record.Synopsis)
}

func TestNormalizeCast(t *testing.T) {
	agg := aggregated(metadata.Record{
		Title: "題名",
		Cast:  []string{"花子（新人）", "花子", "太郎(別名)"},
	})
	Apply(agg, Options{})

	assert.Equal(t, []string{"花子（新人）", "花子", "太郎(別名)"}, agg.CastFull)
	assert.Equal(t, []string{"花子", "太郎"}, agg.Record.Cast)
}

func TestTrimActorSuffix(t *testing.T) {
	agg := aggregated(metadata.Record{
		Title:         "素敵な映画 花子",
		OriginalTitle: "素敵な映画 花子",
	})
	diags := Apply(agg, Options{ActorAliases: []string{"花子"}})

	assert.Equal(t, 0, len(diags))
	assert.Equal(t, "素敵な映画", agg.Record.Title)
	assert.Equal(t, "素敵な映画", agg.Record.OriginalTitle)
	assert.Equal(t, agg.Record.OriginalTitle, agg.SearchTitle)
}

func TestTrimActorSuffixReportsBadAlias(t *testing.T) {
	agg := aggregated(metadata.Record{Title: "題名", OriginalTitle: "題名"})
	diags := Apply(agg, Options{ActorAliases: []string{"["}})

	assert.Equal(t, 1, len(diags))
	assert.Equal(t, "actor-suffix", diags[0].Rule)
	assert.Equal(t, "題名", agg.Record.Title)
}

func TestStripIdentifierEcho(t *testing.T) {
	agg := aggregated(metadata.Record{
		Title:         "ABC-123 素敵な映画",
		OriginalTitle: "ABC-123 素敵な映画",
	})
	Apply(agg, Options{})

	assert.Equal(t, "素敵な映画", agg.Record.Title)
	assert.Equal(t, "素敵な映画", agg.Record.OriginalTitle)
}

func TestSanitizeTitles(t *testing.T) {
	agg := aggregated(metadata.Record{
		Title:         `前/後: 何か?これ<中>です|`,
		OriginalTitle: "普通の題名。",
	})
	Apply(agg, Options{})

	assert.Equal(t, "前-後- 何かこれ(中)です", agg.Record.Title)
}

func TestStripNumericPrefix(t *testing.T) {
	agg := aggregated(metadata.Record{Title: "題名"})
	agg.Identifier = "300MIUM-001"
	agg.Letters = ""
	Apply(agg, Options{StripNumericPrefix: true})

	assert.Equal(t, "MIUM-001", agg.Identifier)
	assert.Equal(t, "MIUM", agg.Letters)
}

func TestStripNumericPrefixDisabled(t *testing.T) {
	agg := aggregated(metadata.Record{Title: "題名"})
	agg.Identifier = "300MIUM-001"
	Apply(agg, Options{})

	assert.Equal(t, "300MIUM-001", agg.Identifier)
}

func TestNormalizeReleaseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023-04-05", "2023-04-05"},
		{"2023/4/5", "2023-04-05"},
		{"2023.04.05", "2023-04-05"},
		{"発売日 2023/12/31 金曜日", "2023-12-31"},
	}
	for _, tt := range tests {
		agg := aggregated(metadata.Record{Title: "題名", ReleaseDate: tt.in})
		diags := Apply(agg, Options{})
		assert.Equal(t, 0, len(diags))
		assert.Equal(t, tt.want, agg.Record.ReleaseDate)
	}
}

func TestNormalizeReleaseDateUnrecognized(t *testing.T) {
	agg := aggregated(metadata.Record{Title: "題名", ReleaseDate: "coming soon"})
	diags := Apply(agg, Options{})

	assert.Equal(t, 1, len(diags))
	assert.Equal(t, "release-date", diags[0].Rule)
}

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		// 4.55 sits just below the half in binary, so it rounds down.
		{"4.55", "4.5"},
		{"4.56", "4.6"},
		{"4.5", "4.5"},
		{"4", "4.0"},
	}
	for _, tt := range tests {
		agg := aggregated(metadata.Record{Title: "題名", Rating: tt.in})
		diags := Apply(agg, Options{})
		assert.Equal(t, 0, len(diags))
		assert.Equal(t, tt.want, agg.Record.Rating, "rating %q", tt.in)
	}
}

func TestNormalizeRatingUnparseable(t *testing.T) {
	agg := aggregated(metadata.Record{Title: "題名", Rating: "five stars"})
	diags := Apply(agg, Options{})

	assert.Equal(t, 1, len(diags))
	assert.Equal(t, "rating", diags[0].Rule)
	assert.Equal(t, "five stars", agg.Record.Rating)
}

func TestUnescapeEntities(t *testing.T) {
	agg := aggregated(metadata.Record{
		Title:    "A &amp; B &hellip;",
		Synopsis: "彼女は&quot;すごい&quot;と言った…",
		Cast:     []string{"花子&amp;太郎"},
		Tags:     []string{"&lt;tag&gt;"},
	})
	Apply(agg, Options{})

	assert.Equal(t, "A & B …", agg.Record.Title)
	assert.Equal(t, `彼女は"すごい"と言った…`, agg.Record.Synopsis)
	assert.Equal(t, []string{"花子&太郎"}, agg.Record.Cast)
	assert.Equal(t, []string{"<tag>"}, agg.Record.Tags)
}

func TestUnescapeEntitiesSequential(t *testing.T) {
	// An escaped line break decodes to <br/> and must then be removed
	// by the later rewrite pair, not survive the decode.
	agg := aggregated(metadata.Record{
		Title:    "題名",
		Synopsis: "前半&lt;br/&gt;後半<br/>続き",
	})
	Apply(agg, Options{})

	assert.Equal(t, "前半後半続き", agg.Record.Synopsis)
}

func TestCleanTags(t *testing.T) {
	agg := aggregated(metadata.Record{
		Title: "題名",
		Tags:  []string{"4K", "1080p", "ドラマ", "独占配信高画质", ""},
	})
	Apply(agg, Options{})

	assert.Equal(t, []string{"ドラマ"}, agg.Record.Tags)
}

func TestPublisherDefaultsToStudio(t *testing.T) {
	agg := aggregated(metadata.Record{Title: "題名", Studio: "スタジオ"})
	Apply(agg, Options{})

	assert.Equal(t, "スタジオ", agg.Record.Publisher)
}
