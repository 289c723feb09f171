// Package metadata defines the field vocabulary and record types shared by
// the provider adapters, the resolution engine and the post-processor.
package metadata

// Field identifies one attribute of the output record. Using a dedicated
// type (instead of raw strings) means every field access goes through the
// accessor switches in record.go and an invalid field name is a compile
// error, not a runtime lookup failure.
type Field string

const (
	FieldTitle            Field = "title"
	FieldOriginalTitle    Field = "original_title"
	FieldSynopsis         Field = "synopsis"
	FieldOriginalSynopsis Field = "original_synopsis"
	FieldCast             Field = "cast"
	FieldCover            Field = "cover"
	FieldPoster           Field = "poster"
	FieldGallery          Field = "gallery"
	FieldTags             Field = "tags"
	FieldReleaseDate      Field = "release_date"
	FieldRuntime          Field = "runtime"
	FieldRating           Field = "rating"
	FieldDirector         Field = "director"
	FieldSeries           Field = "series"
	FieldStudio           Field = "studio"
	FieldPublisher        Field = "publisher"
	FieldTrailer          Field = "trailer"
	FieldWantCount        Field = "want_count"
)

// LanguageGroup names the semantic group whose configured target language
// applies to a field. Several fields share one group (e.g. cover, poster and
// gallery follow the title group).
type LanguageGroup string

const (
	GroupTitle     LanguageGroup = "title"
	GroupSynopsis  LanguageGroup = "synopsis"
	GroupCast      LanguageGroup = "cast"
	GroupTags      LanguageGroup = "tags"
	GroupDirector  LanguageGroup = "director"
	GroupSeries    LanguageGroup = "series"
	GroupStudio    LanguageGroup = "studio"
	GroupPublisher LanguageGroup = "publisher"
)

// Spec is the static description of one output field.
type Spec struct {
	Field Field
	// Label is the human-readable name used in the attempt log.
	Label string
	// Group selects which configured target language applies.
	Group LanguageGroup
	// FreeText marks fields whose values are prose and therefore subject
	// to language validation.
	FreeText bool
}

// Specs lists every output field in resolution order. The engine resolves
// fields in exactly this order; title must stay first because every other
// field's provider gating depends on a provider having produced a title.
var Specs = []Spec{
	{Field: FieldTitle, Label: "title", Group: GroupTitle, FreeText: true},
	{Field: FieldOriginalTitle, Label: "original title", Group: GroupSynopsis, FreeText: true},
	{Field: FieldSynopsis, Label: "synopsis", Group: GroupSynopsis, FreeText: true},
	{Field: FieldOriginalSynopsis, Label: "original synopsis", Group: GroupSynopsis, FreeText: true},
	{Field: FieldCast, Label: "cast", Group: GroupCast},
	{Field: FieldCover, Label: "cover", Group: GroupTitle},
	{Field: FieldPoster, Label: "poster", Group: GroupTitle},
	{Field: FieldGallery, Label: "gallery", Group: GroupTitle},
	{Field: FieldTags, Label: "tags", Group: GroupTags},
	{Field: FieldReleaseDate, Label: "release date", Group: GroupTitle},
	{Field: FieldRuntime, Label: "runtime", Group: GroupTitle},
	{Field: FieldRating, Label: "rating", Group: GroupTitle},
	{Field: FieldDirector, Label: "director", Group: GroupDirector},
	{Field: FieldSeries, Label: "series", Group: GroupSeries},
	{Field: FieldStudio, Label: "studio", Group: GroupStudio},
	{Field: FieldPublisher, Label: "publisher", Group: GroupPublisher},
	{Field: FieldTrailer, Label: "trailer", Group: GroupTitle},
	{Field: FieldWantCount, Label: "want count", Group: GroupTitle},
}

// SpecFor returns the spec for a field and whether the field is known.
func SpecFor(f Field) (Spec, bool) {
	for _, s := range Specs {
		if s.Field == f {
			return s, true
		}
	}
	return Spec{}, false
}

// OriginalLanguageFields always require the item's original language
// regardless of the globally configured target language: the "original"
// variants by definition, and the trailer/want-count fields whose source
// pages only exist in the original locale.
var OriginalLanguageFields = map[Field]bool{
	FieldOriginalTitle:    true,
	FieldOriginalSynopsis: true,
	FieldTrailer:          true,
	FieldWantCount:        true,
}

// Language is a target language selector for a semantic field group.
type Language string

const (
	// LangNative is the item's original language (Japanese for the
	// catalogs this tool covers).
	LangNative Language = "native"
	LangZhCN   Language = "zh_cn"
	LangZhTW   Language = "zh_tw"
)

// ParseLanguage maps a configuration string to a Language, defaulting to
// the native language for unknown values.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LangZhCN:
		return LangZhCN
	case LangZhTW:
		return LangZhTW
	default:
		return LangNative
	}
}
