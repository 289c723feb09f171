package metadata

import "strings"

// Value holds one field value. A value is either free text or a list of
// strings; exactly one of the two is populated for a given field.
type Value struct {
	Text string
	List []string
}

// TextValue wraps a string as a Value.
func TextValue(s string) Value { return Value{Text: s} }

// ListValue wraps a string slice as a Value.
func ListValue(l []string) Value { return Value{List: l} }

// Empty reports whether the value carries no usable data.
func (v Value) Empty() bool {
	if len(v.List) > 0 {
		return false
	}
	return strings.TrimSpace(v.Text) == ""
}

// String renders the value for logging; lists are comma-joined.
func (v Value) String() string {
	if len(v.List) > 0 {
		return strings.Join(v.List, ",")
	}
	return v.Text
}

// Record is the structured data one provider returns for one item.
// A record whose Title is empty is treated as having no usable data
// regardless of its other fields (stale search hit or anti-bot page).
type Record struct {
	Title            string
	OriginalTitle    string
	Synopsis         string
	OriginalSynopsis string
	Cast             []string
	Cover            string
	Poster           string
	Gallery          []string
	Tags             []string
	ReleaseDate      string
	Runtime          string
	Rating           string
	Director         string
	Series           string
	Studio           string
	Publisher        string
	Trailer          string
	WantCount        string

	// Source is the concrete site a meta-provider (such as the official
	// first-party crawler) actually answered from. Empty for ordinary
	// providers.
	Source string
}

// HasTitle reports whether the record passes the freshness gate.
func (r *Record) HasTitle() bool {
	return strings.TrimSpace(r.Title) != ""
}

// Get returns the value of a field. Unknown fields yield an empty value;
// the Field type makes that unreachable from compiled callers.
func (r *Record) Get(f Field) Value {
	switch f {
	case FieldTitle:
		return TextValue(r.Title)
	case FieldOriginalTitle:
		return TextValue(r.OriginalTitle)
	case FieldSynopsis:
		return TextValue(r.Synopsis)
	case FieldOriginalSynopsis:
		return TextValue(r.OriginalSynopsis)
	case FieldCast:
		return ListValue(r.Cast)
	case FieldCover:
		return TextValue(r.Cover)
	case FieldPoster:
		return TextValue(r.Poster)
	case FieldGallery:
		return ListValue(r.Gallery)
	case FieldTags:
		return ListValue(r.Tags)
	case FieldReleaseDate:
		return TextValue(r.ReleaseDate)
	case FieldRuntime:
		return TextValue(r.Runtime)
	case FieldRating:
		return TextValue(r.Rating)
	case FieldDirector:
		return TextValue(r.Director)
	case FieldSeries:
		return TextValue(r.Series)
	case FieldStudio:
		return TextValue(r.Studio)
	case FieldPublisher:
		return TextValue(r.Publisher)
	case FieldTrailer:
		return TextValue(r.Trailer)
	case FieldWantCount:
		return TextValue(r.WantCount)
	}
	return Value{}
}

// Set stores a value into a field.
func (r *Record) Set(f Field, v Value) {
	switch f {
	case FieldTitle:
		r.Title = v.Text
	case FieldOriginalTitle:
		r.OriginalTitle = v.Text
	case FieldSynopsis:
		r.Synopsis = v.Text
	case FieldOriginalSynopsis:
		r.OriginalSynopsis = v.Text
	case FieldCast:
		r.Cast = v.List
	case FieldCover:
		r.Cover = v.Text
	case FieldPoster:
		r.Poster = v.Text
	case FieldGallery:
		r.Gallery = v.List
	case FieldTags:
		r.Tags = v.List
	case FieldReleaseDate:
		r.ReleaseDate = v.Text
	case FieldRuntime:
		r.Runtime = v.Text
	case FieldRating:
		r.Rating = v.Text
	case FieldDirector:
		r.Director = v.Text
	case FieldSeries:
		r.Series = v.Text
	case FieldStudio:
		r.Studio = v.Text
	case FieldPublisher:
		r.Publisher = v.Text
	case FieldTrailer:
		r.Trailer = v.Text
	case FieldWantCount:
		r.WantCount = v.Text
	}
}
