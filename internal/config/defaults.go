package config

import "github.com/lepinkainen/argos/internal/metadata"

// Default provider waterfalls per field. These mirror which of the
// bundled providers actually populate each field well; administrators
// override them per field in the config file.
var defaultFieldOrder = map[metadata.Field]string{
	metadata.FieldTitle:            "javbus,javdb,mgstage",
	metadata.FieldOriginalTitle:    "javbus,javdb,mgstage",
	metadata.FieldSynopsis:         "javdb,mgstage",
	metadata.FieldOriginalSynopsis: "javdb,mgstage",
	metadata.FieldCast:             "javbus,javdb",
	metadata.FieldCover:            "javbus,javdb,mgstage",
	metadata.FieldPoster:           "javdb,javbus,mgstage",
	metadata.FieldGallery:          "javbus,javdb",
	metadata.FieldTags:             "javbus,javdb",
	metadata.FieldReleaseDate:      "javbus,javdb,mgstage",
	metadata.FieldRuntime:          "javbus,javdb,mgstage",
	metadata.FieldRating:           "javdb",
	metadata.FieldDirector:         "javbus,javdb",
	metadata.FieldSeries:           "javbus,javdb,mgstage",
	metadata.FieldStudio:           "javbus,javdb,mgstage",
	metadata.FieldPublisher:        "javbus,javdb,mgstage",
	metadata.FieldTrailer:          "mgstage",
	metadata.FieldWantCount:        "javdb",
}

// Providers known to never populate a field, removed from that field's
// waterfall after the baseline union.
var defaultFieldExclude = map[metadata.Field]string{
	metadata.FieldSynopsis:         "javbus",
	metadata.FieldOriginalSynopsis: "javbus",
	metadata.FieldRating:           "javbus,mgstage",
	metadata.FieldWantCount:        "javbus,mgstage",
	metadata.FieldDirector:         "mgstage",
	metadata.FieldTrailer:          "javbus,javdb",
}

// Baseline provider lists per identifier category. The caller classifies
// the identifier (outside this module) and picks the matching group.
var defaultRouting = map[string]string{
	"censored":   "javbus,javdb,mgstage",
	"uncensored": "javdb,javbus",
	"amateur":    "mgstage,javdb,javbus",
	"fc2":        "javdb,javbus",
	"western":    "javdb",
	"domestic":   "javdb",
}
