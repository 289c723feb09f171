package metadata

// ImageCandidate is one (provider, url) pair kept as a retry source for a
// downstream image download step.
type ImageCandidate struct {
	Provider string
	URL      string
}

// Aggregated is the output of one resolution session: the reconciled
// record plus provenance and the fallback material downstream consumers
// need (alternate cover URLs, candidate actor names for image search).
type Aggregated struct {
	Record Record

	// Provenance maps each resolved field to the provider that supplied
	// its value. A field appears here only when its value is non-empty
	// and came from a provider.
	Provenance map[Field]string

	// CoverAlternatives lists every usable cover URL in the cover
	// field's priority order, so the image fetcher can retry when the
	// winning URL fails to download.
	CoverAlternatives []ImageCandidate

	// CastFull preserves actor names with their bracketed qualifiers
	// after post-processing rewrites Record.Cast to the display form.
	CastFull []string

	// ActorCandidates is the de-duplicated union of actor names across
	// the providers consulted for title and cast, used by the external
	// image-search collaborator. Some sites credit the wrong cast, so a
	// single provider's list is not trusted on its own.
	ActorCandidates []string

	// SearchTitle is the original title with any trailing credited-actor
	// alias stripped, prepared for the external image-search collaborator.
	SearchTitle string

	// Year is derived from the resolved release date.
	Year string

	// Identifier is the catalog number the record describes, in its full
	// (numeric-prefixed, when applicable) form.
	Identifier string

	// Letters is the alphabetic series prefix of the identifier.
	Letters string

	// Log is the human-readable attempt trail for this session.
	Log string
}

// NewAggregated returns an empty aggregated record with provenance
// storage initialized.
func NewAggregated() *Aggregated {
	return &Aggregated{Provenance: make(map[Field]string)}
}

// Provider returns the provenance for a field, or the empty string when
// the field was not filled by a provider.
func (a *Aggregated) Provider(f Field) string {
	return a.Provenance[f]
}

// Failed reports whether the session produced no usable record. Title is
// the gate: without a resolved title nothing downstream can proceed.
func (a *Aggregated) Failed() bool {
	return !a.Record.HasTitle()
}
