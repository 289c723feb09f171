// Package provider defines the contract every site adapter implements and
// the registry the resolution engine dispatches through.
package provider

import (
	"context"

	"github.com/lepinkainen/argos/internal/metadata"
)

// Request carries everything an adapter may need to locate one item.
// Most adapters only use Identifier and Language; the rest is optional
// provider-specific context.
type Request struct {
	// Identifier is the catalog number to look up. For amateur numbers
	// this is already the short form for providers that index it that
	// way (see scrape.requestFor).
	Identifier string
	// OriginalIdentifier is the full numeric-prefixed form when
	// Identifier carries the short form, empty otherwise.
	OriginalIdentifier string
	// AppointURL, when set, skips the adapter's search step and fetches
	// the given detail page directly.
	AppointURL string
	// Language is the localized variant to request from sites that serve
	// several at the same endpoint.
	Language metadata.Language
	// FilePath disambiguates multi-disc releases for the few sites that
	// need it.
	FilePath string
}

// Provider is one external data source. Fetch converts a request into a
// parsed record or an error; it performs its own network and parsing but
// no caching, retries or rate limiting (the fetch layer owns those).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, req Request) (metadata.Record, error)
}

// Result is the normalized outcome of invoking one provider. Adapter
// errors never escape the registry boundary; they are folded into
// Success=false so the engine's waterfall simply moves on.
type Result struct {
	ProviderName string
	Success      bool
	Record       metadata.Record
}

// Usable reports whether the result may contribute field values: the
// fetch must have succeeded and the record must pass the title gate.
func (r Result) Usable() bool {
	return r.Success && r.Record.HasTitle()
}
