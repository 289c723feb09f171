package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Registry is a read-only name → Provider map. It is built once at
// startup and validated against the configured provider names, so a
// typo in configuration fails fast instead of surfacing as a runtime
// lookup miss mid-scrape.
type Registry struct {
	byName map[string]Provider
}

// NewRegistry indexes the given providers by lower-cased name.
func NewRegistry(providers ...Provider) (*Registry, error) {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("nil provider passed to registry")
		}
		name := strings.ToLower(strings.TrimSpace(p.Name()))
		if name == "" {
			return nil, fmt.Errorf("provider with empty name")
		}
		if _, ok := byName[name]; ok {
			return nil, fmt.Errorf("duplicate provider %q", name)
		}
		byName[name] = p
	}
	return &Registry{byName: byName}, nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every configured provider name resolves to a
// registered implementation.
func (r *Registry) Validate(configured []string) error {
	var missing []string
	for _, name := range configured {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := r.byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("configured providers not registered: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Invoke runs one provider and normalizes every failure mode (unknown
// name, adapter error, timeout) into Result{Success: false}. The engine
// relies on this: a broken provider must never abort the waterfall.
func (r *Registry) Invoke(ctx context.Context, name string, req Request) Result {
	p, ok := r.Get(name)
	if !ok {
		slog.Warn("Provider not registered", "provider", name)
		return Result{ProviderName: name}
	}
	rec, err := p.Fetch(ctx, req)
	if err != nil {
		slog.Debug("Provider fetch failed", "provider", name, "identifier", req.Identifier, "error", err)
		return Result{ProviderName: name}
	}
	return Result{ProviderName: name, Success: true, Record: rec}
}
