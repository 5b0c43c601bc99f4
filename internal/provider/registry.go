package provider

import "log/slog"

// Registry holds the registered providers in registration order.
// Registration order is meaningful: when two providers share the same
// priority for a country, the one registered first wins the tie.
//
// Design decision: a plain ordered slice rather than a map. Lookups are
// rare (once per search), the provider count is small, and a map would
// lose the registration order the tie-break depends on.
type Registry struct {
	providers []Provider
	logger    *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets a custom logger for registration events.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: make([]Provider, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Register appends a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
	r.logger.Debug("registered provider", "provider", p.Name())
}

// All returns the registered providers in registration order.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) All() []Provider {
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ForCountry returns the providers that support the given country,
// preserving registration order.
func (r *Registry) ForCountry(country string) []Provider {
	var out []Provider
	for _, p := range r.providers {
		if p.Supports(country) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.providers)
}
