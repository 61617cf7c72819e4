package synthesis

import (
	"fmt"
	"log/slog"
	"sort"
)

// Sampler describes one sampling strategy the backend can be asked for.
type Sampler struct {
	// Name is the registry key.
	Name string

	// APIName is the sampler name sent on the wire.
	APIName string

	// KarrasSigmas marks samplers that use the Karras noise schedule.
	KarrasSigmas bool
}

// DefaultSamplerName is used when a request names no sampler or an
// unregistered one.
const DefaultSamplerName = "DPM++ 2M Karras"

// samplers is the closed registry of supported samplers. Resolution happens
// once per request, never inside the frame loop.
var samplers = map[string]Sampler{
	"DDIM":            {Name: "DDIM", APIName: "DDIM"},
	"Euler a":         {Name: "Euler a", APIName: "Euler a"},
	"DPM++ 2M Karras": {Name: "DPM++ 2M Karras", APIName: "DPM++ 2M Karras", KarrasSigmas: true},
	"LMS":             {Name: "LMS", APIName: "LMS"},
	"PNDM":            {Name: "PNDM", APIName: "PLMS"},
}

// ResolveSampler looks up a sampler by name, falling back to the default
// for empty or unknown names. The fallback is logged once per resolution.
func ResolveSampler(name string) Sampler {
	if name == "" {
		return samplers[DefaultSamplerName]
	}
	if s, ok := samplers[name]; ok {
		return s
	}
	slog.Warn("unknown sampler, using default",
		"requested", name,
		"default", DefaultSamplerName,
	)
	return samplers[DefaultSamplerName]
}

// MustSampler looks up a sampler by name, returning ErrUnknownSampler for
// unregistered names. Use this at config validation time when a silent
// fallback is not wanted.
func MustSampler(name string) (Sampler, error) {
	if s, ok := samplers[name]; ok {
		return s, nil
	}
	return Sampler{}, fmt.Errorf("%w: %q", ErrUnknownSampler, name)
}

// Samplers returns the registered sampler names, sorted.
func Samplers() []string {
	names := make([]string, 0, len(samplers))
	for name := range samplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
