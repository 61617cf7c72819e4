package synthesis

import (
	"errors"
	"testing"
)

func TestResolveSamplerKnown(t *testing.T) {
	s := ResolveSampler("DDIM")
	if s.APIName != "DDIM" {
		t.Errorf("APIName = %q, want DDIM", s.APIName)
	}
}

func TestResolveSamplerWireAlias(t *testing.T) {
	// PNDM travels as PLMS on the wire.
	s := ResolveSampler("PNDM")
	if s.APIName != "PLMS" {
		t.Errorf("APIName = %q, want PLMS", s.APIName)
	}
}

func TestResolveSamplerFallback(t *testing.T) {
	for _, name := range []string{"", "definitely-not-a-sampler"} {
		s := ResolveSampler(name)
		if s.Name != DefaultSamplerName {
			t.Errorf("ResolveSampler(%q) = %q, want default", name, s.Name)
		}
	}
}

func TestMustSampler(t *testing.T) {
	if _, err := MustSampler("Euler a"); err != nil {
		t.Errorf("MustSampler(Euler a) failed: %v", err)
	}
	if _, err := MustSampler("nope"); !errors.Is(err, ErrUnknownSampler) {
		t.Errorf("error = %v, want ErrUnknownSampler", err)
	}
}

func TestSamplersSorted(t *testing.T) {
	names := Samplers()
	if len(names) == 0 {
		t.Fatal("no samplers registered")
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
