package animation

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeNone},
		{"None", ModeNone},
		{"2D", Mode2D},
		{"2d", Mode2D},
		{"3D", Mode3D},
		{" 3d ", Mode3D},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMode("4D"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(4D) error = %v, want ErrUnknownMode", err)
	}
}

func TestParseCoherenceMode(t *testing.T) {
	tests := []struct {
		in   string
		want CoherenceMode
	}{
		{"", CoherenceNone},
		{"None", CoherenceNone},
		{"LAB", CoherenceLAB},
		{"Match Frame 0 LAB", CoherenceLAB},
		{"match frame 0 hsv", CoherenceHSV},
		{"RGB", CoherenceRGB},
	}
	for _, tt := range tests {
		got, err := ParseCoherenceMode(tt.in)
		if err != nil {
			t.Errorf("ParseCoherenceMode(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCoherenceMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCoherenceMode("XYZ"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseCoherenceMode(XYZ) error = %v, want ErrUnknownMode", err)
	}
}

func TestParseBorderMode(t *testing.T) {
	if got, err := ParseBorderMode("wrap"); err != nil || got != BorderWrap {
		t.Errorf("ParseBorderMode(wrap) = %v, %v", got, err)
	}
	if got, err := ParseBorderMode(""); err != nil || got != BorderReplicate {
		t.Errorf("ParseBorderMode(\"\") = %v, %v", got, err)
	}
	if _, err := ParseBorderMode("mirror"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseBorderMode(mirror) error = %v, want ErrUnknownMode", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero frames", func(c *Config) { c.TotalFrames = 0 }},
		{"zero cadence", func(c *Config) { c.DiffusionCadence = 0 }},
		{"zero layers", func(c *Config) { c.TemporalLayers = 0 }},
		{"strength above one", func(c *Config) { c.TemporalStrength = 1.5 }},
		{"keyframe out of range", func(c *Config) {
			c.Keyframes = []Keyframe{{Frame: c.TotalFrames, Zoom: 1}}
		}},
		{"non-positive zoom", func(c *Config) {
			c.Keyframes = []Keyframe{{Frame: 0, Zoom: 0}}
		}},
		{"duplicate keyframe", func(c *Config) {
			c.Keyframes = []Keyframe{{Frame: 5, Zoom: 1}, {Frame: 5, Zoom: 1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := DefaultConfig()
			tt.mutate(&bad)
			if err := bad.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
