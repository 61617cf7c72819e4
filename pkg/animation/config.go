package animation

import (
	"fmt"
	"strings"
)

// Mode selects how motion parameters are turned into a warp.
type Mode int

const (
	// ModeNone applies no geometric motion; frames pass through unchanged.
	ModeNone Mode = iota
	// Mode2D applies a single affine warp (rotate + zoom + translate).
	Mode2D
	// Mode3D applies a pinhole-camera projection warp.
	Mode3D
)

// String returns the config-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Mode2D:
		return "2D"
	case Mode3D:
		return "3D"
	default:
		return "None"
	}
}

// ParseMode resolves an animation mode string to a Mode.
// Accepted values: "None", "2D", "3D" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModeNone, nil
	case "2d":
		return Mode2D, nil
	case "3d":
		return Mode3D, nil
	default:
		return ModeNone, fmt.Errorf("%w: animation mode %q", ErrUnknownMode, s)
	}
}

// BorderMode selects how samples outside the source image are filled.
type BorderMode int

const (
	// BorderReplicate repeats the edge pixels outward.
	BorderReplicate BorderMode = iota
	// BorderWrap tiles the image.
	BorderWrap
)

func (b BorderMode) String() string {
	if b == BorderWrap {
		return "wrap"
	}
	return "replicate"
}

// ParseBorderMode resolves a border policy string.
// Accepted values: "replicate" (default for empty), "wrap".
func ParseBorderMode(s string) (BorderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replicate":
		return BorderReplicate, nil
	case "wrap":
		return BorderWrap, nil
	default:
		return BorderReplicate, fmt.Errorf("%w: border mode %q", ErrUnknownMode, s)
	}
}

// CoherenceMode selects the color space used for statistical color matching.
type CoherenceMode int

const (
	// CoherenceNone disables color matching.
	CoherenceNone CoherenceMode = iota
	// CoherenceLAB matches channel statistics in CIELAB space.
	CoherenceLAB
	// CoherenceHSV matches channel statistics in HSV space.
	CoherenceHSV
	// CoherenceRGB matches channel statistics in the working color space.
	CoherenceRGB
)

func (c CoherenceMode) String() string {
	switch c {
	case CoherenceLAB:
		return "Match Frame 0 LAB"
	case CoherenceHSV:
		return "Match Frame 0 HSV"
	case CoherenceRGB:
		return "Match Frame 0 RGB"
	default:
		return "None"
	}
}

// ParseCoherenceMode resolves a color coherence string. It accepts both the
// long "Match Frame 0 LAB" spellings and the bare space names "LAB"/"HSV"/"RGB".
func ParseCoherenceMode(s string) (CoherenceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CoherenceNone, nil
	case "lab", "match frame 0 lab":
		return CoherenceLAB, nil
	case "hsv", "match frame 0 hsv":
		return CoherenceHSV, nil
	case "rgb", "match frame 0 rgb":
		return CoherenceRGB, nil
	default:
		return CoherenceNone, fmt.Errorf("%w: color coherence %q", ErrUnknownMode, s)
	}
}

// Config holds the immutable parameters for one animation run.
// Mode strings are resolved to enums before the run starts; the per-frame
// loop never parses anything.
type Config struct {
	// Output geometry.
	Width       int
	Height      int
	FPS         int
	TotalFrames int

	// Motion.
	Mode   Mode
	Border BorderMode

	// Generation settings forwarded to the synthesis oracle.
	Sampler       string
	Steps         int
	GuidanceScale float64
	Seed          int64

	// Coherence.
	Coherence        CoherenceMode
	DiffusionCadence int // run synthesis every N frames
	UseOpticalFlow   bool

	// Temporal blending.
	TemporalStrength float64 // blend weight toward the previous frame
	TemporalLayers   int     // frame history depth

	// Post-processing.
	UseFrameInterpolation bool
	InterpolationFactor   int

	// Sparse keyframes. May be empty; a neutral keyframe is used then.
	Keyframes []Keyframe
}

// DefaultConfig returns the defaults used by the original pipeline.
func DefaultConfig() Config {
	return Config{
		Width:            512,
		Height:           512,
		FPS:              24,
		TotalFrames:      120,
		Mode:             Mode3D,
		Border:           BorderReplicate,
		Sampler:          "DPM++ 2M Karras",
		Steps:            30,
		GuidanceScale:    7.0,
		Seed:             -1,
		Coherence:        CoherenceLAB,
		DiffusionCadence: 1,
		UseOpticalFlow:   true,

		TemporalStrength:    0.5,
		TemporalLayers:      2,
		InterpolationFactor: 2,
	}
}

// Validate checks the config for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("animation: invalid dimensions %dx%d", c.Width, c.Height)
	}
	if c.TotalFrames <= 0 {
		return fmt.Errorf("animation: total frames must be positive, got %d", c.TotalFrames)
	}
	if c.DiffusionCadence <= 0 {
		return fmt.Errorf("animation: diffusion cadence must be positive, got %d", c.DiffusionCadence)
	}
	if c.TemporalLayers <= 0 {
		return fmt.Errorf("animation: temporal layers must be positive, got %d", c.TemporalLayers)
	}
	if c.TemporalStrength < 0 || c.TemporalStrength > 1 {
		return fmt.Errorf("animation: temporal strength must be in [0,1], got %g", c.TemporalStrength)
	}
	seen := make(map[int]bool, len(c.Keyframes))
	for _, kf := range c.Keyframes {
		if kf.Frame < 0 || kf.Frame >= c.TotalFrames {
			return fmt.Errorf("animation: keyframe index %d outside [0,%d)", kf.Frame, c.TotalFrames)
		}
		if kf.Zoom <= 0 {
			return fmt.Errorf("animation: keyframe %d has non-positive zoom %g", kf.Frame, kf.Zoom)
		}
		if seen[kf.Frame] {
			return fmt.Errorf("%w: keyframe %d", ErrDuplicateFrame, kf.Frame)
		}
		seen[kf.Frame] = true
	}
	return nil
}

// clone returns a deep copy so that a caller mutating its Config mid-run
// cannot affect a running Animator.
func (c *Config) clone() Config {
	cp := *c
	cp.Keyframes = make([]Keyframe, len(c.Keyframes))
	copy(cp.Keyframes, c.Keyframes)
	return cp
}
