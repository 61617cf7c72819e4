package animation

import (
	"fmt"
	"sort"
)

// Keyframe is a complete parameter set anchored at a frame index.
// Keyframes are immutable once built; interpolation always produces a
// fresh value.
type Keyframe struct {
	Frame          int     `json:"frame" yaml:"frame"`
	Prompt         string  `json:"prompt" yaml:"prompt"`
	NegativePrompt string  `json:"negative_prompt" yaml:"negative_prompt"`
	Strength       float64 `json:"strength" yaml:"strength"`
	Seed           int64   `json:"seed" yaml:"seed"`

	// 2D motion.
	Zoom         float64 `json:"zoom" yaml:"zoom"`
	Angle        float64 `json:"angle" yaml:"angle"`
	TranslationX float64 `json:"translation_x" yaml:"translation_x"`
	TranslationY float64 `json:"translation_y" yaml:"translation_y"`

	// 3D motion.
	TranslationZ float64 `json:"translation_z" yaml:"translation_z"`
	Rotation3DX  float64 `json:"rotation_3d_x" yaml:"rotation_3d_x"`
	Rotation3DY  float64 `json:"rotation_3d_y" yaml:"rotation_3d_y"`
	Rotation3DZ  float64 `json:"rotation_3d_z" yaml:"rotation_3d_z"`

	// Perspective flip. Parsed and interpolated but not yet composed into
	// the 3D warp; see imageops.Transform.
	PerspectiveFlipTheta float64 `json:"perspective_flip_theta" yaml:"perspective_flip_theta"`
	PerspectiveFlipPhi   float64 `json:"perspective_flip_phi" yaml:"perspective_flip_phi"`
	PerspectiveFlipGamma float64 `json:"perspective_flip_gamma" yaml:"perspective_flip_gamma"`
}

// NeutralKeyframe returns the identity keyframe for a frame: empty prompt,
// no motion, default generation strength.
func NeutralKeyframe(frame int) Keyframe {
	return Keyframe{
		Frame:    frame,
		Strength: 0.75,
		Seed:     -1,
		Zoom:     1.0,
	}
}

// KeyframeAt resolves the effective keyframe for a frame index from a
// sparse (possibly unsorted) keyframe list.
//
// With no keyframes the neutral keyframe is returned. A frame at or past
// the last keyframe gets that keyframe unchanged; a frame before the first
// keyframe gets the first keyframe unchanged. Between two keyframes every
// numeric field is linearly interpolated. The prompt is not blended: it
// switches to the later keyframe's prompt once t >= 0.5.
func KeyframeAt(frame int, keyframes []Keyframe) Keyframe {
	if len(keyframes) == 0 {
		return NeutralKeyframe(frame)
	}

	sorted := make([]Keyframe, len(keyframes))
	copy(sorted, keyframes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })

	var before, after *Keyframe
	for i := range sorted {
		kf := &sorted[i]
		if kf.Frame <= frame {
			before = kf
		} else {
			after = kf
			break
		}
	}

	if before == nil {
		return sorted[0]
	}
	if after == nil {
		return *before
	}

	t := float64(frame-before.Frame) / float64(after.Frame-before.Frame)

	prompt := before.Prompt
	if t >= 0.5 {
		prompt = after.Prompt
	}

	return Keyframe{
		Frame:          frame,
		Prompt:         prompt,
		NegativePrompt: before.NegativePrompt,
		Strength:       lerp(before.Strength, after.Strength, t),
		Seed:           before.Seed,
		Zoom:           lerp(before.Zoom, after.Zoom, t),
		Angle:          lerp(before.Angle, after.Angle, t),
		TranslationX:   lerp(before.TranslationX, after.TranslationX, t),
		TranslationY:   lerp(before.TranslationY, after.TranslationY, t),
		TranslationZ:   lerp(before.TranslationZ, after.TranslationZ, t),
		Rotation3DX:    lerp(before.Rotation3DX, after.Rotation3DX, t),
		Rotation3DY:    lerp(before.Rotation3DY, after.Rotation3DY, t),
		Rotation3DZ:    lerp(before.Rotation3DZ, after.Rotation3DZ, t),

		PerspectiveFlipTheta: lerp(before.PerspectiveFlipTheta, after.PerspectiveFlipTheta, t),
		PerspectiveFlipPhi:   lerp(before.PerspectiveFlipPhi, after.PerspectiveFlipPhi, t),
		PerspectiveFlipGamma: lerp(before.PerspectiveFlipGamma, after.PerspectiveFlipGamma, t),
	}
}

// BuildKeyframes derives a sparse keyframe list from a higher-level
// description: a frame→prompt mapping and a parameter→schedule-string
// mapping. One keyframe is emitted per prompt change, with its motion
// fields sampled from the parsed schedules at that frame. Parameters with
// no schedule keep their neutral defaults.
func BuildKeyframes(totalFrames int, prompts map[int]string, schedules map[string]string) ([]Keyframe, error) {
	curves := make(map[string]Curve, len(schedules))
	for param, schedule := range schedules {
		curve, err := ParseCurve(schedule)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", param, err)
		}
		curves[param] = curve
	}

	frames := make([]int, 0, len(prompts))
	for frame := range prompts {
		frames = append(frames, frame)
	}
	sort.Ints(frames)

	sample := func(param string, frame int, fallback float64) float64 {
		curve, ok := curves[param]
		if !ok || curve.Empty() {
			return fallback
		}
		return curve.Value(frame)
	}

	keyframes := make([]Keyframe, 0, len(frames))
	for _, frame := range frames {
		kf := NeutralKeyframe(frame)
		kf.Prompt = prompts[frame]
		kf.Strength = sample("strength", frame, kf.Strength)
		kf.Zoom = sample("zoom", frame, kf.Zoom)
		kf.Angle = sample("angle", frame, kf.Angle)
		kf.TranslationX = sample("translation_x", frame, 0)
		kf.TranslationY = sample("translation_y", frame, 0)
		kf.TranslationZ = sample("translation_z", frame, 0)
		kf.Rotation3DX = sample("rotation_3d_x", frame, 0)
		kf.Rotation3DY = sample("rotation_3d_y", frame, 0)
		kf.Rotation3DZ = sample("rotation_3d_z", frame, 0)
		keyframes = append(keyframes, kf)
	}

	return keyframes, nil
}

// lerp performs linear interpolation between two values.
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
