package animation

// FeatureSeries maps a named audio feature (bass, treble, energy, ...) to a
// numeric series of arbitrary length spanning the audio duration. The engine
// is agnostic to the provider's sample rate; series are resampled to the
// frame count before use.
type FeatureSeries map[string][]float64

// Resample returns a copy of the series with every feature linearly
// resampled to exactly totalFrames samples, using a uniform index mapping
// from the native length. Empty features are dropped.
func (fs FeatureSeries) Resample(totalFrames int) FeatureSeries {
	out := make(FeatureSeries, len(fs))
	for name, values := range fs {
		if len(values) == 0 {
			continue
		}
		out[name] = resampleLinear(values, totalFrames)
	}
	return out
}

// resampleLinear maps len(values) samples onto n samples with linear
// interpolation. Positions past the last sample hold its value.
func resampleLinear(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = values[0]
		return out
	}

	// Uniform mapping of [0, n) onto [0, len(values)].
	step := float64(len(values)) / float64(n-1)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx] + frac*(values[idx+1]-values[idx])
	}
	return out
}

// Audio reactivity rules. Each named feature perturbs one keyframe field;
// values are expected in [0, 1].
const (
	bassZoomGain      = 0.2  // bass=1 scales zoom by 1.2
	trebleAngleGain   = 45.0 // treble=1 adds 45 degrees
	energyStrengthLow = 0.5  // energy maps strength onto [0.5, 1.0]
)

// Modulate applies the audio reactivity rules to an interpolated keyframe
// using the resampled feature values at the given frame. Features that are
// absent, or whose series is shorter than the frame index, are no-ops.
func Modulate(kf Keyframe, features FeatureSeries, frame int) Keyframe {
	at := func(name string) (float64, bool) {
		series, ok := features[name]
		if !ok || frame < 0 || frame >= len(series) {
			return 0, false
		}
		return series[frame], true
	}

	if bass, ok := at("bass"); ok {
		kf.Zoom *= 1.0 + bass*bassZoomGain
	}
	if treble, ok := at("treble"); ok {
		kf.Angle += treble * trebleAngleGain
	}
	if energy, ok := at("energy"); ok {
		kf.Strength = energyStrengthLow + energy*energyStrengthLow
	}

	return kf
}
