// Package animation implements the frame-evolution engine: schedule
// parsing, keyframe interpolation, audio-reactive modulation, and the
// per-frame generation loop that drives warping, synthesis, color
// coherence, and temporal blending.
package animation

import (
	"context"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/seedframe/seedframe/pkg/imageops"
	"github.com/seedframe/seedframe/pkg/synthesis"
)

// ProgressFunc is invoked once per generated frame with the current frame
// index and the total frame count. Panics inside the callback are swallowed
// so that a broken progress consumer cannot corrupt the run.
type ProgressFunc func(current, total int)

// Animator runs one animation. It is constructed per run and holds a
// defensive copy of the configuration; there is no shared pipeline state
// between runs.
type Animator struct {
	// OnProgress, if set, is called once per frame. Set before Generate.
	OnProgress ProgressFunc

	// Audio holds raw audio feature series; resampled once at run start.
	// Set before Generate. May be nil.
	Audio FeatureSeries

	cfg    Config
	oracle synthesis.Oracle
	logger *slog.Logger
}

// NewAnimator creates an animator for one run. The config is validated and
// copied; mutating the caller's copy afterwards has no effect on the run.
func NewAnimator(cfg Config, oracle synthesis.Oracle) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Animator{
		cfg:    cfg.clone(),
		oracle: oracle,
		logger: slog.Default().With("component", "animation.animator"),
	}, nil
}

// Generate produces the full frame sequence from the seed image. The seed
// must match the configured dimensions and is not consumed; returned frames
// are owned by the caller (see CloseFrames).
//
// The loop is strictly sequential: frame i is warped from frame i-1, so
// there is no cross-frame parallelism. Cancellation is checked once per
// frame boundary; frames generated before cancellation are returned. On a
// synthesis failure the error is a *GenerationError carrying the failing
// frame index, and the frames produced so far are still returned.
func (a *Animator) Generate(ctx context.Context, seed gocv.Mat) ([]gocv.Mat, error) {
	if seed.Empty() {
		return nil, ErrEmptySeed
	}
	if seed.Cols() != a.cfg.Width || seed.Rows() != a.cfg.Height {
		return nil, fmt.Errorf("%w: seed is %dx%d, config wants %dx%d",
			ErrSeedSize, seed.Cols(), seed.Rows(), a.cfg.Width, a.cfg.Height)
	}

	// Frame-independent work happens once, before the loop.
	audio := a.Audio.Resample(a.cfg.TotalFrames)

	history := NewHistory(a.cfg.TemporalLayers)
	defer history.Close()

	a.logger.Info("starting animation",
		"frames", a.cfg.TotalFrames,
		"mode", a.cfg.Mode.String(),
		"cadence", a.cfg.DiffusionCadence,
		"optical_flow", a.cfg.UseOpticalFlow,
	)

	frames := make([]gocv.Mat, 0, a.cfg.TotalFrames)
	for idx := 0; idx < a.cfg.TotalFrames; idx++ {
		select {
		case <-ctx.Done():
			return frames, ctx.Err()
		default:
		}

		kf := KeyframeAt(idx, a.cfg.Keyframes)
		if len(audio) > 0 {
			kf = Modulate(kf, audio, idx)
		}

		prev := seed
		if len(frames) > 0 {
			prev = frames[len(frames)-1]
		}

		warped := a.warp(prev, kf)

		if a.cfg.UseOpticalFlow {
			if latest, ok := history.Latest(); ok {
				aligned := imageops.AlignFlow(latest, warped)
				warped.Close()
				warped = aligned
			}
		}

		var result gocv.Mat
		if idx%a.cfg.DiffusionCadence == 0 {
			out, err := a.synthesize(ctx, warped, kf, history)
			warped.Close()
			if err != nil {
				return frames, &GenerationError{Frame: idx, Err: err}
			}
			result = out
		} else {
			// Off-cadence frames carry the warp forward untouched: no
			// oracle call, no color matching, no blending.
			result = warped
		}

		frames = append(frames, result)
		history.Push(result.Clone())

		a.reportProgress(idx)
	}

	if a.cfg.UseFrameInterpolation && a.cfg.InterpolationFactor > 1 {
		upsampled, err := imageops.InterpolateSequence(frames, a.cfg.InterpolationFactor)
		if err != nil {
			// Interpolation failure keeps the raw sequence.
			a.logger.Warn("frame interpolation failed, returning original sequence", "error", err)
		} else {
			frames = upsampled
		}
	}

	a.logger.Info("animation complete", "frames", len(frames))
	return frames, nil
}

// warp applies the configured geometric transform for one frame.
func (a *Animator) warp(src gocv.Mat, kf Keyframe) gocv.Mat {
	border := imageops.BorderReplicate
	if a.cfg.Border == BorderWrap {
		border = imageops.BorderWrap
	}

	switch a.cfg.Mode {
	case Mode2D:
		return imageops.Transform2D(src, imageops.Motion2D{
			Zoom:         kf.Zoom,
			Angle:        kf.Angle,
			TranslationX: kf.TranslationX,
			TranslationY: kf.TranslationY,
		}, border)
	case Mode3D:
		return imageops.Transform3D(src, imageops.Motion3D{
			TranslationX: kf.TranslationX,
			TranslationY: kf.TranslationY,
			TranslationZ: kf.TranslationZ,
			RotationX:    kf.Rotation3DX,
			RotationY:    kf.Rotation3DY,
			RotationZ:    kf.Rotation3DZ,
		}, border)
	default:
		return src.Clone()
	}
}

// synthesize runs one oracle call and applies color coherence and temporal
// blending against the frame history. This is the loop's only suspension
// point; the caller tags any error with the frame index.
func (a *Animator) synthesize(ctx context.Context, warped gocv.Mat, kf Keyframe, history *History) (gocv.Mat, error) {
	conditioning, err := warped.ToImage()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert frame: %w", err)
	}

	seed := kf.Seed
	if seed < 0 {
		seed = a.cfg.Seed
	}

	resp, err := a.oracle.Synthesize(ctx, &synthesis.Request{
		Image:          conditioning,
		Prompt:         kf.Prompt,
		NegativePrompt: kf.NegativePrompt,
		Strength:       kf.Strength,
		GuidanceScale:  a.cfg.GuidanceScale,
		Steps:          a.cfg.Steps,
		Seed:           seed,
		Sampler:        a.cfg.Sampler,
		Width:          a.cfg.Width,
		Height:         a.cfg.Height,
	})
	if err != nil {
		return gocv.Mat{}, err
	}

	bounds := resp.Image.Bounds()
	if bounds.Dx() != a.cfg.Width || bounds.Dy() != a.cfg.Height {
		return gocv.Mat{}, fmt.Errorf("oracle returned %dx%d, expected %dx%d",
			bounds.Dx(), bounds.Dy(), a.cfg.Width, a.cfg.Height)
	}

	out, err := gocv.ImageToMatRGB(resp.Image)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert synthesis output: %w", err)
	}

	if space, ok := a.coherenceSpace(); ok {
		if ref, exists := history.Oldest(); exists {
			matched := imageops.MatchColor(out, ref, space)
			out.Close()
			out = matched
		}
	}

	if a.cfg.TemporalStrength > 0 {
		if prev, exists := history.Latest(); exists {
			blended := imageops.Blend(out, prev, a.cfg.TemporalStrength)
			out.Close()
			out = blended
		}
	}

	return out, nil
}

// coherenceSpace maps the config mode onto the image-op color space.
func (a *Animator) coherenceSpace() (imageops.ColorSpace, bool) {
	switch a.cfg.Coherence {
	case CoherenceLAB:
		return imageops.SpaceLAB, true
	case CoherenceHSV:
		return imageops.SpaceHSV, true
	case CoherenceRGB:
		return imageops.SpaceBGR, true
	default:
		return imageops.SpaceBGR, false
	}
}

// reportProgress invokes the progress callback, isolating the loop from
// panics in the consumer.
func (a *Animator) reportProgress(idx int) {
	if a.OnProgress == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	a.OnProgress(idx, a.cfg.TotalFrames)
}

// CloseFrames releases every Mat in a generated sequence.
func CloseFrames(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}
