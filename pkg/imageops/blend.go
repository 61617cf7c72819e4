package imageops

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrMismatchedFrames is returned when a sequence operation receives frames
// of differing dimensions.
var ErrMismatchedFrames = errors.New("imageops: frames have mismatched dimensions")

// Blend mixes a synthesized frame with the previous frame:
//
//	out = synth*(1-strength) + prev*strength
//
// strength 0 returns the synthesis output, strength 1 the previous frame
// (up to rounding).
func Blend(synth, prev gocv.Mat, strength float64) gocv.Mat {
	dst := gocv.NewMat()
	gocv.AddWeighted(synth, 1-strength, prev, strength, 0, &dst)
	return dst
}

// InterpolateSequence inserts factor-1 linearly blended frames between every
// consecutive pair, raising the effective frame rate by the given factor.
// The originals are reused in the returned slice (no copies); inserted
// frames are newly allocated. For n input frames the result has
// (n-1)*factor + 1 frames, ending on the last original with no trailing
// interpolation.
func InterpolateSequence(frames []gocv.Mat, factor int) ([]gocv.Mat, error) {
	if factor <= 1 || len(frames) < 2 {
		return frames, nil
	}

	for i := 1; i < len(frames); i++ {
		if frames[i].Rows() != frames[0].Rows() || frames[i].Cols() != frames[0].Cols() {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, expected %dx%d",
				ErrMismatchedFrames, i,
				frames[i].Cols(), frames[i].Rows(),
				frames[0].Cols(), frames[0].Rows())
		}
	}

	out := make([]gocv.Mat, 0, (len(frames)-1)*factor+1)
	for i := 0; i < len(frames)-1; i++ {
		out = append(out, frames[i])
		for j := 1; j < factor; j++ {
			alpha := float64(j) / float64(factor)
			mid := gocv.NewMat()
			gocv.AddWeighted(frames[i], 1-alpha, frames[i+1], alpha, 0, &mid)
			out = append(out, mid)
		}
	}
	out = append(out, frames[len(frames)-1])
	return out, nil
}
