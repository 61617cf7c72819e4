package imageops

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// ColorSpace selects where channel statistics are matched.
type ColorSpace int

const (
	// SpaceBGR matches in the working space directly.
	SpaceBGR ColorSpace = iota
	// SpaceLAB matches in CIELAB.
	SpaceLAB
	// SpaceHSV matches in HSV.
	SpaceHSV
)

// MatchColor rescales each channel of cur so its mean and standard
// deviation match ref in the chosen color space, then converts back to BGR.
// Channels with zero variance pass through unchanged. The reference frame
// is not modified.
func MatchColor(cur, ref gocv.Mat, space ColorSpace) gocv.Mat {
	var toSpace, fromSpace gocv.ColorConversionCode
	convert := true
	switch space {
	case SpaceLAB:
		toSpace, fromSpace = gocv.ColorBGRToLab, gocv.ColorLabToBGR
	case SpaceHSV:
		toSpace, fromSpace = gocv.ColorBGRToHSV, gocv.ColorHSVToBGR
	default:
		convert = false
	}

	var curSpace, refSpace gocv.Mat
	if convert {
		curSpace = gocv.NewMat()
		refSpace = gocv.NewMat()
		gocv.CvtColor(cur, &curSpace, toSpace)
		gocv.CvtColor(ref, &refSpace, toSpace)
	} else {
		curSpace = cur.Clone()
		refSpace = ref.Clone()
	}
	defer curSpace.Close()
	defer refSpace.Close()

	curChans := gocv.Split(curSpace)
	refChans := gocv.Split(refSpace)
	defer func() {
		for i := range curChans {
			curChans[i].Close()
		}
		for i := range refChans {
			refChans[i].Close()
		}
	}()

	matched := make([]gocv.Mat, len(curChans))
	for i := range curChans {
		matched[i] = matchChannel(curChans[i], refChans[i])
	}
	defer func() {
		for i := range matched {
			matched[i].Close()
		}
	}()

	merged := gocv.NewMat()
	gocv.Merge(matched, &merged)

	if !convert {
		return merged
	}
	defer merged.Close()

	dst := gocv.NewMat()
	gocv.CvtColor(merged, &dst, fromSpace)
	return dst
}

// matchChannel rescales one channel so that
//
//	out = (cur - curMean) * (refStd/curStd) + refMean
//
// using a single saturating affine pass. A zero-variance channel is copied
// unchanged.
func matchChannel(cur, ref gocv.Mat) gocv.Mat {
	curMean, curStd := channelStats(cur)
	refMean, refStd := channelStats(ref)

	dst := gocv.NewMat()
	if curStd == 0 {
		cur.CopyTo(&dst)
		return dst
	}

	alpha := refStd / curStd
	beta := refMean - curMean*alpha
	cur.ConvertToWithParams(&dst, gocv.MatTypeCV8U, float32(alpha), float32(beta))
	return dst
}

// channelStats computes the population mean and standard deviation of a
// single-channel 8-bit Mat.
func channelStats(ch gocv.Mat) (mean, std float64) {
	raw := ch.ToBytes()
	if len(raw) == 0 {
		return 0, 0
	}
	values := make([]float64, len(raw))
	for i, b := range raw {
		values[i] = float64(b)
	}
	return stat.Mean(values, nil), stat.PopStdDev(values, nil)
}
