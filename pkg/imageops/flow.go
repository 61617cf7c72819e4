package imageops

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Farneback estimator constants. Fixed; not exposed through configuration.
const (
	flowPyrScale   = 0.5
	flowLevels     = 3
	flowWinSize    = 15
	flowIterations = 3
	flowPolyN      = 5
	flowPolySigma  = 1.2
)

// AlignFlow estimates dense optical flow from prev to cur and remaps cur
// through identity+flow, pulling fine motion back into registration with
// the previous frame. Both inputs must share dimensions; neither is
// modified. Out-of-range samples replicate the border.
func AlignFlow(prev, cur gocv.Mat) gocv.Mat {
	prevGray := gocv.NewMat()
	defer prevGray.Close()
	curGray := gocv.NewMat()
	defer curGray.Close()
	gocv.CvtColor(prev, &prevGray, gocv.ColorBGRToGray)
	gocv.CvtColor(cur, &curGray, gocv.ColorBGRToGray)

	flow := gocv.NewMat()
	defer flow.Close()
	gocv.CalcOpticalFlowFarneback(prevGray, curGray, &flow,
		flowPyrScale, flowLevels, flowWinSize, flowIterations,
		flowPolyN, flowPolySigma, 0)

	rows, cols := cur.Rows(), cur.Cols()
	mapX := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer mapX.Close()
	mapY := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer mapY.Close()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			d := flow.GetVecfAt(y, x)
			mapX.SetFloatAt(y, x, float32(x)+d[0])
			mapY.SetFloatAt(y, x, float32(y)+d[1])
		}
	}

	dst := gocv.NewMat()
	gocv.Remap(cur, &dst, &mapX, &mapY,
		gocv.InterpolationLinear, gocv.BorderReplicate, color.RGBA{})
	return dst
}
