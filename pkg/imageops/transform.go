// Package imageops implements the dense image operations of the frame
// evolution pipeline: geometric warps, optical-flow alignment, color
// coherence matching, and frame blending. All operations take and return
// 8-bit BGR Mats of identical dimensions; returned Mats are owned by the
// caller. The package knows nothing about schedules or keyframes; callers
// hand it resolved numeric parameters.
package imageops

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Border selects how samples outside the source image are filled.
type Border int

const (
	// BorderReplicate repeats the edge pixels outward.
	BorderReplicate Border = iota
	// BorderWrap tiles the image.
	BorderWrap
)

func (b Border) cv() gocv.BorderType {
	if b == BorderWrap {
		return gocv.BorderWrap
	}
	return gocv.BorderReplicate
}

// Motion2D holds the resolved parameters for a 2D affine warp.
type Motion2D struct {
	Zoom         float64 // uniform scale about the center; must be > 0
	Angle        float64 // rotation in degrees, counter-clockwise
	TranslationX float64 // pixels
	TranslationY float64 // pixels
}

// Motion3D holds the resolved parameters for a 3D camera warp.
type Motion3D struct {
	TranslationX float64
	TranslationY float64
	TranslationZ float64
	RotationX    float64 // degrees
	RotationY    float64 // degrees
	RotationZ    float64 // degrees
}

// Transform2D rotates by Angle degrees and scales by Zoom about the image
// center, then translates by (TranslationX, TranslationY) pixels.
func Transform2D(src gocv.Mat, m2 Motion2D, border Border) gocv.Mat {
	w, h := src.Cols(), src.Rows()

	m := gocv.GetRotationMatrix2D(image.Pt(w/2, h/2), m2.Angle, m2.Zoom)
	defer m.Close()
	m.SetDoubleAt(0, 2, m.GetDoubleAt(0, 2)+m2.TranslationX)
	m.SetDoubleAt(1, 2, m.GetDoubleAt(1, 2)+m2.TranslationY)

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, m, image.Pt(w, h),
		gocv.InterpolationLinear, border.cv(), color.RGBA{})
	return dst
}

// Transform3D warps through a pinhole camera model: focal length equal to
// the image width, principal point at the image center, rotations composed
// as Rz·Ry·Rx. The pixel-space rotation A = K·R·K⁻¹ is truncated to its
// top two rows with t = K·T appended, so there is no homogeneous divide;
// the third-row perspective terms never contribute.
func Transform3D(src gocv.Mat, m3 Motion3D, border Border) gocv.Mat {
	w, h := src.Cols(), src.Rows()
	f := float64(w)
	cx, cy := float64(w)/2, float64(h)/2

	rx := m3.RotationX * math.Pi / 180
	ry := m3.RotationY * math.Pi / 180
	rz := m3.RotationZ * math.Pi / 180

	rotX := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, math.Cos(rx), -math.Sin(rx),
		0, math.Sin(rx), math.Cos(rx),
	})
	rotY := mat.NewDense(3, 3, []float64{
		math.Cos(ry), 0, math.Sin(ry),
		0, 1, 0,
		-math.Sin(ry), 0, math.Cos(ry),
	})
	rotZ := mat.NewDense(3, 3, []float64{
		math.Cos(rz), -math.Sin(rz), 0,
		math.Sin(rz), math.Cos(rz), 0,
		0, 0, 1,
	})

	// R = Rz · Ry · Rx, fixed order.
	var r, tmp mat.Dense
	tmp.Mul(rotY, rotX)
	r.Mul(rotZ, &tmp)

	k := mat.NewDense(3, 3, []float64{
		f, 0, cx,
		0, f, cy,
		0, 0, 1,
	})
	kInv := mat.NewDense(3, 3, []float64{
		1 / f, 0, -cx / f,
		0, 1 / f, -cy / f,
		0, 0, 1,
	})

	// Pixel-space rotation A = K·R·K⁻¹ and translation t = K·T.
	var a, kr mat.Dense
	kr.Mul(k, &r)
	a.Mul(&kr, kInv)

	trans := mat.NewVecDense(3, []float64{m3.TranslationX, m3.TranslationY, m3.TranslationZ})
	var t mat.VecDense
	t.MulVec(k, trans)

	warp := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer warp.Close()
	warp.SetDoubleAt(0, 0, a.At(0, 0))
	warp.SetDoubleAt(0, 1, a.At(0, 1))
	warp.SetDoubleAt(0, 2, a.At(0, 2)+t.AtVec(0))
	warp.SetDoubleAt(1, 0, a.At(1, 0))
	warp.SetDoubleAt(1, 1, a.At(1, 1))
	warp.SetDoubleAt(1, 2, a.At(1, 2)+t.AtVec(1))

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, warp, image.Pt(w, h),
		gocv.InterpolationLinear, border.cv(), color.RGBA{})
	return dst
}
