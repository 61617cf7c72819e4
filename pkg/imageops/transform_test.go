package imageops

import (
	"testing"

	"gocv.io/x/gocv"
)

// gradientMat builds a frame with distinct pixel values so warps are
// observable.
func gradientMat(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			for c := 0; c < 3; c++ {
				m.SetUCharAt(y, x*3+c, uint8((x*7+y*13+c*29)%256))
			}
		}
	}
	return m
}

// maxAbsDiff returns the largest per-pixel absolute difference.
func maxAbsDiff(t *testing.T, a, b gocv.Mat) int {
	t.Helper()
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	max := 0
	for y := 0; y < diff.Rows(); y++ {
		for x := 0; x < diff.Cols()*diff.Channels(); x++ {
			if v := int(diff.GetUCharAt(y, x)); v > max {
				max = v
			}
		}
	}
	return max
}

func TestTransform2DIdentity(t *testing.T) {
	src := gradientMat(t, 32, 32)
	defer src.Close()

	dst := Transform2D(src, Motion2D{Zoom: 1.0}, BorderReplicate)
	defer dst.Close()

	if dst.Cols() != 32 || dst.Rows() != 32 {
		t.Fatalf("dst is %dx%d, want 32x32", dst.Cols(), dst.Rows())
	}
	if d := maxAbsDiff(t, src, dst); d > 1 {
		t.Errorf("identity transform changed pixels, max diff %d", d)
	}
}

func TestTransform2DTranslation(t *testing.T) {
	src := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	defer src.Close()
	// Single bright pixel at (8, 8).
	for c := 0; c < 3; c++ {
		src.SetUCharAt(8, 8*3+c, 255)
	}

	dst := Transform2D(src, Motion2D{Zoom: 1.0, TranslationX: 5, TranslationY: 3}, BorderReplicate)
	defer dst.Close()

	if got := dst.GetUCharAt(11, 13*3); got < 200 {
		t.Errorf("pixel did not move to (13, 11): value %d", got)
	}
	if got := dst.GetUCharAt(8, 8*3); got > 50 {
		t.Errorf("pixel still at origin: value %d", got)
	}
}

func TestTransform3DIdentity(t *testing.T) {
	src := gradientMat(t, 32, 32)
	defer src.Close()

	dst := Transform3D(src, Motion3D{}, BorderReplicate)
	defer dst.Close()

	if d := maxAbsDiff(t, src, dst); d > 1 {
		t.Errorf("identity 3D transform changed pixels, max diff %d", d)
	}
}

func TestTransform3DTranslationMatches2D(t *testing.T) {
	src := gradientMat(t, 32, 32)
	defer src.Close()

	// A pure 3D X/Y translation scales by the focal length into pixels.
	// With f = width = 32, a normalized shift of 5/32 moves 5 pixels.
	d3 := Transform3D(src, Motion3D{TranslationX: 5.0 / 32.0}, BorderReplicate)
	defer d3.Close()
	d2 := Transform2D(src, Motion2D{Zoom: 1.0, TranslationX: 5}, BorderReplicate)
	defer d2.Close()

	if d := maxAbsDiff(t, d2, d3); d > 2 {
		t.Errorf("3D translation disagrees with 2D shift, max diff %d", d)
	}
}

func TestTransform3DRotationZ(t *testing.T) {
	src := gradientMat(t, 32, 32)
	defer src.Close()

	dst := Transform3D(src, Motion3D{RotationZ: 90}, BorderReplicate)
	defer dst.Close()

	// A quarter turn must actually move content.
	if d := maxAbsDiff(t, src, dst); d == 0 {
		t.Error("90 degree roll left the image unchanged")
	}
	if dst.Cols() != 32 || dst.Rows() != 32 {
		t.Errorf("dst is %dx%d, want 32x32", dst.Cols(), dst.Rows())
	}
}

func TestBorderModes(t *testing.T) {
	src := gradientMat(t, 16, 16)
	defer src.Close()

	for _, border := range []Border{BorderReplicate, BorderWrap} {
		dst := Transform2D(src, Motion2D{Zoom: 1.0, TranslationX: 20}, border)
		if dst.Empty() {
			t.Errorf("border %v produced empty output", border)
		}
		dst.Close()
	}
}
