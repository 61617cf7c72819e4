package imageops

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestAlignFlowIdenticalFrames(t *testing.T) {
	frame := gradientMat(t, 32, 32)
	defer frame.Close()

	// Zero motion between identical frames: remap through near-zero flow
	// must reproduce the input almost exactly.
	out := AlignFlow(frame, frame)
	defer out.Close()

	if out.Cols() != 32 || out.Rows() != 32 {
		t.Fatalf("out is %dx%d, want 32x32", out.Cols(), out.Rows())
	}
	if d := maxAbsDiff(t, frame, out); d > 3 {
		t.Errorf("identical frames realigned with max diff %d", d)
	}
}

func TestAlignFlowPreservesInputs(t *testing.T) {
	prev := gradientMat(t, 16, 16)
	defer prev.Close()
	cur := solid(t, 16, 16, 90)
	defer cur.Close()

	prevBefore := prev.Clone()
	defer prevBefore.Close()
	curBefore := cur.Clone()
	defer curBefore.Close()

	out := AlignFlow(prev, cur)
	out.Close()

	if d := maxAbsDiff(t, prev, prevBefore); d != 0 {
		t.Errorf("prev modified, max diff %d", d)
	}
	if d := maxAbsDiff(t, cur, curBefore); d != 0 {
		t.Errorf("cur modified, max diff %d", d)
	}
}
