package animation

import (
	"math"
	"testing"
)

func TestKeyframeAtNoKeyframes(t *testing.T) {
	kf := KeyframeAt(7, nil)
	if kf.Frame != 7 {
		t.Errorf("Frame = %d, want 7", kf.Frame)
	}
	if kf.Zoom != 1.0 || kf.Strength != 0.75 || kf.Seed != -1 {
		t.Errorf("not neutral: %+v", kf)
	}
}

func TestKeyframeAtExact(t *testing.T) {
	keyframes := []Keyframe{
		{Frame: 0, Prompt: "a forest", Zoom: 1.0, Strength: 0.5},
		{Frame: 10, Prompt: "a city", Zoom: 2.0, Strength: 0.9},
	}

	kf := KeyframeAt(0, keyframes)
	if kf.Prompt != "a forest" || kf.Zoom != 1.0 {
		t.Errorf("at frame 0: %+v", kf)
	}

	kf = KeyframeAt(10, keyframes)
	if kf.Prompt != "a city" || kf.Zoom != 2.0 {
		t.Errorf("at frame 10: %+v", kf)
	}
}

func TestKeyframeAtInterpolates(t *testing.T) {
	keyframes := []Keyframe{
		{Frame: 0, Prompt: "first", Zoom: 1.0, Angle: 0, Strength: 0.4},
		{Frame: 10, Prompt: "second", Zoom: 2.0, Angle: 90, Strength: 0.8},
	}

	kf := KeyframeAt(5, keyframes)
	if math.Abs(kf.Zoom-1.5) > 1e-9 {
		t.Errorf("Zoom = %g, want 1.5", kf.Zoom)
	}
	if math.Abs(kf.Angle-45) > 1e-9 {
		t.Errorf("Angle = %g, want 45", kf.Angle)
	}
	if math.Abs(kf.Strength-0.6) > 1e-9 {
		t.Errorf("Strength = %g, want 0.6", kf.Strength)
	}
}

func TestKeyframeAtPromptSwitchesAtMidpoint(t *testing.T) {
	keyframes := []Keyframe{
		{Frame: 0, Prompt: "first", Zoom: 1.0},
		{Frame: 10, Prompt: "second", Zoom: 1.0},
	}

	if kf := KeyframeAt(4, keyframes); kf.Prompt != "first" {
		t.Errorf("frame 4: prompt %q, want first", kf.Prompt)
	}
	// t = 0.5 exactly already belongs to the later prompt.
	if kf := KeyframeAt(5, keyframes); kf.Prompt != "second" {
		t.Errorf("frame 5: prompt %q, want second", kf.Prompt)
	}
	if kf := KeyframeAt(9, keyframes); kf.Prompt != "second" {
		t.Errorf("frame 9: prompt %q, want second", kf.Prompt)
	}
}

func TestKeyframeAtOutsideRange(t *testing.T) {
	keyframes := []Keyframe{
		{Frame: 5, Prompt: "only", Zoom: 1.5},
	}
	if kf := KeyframeAt(0, keyframes); kf.Zoom != 1.5 {
		t.Errorf("before first: Zoom = %g, want 1.5", kf.Zoom)
	}
	if kf := KeyframeAt(100, keyframes); kf.Zoom != 1.5 {
		t.Errorf("after last: Zoom = %g, want 1.5", kf.Zoom)
	}
}

func TestKeyframeAtUnsortedInput(t *testing.T) {
	keyframes := []Keyframe{
		{Frame: 10, Prompt: "late", Zoom: 2.0},
		{Frame: 0, Prompt: "early", Zoom: 1.0},
	}
	kf := KeyframeAt(5, keyframes)
	if math.Abs(kf.Zoom-1.5) > 1e-9 {
		t.Errorf("Zoom = %g, want 1.5", kf.Zoom)
	}
}

func TestBuildKeyframes(t *testing.T) {
	prompts := map[int]string{
		0:  "a forest",
		60: "a city",
	}
	schedules := map[string]string{
		"zoom":  "0:(1.0), 60:(1.6)",
		"angle": "0:(0.0), 60:(30.0)",
	}

	keyframes, err := BuildKeyframes(120, prompts, schedules)
	if err != nil {
		t.Fatalf("BuildKeyframes failed: %v", err)
	}
	if len(keyframes) != 2 {
		t.Fatalf("got %d keyframes, want 2", len(keyframes))
	}

	first := keyframes[0]
	if first.Frame != 0 || first.Prompt != "a forest" || first.Zoom != 1.0 {
		t.Errorf("first keyframe: %+v", first)
	}
	second := keyframes[1]
	if second.Frame != 60 || second.Prompt != "a city" {
		t.Errorf("second keyframe: %+v", second)
	}
	if math.Abs(second.Zoom-1.6) > 1e-9 || math.Abs(second.Angle-30) > 1e-9 {
		t.Errorf("second keyframe motion: zoom=%g angle=%g", second.Zoom, second.Angle)
	}
}

func TestBuildKeyframesBadSchedule(t *testing.T) {
	_, err := BuildKeyframes(10, map[int]string{0: "x"}, map[string]string{
		"zoom": "not-a-schedule",
	})
	if err == nil {
		t.Fatal("expected error for malformed schedule")
	}
}

func TestBuildKeyframesDefaults(t *testing.T) {
	keyframes, err := BuildKeyframes(10, map[int]string{0: "x"}, nil)
	if err != nil {
		t.Fatalf("BuildKeyframes failed: %v", err)
	}
	if len(keyframes) != 1 {
		t.Fatalf("got %d keyframes, want 1", len(keyframes))
	}
	kf := keyframes[0]
	if kf.Zoom != 1.0 || kf.Strength != 0.75 || kf.Angle != 0 {
		t.Errorf("defaults not applied: %+v", kf)
	}
}
