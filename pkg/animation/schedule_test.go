package animation

import (
	"errors"
	"math"
	"testing"
)

func TestParseCurveInterpolation(t *testing.T) {
	curve, err := ParseCurve("0:(1.0), 10:(2.0)")
	if err != nil {
		t.Fatalf("ParseCurve failed: %v", err)
	}

	tests := []struct {
		frame int
		want  float64
	}{
		{0, 1.0},
		{5, 1.5},
		{10, 2.0},
		{3, 1.3},
	}
	for _, tt := range tests {
		got := curve.Value(tt.frame)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Value(%d) = %g, want %g", tt.frame, got, tt.want)
		}
	}
}

func TestParseCurveHoldsOutsideRange(t *testing.T) {
	curve, err := ParseCurve("10:(3.0), 20:(5.0)")
	if err != nil {
		t.Fatalf("ParseCurve failed: %v", err)
	}

	if got := curve.Value(0); got != 3.0 {
		t.Errorf("before first point: got %g, want 3.0", got)
	}
	if got := curve.Value(100); got != 5.0 {
		t.Errorf("after last point: got %g, want 5.0", got)
	}
}

func TestParseCurveUnsortedInput(t *testing.T) {
	curve, err := ParseCurve("20:(2.0), 0:(0.0), 10:(1.0)")
	if err != nil {
		t.Fatalf("ParseCurve failed: %v", err)
	}
	if got := curve.Value(5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Value(5) = %g, want 0.5", got)
	}
	points := curve.Points()
	for i := 1; i < len(points); i++ {
		if points[i].Frame <= points[i-1].Frame {
			t.Errorf("points not sorted: %v", points)
		}
	}
}

func TestParseCurveTolerantSpelling(t *testing.T) {
	// Parentheses optional, whitespace ignored, trailing comma skipped.
	curve, err := ParseCurve(" 0 : 1.5 , 10:(2.5) ,")
	if err != nil {
		t.Fatalf("ParseCurve failed: %v", err)
	}
	if got := curve.Value(0); got != 1.5 {
		t.Errorf("Value(0) = %g, want 1.5", got)
	}
	if got := curve.Value(10); got != 2.5 {
		t.Errorf("Value(10) = %g, want 2.5", got)
	}
}

func TestParseCurveSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
	}{
		{"missing separator", "0(1.0)"},
		{"non-integer frame", "a:(1.0)"},
		{"non-numeric value", "0:(abc)"},
		{"duplicate frame", "0:(1.0), 0:(2.0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCurve(tt.schedule)
			if err == nil {
				t.Fatalf("ParseCurve(%q) succeeded, want error", tt.schedule)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Errorf("error %v is not a *SyntaxError", err)
			}
		})
	}
}

func TestParseCurveEmpty(t *testing.T) {
	curve, err := ParseCurve("")
	if err != nil {
		t.Fatalf("ParseCurve(\"\") failed: %v", err)
	}
	if !curve.Empty() {
		t.Error("expected empty curve")
	}
	if got := curve.Value(10); got != 0 {
		t.Errorf("empty curve Value = %g, want 0", got)
	}
}

func TestParseScheduleDense(t *testing.T) {
	values, err := ParseSchedule("0:(0.0), 4:(4.0)", 6)
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}
	if len(values) != 6 {
		t.Fatalf("got %d values, want 6", len(values))
	}
	want := []float64{0, 1, 2, 3, 4, 4}
	for i, w := range want {
		if math.Abs(values[i]-w) > 1e-9 {
			t.Errorf("values[%d] = %g, want %g", i, values[i], w)
		}
	}
}
