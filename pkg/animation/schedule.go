package animation

import (
	"sort"
	"strconv"
	"strings"
)

// ControlPoint anchors a schedule value at a frame index.
type ControlPoint struct {
	Frame int
	Value float64
}

// Curve is a sparse-to-dense parameter schedule. Control points are kept
// sorted by frame with unique indices. Between points the value is linearly
// interpolated; outside the covered range it is held constant.
type Curve struct {
	points []ControlPoint
}

// ParseCurve parses a Deforum-style schedule string of the form
//
//	"0:(1.0), 30:(1.05), 60:(1.0)"
//
// Whitespace around tokens is ignored. Empty tokens (from trailing commas)
// are skipped. Any other malformed token yields a *SyntaxError.
func ParseCurve(schedule string) (Curve, error) {
	var points []ControlPoint

	for _, part := range strings.Split(schedule, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}

		frameStr, valueStr, ok := strings.Cut(token, ":")
		if !ok {
			return Curve{}, &SyntaxError{Token: token, Reason: "missing ':' separator"}
		}

		frame, err := strconv.Atoi(strings.TrimSpace(frameStr))
		if err != nil {
			return Curve{}, &SyntaxError{Token: token, Reason: "frame is not an integer"}
		}

		value, err := strconv.ParseFloat(strings.Trim(valueStr, "() \t"), 64)
		if err != nil {
			return Curve{}, &SyntaxError{Token: token, Reason: "value is not a number"}
		}

		points = append(points, ControlPoint{Frame: frame, Value: value})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Frame < points[j].Frame })

	for i := 1; i < len(points); i++ {
		if points[i].Frame == points[i-1].Frame {
			return Curve{}, &SyntaxError{
				Token:  strconv.Itoa(points[i].Frame),
				Reason: "duplicate frame index",
			}
		}
	}

	return Curve{points: points}, nil
}

// Empty reports whether the curve has no control points.
func (c Curve) Empty() bool {
	return len(c.points) == 0
}

// Points returns a copy of the control points in frame order.
func (c Curve) Points() []ControlPoint {
	out := make([]ControlPoint, len(c.points))
	copy(out, c.points)
	return out
}

// Value evaluates the curve at the given frame. Before the first control
// point and after the last one the value is held, not extrapolated.
// An empty curve evaluates to zero everywhere.
func (c Curve) Value(frame int) float64 {
	if len(c.points) == 0 {
		return 0
	}

	// Nearest point at or before the frame, and first point after it.
	var before, after *ControlPoint
	for i := range c.points {
		p := &c.points[i]
		if p.Frame <= frame {
			before = p
		} else {
			after = p
			break
		}
	}

	if before == nil {
		return after.Value
	}
	if after == nil {
		return before.Value
	}

	t := float64(frame-before.Frame) / float64(after.Frame-before.Frame)
	return before.Value + (after.Value-before.Value)*t
}

// Dense evaluates the curve at every frame in [0, totalFrames).
func (c Curve) Dense(totalFrames int) []float64 {
	values := make([]float64, totalFrames)
	for f := range values {
		values[f] = c.Value(f)
	}
	return values
}

// ParseSchedule parses a schedule string and evaluates it densely over
// totalFrames frames.
func ParseSchedule(schedule string, totalFrames int) ([]float64, error) {
	curve, err := ParseCurve(schedule)
	if err != nil {
		return nil, err
	}
	return curve.Dense(totalFrames), nil
}
