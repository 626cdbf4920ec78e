// Package path turns point sequences into SVG path data.
//
// Two interpolations are supported: [Linear] joins points with straight
// segments, and [Basis] draws a uniform cubic B-spline through the control
// points. Basis curves start and end on the first and last point but pass
// near, not through, the points in between, which smooths the steps of daily
// count data.
package path

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/streamstack/pkg/errors"
)

// Point is an (x, y) coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Interpolation selects how consecutive points are joined.
type Interpolation int

const (
	Basis Interpolation = iota
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case Basis:
		return "basis"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation returns the interpolation named s.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basis", "":
		return Basis, nil
	case "linear":
		return Linear, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown interpolation %q (want basis or linear)", s)
	}
}

// Line returns the path data of an open line through pts.
func Line(pts []Point, interp Interpolation) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M")
	segments(&b, pts, interp)
	return b.String()
}

// Area returns the path data of a closed area bounded above by upper and
// below by lower. Both edges run left to right; the lower edge is traced in
// reverse to close the shape.
func Area(upper, lower []Point, interp Interpolation) string {
	if len(upper) == 0 || len(lower) == 0 {
		return ""
	}
	rev := make([]Point, len(lower))
	for i, p := range lower {
		rev[len(lower)-1-i] = p
	}

	var b strings.Builder
	b.WriteString("M")
	segments(&b, upper, interp)
	b.WriteString("L")
	segments(&b, rev, interp)
	b.WriteString("Z")
	return b.String()
}

// segments writes pts starting at the first point, without a leading command.
func segments(b *strings.Builder, pts []Point, interp Interpolation) {
	if interp == Basis && len(pts) >= 3 {
		basis(b, pts)
		return
	}
	linear(b, pts)
}

func linear(b *strings.Builder, pts []Point) {
	for i, p := range pts {
		if i > 0 {
			b.WriteString("L")
		}
		writePoint(b, p)
	}
}

// B-spline to Bézier conversion weights.
var (
	bezier1 = [4]float64{0, 2.0 / 3, 1.0 / 3, 0}
	bezier2 = [4]float64{0, 1.0 / 3, 2.0 / 3, 0}
	bezier3 = [4]float64{0, 1.0 / 6, 2.0 / 3, 1.0 / 6}
)

func dot4(w, v [4]float64) float64 {
	return w[0]*v[0] + w[1]*v[1] + w[2]*v[2] + w[3]*v[3]
}

func basis(b *strings.Builder, pts []Point) {
	p0 := pts[0]
	px := [4]float64{p0.X, p0.X, p0.X, pts[1].X}
	py := [4]float64{p0.Y, p0.Y, p0.Y, pts[1].Y}

	writePoint(b, p0)
	b.WriteString("L")
	writePoint(b, Point{dot4(bezier3, px), dot4(bezier3, py)})

	last := pts[len(pts)-1]
	for i := 2; i <= len(pts); i++ {
		next := last
		if i < len(pts) {
			next = pts[i]
		}
		px = [4]float64{px[1], px[2], px[3], next.X}
		py = [4]float64{py[1], py[2], py[3], next.Y}

		b.WriteString("C")
		writePoint(b, Point{dot4(bezier1, px), dot4(bezier1, py)})
		b.WriteString(",")
		writePoint(b, Point{dot4(bezier2, px), dot4(bezier2, py)})
		b.WriteString(",")
		writePoint(b, Point{dot4(bezier3, px), dot4(bezier3, py)})
	}
	b.WriteString("L")
	writePoint(b, last)
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(Num(p.X))
	b.WriteString(",")
	b.WriteString(Num(p.Y))
}

// Num formats v for SVG attributes: at most three decimals, never in
// exponent notation.
func Num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
