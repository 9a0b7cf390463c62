// Package layout places the 26 lights of the star in its plane.
//
// Only three positions are computed, on the right edge of the top point. The
// rest follow from mirroring across the point's axis and rotating by a fifth
// of a turn.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/coreman2200/funtimes-starlight/internal/led"
	"github.com/coreman2200/funtimes-starlight/internal/vec"
)

const (
	Points      = 5
	PerPoint    = 5
	Outer       = Points * PerPoint
	LightCount  = Outer + 1
	CenterIndex = Outer

	// computed positions per point edge; the others are mirrors
	edgeLights = 3
)

var ErrInvalidLightCount = errors.New("invalid light count")

// Geometry sizes the star. Outer is the radius of the tips, Inner the radius
// of the indents between them, Center the radius the center light pretends to
// have in radial animations. Any reals are accepted; odd values simply
// reflect or squash the shape.
type Geometry struct {
	Outer  float64 `yaml:"outer_radius"`
	Inner  float64 `yaml:"inner_radius"`
	Center float64 `yaml:"center_radius"`
}

// DefaultGeometry sizes a star with tips at outer. Radial sweeps look better
// with deep indents since the edge lights then seem closer to the center.
func DefaultGeometry(outer float64, radial bool) Geometry {
	inner := outer * 3.5 / 5
	if radial {
		inner = outer / 5
	}
	return withCenter(outer, inner)
}

// ShowGeometry is the shape used by the scripted show: tips at outer, indents
// at 4/5 of it, or 1/5 for radial clips.
func ShowGeometry(outer float64, radial bool) Geometry {
	inner := outer * 4 / 5
	if radial {
		inner = outer / 5
	}
	return withCenter(outer, inner)
}

// withCenter puts the center circle slightly inside the indents.
func withCenter(outer, inner float64) Geometry {
	return Geometry{Outer: outer, Inner: inner, Center: inner - (outer-inner)/10}
}

// Light is a positioned output.
type Light struct {
	Out      led.Light
	Pos      vec.Vec2
	IsCenter bool
	RCenter  float64
}

func (l Light) Cartesian() vec.Vec2 { return l.Pos }

// Polar returns (rho, theta). The center has no real polar form, so it
// reports its synthetic radius and angle 0.
func (l Light) Polar() (rho, theta float64) {
	if l.IsCenter {
		return l.RCenter, 0
	}
	return l.Pos.Polar()
}

// Index is the layout slot of edge light ledNo on point pointNo, walking
// clockwise from the tip.
func Index(pointNo, ledNo int) int {
	return ledNo + pointNo*PerPoint
}

// MirrorIndex is the slot of the mirror of Index(pointNo, ledNo), walking
// counter-clockwise from the tip. For ledNo 0 both are the tip itself.
func MirrorIndex(pointNo, ledNo int) int {
	return (pointNo*PerPoint - ledNo + Outer) % Outer
}

// Positions computes the outer light positions in layout order.
func Positions(g Geometry) [Outer]vec.Vec2 {
	var out [Outer]vec.Vec2

	tip := vec.FromPolar(g.Outer, vec.ToTheta(0))
	indent := vec.FromPolar(g.Inner, vec.ToTheta(math.Pi/4))
	edge := indent.Sub(tip)

	for ledNo := 0; ledNo < edgeLights; ledNo++ {
		// 3/10, 6/10, 9/10 of the way from the tip, never reaching the indent
		pos := tip.Add(edge.Scale(3.0 / 10.0 * float64(ledNo)))
		mirror := pos.MirrorX()
		for pointNo := 0; pointNo < Points; pointNo++ {
			a := 2 * math.Pi / Points * float64(pointNo)
			out[Index(pointNo, ledNo)] = pos.Rotate(a)
			out[MirrorIndex(pointNo, ledNo)] = mirror.Rotate(a)
		}
	}
	return out
}

// Compute positions the lights of a board given in hardware order, where the
// center is first. The result has the center last.
func Compute(board []led.Light, g Geometry) ([]Light, error) {
	if len(board) != LightCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidLightCount, len(board), LightCount)
	}
	ordered := CenterLast(board)
	pos := Positions(g)

	out := make([]Light, LightCount)
	for i := 0; i < Outer; i++ {
		out[i] = Light{Out: ordered[i], Pos: pos[i]}
	}
	out[CenterIndex] = Light{
		Out:      ordered[CenterIndex],
		IsCenter: true,
		RCenter:  g.Center,
	}
	return out, nil
}

// CenterLast rotates hardware order so the center light comes last.
func CenterLast(board []led.Light) []led.Light {
	if len(board) == 0 {
		return nil
	}
	out := make([]led.Light, 0, len(board))
	out = append(out, board[1:]...)
	return append(out, board[0])
}

// Outputs returns the light outputs in layout order.
func Outputs(lights []Light) []led.Light {
	out := make([]led.Light, len(lights))
	for i, l := range lights {
		out[i] = l.Out
	}
	return out
}
