package analysis

import (
	"strings"

	"github.com/san-kum/episim/internal/epi"
)

// PhasePortrait holds a 2D projection of a trajectory onto two compartments,
// e.g. the classic S-I plane of an SIR outbreak.
type PhasePortrait struct {
	XName, YName string
	Points       []struct{ X, Y float64 }
}

// NewPhasePortrait projects a trajectory onto compartment indices xIdx and
// yIdx. Returns nil when an index is out of range.
func NewPhasePortrait(states []epi.State, xIdx, yIdx int, xName, yName string) *PhasePortrait {
	if len(states) == 0 || xIdx >= len(states[0]) || yIdx >= len(states[0]) {
		return nil
	}

	portrait := &PhasePortrait{
		XName:  xName,
		YName:  yName,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}

	for _, x := range states {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: x[xIdx],
			Y: x[yIdx],
		})
	}

	return portrait
}

// ASCII renders the portrait as a width x height character plot. Early,
// middle, and late thirds of the trajectory use distinct marks so flow
// direction is readable.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < len(p.Points)/3:
			canvas[row][col] = '.'
		case i < 2*len(p.Points)/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '•'
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
