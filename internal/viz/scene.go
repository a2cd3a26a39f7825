package viz

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Scene maps the two displacements onto a braille canvas. Both masses sit on
// one horizontal line to the right of the anchor wall.
type Scene struct {
	Width, Height int     // canvas size in cells
	Scale         float64 // sub-pixels per unit displacement
	Coils         int
}

func NewScene(width, height int) Scene {
	return Scene{Width: width, Height: height, Scale: float64(width*2) / 8, Coils: 6}
}

// Rest positions of the wall and both masses in sub-pixels.
func (s Scene) layout() (wall, rest1, rest2, cy int) {
	cw, ch := s.Width*2, s.Height*4
	return 4, cw * 3 / 8, cw * 3 / 4, ch / 2
}

// Positions returns the sub-pixel x coordinates of both masses for state x.
func (s Scene) Positions(x dynamo.State) (p1, p2 int) {
	_, rest1, rest2, _ := s.layout()
	return rest1 + int(x[physics.X1]*s.Scale), rest2 + int(x[physics.X2]*s.Scale)
}

// Draw clears c and renders the wall, spring k1, mass 1, spring k2 and mass 2.
func (s Scene) Draw(c *Canvas, x dynamo.State) {
	c.Clear()
	wall, _, _, cy := s.layout()
	p1, p2 := s.Positions(x)
	const half = 4

	c.DrawLine(wall, cy-12, wall, cy+12)
	for y := cy - 12; y <= cy+12; y += 4 {
		c.DrawLine(wall-3, y+3, wall, y)
	}

	c.DrawSpring(wall, p1-half, cy, s.Coils, 3)
	c.FillRect(p1, cy, half, half)
	c.DrawSpring(p1+half, p2-half, cy, s.Coils, 3)
	c.FillRect(p2, cy, half, half)
}
