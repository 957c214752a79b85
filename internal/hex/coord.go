package hex

import "math"

// Axial is a flat-top hex coordinate. In a chunk q is the column and r the
// row, with row 0 at the top.
type Axial struct {
	Q int
	R int
}

// Climb moves: straight up and up-right. Up is toward row 0.
var (
	Up        = Axial{Q: 0, R: -1}
	UpRight   = Axial{Q: +1, R: -1}
	ClimbDirs = [2]Axial{Up, UpRight}
)

// Add returns a+b.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// DistanceAxial returns the number of hex steps between a and b.
func DistanceAxial(a, b Axial) int {
	dq, dr := a.Q-b.Q, a.R-b.R
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// HexToPixel converts a grid cell to the pixel center of its hex.
// size is the hex radius (corner to center) in pixels.
func HexToPixel(col, row int, size float64) (x, y float64) {
	x = size * 1.5 * float64(col)
	y = size * math.Sqrt(3) * (float64(row) + float64(col)/2.0)
	return
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
