package hex

import "math"

// Viewport is the pixel area a chunk has to cover.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// DefaultViewport is used when the caller does not supply a width/height.
var DefaultViewport = Viewport{Width: 640, Height: 480}

// Fallback grid extents when the sizing inputs are unusable.
const (
	FallbackCols = 20
	FallbackRows = 15
)

// Sizer computes how many columns and rows of hexes fill a viewport.
type Sizer interface {
	GridSize(hexSize float64, vp Viewport) (cols, rows int)
}

// SizerFunc adapts a plain function to Sizer.
type SizerFunc func(hexSize float64, vp Viewport) (cols, rows int)

// GridSize calls f.
func (f SizerFunc) GridSize(hexSize float64, vp Viewport) (int, int) { return f(hexSize, vp) }

// FlatTop sizes grids of flat-top hexes: columns advance by 3/4 of a hex width,
// rows by half a hex height, plus one extra of each for coverage.
var FlatTop Sizer = SizerFunc(flatTopSize)

func flatTopSize(hexSize float64, vp Viewport) (int, int) {
	cols, rows := FlatTopExtent(hexSize, vp)
	return int(cols), int(rows)
}

// FlatTopExtent is FlatTop's grid size as floats, so callers can bound a
// request before any allocation. Non-positive or NaN inputs give the fallback
// extents; an infinite viewport gives +Inf.
func FlatTopExtent(hexSize float64, vp Viewport) (cols, rows float64) {
	if !(hexSize > 0) || !(vp.Width > 0) || !(vp.Height > 0) {
		return FallbackCols, FallbackRows
	}
	hStep := 2 * hexSize * 0.75
	vStep := math.Sqrt(3) * hexSize * 0.5
	return math.Ceil(vp.Width/hStep) + 1, math.Ceil(vp.Height/vStep) + 1
}

// InBounds reports whether (q, r) lies inside a cols x rows rectangle.
func InBounds(q, r, cols, rows int) bool {
	return q >= 0 && q < cols && r >= 0 && r < rows
}
