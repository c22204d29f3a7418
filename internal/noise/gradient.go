// Package noise provides the deterministic dither functions used by the
// reconstruction pass. All functions are pure: the same coordinate and
// frame counter always yield the same value, keeping output reproducible
// across runs.
package noise

import "math"

// Gradient returns interleaved gradient noise in [0, 1) for a pixel
// coordinate, temporally offset by the frame counter so dither patterns
// move between frames instead of sticking to the screen.
func Gradient(x, y float64, frame uint64) float64 {
	// Offset the sampling position per frame; 8 phases are enough to
	// decorrelate consecutive frames visually.
	o := float64(frame%8) * 5.588238
	u := x + o
	v := y + o
	return frac(52.9829189 * frac(0.06711056*u+0.00583715*v))
}

// TileJitter returns a pseudo-random rotation offset, in pixels, of up to
// a quarter tile. The reconstruction pass adds it to its NeighborMax
// lookup position to break up visible tile-grid artifacts.
func TileJitter(x, y int, tileSize int, frame uint64) (jx, jy float64) {
	a := 2 * math.Pi * Gradient(float64(x), float64(y), frame)
	r := 0.25 * float64(tileSize)
	return r * math.Cos(a), r * math.Sin(a)
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}
