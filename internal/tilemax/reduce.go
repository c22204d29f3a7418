// Package tilemax builds the tile velocity pyramid for motion blur
// reconstruction: a chain of max-magnitude reductions that compresses the
// per-pixel velocity field into one dominant velocity per tile, followed
// by a 3x3 neighborhood max expansion.
package tilemax

import "github.com/WilliamChao/KinoMotion/internal/velocity"

// Field is a planar velocity field in decoded pixel units. It holds the
// intermediate and final levels of the tile pyramid.
type Field struct {
	W, H   int
	VX, VY []float32
}

// Len returns the required per-plane length for a w by h field.
func Len(w, h int) int {
	return w * h
}

// At returns the velocity at cell (x, y), clamping coordinates to the
// field bounds (border cells replicate).
func (f *Field) At(x, y int) (vx, vy float32) {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	i := y*f.W + x
	return f.VX[i], f.VY[i]
}

// TileSize returns the tile edge length in pixels for a maximum blur
// radius given in pixels: the smallest multiple of 8 that is >= the
// radius, never below 8. The floor guards degenerate radii so later
// divisions by tileSize/8 stay valid.
func TileSize(maxBlurPixels float64) int {
	n := int(maxBlurPixels)
	if float64(n) < maxBlurPixels {
		n++
	}
	ts := (n + 7) / 8 * 8
	if ts < 8 {
		ts = 8
	}
	return ts
}

// CellCounts returns the number of cells per axis when a w by h source is
// covered by blocks of the given size.
func CellCounts(w, h, block int) (cx, cy int) {
	cx = (w + block - 1) / block
	cy = (h + block - 1) / block
	return cx, cy
}

// ReduceVelocityRows decodes the packed field and writes the max-magnitude
// velocity of each factor x factor block into rows [ty0, ty1) of dst.
// Ties break arbitrarily; only magnitude is compared.
func ReduceVelocityRows(dst *Field, src *velocity.Field, factor, ty0, ty1 int, maxRadius float64) {
	for ty := ty0; ty < ty1; ty++ {
		for tx := 0; tx < dst.W; tx++ {
			var bx, by float64
			var best float64 = -1
			for dy := 0; dy < factor; dy++ {
				sy := ty*factor + dy
				if sy >= src.H {
					break
				}
				for dx := 0; dx < factor; dx++ {
					sx := tx*factor + dx
					if sx >= src.W {
						break
					}
					vx, vy, _ := src.At(sx, sy, maxRadius)
					if m := vx*vx + vy*vy; m > best {
						best, bx, by = m, vx, vy
					}
				}
			}
			i := ty*dst.W + tx
			dst.VX[i] = float32(bx)
			dst.VY[i] = float32(by)
		}
	}
}

// ReduceRows writes the max-magnitude velocity of each factor x factor
// block of src into rows [ty0, ty1) of dst.
func ReduceRows(dst, src *Field, factor, ty0, ty1 int) {
	for ty := ty0; ty < ty1; ty++ {
		for tx := 0; tx < dst.W; tx++ {
			var bx, by float32
			var best float32 = -1
			for dy := 0; dy < factor; dy++ {
				sy := ty*factor + dy
				if sy >= src.H {
					break
				}
				for dx := 0; dx < factor; dx++ {
					sx := tx*factor + dx
					if sx >= src.W {
						break
					}
					i := sy*src.W + sx
					vx, vy := src.VX[i], src.VY[i]
					if m := vx*vx + vy*vy; m > best {
						best, bx, by = m, vx, vy
					}
				}
			}
			i := ty*dst.W + tx
			dst.VX[i] = bx
			dst.VY[i] = by
		}
	}
}

// ReduceCenteredRows performs the final, variable-footprint reduction from
// the 8x-reduced field to the tile field. Each output tile samples
// tileSize/8 cells per axis, with the sampling window anchored at the cell
// containing the tile center offset by -(ratio-1)/2 so the window stays
// centered on the tile despite the coarser input resolution. Window cells
// clamp at the field border.
func ReduceCenteredRows(dst, src *Field, tileSize, ty0, ty1 int) {
	ratio := tileSize / 8
	if ratio < 1 {
		ratio = 1
	}
	off := -(ratio - 1) / 2
	for ty := ty0; ty < ty1; ty++ {
		cy := (ty*tileSize + tileSize/2) / 8
		for tx := 0; tx < dst.W; tx++ {
			cx := (tx*tileSize + tileSize/2) / 8
			var bx, by float32
			var best float32 = -1
			for dy := 0; dy < ratio; dy++ {
				sy := clampInt(cy+off+dy, 0, src.H-1)
				for dx := 0; dx < ratio; dx++ {
					sx := clampInt(cx+off+dx, 0, src.W-1)
					i := sy*src.W + sx
					vx, vy := src.VX[i], src.VY[i]
					if m := vx*vx + vy*vy; m > best {
						best, bx, by = m, vx, vy
					}
				}
			}
			i := ty*dst.W + tx
			dst.VX[i] = bx
			dst.VY[i] = by
		}
	}
}

// NeighborMaxRows writes, for each tile in rows [ty0, ty1), the
// max-magnitude velocity among the tile and its 3x3 neighborhood.
// Border tiles replicate the field edge.
func NeighborMaxRows(dst, src *Field, ty0, ty1 int) {
	for ty := ty0; ty < ty1; ty++ {
		for tx := 0; tx < dst.W; tx++ {
			var bx, by float32
			var best float32 = -1
			for dy := -1; dy <= 1; dy++ {
				sy := clampInt(ty+dy, 0, src.H-1)
				for dx := -1; dx <= 1; dx++ {
					sx := clampInt(tx+dx, 0, src.W-1)
					i := sy*src.W + sx
					vx, vy := src.VX[i], src.VY[i]
					if m := vx*vx + vy*vy; m > best {
						best, bx, by = m, vx, vy
					}
				}
			}
			i := ty*dst.W + tx
			dst.VX[i] = bx
			dst.VY[i] = by
		}
	}
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
