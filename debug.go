package motion

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/WilliamChao/KinoMotion/internal/tilemax"
	"github.com/WilliamChao/KinoMotion/internal/velocity"
)

// renderDebug writes an intermediate-field visualization into out, an
// RGBA buffer of the source frame's dimensions. Debug views remap field
// values into displayable [0, 1] colors: velocity components map to the
// red/green channels through the packing encode, depth to grayscale.
func (p *Pipeline) renderDebug(out []uint8, src *Pixmap, vel *velocity.Field, nmax *tilemax.Field, mode DebugMode, maxRadius float64) {
	w, h := src.Width(), src.Height()

	switch mode {
	case DebugVelocity:
		p.workers.ForEachRow(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					vx, vy, _ := vel.At(x, y, maxRadius)
					i := (y*w + x) * 4
					out[i+0] = encodeByte(vx, maxRadius)
					out[i+1] = encodeByte(vy, maxRadius)
					out[i+2] = 0
					out[i+3] = 255
				}
			}
		})

	case DebugDepth:
		p.workers.ForEachRow(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					_, _, z := vel.At(x, y, maxRadius)
					g := clampByte(z * 255)
					i := (y*w + x) * 4
					out[i+0] = g
					out[i+1] = g
					out[i+2] = g
					out[i+3] = 255
				}
			}
		})

	case DebugNeighborMax:
		// Render one pixel per tile, then upsample to frame resolution
		// with nearest-neighbor so the tile grid stays visible.
		small := image.NewRGBA(image.Rect(0, 0, nmax.W, nmax.H))
		for ty := 0; ty < nmax.H; ty++ {
			for tx := 0; tx < nmax.W; tx++ {
				vx, vy := nmax.At(tx, ty)
				i := ty*small.Stride + tx*4
				small.Pix[i+0] = encodeByte(float64(vx), maxRadius)
				small.Pix[i+1] = encodeByte(float64(vy), maxRadius)
				small.Pix[i+2] = 0
				small.Pix[i+3] = 255
			}
		}
		full := &image.RGBA{
			Pix:    out,
			Stride: w * 4,
			Rect:   image.Rect(0, 0, w, h),
		}
		draw.NearestNeighbor.Scale(full, full.Rect, small, small.Bounds(), draw.Src, nil)
	}
}

// encodeByte remaps a velocity component from [-maxRadius, maxRadius]
// into a displayable byte, mid-gray meaning zero motion.
func encodeByte(v, maxRadius float64) uint8 {
	e := v/maxRadius*0.5 + 0.5
	return clampByte(e * 255)
}
