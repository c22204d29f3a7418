// Package velocity implements the packed per-pixel velocity/depth field
// that feeds the motion blur tile pyramid and reconstruction passes.
//
// Velocity components are stored with bounded precision: each component is
// remapped from [-maxRadius, maxRadius] into [0, 1] and quantized to 16
// bits, alongside the linearized depth. Values round-trip through
// Encode/Decode within the quantization step.
package velocity

import "math"

// Channels per packed pixel: encoded vx, encoded vy, quantized depth.
const channels = 3

// quantMax is the largest quantized channel value.
const quantMax = 65535

// Field is a packed velocity+depth image. Data holds channels values per
// pixel in row-major order and is typically a pooled scratch buffer owned
// by the current pipeline invocation.
type Field struct {
	W, H int
	Data []uint16
}

// Len returns the required Data length for a w by h field.
func Len(w, h int) int {
	return w * h * channels
}

// Encode remaps a velocity component from [-maxRadius, maxRadius] into a
// quantized [0, 1] channel value. Components outside the range clamp to
// the range boundary, so a decoded magnitude never exceeds maxRadius.
func Encode(v, maxRadius float64) uint16 {
	e := v/maxRadius*0.5 + 0.5
	if e < 0 {
		e = 0
	} else if e > 1 {
		e = 1
	}
	return uint16(math.Round(e * quantMax))
}

// Decode inverts Encode.
func Decode(q uint16, maxRadius float64) float64 {
	return (float64(q)/quantMax*2 - 1) * maxRadius
}

// EncodeDepth quantizes a linearized depth value in [0, 1].
func EncodeDepth(z float64) uint16 {
	if z < 0 {
		z = 0
	} else if z > 1 {
		z = 1
	}
	return uint16(math.Round(z * quantMax))
}

// DecodeDepth inverts EncodeDepth.
func DecodeDepth(q uint16) float64 {
	return float64(q) / quantMax
}

// At returns the decoded velocity components and depth of pixel (x, y).
// Coordinates are clamped to the field bounds.
func (f *Field) At(x, y int, maxRadius float64) (vx, vy, z float64) {
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
	i := (y*f.W + x) * channels
	return Decode(f.Data[i+0], maxRadius),
		Decode(f.Data[i+1], maxRadius),
		DecodeDepth(f.Data[i+2])
}

// Set encodes and stores velocity components and depth at pixel (x, y).
// The velocity magnitude is clamped to maxRadius before encoding.
func (f *Field) Set(x, y int, vx, vy, z, maxRadius float64) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return
	}
	vx, vy = clampMagnitude(vx, vy, maxRadius)
	i := (y*f.W + x) * channels
	f.Data[i+0] = Encode(vx, maxRadius)
	f.Data[i+1] = Encode(vy, maxRadius)
	f.Data[i+2] = EncodeDepth(z)
}

// clampMagnitude scales (vx, vy) down to length maxRadius if it is longer.
func clampMagnitude(vx, vy, maxRadius float64) (float64, float64) {
	l := math.Hypot(vx, vy)
	if l <= maxRadius || l == 0 {
		return vx, vy
	}
	s := maxRadius / l
	return vx * s, vy * s
}

// PackRows encodes motion vectors scaled by scale, together with depth,
// into rows [y0, y1) of the field. Slices are indexed y*W+x and must cover
// the full frame. The caller dispatches row ranges in parallel; ranges
// never overlap.
func (f *Field) PackRows(y0, y1 int, mvx, mvy, depth []float32, scale, maxRadius float64) {
	for y := y0; y < y1; y++ {
		row := y * f.W
		for x := 0; x < f.W; x++ {
			j := row + x
			vx := float64(mvx[j]) * scale
			vy := float64(mvy[j]) * scale
			vx, vy = clampMagnitude(vx, vy, maxRadius)
			i := j * channels
			f.Data[i+0] = Encode(vx, maxRadius)
			f.Data[i+1] = Encode(vy, maxRadius)
			f.Data[i+2] = EncodeDepth(float64(depth[j]))
		}
	}
}
