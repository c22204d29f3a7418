// Package reconstruct implements the motion blur reconstruction kernel:
// for every output pixel it walks a jittered, variable-length sample
// sequence along two principal directions (the pixel's own velocity and
// the dominant tile velocity) and accumulates depth- and
// direction-weighted color.
//
// The kernel is a pure function of its inputs; rows can be processed in
// parallel without synchronization.
package reconstruct

import (
	"math"

	"github.com/WilliamChao/KinoMotion/internal/noise"
	"github.com/WilliamChao/KinoMotion/internal/tilemax"
	"github.com/WilliamChao/KinoMotion/internal/velocity"
)

const (
	// minVelocity is the magnitude floor, in pixels, below which motion is
	// treated as none: tiles whose dominant velocity is shorter produce
	// unblurred output, and a pixel's own velocity is never considered
	// shorter when weighting samples.
	minVelocity = 0.5

	// depthSteepness is the slope of the one-sided soft depth comparison
	// that separates foreground samples from background samples.
	depthSteepness = 20.0

	// blendWeightScale relates the center sample weight to the pixel's
	// blur length; it also derives the accumulation blend factor stored
	// in the output alpha channel.
	blendWeightScale = 40.0
)

// Params carries the scalar inputs of the reconstruction pass.
type Params struct {
	// TileSize is the edge length, in pixels, of the tiles behind the
	// NeighborMax field.
	TileSize int

	// MaxRadius is the maximum blur radius in pixels; it is the encoding
	// scale of the packed velocity field.
	MaxRadius float64

	// LoopCount is half the per-pixel sample count.
	LoopCount int

	// Frame seeds the dither noise so sample patterns move across frames.
	Frame uint64
}

// FilterRows reconstructs rows [y0, y1) of the blurred image. src and dst
// are RGBA pixel data of a w by h frame; vel is the packed full-resolution
// velocity field and nmax the tile-resolution NeighborMax field. The alpha
// channel of each blurred pixel receives the derived accumulation blend
// factor; pixels that take the early-out keep their source value.
func FilterRows(dst, src []uint8, w, h int, vel *velocity.Field, nmax *tilemax.Field, p Params, y0, y1 int) {
	tileSize := float64(p.TileSize)
	sampleCount := 2 * p.LoopCount
	if sampleCount < 2 {
		sampleCount = 2
	}
	dt := 2.0 / float64(sampleCount)

	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4

			// Dominant tile velocity at a jittered lookup position.
			jx, jy := noise.TileJitter(x, y, p.TileSize, p.Frame)
			tx := int((float64(x) + jx) / tileSize)
			ty := int((float64(y) + jy) / tileSize)
			vmx32, vmy32 := nmax.At(tx, ty)
			vmx, vmy := float64(vmx32), float64(vmy32)
			lvm := math.Hypot(vmx, vmy)

			// No meaningful motion anywhere near this tile.
			if lvm < minVelocity {
				dst[i+0] = src[i+0]
				dst[i+1] = src[i+1]
				dst[i+2] = src[i+2]
				dst[i+3] = src[i+3]
				continue
			}

			// Own velocity and depth at the center point.
			vcx, vcy, zp := vel.At(x, y, p.MaxRadius)
			lvc := math.Max(math.Hypot(vcx, vcy), minVelocity)

			// Secondary sampling direction: perpendicular to the dominant
			// velocity, sign-corrected toward the own velocity, blended
			// toward the own direction as the own velocity grows.
			wpx, wpy := -vmy/lvm, vmx/lvm
			if wpx*vcx+wpy*vcy < 0 {
				wpx, wpy = -wpx, -wpy
			}
			blend := clamp01((lvc - minVelocity) / 1.5)
			wcx := wpx + (vcx/lvc-wpx)*blend
			wcy := wpy + (vcy/lvc-wpy)*blend
			if l := math.Hypot(wcx, wcy); l > 0 {
				wcx /= l
				wcy /= l
			} else {
				wcx, wcy = wpx, wpy
			}

			// Jittered start offset dithers the sample positions within a
			// four-step window to hide banding.
			offs := (noise.Gradient(float64(x), float64(y), p.Frame) - 0.5) * 4 * dt

			// Center sample.
			centerWeight := float64(sampleCount) / (blendWeightScale * lvc)
			sumR := float64(src[i+0]) * centerWeight
			sumG := float64(src[i+1]) * centerWeight
			sumB := float64(src[i+2]) * centerWeight
			totalWeight := centerWeight

			for s := 0; s < sampleCount; s++ {
				// Fixed step spanning t in [-1, 1].
				t := -1 + dt*(float64(s)+0.5) + offs

				// Alternate between the dominant tile direction and the
				// pixel's own velocity direction.
				dx, dy := vmx, vmy
				if s%2 == 1 {
					dx, dy = vcx, vcy
				}

				sx := float64(x) + dx*t
				sy := float64(y) + dy*t
				dist := math.Abs(t) * math.Hypot(dx, dy)

				vsx, vsy, zs := vel.At(nearestInt(sx), nearestInt(sy), p.MaxRadius)
				lvs := math.Max(math.Hypot(vsx, vsy), minVelocity)

				// One-sided soft depth comparison in each direction: a
				// closer sample occludes the center, a farther sample is
				// weighted as revealed background.
				fg := clamp01((zp - zs) * depthSteepness / math.Max(zp, 1e-4))
				bg := clamp01((zs - zp) * depthSteepness / math.Max(zp, 1e-4))

				// Distance falloff: cone while the sample offset lies
				// inside the mover's blur length, flat-centered cylinder
				// with smooth edges otherwise.
				weight := fg*cone(dist, lvs) +
					bg*cone(dist, lvc) +
					cylinder(dist, lvs)*cylinder(dist, lvc)*2

				// Direction alignment between the sample's velocity and
				// the blended sampling direction.
				weight *= math.Abs(vsx*wcx+vsy*wcy) / lvs

				if weight <= 0 {
					continue
				}

				r, g, b := sampleBilinear(src, w, h, sx, sy)
				sumR += r * weight
				sumG += g * weight
				sumB += b * weight
				totalWeight += weight
			}

			dst[i+0] = clampUint8(sumR / totalWeight)
			dst[i+1] = clampUint8(sumG / totalWeight)
			dst[i+2] = clampUint8(sumB / totalWeight)

			// Derived accumulation blend factor.
			alpha := float64(sampleCount) / (lvc * blendWeightScale) / totalWeight
			dst[i+3] = clampUint8(clamp01(alpha) * 255)
		}
	}
}

// sampleBilinear reads an RGB color at a fractional position, clamping to
// the frame edges.
func sampleBilinear(src []uint8, w, h int, x, y float64) (r, g, b float64) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	x1 := clampInt(x0+1, 0, w-1)
	y1 := clampInt(y0+1, 0, h-1)
	x0 = clampInt(x0, 0, w-1)
	y0 = clampInt(y0, 0, h-1)

	i00 := (y0*w + x0) * 4
	i10 := (y0*w + x1) * 4
	i01 := (y1*w + x0) * 4
	i11 := (y1*w + x1) * 4

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	r = float64(src[i00+0])*w00 + float64(src[i10+0])*w10 + float64(src[i01+0])*w01 + float64(src[i11+0])*w11
	g = float64(src[i00+1])*w00 + float64(src[i10+1])*w10 + float64(src[i01+1])*w01 + float64(src[i11+1])*w11
	b = float64(src[i00+2])*w00 + float64(src[i10+2])*w10 + float64(src[i01+2])*w01 + float64(src[i11+2])*w11
	return r, g, b
}

// cone is the linear falloff used while a sample offset lies inside a
// velocity length.
func cone(dist, l float64) float64 {
	return clamp01(1 - dist/l)
}

// cylinder is flat near the center and falls off smoothly around the
// velocity length.
func cylinder(dist, l float64) float64 {
	return 1 - smoothstep(0.95*l, 1.05*l, dist)
}

func smoothstep(edge0, edge1, v float64) float64 {
	t := clamp01((v - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func nearestInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
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

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5) // Round to nearest
}
