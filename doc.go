// Package motion implements per-pixel motion blur reconstruction for
// rendered frames.
//
// # Overview
//
// motion takes a rendered color frame together with per-pixel screen-space
// motion vectors and linearized depth, and synthesizes a motion-blurred
// frame. The pipeline packs velocity and depth into a bounded-precision
// field, reduces it into a tile pyramid that keeps the locally dominant
// velocity, expands each tile with its 3x3 neighborhood maximum, and then
// reconstructs every output pixel by walking a jittered sample sequence
// along two principal blur directions with depth-aware occlusion weighting.
// An optional temporal accumulator blends successive reconstructed frames
// to extend apparent blur trails.
//
// # Quick Start
//
//	import motion "github.com/WilliamChao/KinoMotion"
//
//	p := motion.NewPipeline(source)
//	defer p.Close()
//
//	cfg := motion.Config{
//	    Exposure:      motion.ExposureConstant,
//	    ShutterSpeed:  48,
//	    Quality:       motion.QualityMedium,
//	    MaxBlurRadius: 5,
//	}
//	if err := p.Render(frame, out, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// The source implements FrameSource and supplies motion vectors, depth,
// the current frame counter and the smoothed frame delta time.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Pipeline, Config, Pixmap, Vec2, FrameSource, Stats
//   - Internal: velocity (packing), tilemax (max pyramid), reconstruct
//     (sampling kernel), noise (deterministic dither), scratch (buffer
//     pool), parallel (row dispatch)
//
// # Coordinate System
//
// Uses standard image coordinates: origin (0,0) at top-left, X increases
// right, Y increases down. Velocities are screen-space displacements in
// pixels per displayed frame.
//
// # Determinism
//
// Given the same frame, inputs and configuration, output is bit-stable:
// all dithering derives from a reproducible gradient-noise hash of the
// pixel coordinate and the frame counter, never from a random source.
package motion
