package motion

import (
	"fmt"
	"time"

	"github.com/WilliamChao/KinoMotion/internal/parallel"
	"github.com/WilliamChao/KinoMotion/internal/reconstruct"
	"github.com/WilliamChao/KinoMotion/internal/scratch"
	"github.com/WilliamChao/KinoMotion/internal/tilemax"
	"github.com/WilliamChao/KinoMotion/internal/velocity"
)

// MotionData holds the engine-provided per-pixel inputs for one frame.
// Slices are indexed y*width+x and must each hold width*height elements.
type MotionData struct {
	// VelocityX, VelocityY are screen-space displacements in pixels per
	// displayed frame. Positive X points right, positive Y points down.
	VelocityX, VelocityY []float32

	// Depth is the linearized scene depth in [0, 1], smaller is closer.
	Depth []float32
}

// FrameSource supplies the external per-frame inputs of the pipeline:
// motion vectors, depth, the display frame counter and the smoothed frame
// time. It is typically implemented by the host engine integration.
type FrameSource interface {
	// FrameInput returns the motion vectors and depth for the current
	// frame at the given resolution.
	FrameInput(width, height int) (MotionData, error)

	// FrameID returns a counter that increases once per displayed frame.
	// It gates temporal accumulation: repeated Render calls within one
	// displayed frame (e.g. multiple cameras) must return the same id.
	FrameID() uint64

	// DeltaTime returns the smoothed frame time in seconds.
	DeltaTime() float64
}

// Option configures a Pipeline during creation.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	workers int
}

// WithWorkers sets the number of worker goroutines used to dispatch the
// pipeline passes. Zero or negative selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *pipelineOptions) {
		o.workers = n
	}
}

// Pipeline renders per-pixel motion blur. It owns the persistent state
// that survives across frames: the temporal accumulation buffer, the
// scratch buffer pool and the worker pool.
//
// A Pipeline must not be invoked concurrently: the accumulation buffer is
// safe only under a single-invocation-at-a-time discipline. Distinct
// Pipeline instances are independent.
type Pipeline struct {
	source  FrameSource
	workers *parallel.Pool
	pool    *scratch.Pool

	// Temporal accumulation state. history is nil until the first
	// accumulating frame and is discarded on resolution changes or when
	// accumulation is disabled.
	history      *Pixmap
	historyFrame uint64

	stats  Stats
	closed bool
}

// NewPipeline creates a pipeline reading per-frame inputs from source.
func NewPipeline(source FrameSource, opts ...Option) *Pipeline {
	var o pipelineOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{
		source:  source,
		workers: parallel.NewPool(o.workers),
		pool:    scratch.NewPool(),
	}
}

// Reset drops the temporal accumulation history. The next accumulating
// frame starts a fresh trail.
func (p *Pipeline) Reset() {
	p.history = nil
	p.historyFrame = 0
}

// Stats returns the statistics collected during the most recent Render
// call with Config.CollectStats set.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Close releases the worker pool and all pooled scratch buffers.
// A closed pipeline returns ErrClosed from Render.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.workers.Close()
	p.pool.Drop()
	p.history = nil
}

// Render computes the motion blurred version of src and writes it into
// dst. The destination is written only after every pass has produced
// valid output: on error it is left unmodified.
//
// Configuration values outside their documented ranges are clamped, never
// rejected.
func (p *Pipeline) Render(src, dst *Pixmap, cfg Config) error {
	if p.closed {
		return ErrClosed
	}
	if src == nil || dst == nil {
		return ErrNilImage
	}
	w, h := src.Width(), src.Height()
	if w <= 0 || h <= 0 {
		return ErrEmptyFrame
	}
	if dst.Width() != w || dst.Height() != h {
		return ErrSizeMismatch
	}
	if p.source == nil {
		return ErrNoSource
	}

	cfg = cfg.normalized()

	// Blur radius in pixels, floored so it never becomes a degenerate
	// encode divisor. A vanishing radius clamps every velocity below the
	// reconstruction early-out, so output degrades to the source frame.
	maxRadius := cfg.MaxBlurRadius / 100 * float64(h)
	if maxRadius < 0.01 {
		maxRadius = 0.01
	}
	tileSize := tilemax.TileSize(maxRadius)
	loopCount := cfg.loopCount()

	md, err := p.source.FrameInput(w, h)
	if err != nil {
		return fmt.Errorf("motion: frame input: %w", err)
	}
	n := w * h
	if len(md.VelocityX) != n || len(md.VelocityY) != n || len(md.Depth) != n {
		return ErrFrameInput
	}

	logger := Logger()
	logger.Debug("motion: render",
		"width", w, "height", h,
		"maxRadius", maxRadius, "tileSize", tileSize, "loopCount", loopCount)

	var timings passTimings

	// Pass 1: pack velocity and depth into the bounded-precision field.
	scale := cfg.velocityScale(p.source.DeltaTime())
	velData, err := p.pool.Uint16(velocity.Len(w, h))
	if err != nil {
		return fmt.Errorf("motion: allocate velocity field: %w", err)
	}
	defer p.pool.PutUint16(velData)
	vel := &velocity.Field{W: w, H: h, Data: velData}

	start := time.Now()
	p.workers.ForEachRow(h, func(y0, y1 int) {
		vel.PackRows(y0, y1, md.VelocityX, md.VelocityY, md.Depth, scale, maxRadius)
	})
	timings.pack = time.Since(start)

	// Passes 2-4: tile max pyramid (4x, 8x, tileSize) and 3x3 expansion.
	w4, h4 := tilemax.CellCounts(w, h, 4)
	tile4, release4, err := p.newTileField(w4, h4)
	if err != nil {
		return fmt.Errorf("motion: allocate tile field: %w", err)
	}
	defer release4()

	w8, h8 := tilemax.CellCounts(w4, h4, 2)
	tile8, release8, err := p.newTileField(w8, h8)
	if err != nil {
		return fmt.Errorf("motion: allocate tile field: %w", err)
	}
	defer release8()

	wt, ht := tilemax.CellCounts(w, h, tileSize)
	tileT, releaseT, err := p.newTileField(wt, ht)
	if err != nil {
		return fmt.Errorf("motion: allocate tile field: %w", err)
	}
	defer releaseT()

	start = time.Now()
	p.workers.ForEachRow(h4, func(y0, y1 int) {
		tilemax.ReduceVelocityRows(tile4, vel, 4, y0, y1, maxRadius)
	})
	p.workers.ForEachRow(h8, func(y0, y1 int) {
		tilemax.ReduceRows(tile8, tile4, 2, y0, y1)
	})
	p.workers.ForEachRow(ht, func(y0, y1 int) {
		tilemax.ReduceCenteredRows(tileT, tile8, tileSize, y0, y1)
	})
	timings.reduce = time.Since(start)

	nmax, releaseN, err := p.newTileField(wt, ht)
	if err != nil {
		return fmt.Errorf("motion: allocate neighbor max field: %w", err)
	}
	defer releaseN()

	start = time.Now()
	p.workers.ForEachRow(ht, func(y0, y1 int) {
		tilemax.NeighborMaxRows(nmax, tileT, y0, y1)
	})
	timings.neighborMax = time.Since(start)

	// The destination stays untouched until a full frame is ready, so a
	// failed invocation never leaves partial output behind.
	out, err := p.pool.Bytes(n * 4)
	if err != nil {
		return fmt.Errorf("motion: allocate output buffer: %w", err)
	}
	defer p.pool.PutBytes(out)

	if cfg.Debug != DebugOff {
		p.renderDebug(out, src, vel, nmax, cfg.Debug, maxRadius)
		copy(dst.Data(), out)
		p.collectStats(cfg, vel, maxRadius, tileSize, loopCount, timings)
		return nil
	}

	// Pass 5: reconstruction.
	params := reconstruct.Params{
		TileSize:  tileSize,
		MaxRadius: maxRadius,
		LoopCount: loopCount,
		Frame:     p.source.FrameID(),
	}
	start = time.Now()
	p.workers.ForEachRow(h, func(y0, y1 int) {
		reconstruct.FilterRows(out, src.Data(), w, h, vel, nmax, params, y0, y1)
	})
	timings.reconstruct = time.Since(start)

	// Pass 6 (optional): temporal accumulation.
	start = time.Now()
	if cfg.AccumulationRatio > 0 {
		p.accumulate(out, src, cfg.AccumulationRatio)
		copy(dst.Data(), p.history.Data())
	} else {
		// Accumulation disabled: release the history buffer and output
		// the reconstruction directly, preserving the source alpha.
		p.Reset()
		srcData := src.Data()
		dstData := dst.Data()
		for i := 0; i < n*4; i += 4 {
			dstData[i+0] = out[i+0]
			dstData[i+1] = out[i+1]
			dstData[i+2] = out[i+2]
			dstData[i+3] = srcData[i+3]
		}
	}
	timings.accumulate = time.Since(start)

	p.collectStats(cfg, vel, maxRadius, tileSize, loopCount, timings)
	return nil
}

// accumulate blends the reconstructed frame into the history buffer. The
// blend advances at most once per display frame: repeated calls with the
// same frame id reuse the existing history unchanged.
func (p *Pipeline) accumulate(out []uint8, src *Pixmap, ratio float64) {
	w, h := src.Width(), src.Height()
	frame := p.source.FrameID()

	if p.history != nil && (p.history.Width() != w || p.history.Height() != h) {
		Logger().Warn("motion: accumulation buffer discarded",
			"oldWidth", p.history.Width(), "oldHeight", p.history.Height(),
			"width", w, "height", h)
		p.history = nil
	}

	srcData := src.Data()

	if p.history == nil {
		p.history = NewPixmap(w, h)
		hist := p.history.Data()
		for i := 0; i < len(hist); i += 4 {
			hist[i+0] = out[i+0]
			hist[i+1] = out[i+1]
			hist[i+2] = out[i+2]
			hist[i+3] = srcData[i+3]
		}
		p.historyFrame = frame
		return
	}

	if frame == p.historyFrame {
		// Same display frame (e.g. a second camera): do not re-blend.
		return
	}
	p.historyFrame = frame

	keep := ratio
	take := 1 - ratio
	hist := p.history.Data()
	for i := 0; i < len(hist); i += 4 {
		hist[i+0] = clampByte(keep*float64(hist[i+0]) + take*float64(out[i+0]))
		hist[i+1] = clampByte(keep*float64(hist[i+1]) + take*float64(out[i+1]))
		hist[i+2] = clampByte(keep*float64(hist[i+2]) + take*float64(out[i+2]))
		hist[i+3] = srcData[i+3]
	}
}

// newTileField allocates a pooled planar tile field and returns it with
// its release function.
func (p *Pipeline) newTileField(w, h int) (*tilemax.Field, func(), error) {
	vx, err := p.pool.Float32(tilemax.Len(w, h))
	if err != nil {
		return nil, nil, err
	}
	vy, err := p.pool.Float32(tilemax.Len(w, h))
	if err != nil {
		p.pool.PutFloat32(vx)
		return nil, nil, err
	}
	f := &tilemax.Field{W: w, H: h, VX: vx, VY: vy}
	release := func() {
		p.pool.PutFloat32(vx)
		p.pool.PutFloat32(vy)
	}
	return f, release, nil
}

// clampByte clamps a float64 to [0, 255] and rounds to uint8.
func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
