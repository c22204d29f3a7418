package motion

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/WilliamChao/KinoMotion/internal/velocity"
)

// statBins is the number of blur-magnitude histogram bins.
const statBins = 16

// Stats describes one rendered frame: the resolved pipeline geometry,
// the distribution of blur magnitudes across the frame, and per-pass
// durations. Collected when Config.CollectStats is set.
type Stats struct {
	Width, Height int
	TileSize      int
	LoopCount     int
	MaxRadius     float64 // pixels

	// Blur magnitude distribution, in pixels.
	MeanMagnitude float64
	MaxMagnitude  float64
	P95Magnitude  float64

	// Histogram counts blur magnitudes into statBins equal-width bins
	// spanning [0, MaxRadius]; Dividers holds the bin edges.
	Histogram []float64
	Dividers  []float64

	// Per-pass durations.
	Pack        time.Duration
	Reduce      time.Duration
	NeighborMax time.Duration
	Reconstruct time.Duration
	Accumulate  time.Duration
}

type passTimings struct {
	pack        time.Duration
	reduce      time.Duration
	neighborMax time.Duration
	reconstruct time.Duration
	accumulate  time.Duration
}

// collectStats summarizes the packed velocity field and pass timings into
// p.stats. It is a no-op unless the configuration asks for statistics.
func (p *Pipeline) collectStats(cfg Config, vel *velocity.Field, maxRadius float64, tileSize, loopCount int, t passTimings) {
	if !cfg.CollectStats {
		return
	}

	mags := make([]float64, vel.W*vel.H)
	for y := 0; y < vel.H; y++ {
		for x := 0; x < vel.W; x++ {
			vx, vy, _ := vel.At(x, y, maxRadius)
			mags[y*vel.W+x] = math.Hypot(vx, vy)
		}
	}
	sort.Float64s(mags)

	// stat.Histogram requires sorted samples inside the divider span;
	// stretch the last edge slightly so magnitudes equal to the radius
	// land in the final bin.
	dividers := make([]float64, statBins+1)
	floats.Span(dividers, 0, maxRadius*1.0001)
	hist := stat.Histogram(nil, dividers, mags, nil)

	p.stats = Stats{
		Width:         vel.W,
		Height:        vel.H,
		TileSize:      tileSize,
		LoopCount:     loopCount,
		MaxRadius:     maxRadius,
		MeanMagnitude: stat.Mean(mags, nil),
		MaxMagnitude:  mags[len(mags)-1],
		P95Magnitude:  stat.Quantile(0.95, stat.Empirical, mags, nil),
		Histogram:     hist,
		Dividers:      dividers,
		Pack:          t.pack,
		Reduce:        t.reduce,
		NeighborMax:   t.neighborMax,
		Reconstruct:   t.reconstruct,
		Accumulate:    t.accumulate,
	}

	Logger().Debug("motion: frame stats",
		"meanMagnitude", p.stats.MeanMagnitude,
		"maxMagnitude", p.stats.MaxMagnitude,
		"p95Magnitude", p.stats.P95Magnitude,
		"reconstruct", t.reconstruct)
}
