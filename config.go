package motion

// ExposureMode selects how blur strength derives from shutter timing.
type ExposureMode int

const (
	// ExposureConstant derives blur length from a fixed shutter speed,
	// independent of how long the rendered frame actually took.
	ExposureConstant ExposureMode = iota

	// ExposureDeltaTime derives blur length from the rendered frame's
	// elapsed time, scaled by the shutter angle.
	ExposureDeltaTime
)

// SampleQuality selects how many reconstruction samples are taken per pixel.
type SampleQuality int

const (
	// QualityLow uses 4 samples per pixel.
	QualityLow SampleQuality = iota

	// QualityMedium uses 10 samples per pixel.
	QualityMedium

	// QualityHigh uses 20 samples per pixel.
	QualityHigh

	// QualityCustom uses Config.CustomSamples samples per pixel.
	QualityCustom
)

// DebugMode selects an intermediate-field visualization instead of the
// blurred output. Debug modes are mutually exclusive and bypass both
// reconstruction sampling and temporal accumulation.
type DebugMode int

const (
	// DebugOff renders the blurred frame normally.
	DebugOff DebugMode = iota

	// DebugVelocity visualizes the packed per-pixel velocity field.
	DebugVelocity

	// DebugNeighborMax visualizes the per-tile dominant velocity field.
	DebugNeighborMax

	// DebugDepth visualizes the linearized depth channel.
	DebugDepth
)

// Clamp ranges for designer-facing parameters. Out-of-range values are
// silently clamped rather than rejected.
const (
	minBlurRadiusPct = 0.5
	maxBlurRadiusPct = 10.0
	maxAccumRatio    = 0.99
	minCustomSamples = 2
	maxCustomSamples = 128
)

// Config holds the per-invocation parameters of the pipeline.
// The zero value renders with a 1/48 shutter at low quality and a 5%%
// blur radius, without accumulation.
type Config struct {
	// Exposure selects constant-shutter or frame-delta exposure.
	Exposure ExposureMode

	// ShutterSpeed is the shutter speed denominator (e.g. 48 for 1/48 s).
	// Used in ExposureConstant mode.
	ShutterSpeed float64

	// ShutterAngle is the shutter angle in degrees, used in
	// ExposureDeltaTime mode. 360 exposes the full frame interval.
	ShutterAngle float64

	// Quality selects the reconstruction sample count tier.
	Quality SampleQuality

	// CustomSamples is the raw per-pixel sample count for QualityCustom,
	// clamped to [2, 128].
	CustomSamples int

	// MaxBlurRadius is the maximum blur length as a percentage of the
	// frame height, clamped to [0.5, 10].
	MaxBlurRadius float64

	// AccumulationRatio controls temporal accumulation: each advancing
	// frame keeps ratio of the history buffer and takes (1-ratio) of the
	// new reconstruction. Clamped to [0, 0.99]; 0 disables accumulation.
	AccumulationRatio float64

	// Debug selects an intermediate-field visualization.
	Debug DebugMode

	// CollectStats enables per-frame velocity statistics and pass
	// timings, retrievable through Pipeline.Stats.
	CollectStats bool
}

// normalized returns a copy of the configuration with every parameter
// clamped into its documented range. Configuration is never rejected.
func (c Config) normalized() Config {
	if c.ShutterSpeed <= 0 {
		c.ShutterSpeed = 48
	}
	c.ShutterAngle = clampF(c.ShutterAngle, 0, 360)
	if c.ShutterAngle == 0 {
		c.ShutterAngle = 180
	}
	if c.MaxBlurRadius == 0 {
		c.MaxBlurRadius = 5
	}
	c.MaxBlurRadius = clampF(c.MaxBlurRadius, minBlurRadiusPct, maxBlurRadiusPct)
	c.AccumulationRatio = clampF(c.AccumulationRatio, 0, maxAccumRatio)
	if c.CustomSamples < minCustomSamples {
		c.CustomSamples = minCustomSamples
	} else if c.CustomSamples > maxCustomSamples {
		c.CustomSamples = maxCustomSamples
	}
	if c.Quality < QualityLow || c.Quality > QualityCustom {
		c.Quality = QualityLow
	}
	if c.Debug < DebugOff || c.Debug > DebugDepth {
		c.Debug = DebugOff
	}
	return c
}

// loopCount returns half the per-pixel sample count. The reconstruction
// pass walks 2*loopCount samples, alternating between its two directions.
// Must be called on a normalized configuration.
func (c Config) loopCount() int {
	switch c.Quality {
	case QualityMedium:
		return 5
	case QualityHigh:
		return 10
	case QualityCustom:
		n := c.CustomSamples / 2
		if n < 1 {
			n = 1
		} else if n > 64 {
			n = 64
		}
		return n
	default:
		return 2
	}
}

// velocityScale converts engine motion vectors into exposure-scaled blur
// vectors for the given frame delta time.
func (c Config) velocityScale(deltaTime float64) float64 {
	if c.Exposure == ExposureDeltaTime {
		return clampF(c.ShutterAngle/360, 0, 1)
	}
	if deltaTime <= 0 {
		return 0
	}
	return 1 / (c.ShutterSpeed * deltaTime)
}

// clampF clamps v to [lo, hi].
func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
