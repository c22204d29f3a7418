package motion

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "zero value gets defaults",
			in:   Config{},
			want: Config{
				ShutterSpeed:  48,
				ShutterAngle:  180,
				MaxBlurRadius: 5,
				CustomSamples: minCustomSamples,
			},
		},
		{
			name: "radius clamps high",
			in:   Config{MaxBlurRadius: 50},
			want: Config{
				ShutterSpeed:  48,
				ShutterAngle:  180,
				MaxBlurRadius: 10,
				CustomSamples: minCustomSamples,
			},
		},
		{
			name: "radius clamps low",
			in:   Config{MaxBlurRadius: 0.1},
			want: Config{
				ShutterSpeed:  48,
				ShutterAngle:  180,
				MaxBlurRadius: 0.5,
				CustomSamples: minCustomSamples,
			},
		},
		{
			name: "accumulation ratio clamps below one",
			in:   Config{AccumulationRatio: 1.5},
			want: Config{
				ShutterSpeed:      48,
				ShutterAngle:      180,
				MaxBlurRadius:     5,
				AccumulationRatio: 0.99,
				CustomSamples:     minCustomSamples,
			},
		},
		{
			name: "negative accumulation ratio clamps to zero",
			in:   Config{AccumulationRatio: -0.2},
			want: Config{
				ShutterSpeed:  48,
				ShutterAngle:  180,
				MaxBlurRadius: 5,
				CustomSamples: minCustomSamples,
			},
		},
		{
			name: "custom samples clamp",
			in:   Config{Quality: QualityCustom, CustomSamples: 1000},
			want: Config{
				ShutterSpeed:  48,
				ShutterAngle:  180,
				MaxBlurRadius: 5,
				Quality:       QualityCustom,
				CustomSamples: maxCustomSamples,
			},
		},
		{
			name: "unknown enums fall back",
			in:   Config{Quality: SampleQuality(99), Debug: DebugMode(-3)},
			want: Config{
				ShutterSpeed:  48,
				ShutterAngle:  180,
				MaxBlurRadius: 5,
				CustomSamples: minCustomSamples,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("normalized() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigLoopCount(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"low", Config{Quality: QualityLow}, 2},
		{"medium", Config{Quality: QualityMedium}, 5},
		{"high", Config{Quality: QualityHigh}, 10},
		{"custom 8", Config{Quality: QualityCustom, CustomSamples: 8}, 4},
		{"custom min", Config{Quality: QualityCustom, CustomSamples: 1}, 1},
		{"custom max", Config{Quality: QualityCustom, CustomSamples: 500}, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.normalized().loopCount()
			if got != tt.want {
				t.Errorf("loopCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigLoopCountStableAcrossFrames(t *testing.T) {
	cfg := Config{Quality: QualityHigh}.normalized()
	first := cfg.loopCount()
	for i := 0; i < 10; i++ {
		if got := cfg.loopCount(); got != first {
			t.Fatalf("loopCount changed between frames: %d != %d", got, first)
		}
	}
}

func TestConfigVelocityScale(t *testing.T) {
	constant := Config{Exposure: ExposureConstant, ShutterSpeed: 48}.normalized()
	if got, want := constant.velocityScale(1.0/60), 60.0/48; math.Abs(got-want) > 1e-12 {
		t.Errorf("constant velocityScale = %v, want %v", got, want)
	}
	if got := constant.velocityScale(0); got != 0 {
		t.Errorf("constant velocityScale with zero delta = %v, want 0", got)
	}

	delta := Config{Exposure: ExposureDeltaTime, ShutterAngle: 180}.normalized()
	if got := delta.velocityScale(1.0 / 60); got != 0.5 {
		t.Errorf("delta velocityScale = %v, want 0.5", got)
	}

	full := Config{Exposure: ExposureDeltaTime, ShutterAngle: 720}.normalized()
	if got := full.velocityScale(1.0 / 60); got != 1 {
		t.Errorf("clamped delta velocityScale = %v, want 1", got)
	}
}
