// Command motiondemo demonstrates the motion blur pipeline on a synthetic
// animated scene and optionally writes an HTML report with pass timings
// and the blur magnitude histogram.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	motion "github.com/WilliamChao/KinoMotion"
)

func main() {
	var (
		width   = flag.Int("width", 960, "frame width")
		height  = flag.Int("height", 540, "frame height")
		frames  = flag.Int("frames", 8, "number of frames to render")
		quality = flag.String("quality", "medium", "sample quality: low, medium, high")
		radius  = flag.Float64("radius", 5, "max blur radius, percent of frame height")
		accum   = flag.Float64("accum", 0, "temporal accumulation ratio [0, 0.99)")
		debug   = flag.String("debug", "", "debug view: velocity, neighbormax, depth")
		output  = flag.String("output", "motion.png", "output file")
		report  = flag.String("report", "", "write an HTML report (pass timings + histogram)")
	)
	flag.Parse()

	cfg := motion.Config{
		Exposure:          motion.ExposureConstant,
		ShutterSpeed:      48,
		Quality:           parseQuality(*quality),
		MaxBlurRadius:     *radius,
		AccumulationRatio: *accum,
		Debug:             parseDebug(*debug),
		CollectStats:      *report != "",
	}

	scene := newScene(*width, *height)
	p := motion.NewPipeline(scene)
	defer p.Close()

	out := motion.NewPixmap(*width, *height)
	for i := 0; i < *frames; i++ {
		scene.advance()
		if err := p.Render(scene.frame, out, cfg); err != nil {
			log.Fatalf("Render frame %d: %v", i, err)
		}
	}

	if err := out.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Rendered %d frames to %s (%dx%d)\n", *frames, *output, *width, *height)

	if *report != "" {
		if err := writeReport(*report, p.Stats()); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Report written to %s\n", *report)
	}
}

func parseQuality(s string) motion.SampleQuality {
	switch s {
	case "low":
		return motion.QualityLow
	case "high":
		return motion.QualityHigh
	default:
		return motion.QualityMedium
	}
}

func parseDebug(s string) motion.DebugMode {
	switch s {
	case "velocity":
		return motion.DebugVelocity
	case "neighbormax":
		return motion.DebugNeighborMax
	case "depth":
		return motion.DebugDepth
	default:
		return motion.DebugOff
	}
}

// writeReport renders the last frame's statistics as an HTML page with a
// pass-timing bar chart and a blur magnitude histogram.
func writeReport(path string, s motion.Stats) error {
	timing := charts.NewBar()
	timing.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Motion blur pass timings",
			Subtitle: fmt.Sprintf("%dx%d tileSize=%d loopCount=%d", s.Width, s.Height, s.TileSize, s.LoopCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	timing.SetXAxis([]string{"pack", "reduce", "neighbormax", "reconstruct", "accumulate"}).
		AddSeries("ms", []opts.BarData{
			{Value: s.Pack.Seconds() * 1000},
			{Value: s.Reduce.Seconds() * 1000},
			{Value: s.NeighborMax.Seconds() * 1000},
			{Value: s.Reconstruct.Seconds() * 1000},
			{Value: s.Accumulate.Seconds() * 1000},
		})

	histLabels := make([]string, len(s.Histogram))
	histData := make([]opts.BarData, len(s.Histogram))
	for i, count := range s.Histogram {
		histLabels[i] = fmt.Sprintf("%.1f", s.Dividers[i])
		histData[i] = opts.BarData{Value: count}
	}
	hist := charts.NewBar()
	hist.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Blur magnitude histogram",
			Subtitle: fmt.Sprintf("mean=%.2fpx p95=%.2fpx max=%.2fpx", s.MeanMagnitude, s.P95Magnitude, s.MaxMagnitude),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	hist.SetXAxis(histLabels).AddSeries("pixels", histData)

	page := components.NewPage()
	page.AddCharts(timing, hist)

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return page.Render(f)
}
