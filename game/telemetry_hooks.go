package game

import (
	"log/slog"

	"github.com/zeal8/bloom/telemetry"
)

// flushTelemetry records field and perf stats for the window that just ended.
// A write failure disables further output for this instance.
func (g *Game) flushTelemetry() {
	perfStats := g.perf.Stats()

	var fieldStats telemetry.FieldStats
	radii, depths, hasField := g.Sample()
	if hasField {
		fieldStats = telemetry.ComputeFieldStats(radii, depths)
	}
	fieldStats.Frame = g.frames
	fieldStats.SimTime = g.clock.Now()
	fieldStats.Preset = g.name
	if !hasField {
		fieldStats.Particles = g.scene.count()
	}

	if g.logStats {
		fieldStats.LogStats()
		perfStats.LogStats()
	}

	if g.output == nil {
		return
	}
	if err := g.output.WriteField(fieldStats); err != nil {
		g.disableOutput("field", err)
		return
	}
	if err := g.output.WritePerf(perfStats, g.frames); err != nil {
		g.disableOutput("perf", err)
	}
}

func (g *Game) disableOutput(what string, err error) {
	slog.Error("failed to write telemetry, disabling output", "output", what, "error", err)
	if cerr := g.output.Close(); cerr != nil {
		slog.Warn("closing output", "error", cerr)
	}
	g.output = nil
}
