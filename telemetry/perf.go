package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phases of one host frame.
const (
	PhaseResize    = "resize"    // applying a debounced resize and reseeding
	PhaseFlow      = "flow"      // advancing particles
	PhaseRender    = "render"    // drawing to the surface
	PhaseTelemetry = "telemetry" // field stats and CSV output
)

var phaseOrder = []string{PhaseResize, PhaseFlow, PhaseRender, PhaseTelemetry}

// hostFrame is the cost of one host callback and whether it ran a frame.
type hostFrame struct {
	cost   time.Duration
	phases map[string]time.Duration
	ran    bool
}

// PerfCollector measures host frames over a rolling window and counts
// scheduler outcomes.
type PerfCollector struct {
	window []hostFrame
	next   int
	filled int

	cur        hostFrame
	start      time.Time
	phase      string
	phaseStart time.Time

	lastAccepted time.Time
	interval     time.Duration

	accepted int64
	skipped  int64
}

// NewPerfCollector creates a collector averaging over size host frames.
func NewPerfCollector(size int) *PerfCollector {
	if size < 1 {
		size = 60
	}
	return &PerfCollector{window: make([]hostFrame, size)}
}

// StartHostFrame begins timing a host callback.
func (p *PerfCollector) StartHostFrame() {
	p.start = time.Now()
	p.cur = hostFrame{phases: make(map[string]time.Duration, len(phaseOrder))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the next one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart = phase, now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndHostFrame stores the current host frame in the window.
func (p *PerfCollector) EndHostFrame() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""
	p.cur.cost = now.Sub(p.start)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
}

// RecordFrame counts an accepted frame and measures the interval since the
// previous one.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastAccepted.IsZero() {
		p.interval = now.Sub(p.lastAccepted)
	}
	p.lastAccepted = now
	p.accepted++
	p.cur.ran = true
}

// RecordSkip counts a host frame the scheduler throttled.
func (p *PerfCollector) RecordSkip() {
	p.skipped++
}

// PerfStats summarizes the window.
type PerfStats struct {
	HostFrames int

	// Cost of a host callback: every one, the slow tail, and those that ran a frame.
	AvgCost  time.Duration
	P95Cost  time.Duration
	WorkCost time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // of AvgCost

	FrameInterval time.Duration
	FPS           float64

	// Share of host frames in the window that were throttled.
	SkipRatio float64

	AcceptedFrames int64
	SkippedFrames  int64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		HostFrames:     p.filled,
		PhaseAvg:       make(map[string]time.Duration),
		PhasePct:       make(map[string]float64),
		FrameInterval:  p.interval,
		AcceptedFrames: p.accepted,
		SkippedFrames:  p.skipped,
	}
	if p.interval > 0 {
		s.FPS = float64(time.Second) / float64(p.interval)
	}
	if p.filled == 0 {
		return s
	}

	costs := make([]float64, 0, p.filled)
	var work []float64
	phaseSum := make(map[string]time.Duration)
	for _, hf := range p.window[:p.filled] {
		costs = append(costs, float64(hf.cost))
		if hf.ran {
			work = append(work, float64(hf.cost))
		}
		for phase, d := range hf.phases {
			phaseSum[phase] += d
		}
	}

	s.AvgCost = time.Duration(stat.Mean(costs, nil))
	sort.Float64s(costs)
	s.P95Cost = time.Duration(Percentile(costs, 0.95))
	if len(work) > 0 {
		s.WorkCost = time.Duration(stat.Mean(work, nil))
	}
	s.SkipRatio = 1 - float64(len(work))/float64(p.filled)

	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.filled)
		s.PhaseAvg[phase] = avg
		if s.AvgCost > 0 {
			s.PhasePct[phase] = float64(avg) / float64(s.AvgCost) * 100
		}
	}
	return s
}

// LogStats logs the summary via slog.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_cost_us", s.AvgCost.Microseconds(),
		"p95_cost_us", s.P95Cost.Microseconds(),
		"work_cost_us", s.WorkCost.Microseconds(),
		"skip_ratio", s.SkipRatio,
		"accepted", s.AcceptedFrames,
		"skipped", s.SkippedFrames,
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Frame        int64   `csv:"frame"`
	AvgCostUS    int64   `csv:"avg_cost_us"`
	P95CostUS    int64   `csv:"p95_cost_us"`
	WorkCostUS   int64   `csv:"work_cost_us"`
	FPS          float64 `csv:"fps"`
	SkipRatio    float64 `csv:"skip_ratio"`
	Accepted     int64   `csv:"accepted"`
	Skipped      int64   `csv:"skipped"`
	ResizePct    float64 `csv:"resize_pct"`
	FlowPct      float64 `csv:"flow_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the row of the given frame.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:        frame,
		AvgCostUS:    s.AvgCost.Microseconds(),
		P95CostUS:    s.P95Cost.Microseconds(),
		WorkCostUS:   s.WorkCost.Microseconds(),
		FPS:          s.FPS,
		SkipRatio:    s.SkipRatio,
		Accepted:     s.AcceptedFrames,
		Skipped:      s.SkippedFrames,
		ResizePct:    s.PhasePct[PhaseResize],
		FlowPct:      s.PhasePct[PhaseFlow],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
