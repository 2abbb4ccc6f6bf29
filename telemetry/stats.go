package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the shape of a particle field at one frame.
type FieldStats struct {
	Frame     int64   `csv:"frame"`
	SimTime   float64 `csv:"sim_time"`
	Preset    string  `csv:"preset"`
	Particles int     `csv:"particles"`

	// Distance from the field center in pixels
	RadiusMean float64 `csv:"radius_mean"`
	RadiusStd  float64 `csv:"radius_std"`
	RadiusP10  float64 `csv:"radius_p10"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
	RadiusMax  float64 `csv:"radius_max"`

	// Depth
	DepthMean float64 `csv:"depth_mean"`
	DepthStd  float64 `csv:"depth_std"`

	// Particles with NaN or infinite coordinates
	NonFinite int `csv:"non_finite"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFieldStats summarizes radii and depths. Non-finite samples are
// counted and left out of the moments.
func ComputeFieldStats(radii, depths []float64) FieldStats {
	fs := FieldStats{Particles: len(radii)}

	r := make([]float64, 0, len(radii))
	for _, v := range radii {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fs.NonFinite++
			continue
		}
		r = append(r, v)
	}
	if len(r) > 0 {
		sort.Float64s(r)
		fs.RadiusMean, fs.RadiusStd = meanStd(r)
		fs.RadiusP10 = Percentile(r, 0.10)
		fs.RadiusP50 = Percentile(r, 0.50)
		fs.RadiusP90 = Percentile(r, 0.90)
		fs.RadiusMax = r[len(r)-1]
	}

	d := make([]float64, 0, len(depths))
	for _, v := range depths {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			d = append(d, v)
		}
	}
	if len(d) > 0 {
		fs.DepthMean, fs.DepthStd = meanStd(d)
	}
	return fs
}

func meanStd(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// RadialKS returns the two-sample Kolmogorov-Smirnov statistic between
// two radius samples: the largest gap between their empirical CDFs.
func RadialKS(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1
	}
	x := append([]float64(nil), a...)
	y := append([]float64(nil), b...)
	sort.Float64s(x)
	sort.Float64s(y)
	return stat.KolmogorovSmirnov(x, nil, y, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.Frame),
		slog.Float64("sim_time", s.SimTime),
		slog.String("preset", s.Preset),
		slog.Int("particles", s.Particles),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_std", s.RadiusStd),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_max", s.RadiusMax),
		slog.Float64("depth_mean", s.DepthMean),
		slog.Int("non_finite", s.NonFinite),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("field",
		"frame", s.Frame,
		"sim_time", s.SimTime,
		"preset", s.Preset,
		"particles", s.Particles,
		"radius_mean", s.RadiusMean,
		"radius_std", s.RadiusStd,
		"radius_p90", s.RadiusP90,
		"radius_max", s.RadiusMax,
		"non_finite", s.NonFinite,
	)
}
