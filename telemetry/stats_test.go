package telemetry

import (
	"math"
	"math/rand"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFieldStats(t *testing.T) {
	radii := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	depths := []float64{-1, 1, -1, 1, -1, 1, -1, 1, -1, 1}
	fs := ComputeFieldStats(radii, depths)

	if fs.Particles != 10 || fs.NonFinite != 0 {
		t.Errorf("counts = %d/%d, want 10/0", fs.Particles, fs.NonFinite)
	}
	if math.Abs(fs.RadiusMean-5.5) > 1e-9 {
		t.Errorf("radius mean = %v, want 5.5", fs.RadiusMean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(fs.RadiusStd-3.0277) > 0.001 {
		t.Errorf("radius std = %v, want ~3.0277", fs.RadiusStd)
	}
	if fs.RadiusMax != 10 {
		t.Errorf("radius max = %v, want 10", fs.RadiusMax)
	}
	if math.Abs(fs.RadiusP90-9.1) > 0.001 {
		t.Errorf("radius p90 = %v, want 9.1", fs.RadiusP90)
	}
	if math.Abs(fs.DepthMean) > 1e-12 {
		t.Errorf("depth mean = %v, want 0", fs.DepthMean)
	}
}

func TestComputeFieldStatsNonFinite(t *testing.T) {
	fs := ComputeFieldStats([]float64{1, math.NaN(), math.Inf(1), 3}, []float64{0})
	if fs.NonFinite != 2 {
		t.Errorf("non-finite = %d, want 2", fs.NonFinite)
	}
	if fs.RadiusMean != 2 {
		t.Errorf("radius mean = %v, want 2", fs.RadiusMean)
	}
	if fs.DepthStd != 0 {
		t.Errorf("single depth sample std = %v, want 0", fs.DepthStd)
	}
}

func TestComputeFieldStatsEmpty(t *testing.T) {
	fs := ComputeFieldStats(nil, nil)
	if fs.Particles != 0 || fs.RadiusMean != 0 || fs.RadiusMax != 0 {
		t.Errorf("expected zero stats, got %+v", fs)
	}
}

func TestRadialKS(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sample := func(n int, scale float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Sqrt(rng.Float64()) * scale
		}
		return out
	}

	same := RadialKS(sample(2000, 100), sample(2000, 100))
	if same > 0.07 {
		t.Errorf("same law KS = %v, want < 0.07", same)
	}
	different := RadialKS(sample(2000, 100), sample(2000, 60))
	if different < 0.3 {
		t.Errorf("different law KS = %v, want > 0.3", different)
	}
	if RadialKS(nil, sample(10, 1)) != 1 {
		t.Error("empty sample should give the maximum distance")
	}
}
