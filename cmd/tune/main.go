// Package main searches flower flow parameters with CMA-ES for fields that
// keep their shape, stay on the surface and keep moving.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/zeal8/bloom/config"
)

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval                int     `csv:"eval"`
	Fitness             float64 `csv:"fitness"`
	KS                  float64 `csv:"ks"`
	Overflow            float64 `csv:"overflow"`
	Stillness           float64 `csv:"stillness"`
	PullStrength        float64 `csv:"pull_strength"`
	FlowAmplitude       float64 `csv:"flow_amplitude"`
	ContainmentExponent float64 `csv:"containment_exponent"`
	SpawnFlowAmplitude  float64 `csv:"spawn_flow_amplitude"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	presetName := flag.String("preset", "flower", "Flower preset to tune")
	particles := flag.Int("particles", 3000, "Particles per run")
	frames := flag.Int("frames", 2000, "Frames per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	base, err := cfg.Preset(*presetName)
	if err != nil {
		log.Fatal(err)
	}
	if base.Kind != config.KindFlower {
		log.Fatalf("preset %q is a %s preset, only flower presets can be tuned", *presetName, base.Kind)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, base, cfg.Surface.UnitRatio, *particles, *frames, evalSeeds)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromPreset(base))

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds already run in parallel
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			clamped := params.Clamp(raw)
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			res := evaluator.LastResult()
			rec := []evalRecord{{
				Eval:                evalCount,
				Fitness:             fitness,
				KS:                  res.ks,
				Overflow:            res.overflow,
				Stillness:           res.stillness,
				PullStrength:        clamped[0],
				FlowAmplitude:       clamped[1],
				ContainmentExponent: clamped[2],
				SpawnFlowAmplitude:  clamped[3],
			}}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			} else {
				err = gocsv.Marshal(rec, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: fitness=%.4f ks=%.4f overflow=%.4f still=%.3f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, res.ks, res.overflow, res.stillness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning of %q with %d parameters, population=%d, max_evals=%d\n",
		*presetName, dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, particles: %d, frames: %d\n", *seeds, *particles, *frames)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	tuned := base
	params.ApplyToPreset(&tuned, bestParams)
	outName := *presetName + "-tuned"
	presetPath := filepath.Join(*outputDir, "tuned_preset.yaml")
	if err := config.WritePresetYAML(presetPath, outName, tuned); err != nil {
		log.Printf("failed to write tuned preset: %v", err)
	} else {
		fmt.Printf("\nTuned preset %q saved to: %s (load with -config)\n", outName, presetPath)
	}
}
