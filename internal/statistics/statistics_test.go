package statistics

import (
	"math"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.RuinRate() != 0 {
		t.Errorf("Expected ruin rate of 0 for empty stats, got %f", stats.RuinRate())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected empty stats to fail validation")
	}
}

func TestStatistics_SingleTrial(t *testing.T) {
	stats := &Statistics{}
	stats.Add(TrialResult{Seed: 12345, Initial: 1000, Final: 1250, Peak: 1400, Rounds: 100})

	if stats.Trials != 1 {
		t.Errorf("Expected 1 trial, got %d", stats.Trials)
	}
	if stats.Mean() != 25 {
		t.Errorf("Expected mean growth of 25%%, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for single trial, got %f", stats.Variance())
	}
	if stats.BestSeed != 12345 || stats.WorstSeed != 12345 {
		t.Errorf("Expected best and worst seed 12345, got %d and %d", stats.BestSeed, stats.WorstSeed)
	}
	if stats.MeanPeak() != 1400 {
		t.Errorf("Expected mean peak 1400, got %f", stats.MeanPeak())
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_MultipleTrials(t *testing.T) {
	stats := &Statistics{}

	results := []TrialResult{
		{Seed: 1, Initial: 100, Final: 50, Peak: 120, Rounds: 10},
		{Seed: 2, Initial: 100, Final: 0, Peak: 100, Rounds: 4, Depleted: true},
		{Seed: 3, Initial: 100, Final: 200, Peak: 210, Rounds: 10},
		{Seed: 4, Initial: 100, Final: 110, Peak: 130, Rounds: 10},
		{Seed: 5, Initial: 100, Final: 120, Peak: 140, Rounds: 10},
	}
	for _, r := range results {
		stats.Add(r)
	}

	// growth: -50, -100, 100, 10, 20
	expectedMean := (-50.0 - 100 + 100 + 10 + 20) / 5
	if math.Abs(stats.Mean()-expectedMean) > 1e-9 {
		t.Errorf("Expected mean %f, got %f", expectedMean, stats.Mean())
	}

	var sumSq float64
	for _, g := range []float64{-50, -100, 100, 10, 20} {
		sumSq += (g - expectedMean) * (g - expectedMean)
	}
	expectedVar := sumSq / 4
	if math.Abs(stats.Variance()-expectedVar) > 1e-9 {
		t.Errorf("Expected variance %f, got %f", expectedVar, stats.Variance())
	}
	if math.Abs(stats.StdError()-math.Sqrt(expectedVar)/math.Sqrt(5)) > 1e-9 {
		t.Errorf("Unexpected standard error %f", stats.StdError())
	}

	if stats.Median() != 10 {
		t.Errorf("Expected median 10, got %f", stats.Median())
	}
	if stats.Percentile(0) != -100 || stats.Percentile(1) != 100 {
		t.Errorf("Expected extremes -100 and 100, got %f and %f", stats.Percentile(0), stats.Percentile(1))
	}

	if stats.BestSeed != 3 {
		t.Errorf("Expected best seed 3, got %d", stats.BestSeed)
	}
	if stats.WorstSeed != 2 {
		t.Errorf("Expected worst seed 2, got %d", stats.WorstSeed)
	}
	if stats.RuinRate() != 0.2 {
		t.Errorf("Expected ruin rate 0.2, got %f", stats.RuinRate())
	}
	if stats.MeanRounds() != 8.8 {
		t.Errorf("Expected mean rounds 8.8, got %f", stats.MeanRounds())
	}

	lo, hi := stats.ConfidenceInterval95()
	if lo >= stats.Mean() || hi <= stats.Mean() {
		t.Errorf("Confidence interval [%f, %f] does not contain mean %f", lo, hi, stats.Mean())
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{}
	a.Add(TrialResult{Seed: 1, Initial: 100, Final: 150, Peak: 150})
	b := &Statistics{}
	b.Add(TrialResult{Seed: 2, Initial: 100, Final: 0, Peak: 100, Depleted: true})
	b.Add(TrialResult{Seed: 3, Initial: 100, Final: 300, Peak: 300})

	a.Merge(b)
	a.Merge(&Statistics{})

	if a.Trials != 3 || a.Depleted != 1 {
		t.Errorf("Expected 3 trials with 1 depleted, got %d and %d", a.Trials, a.Depleted)
	}
	if a.BestSeed != 3 || a.WorstSeed != 2 {
		t.Errorf("Expected best seed 3 and worst seed 2, got %d and %d", a.BestSeed, a.WorstSeed)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	empty := &Statistics{}
	empty.Merge(b)
	if empty.BestSeed != 3 || empty.Trials != 2 {
		t.Errorf("Merging into empty stats lost data: %+v", empty)
	}
}

func TestStatistics_ValidateMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(TrialResult{Initial: 100, Final: 100, Peak: 100})
	stats.Peaks = nil

	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for missing peaks")
	}
}

func TestTrialResult_GrowthWithoutBankroll(t *testing.T) {
	if g := (TrialResult{}).Growth(); g != 0 {
		t.Errorf("Expected 0 growth without an initial bankroll, got %f", g)
	}
}
