package statistics

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// TrialResult is one player's outcome over a single simulated session
type TrialResult struct {
	Seed     int64 // seed of the trial (for replay)
	Initial  int   // starting bankroll
	Final    int   // bankroll when the session ended
	Peak     int   // highest bankroll seen after any round
	Rounds   int   // rounds the player was dealt into
	Depleted bool  // removed with an empty bankroll
}

// Growth returns the change from the initial bankroll in percent
func (r TrialResult) Growth() float64 {
	if r.Initial == 0 {
		return 0
	}
	return float64(r.Final-r.Initial) / float64(r.Initial) * 100
}

// Statistics aggregates trial results for one player seat
type Statistics struct {
	Trials   int
	Depleted int

	Growth []float64 // percent change per trial
	Finals []float64
	Peaks  []float64
	Rounds []float64

	BestSeed    int64
	BestGrowth  float64
	WorstSeed   int64
	WorstGrowth float64
}

// Add incorporates a trial result
func (s *Statistics) Add(r TrialResult) {
	g := r.Growth()
	if s.Trials == 0 || g > s.BestGrowth {
		s.BestGrowth, s.BestSeed = g, r.Seed
	}
	if s.Trials == 0 || g < s.WorstGrowth {
		s.WorstGrowth, s.WorstSeed = g, r.Seed
	}

	s.Trials++
	if r.Depleted {
		s.Depleted++
	}
	s.Growth = append(s.Growth, g)
	s.Finals = append(s.Finals, float64(r.Final))
	s.Peaks = append(s.Peaks, float64(r.Peak))
	s.Rounds = append(s.Rounds, float64(r.Rounds))
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	if other.Trials == 0 {
		return
	}
	if s.Trials == 0 || other.BestGrowth > s.BestGrowth {
		s.BestGrowth, s.BestSeed = other.BestGrowth, other.BestSeed
	}
	if s.Trials == 0 || other.WorstGrowth < s.WorstGrowth {
		s.WorstGrowth, s.WorstSeed = other.WorstGrowth, other.WorstSeed
	}
	s.Trials += other.Trials
	s.Depleted += other.Depleted
	s.Growth = append(s.Growth, other.Growth...)
	s.Finals = append(s.Finals, other.Finals...)
	s.Peaks = append(s.Peaks, other.Peaks...)
	s.Rounds = append(s.Rounds, other.Rounds...)
}

// Mean returns the mean bankroll growth in percent
func (s *Statistics) Mean() float64 {
	if s.Trials == 0 {
		return 0
	}
	return stat.Mean(s.Growth, nil)
}

// Variance returns the sample variance of the growth
func (s *Statistics) Variance() float64 {
	if s.Trials < 2 {
		return 0
	}
	return stat.Variance(s.Growth, nil)
}

// StdDev returns the sample standard deviation of the growth
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean growth
func (s *Statistics) StdError() float64 {
	if s.Trials == 0 {
		return 0
	}
	return stat.StdErr(s.StdDev(), float64(s.Trials))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean growth
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median growth
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the growth at the given quantile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	return quantile(s.Growth, p)
}

// MeanFinal returns the mean final bankroll
func (s *Statistics) MeanFinal() float64 {
	if s.Trials == 0 {
		return 0
	}
	return stat.Mean(s.Finals, nil)
}

// MeanPeak returns the mean peak bankroll
func (s *Statistics) MeanPeak() float64 {
	if s.Trials == 0 {
		return 0
	}
	return stat.Mean(s.Peaks, nil)
}

// MeanRounds returns the mean number of rounds survived
func (s *Statistics) MeanRounds() float64 {
	if s.Trials == 0 {
		return 0
	}
	return stat.Mean(s.Rounds, nil)
}

// RuinRate returns the share of trials that ended with an empty bankroll
func (s *Statistics) RuinRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Depleted) / float64(s.Trials)
}

// Validate checks that the sample slices agree with the counters
func (s *Statistics) Validate() error {
	if s.Trials <= 0 {
		return fmt.Errorf("invalid trial count: %d", s.Trials)
	}
	for name, values := range map[string][]float64{
		"growth": s.Growth,
		"finals": s.Finals,
		"peaks":  s.Peaks,
		"rounds": s.Rounds,
	} {
		if len(values) != s.Trials {
			return fmt.Errorf("%s length (%d) does not match trial count (%d)", name, len(values), s.Trials)
		}
	}
	if s.Depleted > s.Trials {
		return fmt.Errorf("depleted trials (%d) exceed total trials (%d)", s.Depleted, s.Trials)
	}
	for i := range s.Finals {
		if s.Peaks[i] < 0 || s.Finals[i] < 0 {
			return fmt.Errorf("trial %d has a negative bankroll", i)
		}
	}
	return nil
}

// quantile returns the smallest sample at or above the p quantile
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
