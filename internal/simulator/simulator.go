package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/tables"
	"golang.org/x/sync/errgroup"
)

// Seat is one roster entry, rebuilt fresh for every trial
type Seat struct {
	Name     string
	Strategy string
	Bankroll int
}

// Config holds configuration for running simulations
type Config struct {
	Trials       int
	Rounds       int
	Seed         int64
	Workers      int           // 0 uses GOMAXPROCS
	Timeout      time.Duration // per trial, 0 for none
	Shoe         shoe.Config
	Roster       []Seat
	TableMinimum int
	Tables       *tables.Tables
	Logger       *log.Logger
}

// SeatResult aggregates one seat across every trial
type SeatResult struct {
	Seat  Seat
	Stats *statistics.Statistics
}

// Result is the outcome of a simulation run
type Result struct {
	RunID    string
	Trials   int
	Rounds   int
	Seed     int64
	Depleted int // trials in which every seat went broke
	Seats    []SeatResult
}

// Simulator runs independent blackjack sessions in parallel
type Simulator struct {
	config Config
	runID  string
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	runID := uuid.NewString()
	return &Simulator{
		config: config,
		runID:  runID,
		logger: config.Logger.WithPrefix("sim").With("run", runID[:8]),
	}
}

// Validate checks the configuration before any trial runs
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if len(c.Roster) == 0 {
		return errors.New("roster is empty")
	}
	if c.Tables == nil {
		return errors.New("decision tables are required")
	}
	for _, seat := range c.Roster {
		if seat.Strategy == "human" {
			return fmt.Errorf("seat %q: a human cannot sit in a simulation", seat.Name)
		}
		if !slices.Contains(strategy.Names, seat.Strategy) {
			return fmt.Errorf("seat %q: %w %q", seat.Name, strategy.ErrUnknown, seat.Strategy)
		}
		if seat.Bankroll <= 0 {
			return fmt.Errorf("seat %q: bankroll must be positive", seat.Name)
		}
	}
	return c.Shoe.Validate()
}

// Run executes every trial and aggregates the per-seat results
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("Simulation started",
		"trials", s.config.Trials,
		"rounds", s.config.Rounds,
		"seed", s.config.Seed,
		"workers", s.config.Workers)

	trials := make([][]statistics.TrialResult, s.config.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Trials {
		g.Go(func() error {
			results, err := s.runTrialWithTimeout(gctx, i)
			if err != nil {
				return err
			}
			trials[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:  s.runID,
		Trials: s.config.Trials,
		Rounds: s.config.Rounds,
		Seed:   s.config.Seed,
	}
	for _, seat := range s.config.Roster {
		result.Seats = append(result.Seats, SeatResult{Seat: seat, Stats: &statistics.Statistics{}})
	}
	for _, results := range trials {
		allBroke := true
		for j, r := range results {
			result.Seats[j].Stats.Add(r)
			allBroke = allBroke && r.Depleted
		}
		if allBroke {
			result.Depleted++
		}
	}

	for _, seat := range result.Seats {
		if err := seat.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed for %s: %w", seat.Seat.Name, err)
		}
	}

	s.logger.Info("Simulation finished", "depleted", result.Depleted)
	return result, nil
}

// runTrialWithTimeout runs a single trial, failing it if it outlives the timeout
func (s *Simulator) runTrialWithTimeout(ctx context.Context, index int) ([]statistics.TrialResult, error) {
	if s.config.Timeout <= 0 {
		return s.runTrial(ctx, index)
	}

	tctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	results, err := s.runTrial(tctx, index)
	if err == nil && tctx.Err() != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("trial %d timed out after %v (seed: %d)",
			index, s.config.Timeout, randutil.Derive(s.config.Seed, index))
	}
	return results, err
}

// runTrial plays one full session with its own rng, shoe and roster
func (s *Simulator) runTrial(ctx context.Context, index int) ([]statistics.TrialResult, error) {
	seed := randutil.Derive(s.config.Seed, index)
	rng := randutil.New(seed)
	logger := s.logger.With("trial", index)

	sh, err := shoe.New(s.config.Shoe, rng, logger)
	if err != nil {
		return nil, err
	}

	deps := strategy.Deps{
		Rng:          rng,
		Tables:       s.config.Tables,
		Count:        sh.Counter(),
		TableMinimum: s.config.TableMinimum,
		Logger:       logger,
	}
	players := make([]*game.Player, 0, len(s.config.Roster))
	for _, seat := range s.config.Roster {
		strat, err := strategy.New(seat.Strategy, deps)
		if err != nil {
			return nil, fmt.Errorf("seat %q: %w", seat.Name, err)
		}
		players = append(players, game.NewPlayer(seat.Name, strat, seat.Bankroll))
	}

	report, err := session.New(session.Config{Rounds: s.config.Rounds}, players, sh, nil, logger).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("trial %d (seed %d): %w", index, seed, err)
	}

	results := make([]statistics.TrialResult, len(report.Players))
	for i, p := range report.Players {
		results[i] = statistics.TrialResult{
			Seed:     seed,
			Initial:  p.Initial,
			Final:    p.Final,
			Peak:     p.Peak,
			Rounds:   p.Rounds,
			Depleted: p.Removed,
		}
	}
	logger.Debug("Trial finished", "rounds", report.Rounds, "reason", report.Reason)
	return results, nil
}

// PrintSummary prints a summary of simulation results
func PrintSummary(w io.Writer, result *Result) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS (run %s) ===\n", result.RunID[:8])
	fmt.Fprintf(w, "Trials: %d x %d rounds, seed %d\n", result.Trials, result.Rounds, result.Seed)
	if result.Depleted == result.Trials {
		fmt.Fprintf(w, "No strategy made it %d rounds!\n", result.Rounds)
	} else if result.Depleted > 0 {
		fmt.Fprintf(w, "Every seat went broke in %d trials\n", result.Depleted)
	}

	for _, seat := range result.Seats {
		st := seat.Stats
		low, high := st.ConfidenceInterval95()

		fmt.Fprintf(w, "\n=== %s (%s, $%d) ===\n", seat.Seat.Name, seat.Seat.Strategy, seat.Seat.Bankroll)
		fmt.Fprintf(w, "Mean growth: %.2f%% (median %.2f%%)\n", st.Mean(), st.Median())
		fmt.Fprintf(w, "Std Dev: %.2f%%, Std Error: %.2f%%\n", st.StdDev(), st.StdError())
		fmt.Fprintf(w, "95%% CI: [%.2f%%, %.2f%%]\n", low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.1f%%, P25=%.1f%%, P75=%.1f%%, P95=%.1f%%\n",
			st.Percentile(0.05), st.Percentile(0.25), st.Percentile(0.75), st.Percentile(0.95))
		fmt.Fprintf(w, "Mean final: $%.0f, mean peak: $%.0f, mean rounds survived: %.1f\n",
			st.MeanFinal(), st.MeanPeak(), st.MeanRounds())
		fmt.Fprintf(w, "Ruin rate: %.1f%% (%d of %d)\n", st.RuinRate()*100, st.Depleted, st.Trials)
		fmt.Fprintf(w, "Best trial seed %d (%+.1f%%), worst seed %d (%+.1f%%)\n",
			st.BestSeed, st.BestGrowth, st.WorstSeed, st.WorstGrowth)
	}
}

// SeatSummary is the exported view of one seat's aggregate
type SeatSummary struct {
	Name       string  `json:"name"`
	Strategy   string  `json:"strategy"`
	Bankroll   int     `json:"bankroll"`
	Trials     int     `json:"trials"`
	MeanGrowth float64 `json:"mean_growth_pct"`
	Median     float64 `json:"median_growth_pct"`
	StdDev     float64 `json:"std_dev_pct"`
	StdError   float64 `json:"std_error_pct"`
	CILow      float64 `json:"ci95_low_pct"`
	CIHigh     float64 `json:"ci95_high_pct"`
	RuinRate   float64 `json:"ruin_rate"`
	MeanFinal  float64 `json:"mean_final"`
	MeanPeak   float64 `json:"mean_peak"`
	MeanRounds float64 `json:"mean_rounds"`
	BestSeed   int64   `json:"best_seed"`
	WorstSeed  int64   `json:"worst_seed"`
}

// Summary is the exported view of a run, written by `sim --output`
type Summary struct {
	RunID    string        `json:"run_id"`
	Trials   int           `json:"trials"`
	Rounds   int           `json:"rounds"`
	Seed     int64         `json:"seed"`
	Depleted int           `json:"depleted"`
	Seats    []SeatSummary `json:"seats"`
}

// Summary flattens the per-seat statistics
func (r *Result) Summary() Summary {
	sum := Summary{
		RunID:    r.RunID,
		Trials:   r.Trials,
		Rounds:   r.Rounds,
		Seed:     r.Seed,
		Depleted: r.Depleted,
	}
	for _, seat := range r.Seats {
		st := seat.Stats
		low, high := st.ConfidenceInterval95()
		sum.Seats = append(sum.Seats, SeatSummary{
			Name:       seat.Seat.Name,
			Strategy:   seat.Seat.Strategy,
			Bankroll:   seat.Seat.Bankroll,
			Trials:     st.Trials,
			MeanGrowth: st.Mean(),
			Median:     st.Median(),
			StdDev:     st.StdDev(),
			StdError:   st.StdError(),
			CILow:      low,
			CIHigh:     high,
			RuinRate:   st.RuinRate(),
			MeanFinal:  st.MeanFinal(),
			MeanPeak:   st.MeanPeak(),
			MeanRounds: st.MeanRounds(),
			BestSeed:   st.BestSeed,
			WorstSeed:  st.WorstSeed,
		})
	}
	return sum
}
