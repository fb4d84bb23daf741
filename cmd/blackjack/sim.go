package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/strategy"
)

type SimCmd struct {
	Trials  int           `default:"100" help:"Number of independent sessions"`
	Rounds  int           `default:"1000" help:"Rounds per session"`
	Workers int           `default:"0" help:"Parallel trials (0 for GOMAXPROCS)"`
	Timeout time.Duration `default:"0" help:"Per trial timeout (0 for none)"`
	Output  string        `short:"o" type:"path" help:"Also write a JSON summary to this file"`
	Verbose bool          `short:"V" help:"Play a single session and print every round"`
}

func (c *SimCmd) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Rounds < 1 || c.Rounds > maxRounds {
		return fmt.Errorf("rounds must be between 1 and %d, got %d", maxRounds, c.Rounds)
	}
	return nil
}

func (c *SimCmd) Run(g *Globals) error {
	logger, err := g.logger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	ts, err := g.loadTables()
	if err != nil {
		return err
	}

	seed := randutil.Resolve(g.Seed)
	ctx, cancel := signalContext(logger)
	defer cancel()

	if c.Verbose {
		rng := randutil.New(seed)
		sh, err := shoe.New(cfg.ShoeConfig(), rng, logger)
		if err != nil {
			return err
		}
		players, err := seatPlayers(cfg.Roster(), strategy.Deps{
			Rng:          rng,
			Tables:       ts,
			Count:        sh.Counter(),
			TableMinimum: cfg.Table.MinimumBet,
			Logger:       logger,
		})
		if err != nil {
			return err
		}

		renderer := display.New(os.Stdout)
		bus := game.NewEventBus()
		bus.Subscribe(renderer)

		logger.Info("Playing one session", "seed", seed)
		report, err := session.New(session.Config{Rounds: c.Rounds}, players, sh, bus, logger).Run(ctx)
		if err != nil {
			return err
		}
		renderer.Report(report, c.Rounds)
		return nil
	}

	result, err := simulator.New(simulator.Config{
		Trials:       c.Trials,
		Rounds:       c.Rounds,
		Seed:         seed,
		Workers:      c.Workers,
		Timeout:      c.Timeout,
		Shoe:         cfg.ShoeConfig(),
		Roster:       cfg.Roster(),
		TableMinimum: cfg.Table.MinimumBet,
		Tables:       ts,
		Logger:       logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, result)
	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, result.Summary()); err != nil {
			return err
		}
		logger.Info("Wrote summary", "path", c.Output)
	}
	return nil
}
