package main

import (
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/strategy"
)

type PlayCmd struct {
	Name     string        `default:"You" help:"Your name at the table"`
	Bankroll int           `default:"1000" help:"Your starting bankroll"`
	Rounds   int           `default:"0" help:"Rounds to play, 0 until you quit"`
	Delay    time.Duration `default:"1s" help:"Pause before the dealer reveals"`
}

func (c *PlayCmd) Validate() error {
	if c.Bankroll <= 0 {
		return fmt.Errorf("bankroll must be positive, got %d", c.Bankroll)
	}
	if c.Rounds < 0 || c.Rounds > maxRounds {
		return fmt.Errorf("rounds must be between 0 and %d, got %d", maxRounds, c.Rounds)
	}
	return nil
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Player(c.Name) != nil {
		return fmt.Errorf("%q is already seated, pick another --name", c.Name)
	}
	ts, err := g.loadTables()
	if err != nil {
		return err
	}

	// The table owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger, err := g.logger(logFile)
	if err != nil {
		return err
	}

	seed := randutil.Resolve(g.Seed)
	logger.Info("Starting table", "seed", seed, "config", g.Config)
	rng := randutil.New(seed)

	sh, err := shoe.New(cfg.ShoeConfig(), rng, logger)
	if err != nil {
		return err
	}

	prompter, err := console.New(os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer prompter.Close()

	deps := strategy.Deps{
		Rng:          rng,
		Tables:       ts,
		Count:        sh.Counter(),
		TableMinimum: cfg.Table.MinimumBet,
		Prompter:     prompter,
		Logger:       logger,
	}
	seats := append(cfg.Roster(), simulator.Seat{Name: c.Name, Strategy: "human", Bankroll: c.Bankroll})
	players, err := seatPlayers(seats, deps)
	if err != nil {
		return err
	}

	renderer := display.New(os.Stdout,
		display.WithPacing(quartz.NewReal(), c.Delay),
		display.WithSpinner(true))
	bus := game.NewEventBus()
	bus.Subscribe(renderer)

	ctx, cancel := signalContext(logger)
	defer cancel()

	report, err := session.New(session.Config{Rounds: c.Rounds, Interactive: true}, players, sh, bus, logger).Run(ctx)
	if err != nil {
		return err
	}

	renderer.Report(report, c.Rounds)
	if report.Result == game.HumanBroke {
		fmt.Println(display.ErrorStyle.Render("You are out of money."))
	}
	fmt.Println(display.SuccessStyle.Render("Have a great day! The program has quit."))
	return nil
}

// seatPlayers builds a player per seat, in seating order
func seatPlayers(seats []simulator.Seat, deps strategy.Deps) ([]*game.Player, error) {
	players := make([]*game.Player, 0, len(seats))
	for _, seat := range seats {
		strat, err := strategy.New(seat.Strategy, deps)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", seat.Name, err)
		}
		players = append(players, game.NewPlayer(seat.Name, strat, seat.Bankroll))
	}
	return players, nil
}
