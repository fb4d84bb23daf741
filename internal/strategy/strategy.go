// Package strategy implements the betting and playing strategies a seat can
// use: simple scripted players, table-driven basic strategy, Hi-Lo counting
// and the interactive human.
package strategy

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/tables"
)

// ErrUnknown is returned by New for a name with no strategy behind it
var ErrUnknown = errors.New("unknown strategy")

// Names lists every strategy New accepts
var Names = []string{"random", "rational", "optimist", "doubler", "basic", "counting", "human"}

// Prompter collects choices and amounts from a person at the table. It
// returns game.ErrQuit when the person asks to leave.
type Prompter interface {
	Choose(prompt string, options []string) (string, error)
	Amount(prompt string, min, max int) (int, error)
}

// Deps carries what the strategies may need. Only the fields a given strategy
// uses have to be set.
type Deps struct {
	Rng          *rand.Rand
	Tables       *tables.Tables
	Count        shoe.CountView
	TableMinimum int
	Prompter     Prompter
	Logger       *log.Logger
}

// New creates the strategy registered under name
func New(name string, deps Deps) (game.Strategy, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	switch name {
	case "random":
		if deps.Rng == nil {
			return nil, errors.New("random strategy needs a random source")
		}
		return NewRandom(deps.Rng), nil
	case "rational":
		return NewRational(), nil
	case "optimist":
		return NewRationalOptimist(), nil
	case "doubler":
		return NewDoubler(), nil
	case "basic":
		if deps.Tables == nil {
			return nil, errors.New("basic strategy needs decision tables")
		}
		return NewBasic(deps.Tables, logger), nil
	case "counting":
		if deps.Tables == nil || deps.Count == nil {
			return nil, errors.New("counting strategy needs decision tables and a card count")
		}
		return NewCounting(deps.Tables, deps.Count, deps.TableMinimum, logger), nil
	case "human":
		if deps.Prompter == nil {
			return nil, errors.New("human strategy needs a prompter")
		}
		return NewHuman(deps.Prompter), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
}

// percentOf bets pct percent of the bankroll, never less than one unit
func percentOf(bankroll, pct int) int {
	return max(1, bankroll*pct/100)
}
