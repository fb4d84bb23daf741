package strategy

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/tables"
)

// Basic plays the decision tables: pairs first, then two-card soft hands,
// then hard totals.
type Basic struct {
	tables *tables.Tables
	logger *log.Logger
}

// NewBasic creates a Basic strategy over the given tables
func NewBasic(t *tables.Tables, logger *log.Logger) *Basic {
	return &Basic{tables: t, logger: logger.WithPrefix("basic")}
}

func (b *Basic) Kind() game.Kind { return game.KindBasic }

func (b *Basic) Decide(view game.PlayerView, upcard deck.Card) (game.Action, error) {
	dealer := upcard.DealerKey()

	if view.Pair && view.CanSplit {
		row := view.Cards[0].DealerKey() + view.Cards[1].DealerKey()
		code, err := b.tables.Pairs.Lookup(row, dealer)
		if err != nil {
			return 0, err
		}
		b.logger.Debug("Pair lookup", "row", row, "dealer", dealer, "code", code)
		if code.Splits() {
			return game.Split, nil
		}
	}

	if len(view.Cards) == 2 && (view.Cards[0].IsAce() || view.Cards[1].IsAce()) {
		other := view.Cards[0]
		if other.IsAce() {
			other = view.Cards[1]
		}
		// two aces that may not split have no soft row
		if other.IsAce() {
			return game.Hit, nil
		}

		row := "A" + strconv.Itoa(other.BlackjackValue())
		code, err := b.tables.Soft.Lookup(row, dealer)
		if err != nil {
			return 0, err
		}
		b.logger.Debug("Soft lookup", "row", row, "dealer", dealer, "code", code)
		return play(code, view.CanDouble)
	}

	if view.Total <= 7 {
		return game.Hit, nil
	}
	row := strconv.Itoa(view.Total)
	if view.Total >= game.DealerStandsAt {
		row = "17+"
	}
	code, err := b.tables.Hard.Lookup(row, dealer)
	if err != nil {
		return 0, err
	}
	b.logger.Debug("Hard lookup", "row", row, "dealer", dealer, "code", code)
	return play(code, view.CanDouble)
}

// Bet wagers a tenth of a percent of the bankroll
func (b *Basic) Bet(view game.PlayerView) (int, error) {
	return max(1, view.Bankroll/1000), nil
}

func play(code tables.Code, canDouble bool) (game.Action, error) {
	switch code {
	case tables.Hit:
		return game.Hit, nil
	case tables.Stand:
		return game.Stand, nil
	case tables.Double:
		if canDouble {
			return game.Double, nil
		}
		return game.Hit, nil
	case tables.DoubleOrStand:
		if canDouble {
			return game.Double, nil
		}
		return game.Stand, nil
	default:
		return 0, fmt.Errorf("code %s is not a playing decision", code)
	}
}

// Counting plays basic strategy and sizes bets by the Hi-Lo true count
type Counting struct {
	*Basic
	count   shoe.CountView
	minimum int
}

// MaxBetUnits caps the counting bet spread
const MaxBetUnits = 12

// NewCounting creates a Counting strategy betting multiples of minimum
func NewCounting(t *tables.Tables, count shoe.CountView, minimum int, logger *log.Logger) *Counting {
	return &Counting{
		Basic:   &Basic{tables: t, logger: logger.WithPrefix("counting")},
		count:   count,
		minimum: max(1, minimum),
	}
}

func (c *Counting) Kind() game.Kind { return game.KindCounting }

// Bet wagers the table minimum times the true count, clamped to 1..12 units
// and never more than the bankroll
func (c *Counting) Bet(view game.PlayerView) (int, error) {
	units := min(max(c.count.TrueCount(), 1), MaxBetUnits)
	bet := min(c.minimum*units, view.Bankroll)
	c.logger.Debug("Sized bet",
		"rc", c.count.RunningCount(),
		"tc", c.count.TrueCount(),
		"units", units,
		"bet", bet)
	return max(1, bet), nil
}

// Advise returns what basic strategy plays for a fresh hand against upcard.
// Doubling is offered on two cards and splitting on any pair.
func Advise(t *tables.Tables, cards []deck.Card, upcard deck.Card) (game.Action, error) {
	if len(cards) < 2 {
		return 0, fmt.Errorf("need at least two cards, got %d", len(cards))
	}
	h := game.NewHand(1, cards...)
	view := game.PlayerView{
		Cards:     cards,
		Total:     h.Total(),
		Soft:      h.IsSoft(),
		Pair:      h.IsPair(),
		Bet:       1,
		Hands:     1,
		CanDouble: len(cards) == 2,
		CanSplit:  h.IsPair(),
	}
	if view.Total > 21 {
		return 0, fmt.Errorf("hand %s is already bust", h)
	}
	if view.Total == 21 {
		return game.Stand, nil
	}
	return NewBasic(t, log.New(io.Discard)).Decide(view, upcard)
}
