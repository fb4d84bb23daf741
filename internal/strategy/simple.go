package strategy

import (
	"math/rand/v2"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Random hits or stands at random and only stands for certain at 21
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Kind() game.Kind { return game.KindRandom }

func (r *Random) Decide(view game.PlayerView, _ deck.Card) (game.Action, error) {
	if view.Total == 21 {
		return game.Stand, nil
	}
	if r.rng.IntN(2) == 0 {
		return game.Hit, nil
	}
	return game.Stand, nil
}

// Bet wagers a random 10% to 25% of the bankroll
func (r *Random) Bet(view game.PlayerView) (int, error) {
	frac := 0.10 + r.rng.Float64()*0.15
	return max(1, int(float64(view.Bankroll)*frac)), nil
}

// Rational plays like the dealer: hit below 17, stand otherwise
type Rational struct{}

// NewRational creates a Rational strategy
func NewRational() *Rational { return &Rational{} }

func (r *Rational) Kind() game.Kind { return game.KindRational }

func (r *Rational) Decide(view game.PlayerView, _ deck.Card) (game.Action, error) {
	return dealerRule(view), nil
}

// Bet wagers 5% of the bankroll
func (r *Rational) Bet(view game.PlayerView) (int, error) {
	return percentOf(view.Bankroll, 5), nil
}

// RationalOptimist plays like Rational with half the bankroll on every hand
type RationalOptimist struct {
	Rational
}

// NewRationalOptimist creates a RationalOptimist strategy
func NewRationalOptimist() *RationalOptimist { return &RationalOptimist{} }

func (r *RationalOptimist) Kind() game.Kind { return game.KindRationalOptimist }

func (r *RationalOptimist) Bet(view game.PlayerView) (int, error) {
	return percentOf(view.Bankroll, 50), nil
}

// Doubler doubles every time it would otherwise hit, when the bankroll allows
type Doubler struct{}

// NewDoubler creates a Doubler strategy
func NewDoubler() *Doubler { return &Doubler{} }

func (d *Doubler) Kind() game.Kind { return game.KindDoubler }

func (d *Doubler) Decide(view game.PlayerView, _ deck.Card) (game.Action, error) {
	if view.Total < game.DealerStandsAt {
		if view.CanDouble {
			return game.Double, nil
		}
		return game.Hit, nil
	}
	return game.Stand, nil
}

// Bet wagers 20% of the bankroll
func (d *Doubler) Bet(view game.PlayerView) (int, error) {
	return percentOf(view.Bankroll, 20), nil
}

func dealerRule(view game.PlayerView) game.Action {
	if view.Total < game.DealerStandsAt {
		return game.Hit
	}
	return game.Stand
}
