package game

import "github.com/lox/blackjack/internal/deck"

// Kind identifies one of the closed set of strategy variants
type Kind int

const (
	KindRandom Kind = iota
	KindRational
	KindRationalOptimist
	KindDoubler
	KindHuman
	KindBasic
	KindCounting
)

func (k Kind) String() string {
	return [...]string{"random", "rational", "optimist", "doubler", "human", "basic", "counting"}[k]
}

// PlayerView is the read-only state of a player handed to its strategy.
// Card fields describe the active hand and are empty while betting.
type PlayerView struct {
	Name      string
	Bankroll  int
	Cards     []deck.Card
	Total     int
	Soft      bool
	Pair      bool
	Bet       int
	Hands     int // hands held this round, including the active one
	CanDouble bool
	CanSplit  bool
}

// Strategy makes the betting and playing decisions for a player.
// Strategies only ever see the dealer's upcard. Scripted strategies must only
// return legal actions; an interactive strategy may return ErrQuit.
type Strategy interface {
	Kind() Kind
	Decide(view PlayerView, upcard deck.Card) (Action, error)
	Bet(view PlayerView) (int, error)
}

// CardSource is where a round draws its cards from
type CardSource interface {
	Deal() (deck.Card, error)
	Recycle()
}
