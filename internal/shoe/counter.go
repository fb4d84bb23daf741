package shoe

import (
	"math"

	"github.com/lox/blackjack/internal/deck"
)

// CountView is the read-only face of a CardCounter handed to counting strategies
type CountView interface {
	RunningCount() int
	TrueCount() int
	DecksRemaining() float64
}

// CardCounter keeps a Hi-Lo running count and the derived true count.
// It is owned by a Shoe and only the Shoe mutates it.
type CardCounter struct {
	running        int
	trueCount      int
	decksRemaining float64
}

// Update adds the card's Hi-Lo value and recomputes the true count.
// The true count is floored so a counter never overstates the edge.
func (c *CardCounter) Update(card deck.Card, decksRemaining float64) {
	if decksRemaining <= 0 {
		panic("shoe: decks remaining must be positive")
	}
	c.decksRemaining = decksRemaining
	c.running += card.CountingValue()
	c.trueCount = int(math.Floor(float64(c.running) / decksRemaining))
}

// Reset zeroes the counts. Called only when the shoe is rebuilt.
func (c *CardCounter) Reset() {
	c.running = 0
	c.trueCount = 0
}

// RunningCount returns the Hi-Lo running count
func (c *CardCounter) RunningCount() int { return c.running }

// TrueCount returns the running count per remaining deck, floored
func (c *CardCounter) TrueCount() int { return c.trueCount }

// DecksRemaining returns the deck estimate used for the last update
func (c *CardCounter) DecksRemaining() float64 { return c.decksRemaining }
