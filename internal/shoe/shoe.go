package shoe

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

// ErrExhausted is returned when no card can be dealt even after a rebuild
var ErrExhausted = errors.New("shoe exhausted")

// Config holds the shoe parameters
type Config struct {
	Decks       int
	Penetration float64 // fraction of the shoe dealt before a reshuffle
	CSM         bool    // continuous shuffle machine: recycle discards every round
}

// DefaultConfig returns the common six-deck, 75% penetration shoe
func DefaultConfig() Config {
	return Config{
		Decks:       6,
		Penetration: 0.75,
		CSM:         false,
	}
}

// Validate checks the shoe parameters
func (c Config) Validate() error {
	if c.Decks < 1 {
		return fmt.Errorf("deck count must be at least 1, got %d", c.Decks)
	}
	if c.Penetration <= 0 || c.Penetration > 1 {
		return fmt.Errorf("penetration must be in (0, 1], got %g", c.Penetration)
	}
	return nil
}

// Shoe is a multi-deck card source. Cards dealt move to the discards so that
// live plus discards always holds every card of the shoe between deals.
type Shoe struct {
	config   Config
	rng      *rand.Rand
	live     []deck.Card
	discards []deck.Card
	counter  CardCounter
	rebuilds int
	logger   *log.Logger
}

// New builds and shuffles a shoe
func New(config Config, rng *rand.Rand, logger *log.Logger) (*Shoe, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Shoe{
		config: config,
		rng:    rng,
		logger: logger.WithPrefix("shoe"),
	}
	s.Rebuild()
	return s, nil
}

// Size returns the total number of cards the shoe holds
func (s *Shoe) Size() int {
	return deck.Size * s.config.Decks
}

// CutCard returns the live-card count below which the shoe is rebuilt
func (s *Shoe) CutCard() int {
	return int(float64(s.Size()) * (1 - s.config.Penetration))
}

// Rebuild discards everything, loads fresh decks, shuffles and resets the count
func (s *Shoe) Rebuild() {
	s.live = s.live[:0]
	s.discards = s.discards[:0]
	for i := 0; i < s.config.Decks; i++ {
		s.live = append(s.live, deck.New()...)
	}
	s.Shuffle()
	s.counter.Reset()
	s.rebuilds++
	s.logger.Debug("Shoe rebuilt", "cards", len(s.live), "rebuilds", s.rebuilds)
}

// Shuffle applies a uniform random permutation to the live cards
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.live), func(i, j int) {
		s.live[i], s.live[j] = s.live[j], s.live[i]
	})
}

func (s *Shoe) needsRebuild() bool {
	if len(s.live) == 0 {
		return true
	}
	return !s.config.CSM && len(s.live) < s.CutCard()
}

// Deal removes the top card from the live cards and records it as a discard.
// The penetration check runs before every deal.
func (s *Shoe) Deal() (deck.Card, error) {
	if s.needsRebuild() {
		s.Rebuild()
	}

	n := len(s.live)
	if n == 0 {
		return deck.Card{}, ErrExhausted
	}

	card := s.live[n-1]
	s.live = s.live[:n-1]
	s.discards = append(s.discards, card)

	s.counter.Update(card, float64(n)/deck.Size)
	s.logger.Debug("Dealt card",
		"card", card.String(),
		"rc", s.counter.RunningCount(),
		"tc", s.counter.TrueCount())

	return card, nil
}

// Recycle is called once at the end of every round. With a continuous shuffle
// machine the discards are shuffled and spliced back into the live cards at a
// single random point; otherwise it does nothing.
func (s *Shoe) Recycle() {
	if !s.config.CSM || len(s.discards) == 0 {
		return
	}

	s.rng.Shuffle(len(s.discards), func(i, j int) {
		s.discards[i], s.discards[j] = s.discards[j], s.discards[i]
	})
	at := s.rng.IntN(len(s.live) + 1)

	merged := make([]deck.Card, 0, len(s.live)+len(s.discards))
	merged = append(merged, s.live[:at]...)
	merged = append(merged, s.discards...)
	merged = append(merged, s.live[at:]...)

	s.live = merged
	s.discards = s.discards[:0]
}

// Live returns the number of cards left to deal
func (s *Shoe) Live() int { return len(s.live) }

// Discards returns the number of dealt cards not yet returned to the shoe
func (s *Shoe) Discards() int { return len(s.discards) }

// DecksRemaining returns the live cards measured in decks
func (s *Shoe) DecksRemaining() float64 { return float64(len(s.live)) / deck.Size }

// Rebuilds returns how many times the shoe has been built, including the first
func (s *Shoe) Rebuilds() int { return s.rebuilds }

// Counter exposes the shoe's card count read-only
func (s *Shoe) Counter() CountView { return &s.counter }

// Config returns the shoe parameters
func (s *Shoe) Config() Config { return s.config }
