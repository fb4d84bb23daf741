package shoe

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShoe(t *testing.T, cfg Config) *Shoe {
	t.Helper()
	s, err := New(cfg, randutil.New(42), nil)
	require.NoError(t, err)
	return s
}

func TestNewShoe(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, DefaultConfig())

	assert.Equal(t, 312, s.Size())
	assert.Equal(t, 312, s.Live())
	assert.Equal(t, 0, s.Discards())
	assert.Equal(t, 78, s.CutCard())
	assert.Equal(t, 1, s.Rebuilds())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"single deck full penetration", Config{Decks: 1, Penetration: 1}, false},
		{"zero decks", Config{Decks: 0, Penetration: 0.75}, true},
		{"zero penetration", Config{Decks: 6, Penetration: 0}, true},
		{"penetration above one", Config{Decks: 6, Penetration: 1.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDealConservesCards(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, Config{Decks: 2, Penetration: 0.75})

	for i := 0; i < 1000; i++ {
		_, err := s.Deal()
		require.NoError(t, err)
		require.Equal(t, s.Size(), s.Live()+s.Discards(), "after deal %d", i+1)
	}
	assert.Greater(t, s.Rebuilds(), 1)
}

func TestReshuffleTriggeredOnNextDeal(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, Config{Decks: 1, Penetration: 0.5})
	require.Equal(t, 26, s.CutCard())

	// 26 cards leaves the live count at the cut card, not below it
	for i := 0; i < 26; i++ {
		_, err := s.Deal()
		require.NoError(t, err)
	}
	require.Equal(t, 26, s.Live())

	_, err := s.Deal()
	require.NoError(t, err)
	require.Equal(t, 25, s.Live())
	require.Equal(t, 1, s.Rebuilds())

	card, err := s.Deal()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rebuilds())
	assert.Equal(t, 51, s.Live())
	assert.Equal(t, 1, s.Discards())
	assert.Equal(t, card.CountingValue(), s.Counter().RunningCount(), "count resets on rebuild")
}

func TestCSMRecycle(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, Config{Decks: 1, Penetration: 0.5, CSM: true})

	before := s.Live()
	for i := 0; i < 12; i++ {
		_, err := s.Deal()
		require.NoError(t, err)
	}
	require.Equal(t, 12, s.Discards())

	s.Recycle()
	assert.Equal(t, 0, s.Discards())
	assert.Equal(t, before, s.Live())
	assert.Equal(t, 1, s.Rebuilds())
}

func TestCSMIgnoresPenetration(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, Config{Decks: 1, Penetration: 0.25, CSM: true})

	for i := 0; i < 45; i++ {
		_, err := s.Deal()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, s.Rebuilds())
	assert.Equal(t, 7, s.Live())
}

func TestRecycleWithoutCSMIsNoop(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, DefaultConfig())
	for i := 0; i < 5; i++ {
		_, err := s.Deal()
		require.NoError(t, err)
	}

	s.Recycle()
	assert.Equal(t, 5, s.Discards())
	assert.Equal(t, 307, s.Live())
}

func TestRecycleKeepsEveryCard(t *testing.T) {
	t.Parallel()
	s := newTestShoe(t, Config{Decks: 1, Penetration: 0.75, CSM: true})
	for i := 0; i < 20; i++ {
		_, err := s.Deal()
		require.NoError(t, err)
	}
	s.Recycle()

	seen := make(map[deck.Card]int)
	for s.Live() > 0 {
		c := s.live[s.Live()-1]
		s.live = s.live[:s.Live()-1]
		seen[c]++
	}
	assert.Len(t, seen, 52)
	for c, n := range seen {
		assert.Equal(t, 1, n, "card %s", c)
	}
}

func TestCounterUpdate(t *testing.T) {
	t.Parallel()
	var c CardCounter

	c.Update(deck.NewCard(deck.Five, deck.Hearts), 2)
	c.Update(deck.NewCard(deck.Six, deck.Hearts), 2)
	c.Update(deck.NewCard(deck.Three, deck.Hearts), 2)
	assert.Equal(t, 3, c.RunningCount())
	assert.Equal(t, 1, c.TrueCount())

	for i := 0; i < 6; i++ {
		c.Update(deck.NewCard(deck.King, deck.Spades), 2)
	}
	assert.Equal(t, -3, c.RunningCount())
	assert.Equal(t, -2, c.TrueCount(), "true count floors toward negative infinity")

	c.Update(deck.NewCard(deck.Eight, deck.Spades), 1.5)
	assert.Equal(t, -3, c.RunningCount())
	assert.Equal(t, -2, c.TrueCount())
	assert.InDelta(t, 1.5, c.DecksRemaining(), 1e-9)

	c.Reset()
	assert.Zero(t, c.RunningCount())
	assert.Zero(t, c.TrueCount())
}

func TestCounterRejectsNonPositiveDecks(t *testing.T) {
	t.Parallel()
	var c CardCounter
	assert.Panics(t, func() {
		c.Update(deck.NewCard(deck.Two, deck.Clubs), 0)
	})
}
