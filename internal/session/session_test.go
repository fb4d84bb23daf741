package session

import (
	"context"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cycle deals the same cards over and over
type cycle struct {
	cards []deck.Card
	next  int
	dealt int
}

func (c *cycle) Deal() (deck.Card, error) {
	card := c.cards[c.next%len(c.cards)]
	c.next++
	c.dealt++
	return card, nil
}

func (c *cycle) Recycle() {}

// flat bets a fixed share of the bankroll and plays like the dealer
type flat struct {
	kind    game.Kind
	percent int
	err     error
}

func (f flat) Kind() game.Kind { return f.kind }

func (f flat) Bet(v game.PlayerView) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return max(1, v.Bankroll*f.percent/100), nil
}

func (f flat) Decide(v game.PlayerView, _ deck.Card) (game.Action, error) {
	if v.Total < 17 {
		return game.Hit, nil
	}
	return game.Stand, nil
}

func newShoe(t *testing.T, seed int64) *shoe.Shoe {
	t.Helper()
	s, err := shoe.New(shoe.DefaultConfig(), randutil.New(seed), nil)
	require.NoError(t, err)
	return s
}

func TestSingleRoundIsOnePass(t *testing.T) {
	t.Parallel()

	p := game.NewPlayer("The Pro", flat{kind: game.KindRational, percent: 5}, 1000)
	s := New(Config{Rounds: 1}, []*game.Player{p}, newShoe(t, 1), nil, nil)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, report.Reason)
	assert.Equal(t, 1, report.Rounds)
	require.Len(t, report.Players, 1)
	assert.Equal(t, 1, report.Players[0].Rounds)
	assert.Equal(t, p.Bankroll, report.Players[0].Final)
	assert.Equal(t, s.ID(), report.ID)
}

func TestRunTracksPeakAndFinal(t *testing.T) {
	t.Parallel()

	a := game.NewPlayer("a", flat{kind: game.KindRational, percent: 5}, 1000)
	b := game.NewPlayer("b", flat{kind: game.KindDoubler, percent: 20}, 1000)
	s := New(Config{Rounds: 200}, []*game.Player{a, b}, newShoe(t, 7), nil, nil)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, report.Rounds, 200)

	for i, p := range []*game.Player{a, b} {
		r := report.Players[i]
		assert.Equal(t, p.Name, r.Name)
		assert.Equal(t, 1000, r.Initial)
		assert.Equal(t, p.Bankroll, r.Final)
		assert.GreaterOrEqual(t, r.Peak, r.Initial)
		assert.GreaterOrEqual(t, r.Peak, r.Final)
		assert.LessOrEqual(t, r.Rounds, report.Rounds)
	}
}

func TestRosterDepletes(t *testing.T) {
	t.Parallel()

	// player 16 stands into dealer 19 every round
	src := &cycle{cards: deck.MustParseCards("10h 6c 10d 9s")}
	p := game.NewPlayer("all-in", standAll{flat{kind: game.KindRationalOptimist, percent: 100}}, 50)

	report, err := New(Config{Rounds: 10}, []*game.Player{p}, src, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Depleted, report.Reason)
	assert.Equal(t, 1, report.Rounds)
	assert.True(t, report.Players[0].Removed)
	assert.Equal(t, 0, report.Players[0].Final)
	assert.InDelta(t, -100.0, report.Players[0].Growth(), 0.001)
}

type standAll struct{ flat }

func (standAll) Decide(game.PlayerView, deck.Card) (game.Action, error) { return game.Stand, nil }

func TestHumanQuitStopsSession(t *testing.T) {
	t.Parallel()

	p := game.NewPlayer("you", flat{kind: game.KindHuman, err: game.ErrQuit}, 100)
	report, err := New(Config{Interactive: true}, []*game.Player{p}, newShoe(t, 1), nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stopped, report.Reason)
	assert.Equal(t, game.HumanQuit, report.Result)
	assert.Equal(t, 0, report.Rounds)
}

func TestCancelledBeforeFirstRound(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &cycle{cards: deck.MustParseCards("10h 6c 10d 9s")}
	p := game.NewPlayer("a", flat{kind: game.KindRational, percent: 5}, 100)
	report, err := New(Config{}, []*game.Player{p}, src, nil, nil).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, report.Reason)
	assert.Zero(t, src.dealt)
}

func TestInvariantErrorIsReturned(t *testing.T) {
	t.Parallel()

	p := game.NewPlayer("a", flat{kind: game.KindRational, percent: 500}, 100)
	_, err := New(Config{Rounds: 3}, []*game.Player{p}, newShoe(t, 1), nil, nil).Run(context.Background())
	require.ErrorIs(t, err, game.ErrInvariant)
}

func TestEventsArePublished(t *testing.T) {
	t.Parallel()

	bus := game.NewEventBus()
	counter := &settlementCounter{}
	bus.Subscribe(counter)

	p := game.NewPlayer("a", flat{kind: game.KindRational, percent: 5}, 1000)
	report, err := New(Config{Rounds: 5}, []*game.Player{p}, newShoe(t, 3), bus, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.Rounds, counter.n)
}

type settlementCounter struct{ n int }

func (c *settlementCounter) OnEvent(e game.Event) {
	if e.EventType() == game.EventTypeSettlement {
		c.n++
	}
}
