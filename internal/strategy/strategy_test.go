package strategy

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func defaultTables(t *testing.T) *tables.Tables {
	t.Helper()
	ts, err := tables.Default()
	require.NoError(t, err)
	return ts
}

// viewOf builds the view of a freshly dealt hand
func viewOf(cards string, bankroll int, canDouble, canSplit bool) game.PlayerView {
	cs := deck.MustParseCards(cards)
	h := game.NewHand(10, cs...)
	return game.PlayerView{
		Name:      "test",
		Bankroll:  bankroll,
		Cards:     cs,
		Total:     h.Total(),
		Soft:      h.IsSoft(),
		Pair:      h.IsPair(),
		Bet:       10,
		Hands:     1,
		CanDouble: canDouble,
		CanSplit:  canSplit,
	}
}

func upcard(s string) deck.Card {
	return deck.MustParseCards(s)[0]
}

type fixedCount struct {
	rc, tc int
}

func (f fixedCount) RunningCount() int       { return f.rc }
func (f fixedCount) TrueCount() int          { return f.tc }
func (f fixedCount) DecksRemaining() float64 { return 3 }

type scriptedPrompter struct {
	choices []string
	amounts []int
	err     error
	offered [][]string
	bounds  [][2]int
}

func (p *scriptedPrompter) Choose(_ string, options []string) (string, error) {
	p.offered = append(p.offered, options)
	if p.err != nil {
		return "", p.err
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	return c, nil
}

func (p *scriptedPrompter) Amount(_ string, lo, hi int) (int, error) {
	p.bounds = append(p.bounds, [2]int{lo, hi})
	if p.err != nil {
		return 0, p.err
	}
	a := p.amounts[0]
	p.amounts = p.amounts[1:]
	return a, nil
}

func TestBasicDecisions(t *testing.T) {
	t.Parallel()

	basic := NewBasic(defaultTables(t), quietLogger())

	tests := []struct {
		name      string
		cards     string
		up        string
		canDouble bool
		canSplit  bool
		want      game.Action
	}{
		{"hard 16 vs 6 stands", "10h 6c", "6d", true, false, game.Stand},
		{"hard 16 vs 10 hits", "10h 6c", "Kd", true, false, game.Hit},
		{"hard 11 vs 10 doubles", "5h 6c", "10d", true, false, game.Double},
		{"hard 11 without bankroll hits", "5h 6c", "10d", false, false, game.Hit},
		{"hard 7 hits", "5h 2c", "6d", true, false, game.Hit},
		{"hard 19 stands", "10h 9c", "Ad", true, false, game.Stand},
		{"three card hard 12 vs 4 stands", "5h 4c 3d", "4s", false, false, game.Stand},
		{"soft 18 vs 3 doubles", "Ah 7c", "3d", true, false, game.Double},
		{"soft 18 vs 3 without bankroll stands", "Ah 7c", "3d", false, false, game.Stand},
		{"soft 18 vs 9 hits", "7c Ah", "9d", true, false, game.Hit},
		{"soft 13 vs 5 doubles", "Ah 2c", "5d", true, false, game.Double},
		{"soft 13 vs 5 without bankroll hits", "Ah 2c", "5d", false, false, game.Hit},
		{"eights split", "8h 8c", "Ad", true, true, game.Split},
		{"eights that cannot split use hard 16", "8h 8c", "6d", false, false, game.Stand},
		{"tens stay together", "Kh 10c", "6d", true, true, game.Stand},
		{"twos vs 2 split with double after split", "2h 2c", "2d", true, true, game.Split},
		{"nines vs 7 stand", "9h 9c", "7d", true, true, game.Stand},
		{"fives play as hard 10", "5h 5c", "9d", true, true, game.Double},
		{"aces split", "Ah Ac", "10d", true, true, game.Split},
		{"aces that cannot split hit", "Ah Ac", "6d", true, false, game.Hit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := basic.Decide(viewOf(tt.cards, 1000, tt.canDouble, tt.canSplit), upcard(tt.up))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasicBet(t *testing.T) {
	t.Parallel()

	basic := NewBasic(defaultTables(t), quietLogger())
	for bankroll, want := range map[int]int{10000: 10, 999: 1, 1: 1, 25500: 25} {
		got, err := basic.Bet(game.PlayerView{Bankroll: bankroll})
		require.NoError(t, err)
		assert.Equal(t, want, got, "bankroll %d", bankroll)
	}
}

func TestCountingBet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		trueCount int
		bankroll  int
		want      int
	}{
		{-4, 1000, 10},
		{0, 1000, 10},
		{1, 1000, 10},
		{3, 1000, 30},
		{12, 1000, 120},
		{20, 1000, 120},
		{5, 35, 35},
	}

	for _, tt := range tests {
		c := NewCounting(defaultTables(t), fixedCount{tc: tt.trueCount}, 10, quietLogger())
		got, err := c.Bet(game.PlayerView{Bankroll: tt.bankroll})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "tc %d bankroll %d", tt.trueCount, tt.bankroll)
	}
}

func TestCountingPlaysBasic(t *testing.T) {
	t.Parallel()

	c := NewCounting(defaultTables(t), fixedCount{tc: 5}, 10, quietLogger())
	assert.Equal(t, game.KindCounting, c.Kind())

	got, err := c.Decide(viewOf("10h 6c", 1000, true, false), upcard("6d"))
	require.NoError(t, err)
	assert.Equal(t, game.Stand, got)
}

func TestSimpleStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy game.Strategy
		kind     game.Kind
		bankroll int
		bet      int
	}{
		{"rational", NewRational(), game.KindRational, 1000, 50},
		{"rational floor", NewRational(), game.KindRational, 10, 1},
		{"optimist", NewRationalOptimist(), game.KindRationalOptimist, 1000, 500},
		{"optimist single unit", NewRationalOptimist(), game.KindRationalOptimist, 1, 1},
		{"doubler", NewDoubler(), game.KindDoubler, 1000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.kind, tt.strategy.Kind())
			bet, err := tt.strategy.Bet(game.PlayerView{Bankroll: tt.bankroll})
			require.NoError(t, err)
			assert.Equal(t, tt.bet, bet)
		})
	}
}

func TestRationalDecisions(t *testing.T) {
	t.Parallel()

	r := NewRationalOptimist()
	got, _ := r.Decide(viewOf("10h 6c", 100, true, false), upcard("2d"))
	assert.Equal(t, game.Hit, got)
	got, _ = r.Decide(viewOf("10h 7c", 100, true, false), upcard("2d"))
	assert.Equal(t, game.Stand, got)
}

func TestDoublerDecisions(t *testing.T) {
	t.Parallel()

	d := NewDoubler()
	got, _ := d.Decide(viewOf("10h 6c", 100, true, false), upcard("2d"))
	assert.Equal(t, game.Double, got)
	got, _ = d.Decide(viewOf("10h 6c", 100, false, false), upcard("2d"))
	assert.Equal(t, game.Hit, got)
	got, _ = d.Decide(viewOf("10h 8c", 100, true, false), upcard("2d"))
	assert.Equal(t, game.Stand, got)
}

func TestRandomStrategy(t *testing.T) {
	t.Parallel()

	r := NewRandom(randutil.New(42))

	got, err := r.Decide(viewOf("Ah Kc", 100, true, false), upcard("2d"))
	require.NoError(t, err)
	assert.Equal(t, game.Stand, got)

	seen := map[game.Action]bool{}
	for range 200 {
		a, err := r.Decide(viewOf("10h 2c", 100, true, false), upcard("2d"))
		require.NoError(t, err)
		seen[a] = true
	}
	assert.True(t, seen[game.Hit])
	assert.True(t, seen[game.Stand])
	assert.False(t, seen[game.Double])

	for range 200 {
		bet, err := r.Bet(game.PlayerView{Bankroll: 1000})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, bet, 100)
		assert.LessOrEqual(t, bet, 250)
	}
	bet, _ := r.Bet(game.PlayerView{Bankroll: 3})
	assert.Equal(t, 1, bet)
}

func TestHumanOffersLegalActions(t *testing.T) {
	t.Parallel()

	p := &scriptedPrompter{choices: []string{"split", "stand"}}
	h := NewHuman(p)
	assert.Equal(t, game.KindHuman, h.Kind())

	got, err := h.Decide(viewOf("8h 8c", 100, true, true), upcard("6d"))
	require.NoError(t, err)
	assert.Equal(t, game.Split, got)

	got, err = h.Decide(viewOf("10h 6c", 5, false, false), upcard("6d"))
	require.NoError(t, err)
	assert.Equal(t, game.Stand, got)

	assert.Equal(t, []string{"hit", "stand", "double", "split"}, p.offered[0])
	assert.Equal(t, []string{"hit", "stand"}, p.offered[1])
}

func TestHumanStandsOnTwentyOneWithoutPrompt(t *testing.T) {
	t.Parallel()

	p := &scriptedPrompter{}
	got, err := NewHuman(p).Decide(viewOf("Ah Kc", 100, true, false), upcard("6d"))
	require.NoError(t, err)
	assert.Equal(t, game.Stand, got)
	assert.Empty(t, p.offered)
}

func TestHumanBetIsBoundedByBankroll(t *testing.T) {
	t.Parallel()

	p := &scriptedPrompter{amounts: []int{40}}
	bet, err := NewHuman(p).Bet(game.PlayerView{Bankroll: 250})
	require.NoError(t, err)
	assert.Equal(t, 40, bet)
	assert.Equal(t, [2]int{1, 250}, p.bounds[0])
}

func TestHumanQuitPropagates(t *testing.T) {
	t.Parallel()

	h := NewHuman(&scriptedPrompter{err: game.ErrQuit})
	_, err := h.Bet(game.PlayerView{Bankroll: 10})
	require.ErrorIs(t, err, game.ErrQuit)
	_, err = h.Decide(viewOf("10h 2c", 100, true, false), upcard("6d"))
	require.ErrorIs(t, err, game.ErrQuit)
}

func TestNew(t *testing.T) {
	t.Parallel()

	deps := Deps{
		Rng:          randutil.New(1),
		Tables:       defaultTables(t),
		Count:        fixedCount{},
		TableMinimum: 10,
		Prompter:     &scriptedPrompter{},
	}

	for _, name := range Names {
		s, err := New(name, deps)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Kind().String())
	}

	_, err := New("martingale", deps)
	require.ErrorIs(t, err, ErrUnknown)

	_, err = New("basic", Deps{})
	require.Error(t, err)
	_, err = New("human", Deps{})
	require.Error(t, err)
	_, err = New("random", Deps{})
	require.Error(t, err)
}

func TestAdvise(t *testing.T) {
	t.Parallel()

	ts := defaultTables(t)
	tests := []struct {
		cards string
		up    string
		want  game.Action
	}{
		{"10h 6c", "6d", game.Stand},
		{"8h 8c", "10d", game.Split},
		{"5h 6c", "6d", game.Double},
		{"5h 4c 2d", "6d", game.Hit},
		{"Ah Kc", "6d", game.Stand},
	}
	for _, tt := range tests {
		got, err := Advise(ts, deck.MustParseCards(tt.cards), upcard(tt.up))
		require.NoError(t, err, tt.cards)
		assert.Equal(t, tt.want, got, tt.cards)
	}

	_, err := Advise(ts, deck.MustParseCards("10h"), upcard("6d"))
	assert.Error(t, err)
	_, err = Advise(ts, deck.MustParseCards("10h 6c 9d"), upcard("6d"))
	assert.Error(t, err)
}
