package game

import (
	"slices"
)

// MaxHands is the most hands one player may hold in a round through splitting
const MaxHands = 4

// handQueue is a small deque of pending hands. Split hands are pushed to the
// front so they are played before anything already waiting.
type handQueue struct {
	hands []*Hand
}

func (q *handQueue) pushBack(h *Hand) {
	q.hands = append(q.hands, h)
}

func (q *handQueue) pushFront(hs ...*Hand) {
	q.hands = append(slices.Clone(hs), q.hands...)
}

func (q *handQueue) popFront() (*Hand, bool) {
	if len(q.hands) == 0 {
		return nil, false
	}
	h := q.hands[0]
	q.hands = q.hands[1:]
	return h, true
}

func (q *handQueue) front() *Hand {
	if len(q.hands) == 0 {
		return nil
	}
	return q.hands[0]
}

func (q *handQueue) len() int { return len(q.hands) }

func (q *handQueue) reset() { q.hands = nil }

// Player is a seat at the table. Decisions and bets are delegated to its Strategy.
type Player struct {
	Name            string
	Strategy        Strategy
	Bankroll        int
	InitialBankroll int

	pending   handQueue
	current   *Hand
	completed []*Hand
}

// NewPlayer creates a player with a starting bankroll
func NewPlayer(name string, strategy Strategy, bankroll int) *Player {
	return &Player{
		Name:            name,
		Strategy:        strategy,
		Bankroll:        bankroll,
		InitialBankroll: bankroll,
	}
}

// IsHuman reports whether decisions come from an interactive human
func (p *Player) IsHuman() bool {
	return p.Strategy != nil && p.Strategy.Kind() == KindHuman
}

// CurrentHand returns the hand being played, or nil
func (p *Player) CurrentHand() *Hand { return p.current }

// Hands returns the hands completed this round, in completion order
func (p *Player) Hands() []*Hand { return slices.Clone(p.completed) }

// PendingHands returns the number of hands waiting to be played
func (p *Player) PendingHands() int { return p.pending.len() }

// HandCount returns every hand the player holds this round
func (p *Player) HandCount() int {
	n := len(p.completed) + p.pending.len()
	if p.current != nil {
		n++
	}
	return n
}

// CanDouble reports whether the bankroll covers another bet equal to the
// current one. The original stake was taken when the bet was placed.
func (p *Player) CanDouble() bool {
	return p.current != nil && p.Bankroll >= p.current.Bet
}

// CanSplit reports whether the current hand is a pair that may be split
func (p *Player) CanSplit() bool {
	return p.HandCount() < MaxHands && p.CanDouble() && p.current.IsPair()
}

// HandleBust closes the current hand as a bust if it is over 21.
// Nothing is debited here; the stake was taken at bet time.
func (p *Player) HandleBust() bool {
	if p.current == nil || !p.current.IsBusted() {
		return false
	}
	p.current.outcome = Bust
	return true
}

// Outcome returns the recorded outcome for one of the player's completed hands
func (p *Player) Outcome(h *Hand) (Outcome, error) {
	if !slices.Contains(p.completed, h) {
		return Pending, invariantf("%s: hand %s is not a completed hand", p.Name, h)
	}
	if h.outcome == Pending {
		return Pending, invariantf("%s: hand %s has no recorded outcome", p.Name, h)
	}
	return h.outcome, nil
}

// View returns the read-only snapshot a strategy decides from
func (p *Player) View() PlayerView {
	v := PlayerView{
		Name:      p.Name,
		Bankroll:  p.Bankroll,
		Hands:     p.HandCount(),
		CanDouble: p.CanDouble(),
		CanSplit:  p.current != nil && p.CanSplit(),
	}
	if h := p.current; h != nil {
		v.Cards = slices.Clone(h.Cards)
		v.Total = h.Total()
		v.Soft = h.IsSoft()
		v.Pair = h.IsPair()
		v.Bet = h.Bet
	}
	return v
}

func (p *Player) debit(amount int) error {
	p.Bankroll -= amount
	if p.Bankroll < 0 {
		return invariantf("%s: bankroll negative (%d) after debit of %d", p.Name, p.Bankroll, amount)
	}
	return nil
}

func (p *Player) credit(amount int) {
	p.Bankroll += amount
}

// clearHands drops everything left over from the previous round
func (p *Player) clearHands() {
	p.pending.reset()
	p.current = nil
	p.completed = nil
}

// startRound replaces last round's hands with the freshly dealt one
func (p *Player) startRound(h *Hand) {
	p.clearHands()
	p.pending.pushBack(h)
}

// nextHand makes the front pending hand current
func (p *Player) nextHand() bool {
	h, ok := p.pending.popFront()
	if !ok {
		p.current = nil
		return false
	}
	p.current = h
	return true
}

// finishHand moves the current hand to the completed list
func (p *Player) finishHand() {
	if p.current == nil {
		return
	}
	p.completed = append(p.completed, p.current)
	p.current = nil
}
