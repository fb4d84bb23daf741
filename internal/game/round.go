package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

const (
	// DealerStandsAt is the lowest total the dealer stands on, soft or hard
	DealerStandsAt = 17
	blackjack      = 21
)

// Result is how a round ended
type Result int

const (
	Completed Result = iota
	HumanBroke
	HumanQuit
)

func (r Result) String() string {
	return [...]string{"completed", "human-broke", "human-quit"}[r]
}

// StopsSession reports whether the whole session must end after this round
func (r Result) StopsSession() bool {
	return r != Completed
}

// RoundOption configures a Round during creation
type RoundOption func(*Round)

// WithInteractive marks the round as having a human at the table, which
// publishes the table moves before the human acts
func WithInteractive(interactive bool) RoundOption {
	return func(r *Round) { r.interactive = interactive }
}

// WithEvents sets where round events are published
func WithEvents(bus EventBus) RoundOption {
	return func(r *Round) { r.events = bus }
}

// WithLogger sets the round logger
func WithLogger(logger *log.Logger) RoundOption {
	return func(r *Round) { r.logger = logger }
}

// Round plays one deal-to-settle cycle. It is discarded after Play returns.
type Round struct {
	number      int
	players     []*Player
	source      CardSource
	interactive bool
	events      EventBus
	logger      *log.Logger

	dealer *Hand
}

// NewRound creates a round for the roster against the card source
func NewRound(number int, players []*Player, source CardSource, opts ...RoundOption) *Round {
	if source == nil {
		panic("card source is required for a round")
	}

	r := &Round{
		number:  number,
		players: players,
		source:  source,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	r.logger = r.logger.With("round", number)
	return r
}

// Players returns the roster left after removal
func (r *Round) Players() []*Player { return r.players }

// Dealer returns the dealer's hand once dealt
func (r *Round) Dealer() *Hand { return r.dealer }

// Play runs the round. A non-nil error always wraps ErrInvariant or a card
// source failure and means the run cannot continue.
func (r *Round) Play() (Result, error) {
	if res := r.removeBroke(); res != Completed {
		return res, nil
	}
	if len(r.players) == 0 {
		return Completed, nil
	}

	bets, res, err := r.takeBets()
	if err != nil || res != Completed {
		return res, err
	}

	if err := r.dealInitial(bets); err != nil {
		return Completed, err
	}

	r.settleNaturals()

	if res, err := r.playerTurns(); err != nil || res != Completed {
		return res, err
	}

	if err := r.dealerPlay(); err != nil {
		return Completed, err
	}

	if err := r.settle(); err != nil {
		return Completed, err
	}

	r.source.Recycle()
	return Completed, nil
}

func (r *Round) publish(e Event) {
	if r.events != nil {
		r.events.Publish(e)
	}
}

func (r *Round) draw() (deck.Card, error) {
	card, err := r.source.Deal()
	if err != nil {
		return deck.Card{}, fmt.Errorf("round %d: deal: %w", r.number, err)
	}
	return card, nil
}

func (r *Round) upcard() deck.Card {
	return r.dealer.Cards[0]
}

// removeBroke drops players with nothing left to bet. A broke human ends the
// session before any bet is taken.
func (r *Round) removeBroke() Result {
	kept := r.players[:0:0]
	for _, p := range r.players {
		if p.Bankroll > 0 {
			kept = append(kept, p)
			continue
		}

		r.logger.Info("Player removed", "player", p.Name, "bankroll", p.Bankroll)
		r.publish(PlayerRemovedEvent{Round: r.number, Player: p.Name, Human: p.IsHuman()})
		if p.IsHuman() {
			return HumanBroke
		}
	}
	r.players = kept
	return Completed
}

func (r *Round) takeBets() ([]int, Result, error) {
	bets := make([]int, len(r.players))
	seats := make([]SeatBet, 0, len(r.players))

	for i, p := range r.players {
		p.clearHands()

		bet, err := p.Strategy.Bet(p.View())
		if errors.Is(err, ErrQuit) {
			return nil, HumanQuit, nil
		}
		if err != nil {
			return nil, Completed, fmt.Errorf("%s bet: %w", p.Name, err)
		}
		if bet <= 0 || bet > p.Bankroll {
			return nil, Completed, invariantf("%s bet %d outside (0, %d]", p.Name, bet, p.Bankroll)
		}
		if err := p.debit(bet); err != nil {
			return nil, Completed, err
		}

		bets[i] = bet
		seats = append(seats, SeatBet{Player: p.Name, Bet: bet, Bankroll: p.Bankroll})
		r.logger.Debug("Bet placed", "player", p.Name, "bet", bet, "bankroll", p.Bankroll)
	}

	r.publish(BetsPlacedEvent{Round: r.number, Bets: seats})
	return bets, Completed, nil
}

func (r *Round) dealInitial(bets []int) error {
	for i, p := range r.players {
		first, err := r.draw()
		if err != nil {
			return err
		}
		second, err := r.draw()
		if err != nil {
			return err
		}
		p.startRound(NewHand(bets[i], first, second))
	}

	up, err := r.draw()
	if err != nil {
		return err
	}
	hole, err := r.draw()
	if err != nil {
		return err
	}
	r.dealer = NewHand(0, up, hole)

	hands := make([]HandSummary, 0, len(r.players))
	for _, p := range r.players {
		hands = append(hands, summarize(p.Name, p.pending.front()))
	}
	r.publish(InitialDealEvent{Round: r.number, Upcard: up, Hands: hands})
	return nil
}

// settleNaturals pays two-card 21s immediately: a refund against a dealer 21,
// otherwise 3:2. Those hands never enter player turns.
func (r *Round) settleNaturals() {
	dealerTotal := r.dealer.Total()

	for _, p := range r.players {
		h := p.pending.front()
		if h == nil || !h.IsNatural() {
			continue
		}

		if dealerTotal == blackjack {
			h.outcome = BlackjackPush
			h.payout = h.Bet
		} else {
			h.outcome = Blackjack
			h.payout = h.Bet * 5 / 2
		}
		h.settled = true
		p.credit(h.payout)

		p.nextHand()
		p.finishHand()
		r.logger.Debug("Natural", "player", p.Name, "outcome", h.outcome, "payout", h.payout)
	}
}

func (r *Round) playerTurns() (Result, error) {
	for _, p := range r.players {
		if r.interactive && p.IsHuman() {
			r.publish(TableMovesEvent{Round: r.number, Hands: r.tableSummary()})
		}

		for p.nextHand() {
			res, err := r.playHand(p)
			if err != nil || res != Completed {
				return res, err
			}
		}
	}
	return Completed, nil
}

func (r *Round) tableSummary() []HandSummary {
	var hands []HandSummary
	for _, p := range r.players {
		for _, h := range p.completed {
			hands = append(hands, summarize(p.Name, h))
		}
		if p.current != nil {
			hands = append(hands, summarize(p.Name, p.current))
		}
		for _, h := range p.pending.hands {
			hands = append(hands, summarize(p.Name, h))
		}
	}
	return hands
}

// playHand runs the current hand until it stands, busts, doubles or splits
func (r *Round) playHand(p *Player) (Result, error) {
	h := p.current

	for {
		if n := p.HandCount(); n > MaxHands {
			return Completed, invariantf("%s holds %d hands, limit is %d", p.Name, n, MaxHands)
		}

		if h.Total() == blackjack {
			h.record(Stand)
			r.publishAction(p, Stand, h)
			p.finishHand()
			return Completed, nil
		}

		action, err := p.Strategy.Decide(p.View(), r.upcard())
		if errors.Is(err, ErrQuit) {
			return HumanQuit, nil
		}
		if err != nil {
			return Completed, fmt.Errorf("%s decide: %w", p.Name, err)
		}
		r.logger.Debug("Decision",
			"player", p.Name,
			"hand", h.String(),
			"total", h.Total(),
			"upcard", r.upcard().String(),
			"action", action)

		switch action {
		case Hit:
			card, err := r.draw()
			if err != nil {
				return Completed, err
			}
			h.Add(card)
			h.record(Hit)
			busted := p.HandleBust()
			r.publishAction(p, Hit, h)
			if busted {
				p.finishHand()
				return Completed, nil
			}

		case Stand:
			h.record(Stand)
			r.publishAction(p, Stand, h)
			p.finishHand()
			return Completed, nil

		case Double:
			if !p.CanDouble() {
				if p.IsHuman() {
					r.refuse(p, Double, "bankroll does not cover the bet")
					continue
				}
				return Completed, invariantf("%s doubled without the bankroll to cover %d", p.Name, h.Bet)
			}
			if err := p.debit(h.Bet); err != nil {
				return Completed, err
			}
			h.Bet *= 2
			card, err := r.draw()
			if err != nil {
				return Completed, err
			}
			h.Add(card)
			h.record(Double)
			p.HandleBust()
			r.publishAction(p, Double, h)
			p.finishHand()
			return Completed, nil

		case Split:
			if !p.CanSplit() {
				if p.IsHuman() {
					r.refuse(p, Split, "hand cannot be split")
					continue
				}
				return Completed, invariantf("%s split %s illegally", p.Name, h)
			}
			return Completed, r.split(p, h)

		default:
			return Completed, invariantf("%s returned unknown action %v", p.Name, action)
		}
	}
}

// split replaces the current hand with two one-card hands, each dealt a
// second card, and puts both at the front of the player's queue
func (r *Round) split(p *Player, h *Hand) error {
	if err := p.debit(h.Bet); err != nil {
		return err
	}

	first := newSplitHand(h.Bet, h.Cards[0])
	second := newSplitHand(h.Bet, h.Cards[1])
	for _, sh := range []*Hand{first, second} {
		card, err := r.draw()
		if err != nil {
			return err
		}
		sh.Add(card)
		sh.record(Split)
	}

	p.current = nil
	p.pending.pushFront(first, second)
	if n := p.HandCount(); n > MaxHands {
		return invariantf("%s holds %d hands after split, limit is %d", p.Name, n, MaxHands)
	}

	r.logger.Debug("Split", "player", p.Name, "first", first.String(), "second", second.String())
	r.publishAction(p, Split, first)
	return nil
}

func (r *Round) refuse(p *Player, a Action, reason string) {
	r.publish(InvalidMoveEvent{Round: r.number, Player: p.Name, Action: a, Reason: reason})
}

func (r *Round) publishAction(p *Player, a Action, h *Hand) {
	r.publish(HandActionEvent{Round: r.number, Player: p.Name, Action: a, Hand: summarize(p.Name, h)})
}

func (r *Round) dealerPlay() error {
	for r.dealer.Total() < DealerStandsAt {
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.dealer.Add(card)
	}

	r.publish(DealerFinalEvent{
		Round: r.number,
		Cards: append([]deck.Card(nil), r.dealer.Cards...),
		Total: r.dealer.Total(),
	})
	return nil
}

// settle resolves every hand not already paid as a natural
func (r *Round) settle() error {
	dealerTotal := r.dealer.Total()
	var hands []HandSummary
	bankrolls := make(map[string]int, len(r.players))

	for _, p := range r.players {
		for _, h := range p.completed {
			if !h.settled {
				switch {
				case h.IsBusted():
					h.outcome = Bust
				case dealerTotal > blackjack || h.Total() > dealerTotal:
					h.outcome = Win
					h.payout = h.Bet * 2
				case h.Total() == dealerTotal:
					h.outcome = Push
					h.payout = h.Bet
				default:
					h.outcome = Loss
				}
				h.settled = true
				p.credit(h.payout)
			}

			if _, err := p.Outcome(h); err != nil {
				return err
			}
			hands = append(hands, summarize(p.Name, h))
		}
		bankrolls[p.Name] = p.Bankroll
	}

	r.publish(SettlementEvent{
		Round:       r.number,
		DealerTotal: dealerTotal,
		Hands:       hands,
		Bankrolls:   bankrolls,
	})
	return nil
}
