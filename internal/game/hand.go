package game

import (
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Total returns the best blackjack total for cards: every Ace starts at 11 and
// is demoted to 1, one at a time, while the total is over 21.
func Total(cards []deck.Card) int {
	total, _ := score(cards)
	return total
}

// IsSoft reports whether an Ace is still counted as 11 in the total
func IsSoft(cards []deck.Card) bool {
	_, soft := score(cards)
	return soft
}

func score(cards []deck.Card) (int, bool) {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// Hand is a set of cards played against the dealer together with its bet
type Hand struct {
	Cards []deck.Card
	Bet   int

	original bool // the two cards dealt at the start of the round
	split    bool
	settled  bool
	payout   int
	actions  []Action
	outcome  Outcome
}

// NewHand creates a hand from the initial deal. Only such a hand can be a natural.
func NewHand(bet int, cards ...deck.Card) *Hand {
	return &Hand{
		Cards:    slices.Clone(cards),
		Bet:      bet,
		original: true,
	}
}

// newSplitHand starts one side of a split from a single card
func newSplitHand(bet int, card deck.Card) *Hand {
	return &Hand{
		Cards: []deck.Card{card},
		Bet:   bet,
		split: true,
	}
}

// Add appends a dealt card
func (h *Hand) Add(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

// Total returns the hand total
func (h *Hand) Total() int { return Total(h.Cards) }

// IsSoft reports whether an Ace is currently counted as 11
func (h *Hand) IsSoft() bool { return IsSoft(h.Cards) }

// IsPair reports two cards of equal blackjack value (so K and 10 pair)
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].BlackjackValue() == h.Cards[1].BlackjackValue()
}

// IsBusted reports a total over 21
func (h *Hand) IsBusted() bool { return h.Total() > 21 }

// IsNatural reports a two-card 21 from the initial deal. A split hand that
// makes 21 with two cards is not a natural.
func (h *Hand) IsNatural() bool {
	return h.original && len(h.Cards) == 2 && h.Total() == 21
}

// IsSplit reports whether the hand was created by splitting a pair
func (h *Hand) IsSplit() bool { return h.split }

// Actions returns the actions taken on the hand in order
func (h *Hand) Actions() []Action { return slices.Clone(h.actions) }

// Outcome returns the recorded terminal outcome, Pending until closed
func (h *Hand) Outcome() Outcome { return h.outcome }

// Payout returns the amount credited back to the bankroll at settlement
func (h *Hand) Payout() int { return h.payout }

// Tags returns the action names followed by the outcome, if any
func (h *Hand) Tags() []string {
	tags := make([]string, 0, len(h.actions)+1)
	for _, a := range h.actions {
		tags = append(tags, a.String())
	}
	if h.outcome != Pending {
		tags = append(tags, h.outcome.String())
	}
	return tags
}

func (h *Hand) record(a Action) {
	h.actions = append(h.actions, a)
}

func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
