package strategy

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Human asks a person for every bet and decision
type Human struct {
	prompter Prompter
}

// NewHuman creates a Human strategy reading from prompter
func NewHuman(prompter Prompter) *Human {
	return &Human{prompter: prompter}
}

func (h *Human) Kind() game.Kind { return game.KindHuman }

// Decide offers only the legal actions. A 21 stands without asking.
func (h *Human) Decide(view game.PlayerView, upcard deck.Card) (game.Action, error) {
	if view.Total == 21 {
		return game.Stand, nil
	}

	options := []string{game.Hit.String(), game.Stand.String()}
	if view.CanDouble {
		options = append(options, game.Double.String())
	}
	if view.CanSplit {
		options = append(options, game.Split.String())
	}

	cards := make([]string, len(view.Cards))
	for i, c := range view.Cards {
		cards[i] = c.String()
	}
	prompt := fmt.Sprintf("Your hand: %s (%d), dealer shows %s. %s? ",
		strings.Join(cards, " "), view.Total, upcard, strings.Join(options, ", "))

	choice, err := h.prompter.Choose(prompt, options)
	if err != nil {
		return 0, err
	}
	return game.ParseAction(choice)
}

func (h *Human) Bet(view game.PlayerView) (int, error) {
	prompt := fmt.Sprintf("Your bankroll: $%d. Enter your bet amount: ", view.Bankroll)
	return h.prompter.Amount(prompt, 1, view.Bankroll)
}
