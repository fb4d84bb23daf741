package main

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

type AdviseCmd struct {
	Upcard string   `arg:"" help:"Dealer upcard, e.g. 6d"`
	Cards  []string `arg:"" help:"Your cards, e.g. 10h 6c"`
}

func (c *AdviseCmd) Run(g *Globals) error {
	ts, err := g.loadTables()
	if err != nil {
		return err
	}
	upcard, err := deck.ParseCard(c.Upcard)
	if err != nil {
		return fmt.Errorf("upcard: %w", err)
	}
	cards, err := deck.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}

	action, err := strategy.Advise(ts, cards, upcard)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d) against %s: %s\n",
		display.FormatCards(cards), game.Total(cards), display.FormatCard(upcard),
		display.SuccessStyle.Render(action.String()))
	return nil
}
