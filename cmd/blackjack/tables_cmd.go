package main

import (
	"os"

	"github.com/lox/blackjack/internal/display"
)

type TablesCmd struct{}

func (c *TablesCmd) Run(g *Globals) error {
	ts, err := g.loadTables()
	if err != nil {
		return err
	}
	display.New(os.Stdout).Tables(ts)
	return nil
}
