package game

import (
	"fmt"
	"strings"
)

// Action is a decision a player makes about the active hand
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction accepts an action name or its usual shorthand
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hit", "h":
		return Hit, nil
	case "stand", "s":
		return Stand, nil
	case "double", "d":
		return Double, nil
	case "split", "sp", "p":
		return Split, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Outcome is the terminal result recorded against a hand
type Outcome int

const (
	Pending Outcome = iota
	Win
	Loss
	Push
	Bust
	Blackjack
	BlackjackPush
)

func (o Outcome) String() string {
	return [...]string{"pending", "win", "loss", "push", "bust", "blackjack", "push-blackjack"}[o]
}
