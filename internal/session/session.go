// Package session repeats rounds for a roster and tracks how each bankroll
// develops over the run.
package session

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/blackjack/internal/game"
)

// Reason is why a session ended
type Reason int

const (
	// Completed means the requested number of rounds was played
	Completed Reason = iota
	// Stopped means the human quit or ran out of money
	Stopped
	// Depleted means every player was removed
	Depleted
	// Cancelled means the context was done
	Cancelled
)

func (r Reason) String() string {
	return [...]string{"completed", "stopped", "depleted", "cancelled"}[r]
}

// Config controls the length of a session
type Config struct {
	Rounds      int // 0 plays until stopped or depleted
	Interactive bool
}

// PlayerReport summarises one player's run
type PlayerReport struct {
	Name     string
	Strategy string
	Initial  int
	Final    int
	Peak     int
	Rounds   int // rounds the player was dealt into
	Removed  bool
}

// Growth returns the change from the initial bankroll in percent
func (p PlayerReport) Growth() float64 {
	if p.Initial == 0 {
		return 0
	}
	return float64(p.Final-p.Initial) / float64(p.Initial) * 100
}

// Report is the outcome of a session
type Report struct {
	ID      string
	Rounds  int
	Reason  Reason
	Result  game.Result // the round result that stopped the session, if any
	Players []PlayerReport
}

// Session runs rounds for a fixed roster against one card source
type Session struct {
	id      string
	config  Config
	players []*game.Player
	source  game.CardSource
	events  game.EventBus
	logger  *log.Logger
}

// New creates a session. events may be nil.
func New(config Config, players []*game.Player, source game.CardSource, events game.EventBus, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		config:  config,
		players: players,
		source:  source,
		events:  events,
		logger:  logger.With("session", id[:8]),
	}
}

// ID returns the session's unique id
func (s *Session) ID() string { return s.id }

// Run plays rounds until the limit, a stop signal, an empty roster or
// cancellation. Errors are fatal engine errors from a round.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	reports := make(map[*game.Player]*PlayerReport, len(s.players))
	for _, p := range s.players {
		reports[p] = &PlayerReport{
			Name:     p.Name,
			Strategy: strategyName(p),
			Initial:  p.InitialBankroll,
			Peak:     p.Bankroll,
		}
	}

	report := &Report{ID: s.id, Reason: Completed}
	roster := s.players

	opts := []game.RoundOption{
		game.WithInteractive(s.config.Interactive),
		game.WithLogger(s.logger),
	}
	if s.events != nil {
		opts = append(opts, game.WithEvents(s.events))
	}

	s.logger.Info("Session started", "players", len(roster), "rounds", s.config.Rounds)

	for n := 1; s.config.Rounds == 0 || n <= s.config.Rounds; n++ {
		if err := ctx.Err(); err != nil {
			report.Reason = Cancelled
			break
		}

		round := game.NewRound(n, roster, s.source, opts...)
		res, err := round.Play()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", n, err)
		}
		roster = round.Players()

		if res.StopsSession() {
			report.Reason = Stopped
			report.Result = res
			break
		}
		if len(roster) == 0 {
			report.Reason = Depleted
			break
		}

		report.Rounds = n
		for _, p := range roster {
			r := reports[p]
			r.Rounds++
			r.Peak = max(r.Peak, p.Bankroll)
		}
	}

	for _, p := range s.players {
		r := reports[p]
		r.Final = p.Bankroll
		r.Removed = p.Bankroll <= 0
		report.Players = append(report.Players, *r)
	}

	s.logger.Info("Session finished", "reason", report.Reason, "rounds", report.Rounds)
	return report, nil
}

func strategyName(p *game.Player) string {
	if p.Strategy == nil {
		return ""
	}
	return p.Strategy.Kind().String()
}
