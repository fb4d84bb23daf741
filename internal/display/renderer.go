// Package display renders round events and session summaries to a terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/tables"
	"github.com/pterm/pterm"
)

// Renderer subscribes to round events and prints them as tables
type Renderer struct {
	out     io.Writer
	clock   quartz.Clock
	delay   time.Duration
	spinner bool
}

// Option configures a Renderer
type Option func(*Renderer)

// WithPacing waits delay on clock before revealing the dealer's hand
func WithPacing(clock quartz.Clock, delay time.Duration) Option {
	return func(r *Renderer) {
		r.clock = clock
		r.delay = delay
	}
}

// WithSpinner shows a spinner while pacing
func WithSpinner(enabled bool) Option {
	return func(r *Renderer) { r.spinner = enabled }
}

// New creates a renderer writing to out
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{out: out}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnEvent implements game.EventSubscriber
func (r *Renderer) OnEvent(event game.Event) {
	switch e := event.(type) {
	case game.PlayerRemovedEvent:
		fmt.Fprintln(r.out, WarningStyle.Render(e.Player+" is out of money and leaves the table."))

	case game.BetsPlacedEvent:
		rows := make([][]string, 0, len(e.Bets))
		for _, b := range e.Bets {
			rows = append(rows, []string{b.Player, money(b.Bet), money(b.Bankroll)})
		}
		r.table(fmt.Sprintf("Round %d: bets", e.Round), []string{"Player", "Bet", "Bankroll"}, rows)

	case game.InitialDealEvent:
		rows := make([][]string, 0, len(e.Hands))
		for _, h := range e.Hands {
			rows = append(rows, []string{h.Player, FormatCards(h.Cards), strconv.Itoa(h.Total)})
		}
		title := fmt.Sprintf("Round %d: dealer shows %s", e.Round, FormatCard(e.Upcard))
		r.table(title, []string{"Player", "Hand", "Total"}, rows)

	case game.TableMovesEvent:
		rows := make([][]string, 0, len(e.Hands))
		for _, h := range e.Hands {
			rows = append(rows, []string{h.Player, FormatCards(h.Cards), strconv.Itoa(h.Total), moves(h)})
		}
		r.table("Table moves", []string{"Player", "Hand", "Total", "Moves"}, rows)

	case game.HandActionEvent:
		line := fmt.Sprintf("%s %s: %s (%d)", e.Player, e.Action, FormatCards(e.Hand.Cards), e.Hand.Total)
		if e.Hand.Outcome == game.Bust {
			line += " " + ErrorStyle.Render("bust")
		}
		fmt.Fprintln(r.out, InfoStyle.Render(line))

	case game.InvalidMoveEvent:
		fmt.Fprintln(r.out, ErrorStyle.Render(fmt.Sprintf("Can't %s: %s.", e.Action, e.Reason)))

	case game.DealerFinalEvent:
		r.pause("Dealer is playing...")
		line := fmt.Sprintf("Dealer: %s (%d)", FormatCards(e.Cards), e.Total)
		if e.Total > 21 {
			line += " " + SuccessStyle.Render("Dealer busts!")
		}
		fmt.Fprintln(r.out, line)

	case game.SettlementEvent:
		rows := make([][]string, 0, len(e.Hands))
		for _, h := range e.Hands {
			rows = append(rows, []string{
				h.Player,
				FormatCards(h.Cards),
				strconv.Itoa(h.Total),
				money(h.Bet),
				h.Outcome.String(),
				money(h.Payout),
				money(e.Bankrolls[h.Player]),
			})
		}
		title := fmt.Sprintf("Round %d: results, dealer has %d", e.Round, e.DealerTotal)
		r.table(title, []string{"Player", "Hand", "Total", "Bet", "Result", "Payout", "Bankroll"}, rows)
	}
}

// Report prints the end of session summary. requested is the round limit the
// session was started with, 0 for none.
func (r *Renderer) Report(rep *session.Report, requested int) {
	if rep.Reason == session.Depleted && requested > 0 {
		fmt.Fprintln(r.out, WarningStyle.Render(fmt.Sprintf("No strategy made it %d rounds!", requested)))
	}

	rows := make([][]string, 0, len(rep.Players))
	for _, p := range rep.Players {
		rows = append(rows, []string{
			p.Name,
			p.Strategy,
			strconv.Itoa(p.Rounds),
			money(p.Initial),
			money(p.Final),
			money(p.Peak),
			fmt.Sprintf("%+.1f%%", p.Growth()),
		})
	}
	title := fmt.Sprintf("Session %s: %d rounds, %s", rep.ID[:8], rep.Rounds, rep.Reason)
	r.table(title, []string{"Player", "Strategy", "Rounds", "Start", "Final", "Peak", "Growth"}, rows)
}

// Tables prints the decision tables, one grid per table
func (r *Renderer) Tables(ts *tables.Tables) {
	for _, named := range []struct {
		name string
		t    *tables.Table
	}{
		{"Hard totals", ts.Hard},
		{"Soft totals", ts.Soft},
		{"Pair splitting", ts.Pairs},
	} {
		t := named.t
		rows := make([][]string, 0, len(t.Rows()))
		for _, row := range t.Rows() {
			cells := []string{row}
			for _, col := range tables.DealerColumns {
				code, err := t.Lookup(row, col)
				if err != nil {
					cells = append(cells, "?")
					continue
				}
				cells = append(cells, code.String())
			}
			rows = append(rows, cells)
		}
		r.table(named.name, append([]string{t.Title()}, tables.DealerColumns...), rows)
	}
}

func (r *Renderer) table(title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style { return CellStyle }).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(r.out, HeaderStyle.Render(title))
	fmt.Fprintln(r.out, t.Render())
}

func (r *Renderer) pause(msg string) {
	if r.clock == nil || r.delay <= 0 {
		return
	}

	var spinner *pterm.SpinnerPrinter
	if r.spinner {
		spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(msg)
	}

	done := make(chan struct{})
	timer := r.clock.AfterFunc(r.delay, func() { close(done) })
	<-done
	timer.Stop()

	if spinner != nil {
		_ = spinner.Stop()
	}
}

func money(n int) string {
	return "$" + strconv.Itoa(n)
}

func moves(h game.HandSummary) string {
	tags := make([]string, 0, len(h.Actions)+1)
	for _, a := range h.Actions {
		tags = append(tags, a.String())
	}
	if h.Outcome != game.Pending {
		tags = append(tags, h.Outcome.String())
	}
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}
