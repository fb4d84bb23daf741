// Package console reads a human player's choices from the terminal.
package console

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/lox/blackjack/internal/game"
)

// QuitWords end the session from any prompt
var QuitWords = []string{"quit", "exit", "q", "stop"}

// LineReader is the part of a readline instance the prompter uses
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Styles for prompts and messages
type Styles struct {
	Prompt lipgloss.Style
	Info   lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles returns the standard console colours
func DefaultStyles() Styles {
	return Styles{
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
}

// Prompter asks questions until it gets a valid answer or the player quits
type Prompter struct {
	rl     LineReader
	out    io.Writer
	styles Styles
}

// New creates a prompter on the terminal with completion for actions
func New(out io.Writer) (*Prompter, error) {
	completer := readline.NewPrefixCompleter()
	for _, word := range append([]string{"hit", "stand", "double", "split"}, QuitWords...) {
		completer.Children = append(completer.Children, readline.PcItem(word))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          out,
	})
	if err != nil {
		return nil, err
	}
	return NewWithReader(rl, out), nil
}

// NewWithReader creates a prompter over any line source
func NewWithReader(rl LineReader, out io.Writer) *Prompter {
	return &Prompter{rl: rl, out: out, styles: DefaultStyles()}
}

// Close releases the terminal
func (p *Prompter) Close() error {
	return p.rl.Close()
}

// Choose returns one of options. Input matches an option exactly or by
// prefix, earlier options winning, so "s" is stand when both stand and split
// are offered.
func (p *Prompter) Choose(prompt string, options []string) (string, error) {
	for {
		line, err := p.read(prompt)
		if err != nil {
			return "", err
		}

		if slices.Contains(options, line) {
			return line, nil
		}
		for _, opt := range options {
			if strings.HasPrefix(opt, line) {
				return opt, nil
			}
		}
		p.complain("Choice not in allowed options: " + strings.Join(options, ", "))
	}
}

// Amount returns a whole number between lo and hi inclusive
func (p *Prompter) Amount(prompt string, lo, hi int) (int, error) {
	for {
		line, err := p.read(prompt)
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(strings.TrimPrefix(line, "$"))
		if err != nil {
			p.complain("Invalid input type.")
			continue
		}
		if n < lo || n > hi {
			p.complain(fmt.Sprintf("Enter an amount from %d to %d.", lo, hi))
			continue
		}
		return n, nil
	}
}

// read returns the next non-empty lowercased line, or game.ErrQuit
func (p *Prompter) read(prompt string) (string, error) {
	p.rl.SetPrompt(p.styles.Prompt.Render(prompt))
	for {
		line, err := p.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(p.out, p.styles.Info.Render("Use 'quit' to exit"))
			continue
		}
		if errors.Is(err, io.EOF) {
			return "", game.ErrQuit
		}
		if err != nil {
			return "", err
		}

		line = strings.ToLower(strings.Join(strings.Fields(line), ""))
		if line == "" {
			continue
		}
		if slices.Contains(QuitWords, line) {
			return "", game.ErrQuit
		}
		return line, nil
	}
}

func (p *Prompter) complain(msg string) {
	fmt.Fprintln(p.out, p.styles.Error.Render(msg))
}
