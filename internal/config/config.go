package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/strategy"
)

const (
	DefaultFile       = "blackjack.hcl"
	DefaultLogFile    = "blackjack.log"
	DefaultMinimumBet = 10
	DefaultBankroll   = 10000
)

// Config represents a blackjack table configuration file
type Config struct {
	LogFile string         `hcl:"log_file,optional"`
	Shoe    *ShoeConfig    `hcl:"shoe,block"`
	Table   *TableConfig   `hcl:"table,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// ShoeConfig describes the card shoe
type ShoeConfig struct {
	Decks       int     `hcl:"decks,optional"`
	Penetration float64 `hcl:"penetration,optional"`
	CSM         bool    `hcl:"csm,optional"`
}

// TableConfig holds table limits
type TableConfig struct {
	MinimumBet int `hcl:"minimum_bet,optional"`
}

// PlayerConfig seats one computer player
type PlayerConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Bankroll int    `hcl:"bankroll,optional"`
}

// Default returns the configuration used when no file is present: a six-deck
// shoe and a single basic strategy player
func Default() *Config {
	def := shoe.DefaultConfig()
	return &Config{
		LogFile: DefaultLogFile,
		Shoe: &ShoeConfig{
			Decks:       def.Decks,
			Penetration: def.Penetration,
			CSM:         def.CSM,
		},
		Table: &TableConfig{MinimumBet: DefaultMinimumBet},
		Players: []PlayerConfig{
			{Name: "The Pro", Strategy: "basic", Bankroll: DefaultBankroll},
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to Default
// when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	if c.Shoe == nil {
		c.Shoe = def.Shoe
	}
	if c.Shoe.Decks == 0 {
		c.Shoe.Decks = def.Shoe.Decks
	}
	if c.Shoe.Penetration == 0 {
		c.Shoe.Penetration = def.Shoe.Penetration
	}
	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Table.MinimumBet == 0 {
		c.Table.MinimumBet = def.Table.MinimumBet
	}
	if len(c.Players) == 0 {
		c.Players = def.Players
	}
	for i := range c.Players {
		if c.Players[i].Strategy == "" {
			c.Players[i].Strategy = "basic"
		}
		if c.Players[i].Bankroll == 0 {
			c.Players[i].Bankroll = DefaultBankroll
		}
	}
}

// Validate validates the table configuration
func (c *Config) Validate() error {
	if err := c.ShoeConfig().Validate(); err != nil {
		return fmt.Errorf("shoe: %w", err)
	}
	if c.Table.MinimumBet < 1 {
		return fmt.Errorf("table: minimum bet must be positive, got %d", c.Table.MinimumBet)
	}
	if len(c.Players) == 0 {
		return errors.New("at least one player must be configured")
	}

	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if seen[p.Name] {
			return fmt.Errorf("player %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if p.Strategy == "human" {
			return fmt.Errorf("player %q: the human seat is added by the play command", p.Name)
		}
		if !slices.Contains(strategy.Names, p.Strategy) {
			return fmt.Errorf("player %q: %w %q", p.Name, strategy.ErrUnknown, p.Strategy)
		}
		if p.Bankroll <= 0 {
			return fmt.Errorf("player %q: bankroll must be positive", p.Name)
		}
	}
	return nil
}

// ShoeConfig converts the shoe block for shoe.New
func (c *Config) ShoeConfig() shoe.Config {
	return shoe.Config{
		Decks:       c.Shoe.Decks,
		Penetration: c.Shoe.Penetration,
		CSM:         c.Shoe.CSM,
	}
}

// Roster returns the configured players as simulator seats, in seating order
func (c *Config) Roster() []simulator.Seat {
	seats := make([]simulator.Seat, len(c.Players))
	for i, p := range c.Players {
		seats[i] = simulator.Seat{Name: p.Name, Strategy: p.Strategy, Bankroll: p.Bankroll}
	}
	return seats
}

// Player returns a player configuration by name
func (c *Config) Player(name string) *PlayerConfig {
	for i := range c.Players {
		if c.Players[i].Name == name {
			return &c.Players[i]
		}
	}
	return nil
}
