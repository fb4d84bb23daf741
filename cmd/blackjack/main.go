package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/tables"
)

// version is set by ldflags during build
var version = "dev"

// maxRounds caps a session so a run without a depleting roster still ends
const maxRounds = 100000

// Globals are flags shared by every command
type Globals struct {
	Config   string `default:"blackjack.hcl" env:"BLACKJACK_CONFIG" help:"HCL table configuration file"`
	TableDir string `type:"path" help:"Directory with replacement decision table CSVs"`
	Seed     int64  `env:"BLACKJACK_SEED" help:"RNG seed (0 for random)"`
	LogLevel string `default:"info" env:"BLACKJACK_LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Sit at the table with the configured players"`
	Sim     SimCmd           `cmd:"" help:"Simulate the configured players over many sessions"`
	Advise  AdviseCmd        `cmd:"" help:"Show the basic strategy play for a hand"`
	Tables  TablesCmd        `cmd:"" help:"Print the decision tables"`
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack table with strategy players and a batch simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	if errors.Is(err, game.ErrInvariant) {
		log.Fatal("Engine invariant violated", "err", err)
	}
	ctx.FatalIfErrorf(err)
}

// logger builds a charmbracelet logger at the configured level
func (g *Globals) logger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}

// loadConfig reads and validates the HCL configuration
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTables returns the embedded tables unless a directory was given
func (g *Globals) loadTables() (*tables.Tables, error) {
	if g.TableDir == "" {
		return tables.Default()
	}
	return tables.LoadDir(g.TableDir)
}

// signalContext is cancelled on interrupt or SIGTERM
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, stopping after this round", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
