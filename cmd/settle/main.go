package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"cashgame-server/internal/config"
	"cashgame-server/internal/rng"
	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/room"
	"cashgame-server/pkg/session"
	"cashgame-server/pkg/settlement"
)

const timeout = time.Second * 10

var file = flag.String("file", "session.yaml", "the session ledger to settle")
var force = flag.Bool("force", false, "close the session even if it does not balance")

// ledger is a finished night: what each player bought in for and the chips they ended with
type ledger struct {
	Players []struct {
		Name  string       `yaml:"name"`
		BuyIn []string     `yaml:"buyIn"`
		Final chips.Counts `yaml:"final"`
	} `yaml:"players"`
	Tips chips.Counts `yaml:"tips"`
	Rake chips.Counts `yaml:"rake"`
}

func main() {
	flag.Parse()
	setupLogger()

	l, err := readLedger(*file)
	if err != nil {
		logrus.WithError(err).Fatal("could not read ledger")
	}

	cfg := config.Instance()
	blinds, err := cfg.HandOptions()
	if err != nil {
		logrus.WithError(err).Fatal("invalid blinds")
	}

	allocator, err := cfg.ChipAllocator()
	if err != nil {
		logrus.WithError(err).Fatal("invalid allocator")
	}

	manager := session.NewManager(logrus.StandardLogger(), nil, rng.Default(), allocator)
	pitBoss := room.NewPitBoss(manager, nil, cfg.CroupierLease(), logrus.StandardLogger())
	defer pitBoss.Shutdown()

	game, err := manager.NewGame(blinds)
	if err != nil {
		logrus.WithError(err).Fatal("could not create session")
	}

	table, err := pitBoss.Open(game)
	if err != nil {
		logrus.WithError(err).Fatal("could not open table")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := settle(ctx, manager, table, l)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			logrus.WithError(encErr).Error("could not encode report")
		}
	}

	if err != nil {
		logrus.WithError(err).Fatal("could not settle session")
	}
}

func readLedger(path string) (*ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var l ledger
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}

	return &l, nil
}

// settle records every buy-in on the table, then settles with the final counts
func settle(ctx context.Context, m *session.Manager, table *room.Table, l *ledger) (*settlement.Report, error) {
	finalChips := make(map[string]chips.Counts, len(l.Players))
	for _, p := range l.Players {
		if len(p.BuyIn) == 0 {
			continue
		}

		var playerID string
		for i, amount := range p.BuyIn {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return nil, err
			}

			if _, _, err := table.Apply(ctx, "buy-in", func(g *session.CashGame) (*session.CashGame, error) {
				if i == 0 {
					next, id, err := m.BuyIn(g, p.Name, value, nil)
					playerID = id
					return next, err
				}

				next, _, err := m.Rebuy(g, playerID, value, nil)
				return next, err
			}); err != nil {
				return nil, err
			}
		}

		finalChips[playerID] = p.Final
	}

	var report *settlement.Report
	_, _, err := table.Apply(ctx, "settled", func(g *session.CashGame) (*session.CashGame, error) {
		next, r, err := m.Settle(g, finalChips, l.Tips, l.Rake, *force)
		report = r
		return next, err
	})

	return report, err
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(config.Instance().Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// reports go to stdout
	logrus.SetOutput(os.Stderr)
}
