package session

import (
	"github.com/coder/quartz"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashgame-server/internal/rng"
	"cashgame-server/internal/util"
	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/hand"
	"cashgame-server/pkg/ledger"
)

// Manager applies operations to a CashGame
// Every operation takes the current game and returns a new one. The given game is never modified,
// so a failed operation leaves it exactly as it was.
type Manager struct {
	logger    logrus.FieldLogger
	clock     quartz.Clock
	gen       rng.Generator
	allocator chips.Allocator
}

// NewManager returns a new manager
// A nil clock or generator falls back to the real clock and the crypto generator
func NewManager(logger logrus.FieldLogger, clock quartz.Clock, gen rng.Generator, allocator chips.Allocator) *Manager {
	if clock == nil {
		clock = quartz.NewReal()
	}

	if gen == nil {
		gen = rng.Default()
	}

	return &Manager{
		logger:    logger,
		clock:     clock,
		gen:       gen,
		allocator: allocator,
	}
}

// NewGame returns an empty session with the standard chip set
func (m *Manager) NewGame(blinds hand.Options) (*CashGame, error) {
	if err := blinds.Validate(); err != nil {
		return nil, err
	}

	g := &CashGame{
		ID:                  util.NewID(),
		Denominations:       chips.DefaultSet(),
		ActivePlayers:       []ledger.Player{},
		CashedOutPlayers:    []ledger.CashedOutPlayer{},
		PendingJoinRequests: []JoinRequest{},
		Blinds:              blinds,
	}

	m.log(g).Info("session created")
	return g, nil
}

func (m *Manager) log(g *CashGame) logrus.FieldLogger {
	return m.logger.WithField("session", g.ID)
}

// open returns a copy of the game that can be modified
func open(g *CashGame) (*CashGame, error) {
	if g == nil {
		return nil, gameerr.New(gameerr.KindNotFound, "session not found")
	}

	if g.SettledAt != nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "the session has been settled")
	}

	return g.Clone(), nil
}

// AddDenomination adds a chip to the chip set
// The chip set is locked once any money has entered the session.
func (m *Manager) AddDenomination(g *CashGame, value decimal.Decimal, color, name string) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.HasTransactions() {
		return nil, gameerr.New(gameerr.KindChipSetLocked, "chips cannot be added once players have bought in")
	}

	for _, denom := range next.Denominations {
		if denom.Value.Equal(value) {
			return nil, gameerr.New(gameerr.KindStateConflict, "a %s chip already exists", value)
		}
	}

	next.Denominations = append(next.Denominations, chips.Denomination{
		ID:    next.Denominations.NextID(),
		Value: value,
		Color: color,
		Name:  name,
	})

	if err := next.Denominations.Validate(); err != nil {
		return nil, err
	}

	m.log(g).WithField("value", value).Info("denomination added")
	return next, nil
}

// RemoveDenomination removes a chip from the chip set
func (m *Manager) RemoveDenomination(g *CashGame, id int) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.HasTransactions() {
		return nil, gameerr.New(gameerr.KindChipSetLocked, "chips cannot be removed once players have bought in")
	}

	kept := make(chips.Denominations, 0, len(next.Denominations))
	for _, denom := range next.Denominations {
		if denom.ID != id {
			kept = append(kept, denom)
		}
	}

	if len(kept) == len(next.Denominations) {
		return nil, gameerr.New(gameerr.KindNotFound, "denomination %d not found", id)
	}

	next.Denominations = kept

	m.log(g).WithField("denomination", id).Info("denomination removed")
	return next, nil
}

// ResetDenominations restores the standard chip set
func (m *Manager) ResetDenominations(g *CashGame) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.HasTransactions() {
		return nil, gameerr.New(gameerr.KindChipSetLocked, "chips cannot be reset once players have bought in")
	}

	next.Denominations = chips.DefaultSet()

	m.log(g).Info("denominations reset")
	return next, nil
}

// SetBlinds changes the blinds used from the next hand on
func (m *Manager) SetBlinds(g *CashGame, blinds hand.Options) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if err := blinds.Validate(); err != nil {
		return nil, err
	}

	next.Blinds = blinds

	m.log(g).WithFields(logrus.Fields{
		"smallBlind": blinds.SmallBlind,
		"bigBlind":   blinds.BigBlind,
	}).Info("blinds changed")
	return next, nil
}

// DistributeChips previews the chips that would be handed out for amount
func (m *Manager) DistributeChips(g *CashGame, amount decimal.Decimal) (chips.Counts, error) {
	if g == nil {
		return nil, gameerr.New(gameerr.KindNotFound, "session not found")
	}

	return m.allocator.Allocate(amount, g.Denominations)
}
