package room

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/session"
)

// PitBoss keeps track of the open tables
type PitBoss struct {
	tables  map[string]*Table
	lock    sync.RWMutex
	manager *session.Manager
	clock   quartz.Clock
	lease   time.Duration
	logger  logrus.FieldLogger
}

// NewPitBoss returns a new PitBoss
func NewPitBoss(manager *session.Manager, clock quartz.Clock, lease time.Duration, logger logrus.FieldLogger) *PitBoss {
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &PitBoss{
		tables:  make(map[string]*Table),
		manager: manager,
		clock:   clock,
		lease:   lease,
		logger:  logger,
	}
}

// Open starts a table for the session
func (p *PitBoss) Open(game *session.CashGame) (*Table, error) {
	if game == nil {
		return nil, gameerr.New(gameerr.KindNotFound, "session not found")
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if _, found := p.tables[game.ID]; found {
		return nil, gameerr.New(gameerr.KindStateConflict, "session %s is already open", game.ID)
	}

	table := NewTable(game, p.manager, p.clock, p.lease, p.logger)
	table.StartShift()
	p.tables[game.ID] = table

	p.logger.WithField("session", game.ID).Info("table opened")
	return table, nil
}

// Get returns the table for the session
func (p *PitBoss) Get(id string) (*Table, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	table, found := p.tables[id]
	return table, found
}

// Close ends the table's shift
func (p *PitBoss) Close(id string) error {
	p.lock.Lock()
	table, found := p.tables[id]
	delete(p.tables, id)
	p.lock.Unlock()

	if !found {
		return gameerr.New(gameerr.KindNotFound, "session %s is not open", id)
	}

	table.EndShift()
	p.logger.WithField("session", id).Info("table closed")
	return nil
}

// Shutdown closes every table
func (p *PitBoss) Shutdown() {
	p.lock.Lock()
	tables := p.tables
	p.tables = make(map[string]*Table)
	p.lock.Unlock()

	for _, table := range tables {
		table.EndShift()
	}

	p.logger.WithField("tables", len(tables)).Info("all tables closed")
}
