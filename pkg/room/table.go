package room

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/session"
)

// ErrTableClosed is returned when a table is used after its shift has ended
var ErrTableClosed = errors.New("table is closed")

// Mutation is a session operation, usually a session.Manager method bound to its arguments
type Mutation func(g *session.CashGame) (*session.CashGame, error)

// Table owns one session and applies every change to it in order
// All state is only touched from the run loop.
type Table struct {
	id      string
	logger  logrus.FieldLogger
	clock   quartz.Clock
	manager *session.Manager
	lease   time.Duration

	game      *session.CashGame
	version   int64
	heartbeat time.Time
	events    []Event

	execInRunLoop chan func()
	close         chan bool
	done          chan struct{}
}

// NewTable creates a new table for the session
// A lease of zero means the croupier keeps the seat until it is released.
func NewTable(game *session.CashGame, manager *session.Manager, clock quartz.Clock, lease time.Duration, logger logrus.FieldLogger) *Table {
	return &Table{
		id:            game.ID,
		logger:        logger.WithField("session", game.ID),
		clock:         clock,
		manager:       manager,
		lease:         lease,
		game:          game.Clone(),
		version:       1,
		events:        make([]Event, 0, eventLimit),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		done:          make(chan struct{}),
	}
}

// ID returns the id of the session
func (t *Table) ID() string {
	return t.id
}

// StartShift starts the run loop
func (t *Table) StartShift() {
	go t.runLoop()
}

// EndShift stops the run loop
func (t *Table) EndShift() {
	close(t.close)
}

func (t *Table) runLoop() {
	defer close(t.done)

	t.logger.Debug("creating table run loop")
	for {
		select {
		case fn := <-t.execInRunLoop:
			select {
			case <-t.close:
				t.logger.Debug("terminating table run loop")
				return
			default:
			}

			fn()
		case <-t.close:
			t.logger.Debug("terminating table run loop")
			return
		}
	}
}

// exec runs fn on the run loop and waits for it to finish
// fn is skipped if ctx is done before the run loop reaches it. Once fn has started, exec waits for it, so a
// change that was stored is never reported as cancelled.
func (t *Table) exec(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	skipped := false
	job := func() {
		defer close(ran)
		if ctx.Err() != nil {
			skipped = true
			return
		}

		fn()
	}

	select {
	case t.execInRunLoop <- job:
	case <-t.done:
		return ErrTableClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ran:
	case <-t.done:
		// the run loop may have finished the job just before it stopped
		select {
		case <-ran:
		default:
			return ErrTableClosed
		}
	}

	if skipped {
		return ctx.Err()
	}

	return nil
}

// Snapshot returns a copy of the session and its version
func (t *Table) Snapshot(ctx context.Context) (*session.CashGame, int64, error) {
	var game *session.CashGame
	var version int64
	err := t.exec(ctx, func() {
		game = t.game.Clone()
		version = t.version
	})

	return game, version, err
}

// Update applies fn only if the session is still at expectedVersion
// This is the compare-and-set callers use after reading a Snapshot.
func (t *Table) Update(ctx context.Context, expectedVersion int64, name string, fn Mutation) (*session.CashGame, int64, error) {
	return t.mutate(ctx, name, func() error {
		if t.version != expectedVersion {
			return gameerr.New(gameerr.KindStateConflict, "the session has changed since version %d", expectedVersion)
		}

		return nil
	}, fn)
}

// Apply applies fn to whatever the current session is
func (t *Table) Apply(ctx context.Context, name string, fn Mutation) (*session.CashGame, int64, error) {
	return t.mutate(ctx, name, nil, fn)
}

// mutate runs check then fn on the run loop, storing the result if both succeed
func (t *Table) mutate(ctx context.Context, name string, check func() error, fn Mutation) (*session.CashGame, int64, error) {
	var game *session.CashGame
	var version int64
	var fnErr error

	err := t.exec(ctx, func() {
		if check != nil {
			if fnErr = check(); fnErr != nil {
				return
			}
		}

		game, version, fnErr = t.store(name, fn)
	})
	if err != nil {
		return nil, 0, err
	}

	if fnErr != nil {
		return nil, 0, fnErr
	}

	return game, version, nil
}

// store applies fn and bumps the version
// NOTE: must only be called from the run loop
func (t *Table) store(name string, fn Mutation) (*session.CashGame, int64, error) {
	next, err := fn(t.game.Clone())
	if err != nil {
		t.logger.WithError(err).WithField("action", name).Debug("mutation rejected")
		return nil, 0, err
	}

	if next == nil {
		return nil, 0, gameerr.New(gameerr.KindStateConflict, "%s did not return a session", name)
	}

	t.game = next
	t.version++
	t.addEvent(name)

	return t.game.Clone(), t.version, nil
}

// leaseExpired returns true if the croupier has not sent a heartbeat in time
// NOTE: must only be called from the run loop
func (t *Table) leaseExpired() bool {
	if t.game.CroupierID == "" || t.lease <= 0 {
		return false
	}

	return t.clock.Now().After(t.heartbeat.Add(t.lease))
}

// expireCroupier frees the croupier seat if the lease ran out
// NOTE: must only be called from the run loop
func (t *Table) expireCroupier() {
	if !t.leaseExpired() {
		return
	}

	croupier := t.game.CroupierID
	if _, _, err := t.store("croupier-expired", func(g *session.CashGame) (*session.CashGame, error) {
		return t.manager.ReleaseCroupier(g, croupier)
	}); err != nil {
		t.logger.WithError(err).Error("could not release expired croupier")
		return
	}

	t.logger.WithField("croupier", croupier).Info("croupier lease expired")
}

// ClaimCroupier takes the croupier seat for id
// A seat held by someone whose lease has expired is taken over.
func (t *Table) ClaimCroupier(ctx context.Context, id string) (*session.CashGame, int64, error) {
	return t.mutate(ctx, "croupier-claimed", func() error {
		t.expireCroupier()
		return nil
	}, func(g *session.CashGame) (*session.CashGame, error) {
		next, err := t.manager.ClaimCroupier(g, id)
		if err != nil {
			return nil, err
		}

		t.heartbeat = t.clock.Now()
		return next, nil
	})
}

// Heartbeat extends the croupier's lease
func (t *Table) Heartbeat(ctx context.Context, id string) error {
	var hbErr error
	err := t.exec(ctx, func() {
		hbErr = t.checkCroupier(id)
		if hbErr == nil {
			t.heartbeat = t.clock.Now()
		}
	})
	if err != nil {
		return err
	}

	return hbErr
}

// ReleaseCroupier gives up the croupier seat
func (t *Table) ReleaseCroupier(ctx context.Context, id string) (*session.CashGame, int64, error) {
	return t.Apply(ctx, "croupier-released", func(g *session.CashGame) (*session.CashGame, error) {
		return t.manager.ReleaseCroupier(g, id)
	})
}

// Croupier applies fn on behalf of the croupier
// Hand operations go through here so only the croupier holding a live lease can drive a hand.
func (t *Table) Croupier(ctx context.Context, id, name string, fn Mutation) (*session.CashGame, int64, error) {
	return t.mutate(ctx, name, func() error {
		if err := t.checkCroupier(id); err != nil {
			return err
		}

		t.heartbeat = t.clock.Now()
		return nil
	}, fn)
}

// checkCroupier ensures id holds the croupier seat with a live lease
// NOTE: must only be called from the run loop
func (t *Table) checkCroupier(id string) error {
	t.expireCroupier()

	if t.game.CroupierID == "" {
		return gameerr.New(gameerr.KindStateConflict, "there is no croupier")
	}

	if t.game.CroupierID != id {
		return gameerr.New(gameerr.KindStateConflict, "%s is not the croupier", id)
	}

	return nil
}

// Events returns the most recent changes to the session, oldest first
func (t *Table) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	err := t.exec(ctx, func() {
		events = append([]Event(nil), t.events...)
	})

	return events, err
}
