package main

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/hand"
	"cashgame-server/pkg/room"
	"cashgame-server/pkg/session"
)

func setupTable(t *testing.T) (*session.Manager, *room.Table) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	m := session.NewManager(logger, nil, rand.New(rand.NewSource(1)), chips.DefaultAllocator()) // nolint:gosec
	pb := room.NewPitBoss(m, nil, 0, logger)
	t.Cleanup(pb.Shutdown)

	g, err := m.NewGame(hand.DefaultOptions())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	table, err := pb.Open(g)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return m, table
}

func TestSettle(t *testing.T) {
	a := assert.New(t)
	m, table := setupTable(t)

	l, err := readLedger("testdata/session.yaml")
	if !a.NoError(err) {
		return
	}

	a.Len(l.Players, 3)
	a.Equal([]string{"10", "10"}, l.Players[1].BuyIn)

	report, err := settle(context.Background(), m, table, l)
	a.NoError(err)
	if !a.NotNil(report) {
		return
	}

	a.True(report.Balanced)
	a.Equal("60", report.TotalBuyIn.String())
	a.Equal("55", report.TotalSettlement.String())
	a.Equal("5", report.TipValue.String())
	a.Len(report.Lines, 3)

	g, _, err := table.Snapshot(context.Background())
	a.NoError(err)
	a.NotNil(g.SettledAt)
}

func TestSettle_unbalanced(t *testing.T) {
	a := assert.New(t)
	m, table := setupTable(t)

	l, err := readLedger("testdata/session.yaml")
	if !a.NoError(err) {
		return
	}

	l.Tips = nil
	report, err := settle(context.Background(), m, table, l)
	a.True(errors.Is(err, gameerr.ErrUnbalancedSettlement))
	if a.NotNil(report) {
		a.False(report.Balanced)
		a.Equal("-5", report.Difference.String())
	}

	g, _, err := table.Snapshot(context.Background())
	a.NoError(err)
	a.Nil(g.SettledAt)

	_, err = readLedger("testdata/missing.yaml")
	a.Error(err)
}
