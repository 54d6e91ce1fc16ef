package session

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashgame-server/internal/util"
	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/ledger"
)

// chipsFor checks that counts are worth amount
// When counts is nil the allocator decides which chips to hand out.
func (m *Manager) chipsFor(g *CashGame, amount decimal.Decimal, counts chips.Counts) (chips.Counts, error) {
	if !amount.IsPositive() {
		return nil, gameerr.New(gameerr.KindUndistributableAmount, "amount must be greater than zero")
	}

	if counts == nil {
		return m.allocator.Allocate(amount, g.Denominations)
	}

	if err := counts.Validate(g.Denominations); err != nil {
		return nil, err
	}

	if !counts.Matches(amount, g.Denominations) {
		return nil, gameerr.New(gameerr.KindChipCountMismatch, "chips worth %s do not match the amount of %s", counts.Value(g.Denominations).StringFixed(2), amount.StringFixed(2))
	}

	return counts.Fill(g.Denominations), nil
}

func (m *Manager) transaction(g *CashGame, kind ledger.TransactionKind, amount decimal.Decimal, counts chips.Counts) (ledger.Transaction, error) {
	counts, err := m.chipsFor(g, amount, counts)
	if err != nil {
		return ledger.Transaction{}, err
	}

	return ledger.Transaction{
		ID:     util.NewID(),
		Kind:   kind,
		Amount: amount,
		Chips:  counts,
	}, nil
}

// addPlayer seats a new player with an opening transaction
// Players who join after the seats were drawn sit after the highest seat.
func (m *Manager) addPlayer(next *CashGame, name string, kind ledger.TransactionKind, amount decimal.Decimal, counts chips.Counts) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = util.GuestName(m.gen)
	}

	if next.nameTaken(name) {
		return "", gameerr.New(gameerr.KindStateConflict, "%s is already in the session", name)
	}

	txn, err := m.transaction(next, kind, amount, counts)
	if err != nil {
		return "", err
	}

	p := ledger.Player{
		ID:           util.NewID(),
		Name:         name,
		Transactions: []ledger.Transaction{txn},
	}

	if next.PositionsFinalized {
		seat := next.nextSeat()
		p.Seat = &seat
	}

	next.ActivePlayers = append(next.ActivePlayers, p)
	return p.ID, nil
}

// BuyIn adds a player before the seats are drawn
// A nil counts lets the allocator pick the chips. Returns the id of the new player.
func (m *Manager) BuyIn(g *CashGame, name string, amount decimal.Decimal, counts chips.Counts) (*CashGame, string, error) {
	next, err := open(g)
	if err != nil {
		return nil, "", err
	}

	if next.PositionsFinalized {
		return nil, "", gameerr.New(gameerr.KindStateConflict, "seats have been drawn, request to join instead")
	}

	id, err := m.addPlayer(next, name, ledger.KindBuyIn, amount, counts)
	if err != nil {
		return nil, "", err
	}

	m.log(g).WithFields(logrus.Fields{
		"player": id,
		"amount": amount,
	}).Info("buy-in")
	return next, id, nil
}

// AdminJoin adds a player at any time, bypassing the join request
func (m *Manager) AdminJoin(g *CashGame, name string, amount decimal.Decimal, counts chips.Counts) (*CashGame, string, error) {
	next, err := open(g)
	if err != nil {
		return nil, "", err
	}

	id, err := m.addPlayer(next, name, ledger.KindAdminJoin, amount, counts)
	if err != nil {
		return nil, "", err
	}

	m.log(g).WithFields(logrus.Fields{
		"player": id,
		"amount": amount,
	}).Info("admin join")
	return next, id, nil
}

// RequestJoin queues a player who wants to join a session in progress
func (m *Manager) RequestJoin(g *CashGame, name string, amount decimal.Decimal) (*CashGame, string, error) {
	next, err := open(g)
	if err != nil {
		return nil, "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = util.GuestName(m.gen)
	}

	if next.nameTaken(name) {
		return nil, "", gameerr.New(gameerr.KindStateConflict, "%s is already in the session", name)
	}

	if _, err := m.chipsFor(next, amount, nil); err != nil {
		return nil, "", err
	}

	req := JoinRequest{
		ID:          util.NewID(),
		Name:        name,
		Amount:      amount,
		RequestedAt: m.clock.Now(),
	}

	next.PendingJoinRequests = append(next.PendingJoinRequests, req)

	m.log(g).WithFields(logrus.Fields{
		"request": req.ID,
		"name":    name,
	}).Info("join requested")
	return next, req.ID, nil
}

// ApproveJoin turns a join request into a player with a buy-in
func (m *Manager) ApproveJoin(g *CashGame, requestID string, counts chips.Counts) (*CashGame, string, error) {
	next, err := open(g)
	if err != nil {
		return nil, "", err
	}

	i := next.joinRequestIndex(requestID)
	if i < 0 {
		return nil, "", gameerr.New(gameerr.KindNotFound, "join request %s not found", requestID)
	}

	req := next.PendingJoinRequests[i]
	next.PendingJoinRequests = append(next.PendingJoinRequests[:i], next.PendingJoinRequests[i+1:]...)

	id, err := m.addPlayer(next, req.Name, ledger.KindBuyIn, req.Amount, counts)
	if err != nil {
		return nil, "", err
	}

	m.log(g).WithFields(logrus.Fields{
		"request": requestID,
		"player":  id,
	}).Info("join approved")
	return next, id, nil
}

// RejectJoin discards a join request
func (m *Manager) RejectJoin(g *CashGame, requestID string) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	i := next.joinRequestIndex(requestID)
	if i < 0 {
		return nil, gameerr.New(gameerr.KindNotFound, "join request %s not found", requestID)
	}

	next.PendingJoinRequests = append(next.PendingJoinRequests[:i], next.PendingJoinRequests[i+1:]...)

	m.log(g).WithField("request", requestID).Info("join rejected")
	return next, nil
}

// Rebuy records more money from a player
func (m *Manager) Rebuy(g *CashGame, playerID string, amount decimal.Decimal, counts chips.Counts) (*CashGame, string, error) {
	return m.addTransaction(g, playerID, ledger.KindRebuy, amount, counts)
}

// AddOn records an add-on from a player
func (m *Manager) AddOn(g *CashGame, playerID string, amount decimal.Decimal, counts chips.Counts) (*CashGame, string, error) {
	return m.addTransaction(g, playerID, ledger.KindAddOn, amount, counts)
}

func (m *Manager) addTransaction(g *CashGame, playerID string, kind ledger.TransactionKind, amount decimal.Decimal, counts chips.Counts) (*CashGame, string, error) {
	next, err := open(g)
	if err != nil {
		return nil, "", err
	}

	i := next.playerIndex(playerID)
	if i < 0 {
		return nil, "", gameerr.New(gameerr.KindNotFound, "player %s not found", playerID)
	}

	txn, err := m.transaction(next, kind, amount, counts)
	if err != nil {
		return nil, "", err
	}

	next.ActivePlayers[i].Transactions = append(next.ActivePlayers[i].Transactions, txn)

	m.log(g).WithFields(logrus.Fields{
		"player":      playerID,
		"transaction": txn.ID,
		"kind":        kind,
		"amount":      amount,
	}).Info("transaction added")
	return next, txn.ID, nil
}

// EditTransaction corrects the amount and chips of a transaction
func (m *Manager) EditTransaction(g *CashGame, playerID, txnID string, amount decimal.Decimal, counts chips.Counts) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	i := next.playerIndex(playerID)
	if i < 0 {
		return nil, gameerr.New(gameerr.KindNotFound, "player %s not found", playerID)
	}

	_, j, ok := next.ActivePlayers[i].Transaction(txnID)
	if !ok {
		return nil, gameerr.New(gameerr.KindNotFound, "transaction %s not found", txnID)
	}

	counts, err = m.chipsFor(next, amount, counts)
	if err != nil {
		return nil, err
	}

	txn := &next.ActivePlayers[i].Transactions[j]
	txn.Amount = amount
	txn.Chips = counts

	m.log(g).WithFields(logrus.Fields{
		"player":      playerID,
		"transaction": txnID,
		"amount":      amount,
	}).Info("transaction edited")
	return next, nil
}

// DeleteTransaction removes a transaction recorded in error
func (m *Manager) DeleteTransaction(g *CashGame, playerID, txnID string) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	i := next.playerIndex(playerID)
	if i < 0 {
		return nil, gameerr.New(gameerr.KindNotFound, "player %s not found", playerID)
	}

	_, j, ok := next.ActivePlayers[i].Transaction(txnID)
	if !ok {
		return nil, gameerr.New(gameerr.KindNotFound, "transaction %s not found", txnID)
	}

	txns := next.ActivePlayers[i].Transactions
	next.ActivePlayers[i].Transactions = append(txns[:j], txns[j+1:]...)

	m.log(g).WithFields(logrus.Fields{
		"player":      playerID,
		"transaction": txnID,
	}).Info("transaction deleted")
	return next, nil
}

// CashOut removes a player from the session, recording the chips they handed back
func (m *Manager) CashOut(g *CashGame, playerID string, returned chips.Counts) (*CashGame, *ledger.CashedOutPlayer, error) {
	next, err := open(g)
	if err != nil {
		return nil, nil, err
	}

	i := next.playerIndex(playerID)
	if i < 0 {
		return nil, nil, gameerr.New(gameerr.KindNotFound, "player %s not found", playerID)
	}

	if next.inHand(playerID) {
		return nil, nil, gameerr.New(gameerr.KindStateConflict, "cannot cash out while in a hand")
	}

	if err := returned.Validate(next.Denominations); err != nil {
		return nil, nil, err
	}

	cashedOut := ledger.NewCashedOutPlayer(next.ActivePlayers[i], m.clock.Now(), returned.Fill(next.Denominations), next.Denominations)
	next.ActivePlayers = append(next.ActivePlayers[:i], next.ActivePlayers[i+1:]...)
	next.CashedOutPlayers = append(next.CashedOutPlayers, cashedOut)

	m.log(g).WithFields(logrus.Fields{
		"player": playerID,
		"amount": cashedOut.AmountReceived,
	}).Info("cash out")
	return next, &cashedOut, nil
}
