package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/deck"
)

// TransactionKind is how money entered the session
type TransactionKind string

// TransactionKind constants
const (
	KindBuyIn     TransactionKind = "buy-in"
	KindRebuy     TransactionKind = "rebuy"
	KindAddOn     TransactionKind = "add-on"
	KindAdminJoin TransactionKind = "admin-join"
)

var validKinds = map[TransactionKind]bool{
	KindBuyIn:     true,
	KindRebuy:     true,
	KindAddOn:     true,
	KindAdminJoin: true,
}

// KindFromString returns the transaction kind from a string
func KindFromString(s string) (TransactionKind, error) {
	kind := TransactionKind(s)
	if validKinds[kind] {
		return kind, nil
	}

	return "", fmt.Errorf("invalid transaction kind: %s", s)
}

// Transaction is money a player put into the session and the chips they received for it
type Transaction struct {
	ID     string          `json:"id"`
	Kind   TransactionKind `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Chips  chips.Counts    `json:"chips"`
}

// Player is a player who is currently in the session
type Player struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Transactions []Transaction `json:"transactions"`
	// FinalChips is only populated during settlement
	FinalChips chips.Counts `json:"finalChips,omitempty"`
	Seat       *int         `json:"seat,omitempty"`
	// DrawnCard is only used while resolving seats
	DrawnCard *deck.Card `json:"drawnCard,omitempty"`
}

// TotalInvested is the sum of every transaction amount
func (p Player) TotalInvested() decimal.Decimal {
	return totalInvested(p.Transactions)
}

// ChipsReceived is every chip the player was handed
func (p Player) ChipsReceived() chips.Counts {
	received := chips.Counts{}
	for _, txn := range p.Transactions {
		received = received.Add(txn.Chips)
	}

	return received
}

// FinalValue is the value of the player's final chip count
func (p Player) FinalValue(denoms chips.Denominations) decimal.Decimal {
	return p.FinalChips.Value(denoms)
}

// SeatNumber returns the seat, or 0 if the player is not seated
func (p Player) SeatNumber() int {
	if p.Seat == nil {
		return 0
	}

	return *p.Seat
}

// Transaction returns the transaction with the given id
func (p Player) Transaction(id string) (Transaction, int, bool) {
	for i, txn := range p.Transactions {
		if txn.ID == id {
			return txn, i, true
		}
	}

	return Transaction{}, -1, false
}

// Clone returns a deep copy
func (p Player) Clone() Player {
	p2 := p
	p2.Transactions = cloneTransactions(p.Transactions)
	if p.FinalChips != nil {
		p2.FinalChips = p.FinalChips.Clone()
	}

	if p.Seat != nil {
		seat := *p.Seat
		p2.Seat = &seat
	}

	if p.DrawnCard != nil {
		card := *p.DrawnCard
		p2.DrawnCard = &card
	}

	return p2
}

// CashedOutPlayer is a snapshot of a player who left before settlement
type CashedOutPlayer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Transactions   []Transaction   `json:"transactions"`
	CashedOutAt    time.Time       `json:"cashedOutAt"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	Chips          chips.Counts    `json:"chips"`
	TotalInvested  decimal.Decimal `json:"totalInvested"`
}

// NewCashedOutPlayer snapshots the player at the time they cashed out
func NewCashedOutPlayer(p Player, at time.Time, returned chips.Counts, denoms chips.Denominations) CashedOutPlayer {
	return CashedOutPlayer{
		ID:             p.ID,
		Name:           p.Name,
		Transactions:   cloneTransactions(p.Transactions),
		CashedOutAt:    at,
		AmountReceived: returned.Value(denoms),
		Chips:          returned.Clone(),
		TotalInvested:  p.TotalInvested(),
	}
}

// ChipsReceived is every chip the player was handed while they were in the session
func (c CashedOutPlayer) ChipsReceived() chips.Counts {
	received := chips.Counts{}
	for _, txn := range c.Transactions {
		received = received.Add(txn.Chips)
	}

	return received
}

// Balance is how much the player won (positive) or lost (negative)
func (c CashedOutPlayer) Balance() decimal.Decimal {
	return c.AmountReceived.Sub(c.TotalInvested)
}

// Clone returns a deep copy
func (c CashedOutPlayer) Clone() CashedOutPlayer {
	c2 := c
	c2.Transactions = cloneTransactions(c.Transactions)
	c2.Chips = c.Chips.Clone()
	return c2
}

func totalInvested(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}

	return total
}

func cloneTransactions(txns []Transaction) []Transaction {
	if txns == nil {
		return nil
	}

	cp := make([]Transaction, len(txns))
	for i, txn := range txns {
		cp[i] = txn
		cp[i].Chips = txn.Chips.Clone()
	}

	return cp
}
