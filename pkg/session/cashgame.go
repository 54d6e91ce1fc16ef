package session

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/hand"
	"cashgame-server/pkg/ledger"
)

// JoinRequest is a player waiting for the admin to let them in
type JoinRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	RequestedAt time.Time       `json:"requestedAt"`
}

// CashGame is the session aggregate
type CashGame struct {
	ID                  string                   `json:"id"`
	Denominations       chips.Denominations      `json:"denominations"`
	ActivePlayers       []ledger.Player          `json:"activePlayers"`
	CashedOutPlayers    []ledger.CashedOutPlayer `json:"cashedOutPlayers"`
	PendingJoinRequests []JoinRequest            `json:"pendingJoinRequests"`
	PositionsFinalized  bool                     `json:"positionsFinalized"`
	DealerID            string                   `json:"dealerId,omitempty"`
	CroupierID          string                   `json:"croupierId,omitempty"`
	Hand                *hand.State              `json:"handState,omitempty"`
	Blinds              hand.Options             `json:"blinds"`
	// Tips and Rake are the chips counted out of play at settlement
	Tips      chips.Counts `json:"tips,omitempty"`
	Rake      chips.Counts `json:"rake,omitempty"`
	SettledAt *time.Time   `json:"settledAt,omitempty"`
}

// Clone returns a deep copy
func (g *CashGame) Clone() *CashGame {
	if g == nil {
		return nil
	}

	g2 := *g
	g2.Denominations = g.Denominations.Clone()

	g2.ActivePlayers = make([]ledger.Player, len(g.ActivePlayers))
	for i, p := range g.ActivePlayers {
		g2.ActivePlayers[i] = p.Clone()
	}

	g2.CashedOutPlayers = make([]ledger.CashedOutPlayer, len(g.CashedOutPlayers))
	for i, c := range g.CashedOutPlayers {
		g2.CashedOutPlayers[i] = c.Clone()
	}

	g2.PendingJoinRequests = append([]JoinRequest(nil), g.PendingJoinRequests...)
	g2.Hand = g.Hand.Clone()

	if g.Tips != nil {
		g2.Tips = g.Tips.Clone()
	}

	if g.Rake != nil {
		g2.Rake = g.Rake.Clone()
	}

	if g.SettledAt != nil {
		at := *g.SettledAt
		g2.SettledAt = &at
	}

	return &g2
}

// Player returns the active player with the given id
func (g *CashGame) Player(id string) (ledger.Player, bool) {
	if i := g.playerIndex(id); i >= 0 {
		return g.ActivePlayers[i], true
	}

	return ledger.Player{}, false
}

// HasTransactions returns true once any money has entered the session
func (g *CashGame) HasTransactions() bool {
	if len(g.CashedOutPlayers) > 0 {
		return true
	}

	for _, p := range g.ActivePlayers {
		if len(p.Transactions) > 0 {
			return true
		}
	}

	return false
}

// TotalBuyIn is the money taken in from every player, active or cashed out
func (g *CashGame) TotalBuyIn() decimal.Decimal {
	total := decimal.Zero
	for _, p := range g.ActivePlayers {
		total = total.Add(p.TotalInvested())
	}

	for _, c := range g.CashedOutPlayers {
		total = total.Add(c.TotalInvested)
	}

	return total
}

func (g *CashGame) playerIndex(id string) int {
	for i, p := range g.ActivePlayers {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func (g *CashGame) joinRequestIndex(id string) int {
	for i, r := range g.PendingJoinRequests {
		if r.ID == id {
			return i
		}
	}

	return -1
}

// nameTaken checks active players and pending requests, ignoring case
func (g *CashGame) nameTaken(name string) bool {
	for _, p := range g.ActivePlayers {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}

	for _, r := range g.PendingJoinRequests {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}

	return false
}

// nextSeat is the seat after the highest occupied seat
func (g *CashGame) nextSeat() int {
	highest := 0
	for _, p := range g.ActivePlayers {
		if seat := p.SeatNumber(); seat > highest {
			highest = seat
		}
	}

	return highest + 1
}

// inHand returns true if the player holds live cards in the current hand
func (g *CashGame) inHand(id string) bool {
	if g.Hand == nil {
		return false
	}

	p, ok := g.Hand.Player(id)
	return ok && !p.Folded
}
