package seating

import (
	"cashgame-server/internal/rng"
	"cashgame-server/pkg/deck"
	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/ledger"
)

// Result is the outcome of drawing for seats
type Result struct {
	// Dealt is the input players, in input order, each annotated with the card they drew
	Dealt []ledger.Player `json:"dealt"`
	// Seated is the players re-seated clockwise from the dealer, who is in seat 1
	Seated []ledger.Player `json:"seated"`
	Dealer ledger.Player   `json:"dealer"`
}

// Resolve deals one card to each player from a freshly shuffled deck. The highest card deals.
// The dealer takes seat 1 and the other players follow in input order, wrapping around.
// The input is not modified.
func Resolve(players []ledger.Player, gen rng.Generator) (*Result, error) {
	if len(players) < 2 {
		return nil, gameerr.New(gameerr.KindInsufficientPlayers, "at least two players are required to draw for seats, found %d", len(players))
	}

	if len(players) > deck.Size {
		return nil, gameerr.New(gameerr.KindStateConflict, "cannot draw for %d players from a single deck", len(players))
	}

	cards := deck.Shuffle(deck.New(), gen)

	dealt := make([]ledger.Player, len(players))
	dealerIndex := 0
	for i, p := range players {
		card := cards[i]

		dealt[i] = p.Clone()
		dealt[i].DrawnCard = &card

		if deck.Compare(card, *dealt[dealerIndex].DrawnCard) > 0 {
			dealerIndex = i
		}
	}

	n := len(players)
	seated := make([]ledger.Player, n)
	for pos := 0; pos < n; pos++ {
		p := players[(dealerIndex+pos)%n].Clone()
		seat := pos + 1
		p.Seat = &seat
		p.DrawnCard = nil
		seated[pos] = p
	}

	return &Result{
		Dealt:  dealt,
		Seated: seated,
		Dealer: seated[0],
	}, nil
}
