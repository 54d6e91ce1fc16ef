package hand

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashgame-server/internal/rng"
	"cashgame-server/pkg/deck"
	"cashgame-server/pkg/gameerr"
)

const holeCards = 2

// Options configures the blinds of a hand
type Options struct {
	SmallBlind decimal.Decimal `json:"smallBlind" yaml:"smallBlind"`
	BigBlind   decimal.Decimal `json:"bigBlind" yaml:"bigBlind"`
}

// DefaultOptions returns the default blinds
func DefaultOptions() Options {
	return Options{
		SmallBlind: decimal.RequireFromString("0.25"),
		BigBlind:   decimal.RequireFromString("0.5"),
	}
}

// Validate ensures the blinds are usable
func (o Options) Validate() error {
	if !o.SmallBlind.IsPositive() {
		return gameerr.New(gameerr.KindInvalidBet, "small blind must be greater than zero")
	}

	if o.BigBlind.LessThan(o.SmallBlind) {
		return gameerr.New(gameerr.KindInvalidBet, "big blind of %s must not be less than the small blind of %s", o.BigBlind, o.SmallBlind)
	}

	return nil
}

// Entrant is a session player who may be dealt into a hand
type Entrant struct {
	ID    string
	Name  string
	Seat  int
	Stack decimal.Decimal
}

// Start deals a new hand
// The button moves from dealerID to the next player with chips. The next two players post the blinds
// and the player after the big blind acts first.
func Start(opts Options, entrants []Entrant, dealerID string, gen rng.Generator) (*State, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if dealerID == "" {
		return nil, gameerr.New(gameerr.KindStateConflict, "a dealer must be chosen before the first hand")
	}

	table := make([]Entrant, len(entrants))
	copy(table, entrants)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Seat < table[j].Seat
	})

	players := make([]PlayerState, 0, len(table))
	for _, e := range table {
		if !e.Stack.IsPositive() {
			continue
		}

		players = append(players, PlayerState{
			ID:    e.ID,
			Name:  e.Name,
			Seat:  e.Seat,
			Stack: e.Stack,
			Bet:   decimal.Zero,
			Cards: make([]deck.Card, 0, holeCards),
		})
	}

	n := len(players)
	if n < 2 {
		return nil, gameerr.New(gameerr.KindInsufficientPlayers, "at least two players with chips are required, found %d", n)
	}

	dealer := nextDealer(table, players, dealerID)
	sb := (dealer + 1) % n
	bb := (dealer + 2) % n

	s := &State{
		Phase:        PhasePreFlop,
		Pots:         Pots{},
		Community:    make([]deck.Card, 0, 5),
		Deck:         deck.Shuffle(deck.New(), gen),
		LastRaise:    opts.BigBlind,
		SmallBlind:   opts.SmallBlind,
		BigBlind:     opts.BigBlind,
		DealerID:     players[dealer].ID,
		SmallBlindID: players[sb].ID,
		BigBlindID:   players[bb].ID,
		Players:      players,
	}

	// one card at a time, starting left of the dealer
	for round := 0; round < holeCards; round++ {
		for i := 0; i < n; i++ {
			card, err := s.draw()
			if err != nil {
				return nil, err
			}

			p := &s.Players[(sb+i)%n]
			p.Cards = append(p.Cards, card)
		}
	}

	s.postBlind(sb, opts.SmallBlind)
	s.postBlind(bb, opts.BigBlind)

	if next := s.nextActor(bb); next >= 0 {
		s.ActivePlayerID = s.Players[next].ID
	}

	return s, nil
}

// nextDealer returns the index into players of the first player seated after the current dealer
func nextDealer(table []Entrant, players []PlayerState, dealerID string) int {
	dealerSeat := -1
	for _, e := range table {
		if e.ID == dealerID {
			dealerSeat = e.Seat
			break
		}
	}

	if dealerSeat < 0 {
		return 0
	}

	for i, p := range players {
		if p.Seat > dealerSeat {
			return i
		}
	}

	return 0
}

// postBlind takes the blind, or whatever the player has left if it is less
func (s *State) postBlind(i int, blind decimal.Decimal) {
	s.commit(i, decimal.Min(blind, s.Players[i].Stack))
}

// Act applies an action for the player who is to act
// A failed action returns an error and the given state is left as it was.
func Act(s *State, playerID string, action Action) (*State, error) {
	if s == nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "there is no hand in progress")
	}

	if !s.Phase.IsBetting() {
		return nil, gameerr.New(gameerr.KindStateConflict, "cannot act during %s", s.Phase)
	}

	if s.ActivePlayerID == "" {
		return nil, gameerr.New(gameerr.KindStateConflict, "betting is closed for the %s", s.Phase)
	}

	if s.ActivePlayerID != playerID {
		return nil, gameerr.New(gameerr.KindStateConflict, "it is not your turn")
	}

	next := s.Clone()
	i := next.index(playerID)
	if i < 0 {
		return nil, gameerr.New(gameerr.KindNotFound, "player %s is not in the hand", playerID)
	}

	p := next.Players[i]

	switch action.Kind {
	case ActionFold:
		next.Players[i].Folded = true
	case ActionCheckOrCall:
		if diff := next.HighestBet().Sub(p.Bet); diff.IsPositive() {
			next.commit(i, decimal.Min(diff, p.Stack))
		}
	case ActionBetOrRaise:
		amount := action.Amount
		if !amount.GreaterThan(next.LastRaise) {
			return nil, gameerr.New(gameerr.KindInvalidBet, "a bet or raise must be more than %s", next.LastRaise)
		}

		if !amount.GreaterThan(p.Bet) {
			return nil, gameerr.New(gameerr.KindInvalidBet, "you already have %s in front of you", p.Bet)
		}

		need := amount.Sub(p.Bet)
		if need.GreaterThan(p.Stack) {
			return nil, gameerr.New(gameerr.KindInvalidBet, "a bet of %s exceeds your stack of %s", amount, p.Bet.Add(p.Stack))
		}

		next.commit(i, need)
		next.LastRaise = amount
	case ActionAllIn:
		next.commit(i, p.Stack)
		if bet := next.Players[i].Bet; bet.GreaterThan(next.LastRaise) {
			next.LastRaise = bet
		}
	default:
		return nil, gameerr.New(gameerr.KindStateConflict, "%s is not a valid action", action.Kind)
	}

	next.Players[i].HasActed = true

	next.ActivePlayerID = ""
	if !IsRoundOver(next) {
		if j := next.nextActor(i); j >= 0 {
			next.ActivePlayerID = next.Players[j].ID
		}
	}

	return next, nil
}
