package hand

import (
	"github.com/shopspring/decimal"

	"cashgame-server/pkg/deck"
)

// Pot is the main pot or a side pot
type Pot struct {
	Amount decimal.Decimal `json:"amount"`
	// Eligible are the ids of the players who can win the pot, in seat order
	Eligible []string `json:"eligible"`
}

// IsEligible returns true if the player can win the pot
func (p Pot) IsEligible(id string) bool {
	for _, e := range p.Eligible {
		if e == id {
			return true
		}
	}

	return false
}

// Pots is a collection of pots
type Pots []Pot

// Total returns the combined total of all pots
func (p Pots) Total() decimal.Decimal {
	total := decimal.Zero
	for _, pot := range p {
		total = total.Add(pot.Amount)
	}

	return total
}

// PlayerState is a player's position in the current hand
type PlayerState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`
	// Stack is what the player has left behind, not counting Bet
	Stack decimal.Decimal `json:"stack"`
	// Bet is what the player has committed in the current betting round
	Bet      decimal.Decimal `json:"bet"`
	Cards    []deck.Card     `json:"cards"`
	HasActed bool            `json:"hasActed"`
	Folded   bool            `json:"folded"`
	AllIn    bool            `json:"allIn"`
}

// canAct returns true if the player can still check, call, bet, raise or fold
func (p PlayerState) canAct() bool {
	return !p.Folded && !p.AllIn
}

// State is everything about a hand in progress
// Operations never modify a State, they return a new one
type State struct {
	Phase     Phase       `json:"phase"`
	Pots      Pots        `json:"pots"`
	Community []deck.Card `json:"community"`
	Deck      []deck.Card `json:"deck"`
	// ActivePlayerID is who is to act, empty when nobody can act
	ActivePlayerID string          `json:"activePlayerId,omitempty"`
	LastRaise      decimal.Decimal `json:"lastRaise"`
	SmallBlind     decimal.Decimal `json:"smallBlind"`
	BigBlind       decimal.Decimal `json:"bigBlind"`
	DealerID       string          `json:"dealerId"`
	SmallBlindID   string          `json:"smallBlindId"`
	BigBlindID     string          `json:"bigBlindId"`
	// Players are in seat order
	Players []PlayerState `json:"players"`
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	s2 := *s
	s2.Community = cloneCards(s.Community)
	s2.Deck = cloneCards(s.Deck)

	s2.Pots = make(Pots, len(s.Pots))
	for i, pot := range s.Pots {
		s2.Pots[i] = Pot{
			Amount:   pot.Amount,
			Eligible: append([]string(nil), pot.Eligible...),
		}
	}

	s2.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		s2.Players[i] = p
		s2.Players[i].Cards = cloneCards(p.Cards)
	}

	return &s2
}

// Player returns the player with the given id
func (s *State) Player(id string) (PlayerState, bool) {
	if i := s.index(id); i >= 0 {
		return s.Players[i], true
	}

	return PlayerState{}, false
}

// HighestBet returns the largest bet committed this round
func (s *State) HighestBet() decimal.Decimal {
	highest := decimal.Zero
	for _, p := range s.Players {
		if p.Bet.GreaterThan(highest) {
			highest = p.Bet
		}
	}

	return highest
}

// ToCall returns how much more the player must put in to match the highest bet, capped at their stack
func (s *State) ToCall(id string) decimal.Decimal {
	p, ok := s.Player(id)
	if !ok {
		return decimal.Zero
	}

	diff := s.HighestBet().Sub(p.Bet)
	if !diff.IsPositive() {
		return decimal.Zero
	}

	return decimal.Min(diff, p.Stack)
}

// PotTotal is every pot plus what is in front of the players this round
func (s *State) PotTotal() decimal.Decimal {
	total := s.Pots.Total()
	for _, p := range s.Players {
		total = total.Add(p.Bet)
	}

	return total
}

// LivePlayers returns the players who have not folded
func (s *State) LivePlayers() []PlayerState {
	live := make([]PlayerState, 0, len(s.Players))
	for _, p := range s.Players {
		if !p.Folded {
			live = append(live, p)
		}
	}

	return live
}

// Actions returns what the player can do, or nil if it is not their turn
func (s *State) Actions(id string) []ActionKind {
	if s == nil || !s.Phase.IsBetting() || s.ActivePlayerID != id {
		return nil
	}

	p, ok := s.Player(id)
	if !ok || !p.canAct() {
		return nil
	}

	actions := []ActionKind{ActionFold, ActionCheckOrCall}
	if p.Bet.Add(p.Stack).GreaterThan(s.LastRaise) {
		actions = append(actions, ActionBetOrRaise)
	}

	return append(actions, ActionAllIn)
}

func (s *State) index(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}

	return -1
}

// nextActor returns the index of the next player after from who can act, wrapping around the table
// from itself is considered last. Returns -1 if nobody can act
func (s *State) nextActor(from int) int {
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		j := (from + i) % n
		if s.Players[j].canAct() {
			return j
		}
	}

	return -1
}

func (s *State) commit(i int, amount decimal.Decimal) {
	p := &s.Players[i]
	p.Stack = p.Stack.Sub(amount)
	p.Bet = p.Bet.Add(amount)
	if !p.Stack.IsPositive() {
		p.AllIn = true
	}
}

func (s *State) draw() (deck.Card, error) {
	card, rest, err := deck.Draw(s.Deck)
	if err != nil {
		return deck.Card{}, err
	}

	s.Deck = rest
	return card, nil
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}

	cp := make([]deck.Card, len(cards))
	copy(cp, cards)
	return cp
}
