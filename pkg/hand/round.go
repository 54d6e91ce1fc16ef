package hand

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashgame-server/pkg/gameerr"
)

// IsRoundOver returns true if the current betting round is complete
// A round is over when one player is left, or when everyone who can still act has acted and matched the
// highest bet. All-in players are not required to match.
func IsRoundOver(s *State) bool {
	if s == nil {
		return false
	}

	if len(s.LivePlayers()) <= 1 {
		return true
	}

	highest := s.HighestBet()
	for _, p := range s.Players {
		if !p.canAct() {
			continue
		}

		if !p.HasActed || !p.Bet.Equal(highest) {
			return false
		}
	}

	return true
}

// CollectBets moves the bets in front of the players into the pots
func CollectBets(s *State) *State {
	next := s.Clone()
	if next != nil {
		next.collect()
	}

	return next
}

// collect splits the round bets into pots
// Each distinct all-in amount caps a slice of the pot. Whatever was bet above the largest all-in goes to
// a final pot for the players who bet it, unless only one player bet it, in which case it is uncalled and
// goes back to their stack.
func (s *State) collect() {
	live := make(map[string]bool)
	for _, p := range s.Players {
		if !p.Folded {
			live[p.ID] = true
		}
	}

	for i, pot := range s.Pots {
		eligible := make([]string, 0, len(pot.Eligible))
		for _, id := range pot.Eligible {
			if live[id] {
				eligible = append(eligible, id)
			}
		}

		// everyone who could win it folded, so it is played for by whoever is left
		if len(eligible) == 0 {
			eligible = s.liveIDs()
		}

		s.Pots[i].Eligible = eligible
	}

	thresholds := make([]decimal.Decimal, 0)
	for _, p := range s.Players {
		if p.Folded || !p.AllIn || !p.Bet.IsPositive() {
			continue
		}

		seen := false
		for _, th := range thresholds {
			if th.Equal(p.Bet) {
				seen = true
				break
			}
		}

		if !seen {
			thresholds = append(thresholds, p.Bet)
		}
	}

	sort.Slice(thresholds, func(i, j int) bool {
		return thresholds[i].LessThan(thresholds[j])
	})

	prev := decimal.Zero
	for _, th := range thresholds {
		amount := decimal.Zero
		eligible := make([]string, 0, len(s.Players))
		for _, p := range s.Players {
			if slice := decimal.Min(p.Bet, th).Sub(prev); slice.IsPositive() {
				amount = amount.Add(slice)
			}

			if !p.Folded && p.Bet.GreaterThanOrEqual(th) {
				eligible = append(eligible, p.ID)
			}
		}

		s.addPot(amount, eligible)
		prev = th
	}

	excess := decimal.Zero
	eligible := make([]string, 0, len(s.Players))
	contributors := make([]int, 0, len(s.Players))
	for i, p := range s.Players {
		if over := p.Bet.Sub(prev); over.IsPositive() {
			excess = excess.Add(over)
			contributors = append(contributors, i)
			if !p.Folded {
				eligible = append(eligible, p.ID)
			}
		}
	}

	switch {
	case !excess.IsPositive():
	case len(contributors) == 1 && !s.Players[contributors[0]].Folded:
		p := &s.Players[contributors[0]]
		p.Stack = p.Stack.Add(excess)
	default:
		if len(eligible) == 0 {
			eligible = s.liveIDs()
		}

		s.addPot(excess, eligible)
	}

	for i := range s.Players {
		s.Players[i].Bet = decimal.Zero
	}

	s.LastRaise = decimal.Zero
}

func (s *State) liveIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		if !p.Folded {
			ids = append(ids, p.ID)
		}
	}

	return ids
}

// addPot adds to the last pot when it has the same eligible players, otherwise starts a new pot
func (s *State) addPot(amount decimal.Decimal, eligible []string) {
	if !amount.IsPositive() {
		return
	}

	if n := len(s.Pots); n > 0 && sameIDs(s.Pots[n-1].Eligible, eligible) {
		s.Pots[n-1].Amount = s.Pots[n-1].Amount.Add(amount)
		return
	}

	s.Pots = append(s.Pots, Pot{
		Amount:   amount,
		Eligible: eligible,
	})
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Advance collects the bets and moves to the next phase
// One card is burned before the flop, turn and river are dealt. The first player left of the dealer who
// can act is next to act.
func Advance(s *State) (*State, error) {
	if s == nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "there is no hand in progress")
	}

	if !s.Phase.IsBetting() {
		return nil, gameerr.New(gameerr.KindStateConflict, "cannot advance from %s", s.Phase)
	}

	if !IsRoundOver(s) {
		return nil, gameerr.New(gameerr.KindStateConflict, "the %s betting round is not over", s.Phase)
	}

	if len(s.LivePlayers()) <= 1 {
		return nil, gameerr.New(gameerr.KindStateConflict, "only one player remains, the pot must be awarded")
	}

	next := s.Clone()
	next.collect()
	next.Phase++

	if n := next.Phase.communityCards(); n > 0 {
		if _, err := next.draw(); err != nil {
			return nil, err
		}

		for i := 0; i < n; i++ {
			card, err := next.draw()
			if err != nil {
				return nil, err
			}

			next.Community = append(next.Community, card)
		}
	}

	for i := range next.Players {
		next.Players[i].HasActed = false
	}

	next.ActivePlayerID = ""
	if next.Phase.IsBetting() {
		if j := next.nextActor(next.index(next.DealerID)); j >= 0 {
			next.ActivePlayerID = next.Players[j].ID
		}
	}

	return next, nil
}

// Outcome is the result of Resolve
// When the hand ended early State is nil and Result holds the award.
type Outcome struct {
	State  *State  `json:"state,omitempty"`
	Result *Result `json:"result,omitempty"`
}

// Resolve performs the automatic end of round handling
// If a single player remains they win the pot and the hand is over. Otherwise completed rounds are
// advanced until a player can act or the hand reaches showdown.
func Resolve(s *State) (*Outcome, error) {
	if s == nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "there is no hand in progress")
	}

	cur := s.Clone()
	for IsRoundOver(cur) {
		if live := cur.LivePlayers(); len(live) == 1 {
			result, err := Award(cur, live[0].ID)
			if err != nil {
				return nil, err
			}

			return &Outcome{Result: result}, nil
		}

		if !cur.Phase.IsBetting() {
			break
		}

		next, err := Advance(cur)
		if err != nil {
			return nil, err
		}

		cur = next
	}

	return &Outcome{State: cur}, nil
}
