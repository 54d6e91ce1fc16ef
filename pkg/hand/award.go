package hand

import (
	"github.com/shopspring/decimal"

	"cashgame-server/pkg/gameerr"
)

// Result is the end of a hand
type Result struct {
	// Payouts is what each winning player received
	Payouts map[string]decimal.Decimal `json:"payouts"`
	Pots    Pots                       `json:"pots"`
	// Players are the final player states with winnings added to their stacks
	Players []PlayerState `json:"players"`
}

// Payout returns what the player won
func (r *Result) Payout(id string) decimal.Decimal {
	return r.Payouts[id]
}

// Award collects any outstanding bets and gives every pot to the winner
// The winner does not need to be eligible for every side pot.
func Award(s *State, winnerID string) (*Result, error) {
	if s == nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "there is no hand in progress")
	}

	i := s.index(winnerID)
	if i < 0 {
		return nil, gameerr.New(gameerr.KindNotFound, "player %s is not in the hand", winnerID)
	}

	if s.Players[i].Folded {
		return nil, gameerr.New(gameerr.KindStateConflict, "%s has folded and cannot win the pot", s.Players[i].Name)
	}

	next := s.Clone()
	next.collect()

	total := next.Pots.Total()
	next.Players[i].Stack = next.Players[i].Stack.Add(total)

	return &Result{
		Payouts: map[string]decimal.Decimal{winnerID: total},
		Pots:    next.Pots,
		Players: next.Players,
	}, nil
}

// AwardByRanking gives each pot to the best ranked player who is eligible for it
// ranking is ordered from best hand to worst. Folded players are skipped.
func AwardByRanking(s *State, ranking []string) (*Result, error) {
	if s == nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "there is no hand in progress")
	}

	for _, id := range ranking {
		if s.index(id) < 0 {
			return nil, gameerr.New(gameerr.KindNotFound, "player %s is not in the hand", id)
		}
	}

	next := s.Clone()
	next.collect()

	payouts := make(map[string]decimal.Decimal)
	for potIndex, pot := range next.Pots {
		winner := -1
		for _, id := range ranking {
			if j := next.index(id); pot.IsEligible(id) && !next.Players[j].Folded {
				winner = j
				break
			}
		}

		if winner < 0 {
			return nil, gameerr.New(gameerr.KindStateConflict, "no ranked player is eligible for pot %d", potIndex+1)
		}

		w := &next.Players[winner]
		w.Stack = w.Stack.Add(pot.Amount)
		payouts[w.ID] = payouts[w.ID].Add(pot.Amount)
	}

	return &Result{
		Payouts: payouts,
		Pots:    next.Pots,
		Players: next.Players,
	}, nil
}
