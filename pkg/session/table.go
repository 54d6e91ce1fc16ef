package session

import (
	"github.com/sirupsen/logrus"

	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/hand"
	"cashgame-server/pkg/seating"
)

// ResolveSeating draws for seats and the first dealer
// The seats and dealer are kept. The returned result also has each player's drawn card for display.
func (m *Manager) ResolveSeating(g *CashGame) (*CashGame, *seating.Result, error) {
	next, err := open(g)
	if err != nil {
		return nil, nil, err
	}

	if next.Hand != nil {
		return nil, nil, gameerr.New(gameerr.KindStateConflict, "cannot draw for seats during a hand")
	}

	result, err := seating.Resolve(next.ActivePlayers, m.gen)
	if err != nil {
		return nil, nil, err
	}

	next.ActivePlayers = result.Seated
	next.DealerID = result.Dealer.ID
	next.PositionsFinalized = true

	m.log(g).WithFields(logrus.Fields{
		"dealer":  result.Dealer.ID,
		"players": len(result.Seated),
	}).Info("seats drawn")
	return next, result, nil
}

// SetDealer moves the button to a player
func (m *Manager) SetDealer(g *CashGame, playerID string) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.Hand != nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "cannot move the button during a hand")
	}

	if next.playerIndex(playerID) < 0 {
		return nil, gameerr.New(gameerr.KindNotFound, "player %s not found", playerID)
	}

	next.DealerID = playerID

	m.log(g).WithField("dealer", playerID).Info("dealer set")
	return next, nil
}

// ClaimCroupier takes the croupier seat
// Claiming a seat already held by the same id is allowed.
func (m *Manager) ClaimCroupier(g *CashGame, id string) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if id == "" {
		return nil, gameerr.New(gameerr.KindStateConflict, "a croupier id is required")
	}

	if next.CroupierID != "" && next.CroupierID != id {
		return nil, gameerr.New(gameerr.KindStateConflict, "another croupier is already dealing")
	}

	next.CroupierID = id

	m.log(g).WithField("croupier", id).Info("croupier claimed")
	return next, nil
}

// ReleaseCroupier gives up the croupier seat
func (m *Manager) ReleaseCroupier(g *CashGame, id string) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.CroupierID != id {
		return nil, gameerr.New(gameerr.KindStateConflict, "%s is not the croupier", id)
	}

	next.CroupierID = ""

	m.log(g).WithField("croupier", id).Info("croupier released")
	return next, nil
}

// StartHand deals a new hand to the seated players
// Each player's stack is the total they have put into the session.
func (m *Manager) StartHand(g *CashGame) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.Hand != nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "a hand is already in progress")
	}

	if !next.PositionsFinalized {
		return nil, gameerr.New(gameerr.KindStateConflict, "seats must be drawn before the first hand")
	}

	entrants := make([]hand.Entrant, 0, len(next.ActivePlayers))
	for _, p := range next.ActivePlayers {
		entrants = append(entrants, hand.Entrant{
			ID:    p.ID,
			Name:  p.Name,
			Seat:  p.SeatNumber(),
			Stack: p.TotalInvested(),
		})
	}

	state, err := hand.Start(next.Blinds, entrants, next.DealerID, m.gen)
	if err != nil {
		return nil, err
	}

	next.Hand = state
	next.DealerID = state.DealerID

	m.log(g).WithFields(logrus.Fields{
		"dealer":     state.DealerID,
		"smallBlind": state.SmallBlindID,
		"bigBlind":   state.BigBlindID,
		"players":    len(state.Players),
	}).Info("hand started")
	return next, nil
}

// Act applies a player's action and handles the end of the betting round
// If everybody else folded, the hand is over and the result is returned.
func (m *Manager) Act(g *CashGame, playerID string, action hand.Action) (*CashGame, *hand.Result, error) {
	next, err := open(g)
	if err != nil {
		return nil, nil, err
	}

	state, err := hand.Act(next.Hand, playerID, action)
	if err != nil {
		return nil, nil, err
	}

	outcome, err := hand.Resolve(state)
	if err != nil {
		return nil, nil, err
	}

	log := m.log(g).WithFields(logrus.Fields{
		"player": playerID,
		"action": action.Kind,
	})

	next.Hand = outcome.State
	if outcome.Result != nil {
		log.WithField("payouts", outcome.Result.Payouts).Info("hand won uncontested")
		return next, outcome.Result, nil
	}

	log.WithField("phase", next.Hand.Phase.String()).Debug("action")
	return next, nil, nil
}

// AdvancePhase moves a hand whose betting round is over to the next phase
func (m *Manager) AdvancePhase(g *CashGame) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	state, err := hand.Advance(next.Hand)
	if err != nil {
		return nil, err
	}

	next.Hand = state

	m.log(g).WithField("phase", state.Phase.String()).Info("phase advanced")
	return next, nil
}

// DeclareWinner awards every pot to one player and clears the hand
func (m *Manager) DeclareWinner(g *CashGame, winnerID string) (*CashGame, *hand.Result, error) {
	next, err := open(g)
	if err != nil {
		return nil, nil, err
	}

	result, err := hand.Award(next.Hand, winnerID)
	if err != nil {
		return nil, nil, err
	}

	next.Hand = nil

	m.log(g).WithField("payouts", result.Payouts).Info("winner declared")
	return next, result, nil
}

// DeclareRanking awards each pot to the best ranked eligible player and clears the hand
// ranking lists player ids from best hand to worst.
func (m *Manager) DeclareRanking(g *CashGame, ranking []string) (*CashGame, *hand.Result, error) {
	next, err := open(g)
	if err != nil {
		return nil, nil, err
	}

	result, err := hand.AwardByRanking(next.Hand, ranking)
	if err != nil {
		return nil, nil, err
	}

	next.Hand = nil

	m.log(g).WithField("payouts", result.Payouts).Info("ranking declared")
	return next, result, nil
}

// ClearHand abandons the current hand without awarding it
func (m *Manager) ClearHand(g *CashGame) (*CashGame, error) {
	next, err := open(g)
	if err != nil {
		return nil, err
	}

	if next.Hand == nil {
		return nil, gameerr.New(gameerr.KindStateConflict, "there is no hand in progress")
	}

	next.Hand = nil

	m.log(g).Warn("hand cleared")
	return next, nil
}
