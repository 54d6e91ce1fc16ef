package hand

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ActionKind is something a player can do when it is their turn
type ActionKind string

// ActionKind constants
const (
	ActionFold        ActionKind = "fold"
	ActionCheckOrCall ActionKind = "check-or-call"
	ActionBetOrRaise  ActionKind = "bet-or-raise"
	ActionAllIn       ActionKind = "all-in"
)

var validActions = map[ActionKind]bool{
	ActionFold:        true,
	ActionCheckOrCall: true,
	ActionBetOrRaise:  true,
	ActionAllIn:       true,
}

// Action is a player decision
// Amount is only used by ActionBetOrRaise and is the player's new total bet for the round
type Action struct {
	Kind   ActionKind      `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Fold returns a fold action
func Fold() Action {
	return Action{Kind: ActionFold}
}

// CheckOrCall returns a check or call action
func CheckOrCall() Action {
	return Action{Kind: ActionCheckOrCall}
}

// BetOrRaise returns a bet or raise to amount
func BetOrRaise(amount decimal.Decimal) Action {
	return Action{Kind: ActionBetOrRaise, Amount: amount}
}

// AllIn returns an all-in action
func AllIn() Action {
	return Action{Kind: ActionAllIn}
}

// ActionKindFromString returns the action kind from a string
func ActionKindFromString(s string) (ActionKind, error) {
	kind := ActionKind(s)
	if validActions[kind] {
		return kind, nil
	}

	return "", fmt.Errorf("%s is not a valid action", s)
}
