package hand

import (
	"encoding/json"
	"fmt"
)

// Phase represents the street of the hand
type Phase int

// constants for Phase
const (
	// PhasePreDeal is never reached by a live hand, Start goes straight to PhasePreFlop
	PhasePreDeal Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhasePreDeal:
		return "pre-deal"
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}

	return ""
}

// IsBetting returns true if players act during this phase
func (p Phase) IsBetting() bool {
	return p >= PhasePreFlop && p <= PhaseRiver
}

// communityCards is how many cards are dealt when the phase begins
func (p Phase) communityCards() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn, PhaseRiver:
		return 1
	}

	return 0
}

type phaseJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(phaseJSON{
		ID:   int(p),
		Name: p.String(),
	})
}

// UnmarshalJSON decodes JSON produced by MarshalJSON
func (p *Phase) UnmarshalJSON(data []byte) error {
	var pj phaseJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}

	phase := Phase(pj.ID)
	if phase.String() == "" {
		return fmt.Errorf("unknown phase: %d", pj.ID)
	}

	*p = phase
	return nil
}
