package settlement

import (
	"github.com/shopspring/decimal"

	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/ledger"
)

// Input is everything needed to settle a session
type Input struct {
	Denominations chips.Denominations
	// Active players must have FinalChips set to what they hold at the end of the session
	Active    []ledger.Player
	CashedOut []ledger.CashedOutPlayer
	Tips      chips.Counts
	Rake      chips.Counts
}

// Line is one player's result
type Line struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Invested   decimal.Decimal `json:"invested"`
	FinalValue decimal.Decimal `json:"finalValue"`
	Balance    decimal.Decimal `json:"balance"`
	CashedOut  bool            `json:"cashedOut"`
}

// Report is the outcome of reconciling a session
type Report struct {
	Lines           []Line          `json:"lines"`
	TotalBuyIn      decimal.Decimal `json:"totalBuyIn"`
	TotalSettlement decimal.Decimal `json:"totalSettlement"`
	TipValue        decimal.Decimal `json:"tipValue"`
	RakeValue       decimal.Decimal `json:"rakeValue"`
	// Difference is settlement plus tips plus rake, minus buy-ins
	Difference decimal.Decimal `json:"difference"`
	Balanced   bool            `json:"balanced"`

	// ChipsInPlay is every chip handed out less the chips returned by players who cashed out
	ChipsInPlay chips.Counts `json:"chipsInPlay"`
	// ChipsCounted is what was counted at the end: active stacks, tips and rake
	ChipsCounted chips.Counts `json:"chipsCounted"`
	// ChipDiscrepancies is counted minus in play, for the denominations that do not agree
	ChipDiscrepancies chips.Counts `json:"chipDiscrepancies"`
}

// Err returns an UnbalancedSettlement error if the books do not balance
func (r *Report) Err() error {
	if r.Balanced {
		return nil
	}

	return gameerr.New(gameerr.KindUnbalancedSettlement, "settlement is off by %s", r.Difference.StringFixed(2))
}

// ChipsBalanced returns true if every chip handed out has been accounted for
func (r *Report) ChipsBalanced() bool {
	return r.ChipDiscrepancies.IsZero()
}

// Reconcile computes the settlement figures
// An unbalanced session is not an error, check Balanced or Err on the report.
func Reconcile(in Input) (*Report, error) {
	if err := in.Denominations.Validate(); err != nil {
		return nil, err
	}

	for _, counts := range []chips.Counts{in.Tips, in.Rake} {
		if err := counts.Validate(in.Denominations); err != nil {
			return nil, err
		}
	}

	denoms := in.Denominations
	r := &Report{
		Lines:           make([]Line, 0, len(in.Active)+len(in.CashedOut)),
		TotalBuyIn:      decimal.Zero,
		TotalSettlement: decimal.Zero,
		TipValue:        in.Tips.Value(denoms),
		RakeValue:       in.Rake.Value(denoms),
	}

	distributed := chips.Counts{}
	returned := chips.Counts{}
	counted := in.Tips.Add(in.Rake)

	for _, p := range in.Active {
		if err := p.FinalChips.Validate(denoms); err != nil {
			return nil, err
		}

		invested := p.TotalInvested()
		final := p.FinalValue(denoms)
		r.Lines = append(r.Lines, Line{
			ID:         p.ID,
			Name:       p.Name,
			Invested:   invested,
			FinalValue: final,
			Balance:    final.Sub(invested),
		})

		r.TotalBuyIn = r.TotalBuyIn.Add(invested)
		r.TotalSettlement = r.TotalSettlement.Add(final)
		distributed = distributed.Add(p.ChipsReceived())
		counted = counted.Add(p.FinalChips)
	}

	for _, c := range in.CashedOut {
		r.Lines = append(r.Lines, Line{
			ID:         c.ID,
			Name:       c.Name,
			Invested:   c.TotalInvested,
			FinalValue: c.AmountReceived,
			Balance:    c.Balance(),
			CashedOut:  true,
		})

		r.TotalBuyIn = r.TotalBuyIn.Add(c.TotalInvested)
		r.TotalSettlement = r.TotalSettlement.Add(c.AmountReceived)
		distributed = distributed.Add(c.ChipsReceived())
		returned = returned.Add(c.Chips)
	}

	r.Difference = r.TotalSettlement.Add(r.TipValue).Add(r.RakeValue).Sub(r.TotalBuyIn)
	r.Balanced = r.Difference.Abs().LessThan(chips.Tolerance)

	r.ChipsInPlay = distributed.Sub(returned).Fill(denoms)
	r.ChipsCounted = counted.Fill(denoms)

	r.ChipDiscrepancies = chips.Counts{}
	for id, n := range r.ChipsCounted.Sub(r.ChipsInPlay) {
		if n != 0 {
			r.ChipDiscrepancies[id] = n
		}
	}

	return r, nil
}
