package chips

import (
	"github.com/shopspring/decimal"

	"cashgame-server/pkg/gameerr"
)

var (
	one        = decimal.NewFromInt(1)
	ten        = decimal.NewFromInt(10)
	tenPercent = decimal.RequireFromString("0.1")
)

// maxExactUnits bounds the exact search, counted in the smallest unit of the chip set
const maxExactUnits = 1 << 20

// smallChipLimit caps how many of each sub-unit chip are set aside for making change
const smallChipLimit = 4

// Allocator converts a monetary amount into a realistic mix of chips
type Allocator struct {
	// BigBuyIn is the amount above which only the two largest denominations are handed out
	BigBuyIn decimal.Decimal
	// SmallBuyIn is the amount at or below which only denominations under 10 are handed out
	SmallBuyIn decimal.Decimal
}

// DefaultAllocator returns an allocator with the standard buy-in tiers
func DefaultAllocator() Allocator {
	return Allocator{
		BigBuyIn:   decimal.NewFromInt(50),
		SmallBuyIn: decimal.NewFromInt(30),
	}
}

// Allocate returns a chip count for every denomination whose value equals amount
// A realistic spread is attempted first. If that does not add up, a greedy fill over the full chip set is used.
// ErrUndistributableAmount is returned if neither produces the exact amount.
func (al Allocator) Allocate(amount decimal.Decimal, denoms Denominations) (Counts, error) {
	if err := validateRequest(amount, denoms); err != nil {
		return nil, err
	}

	if amount.IsZero() {
		return Counts{}.Fill(denoms), nil
	}

	if counts := al.realistic(amount, denoms); counts.Value(denoms).Equal(amount) {
		return counts.Fill(denoms), nil
	}

	return Greedy(amount, denoms)
}

// Greedy fills amount with the largest denominations first
// When that leaves a remainder, an exact search finds the combination with the fewest chips instead.
func Greedy(amount decimal.Decimal, denoms Denominations) (Counts, error) {
	if err := validateRequest(amount, denoms); err != nil {
		return nil, err
	}

	counts := Counts{}
	remaining := amount
	for _, denom := range denoms.byValue(true) {
		n := remaining.Div(denom.Value).Floor().IntPart()
		if n <= 0 {
			continue
		}

		counts[denom.ID] += int(n)
		remaining = remaining.Sub(denom.Value.Mul(decimal.NewFromInt(n)))
	}

	if !remaining.IsZero() {
		if counts, ok := exact(amount, denoms); ok {
			return counts.Fill(denoms), nil
		}

		return nil, gameerr.New(gameerr.KindUndistributableAmount, "%s cannot be made from the available chips", amount.StringFixed(2))
	}

	return counts.Fill(denoms), nil
}

func validateRequest(amount decimal.Decimal, denoms Denominations) error {
	if len(denoms) == 0 {
		return gameerr.New(gameerr.KindUndistributableAmount, "there are no chip denominations")
	}

	if amount.IsNegative() {
		return gameerr.New(gameerr.KindUndistributableAmount, "%s is negative", amount.String())
	}

	return denoms.Validate()
}

// candidates narrows the chip set by the size of the amount, largest value first
func (al Allocator) candidates(amount decimal.Decimal, denoms Denominations) []Denomination {
	sorted := denoms.byValue(true)

	switch {
	case amount.GreaterThan(al.BigBuyIn):
		if len(sorted) > 2 {
			return sorted[:2]
		}
	case amount.LessThanOrEqual(al.SmallBuyIn):
		small := make([]Denomination, 0, len(sorted))
		for _, denom := range sorted {
			if denom.Value.LessThan(ten) {
				small = append(small, denom)
			}
		}

		if len(small) > 0 {
			return small
		}
	}

	return sorted
}

// share is the portion of the remaining amount handed out in a denomination during the spread pass
func share(value decimal.Decimal) decimal.Decimal {
	switch {
	case value.GreaterThanOrEqual(ten):
		return decimal.RequireFromString("0.5")
	case value.GreaterThanOrEqual(one):
		return decimal.RequireFromString("0.4")
	}

	return decimal.RequireFromString("0.3")
}

// realistic spreads amount over the candidate denominations
// The result is not guaranteed to equal amount, the caller must verify it
func (al Allocator) realistic(amount decimal.Decimal, denoms Denominations) Counts {
	candidates := al.candidates(amount, denoms)
	counts := Counts{}
	remaining := amount

	take := func(denom Denomination, n int64) {
		if n <= 0 {
			return
		}

		counts[denom.ID] += int(n)
		remaining = remaining.Sub(denom.Value.Mul(decimal.NewFromInt(n)))
	}

	affordable := func(denom Denomination) int64 {
		return remaining.Div(denom.Value).Floor().IntPart()
	}

	// a few small chips for making change, smallest first
	target := amount.Mul(tenPercent)
	for i := len(candidates) - 1; i >= 0; i-- {
		denom := candidates[i]
		if denom.Value.GreaterThanOrEqual(one) {
			break
		}

		n := target.Div(denom.Value).Floor().IntPart()
		if n > smallChipLimit {
			n = smallChipLimit
		}

		if n > affordable(denom) {
			continue
		}

		take(denom, n)
	}

	// spread the remainder, largest first
	for _, denom := range candidates {
		n := remaining.Mul(share(denom.Value)).Div(denom.Value).Floor().IntPart()
		if denom.Value.LessThan(one) && n > 5 {
			n = ((n + 2) / 5) * 5
		}

		if limit := affordable(denom); n > limit {
			n = limit
		}

		take(denom, n)
	}

	// sweep whatever is left
	for _, denom := range candidates {
		take(denom, affordable(denom))
	}

	// close any gap with the smallest chip, possibly overshooting
	if remaining.GreaterThan(Tolerance) {
		smallest := candidates[len(candidates)-1]
		take(smallest, remaining.Div(smallest.Value).Ceil().IntPart())
	}

	return counts
}

// exact finds the combination of chips worth amount that uses the fewest chips
// Values are scaled to integers by the largest number of decimal places in use. Returns false if amount cannot
// be made or is too large to search.
func exact(amount decimal.Decimal, denoms Denominations) (Counts, bool) {
	places := decimalPlaces(amount)
	for _, denom := range denoms {
		if p := decimalPlaces(denom.Value); p > places {
			places = p
		}
	}

	factor := decimal.New(1, places)
	target := amount.Mul(factor).IntPart()
	if target <= 0 || target > maxExactUnits {
		return nil, false
	}

	values := make([]int64, len(denoms))
	for i, denom := range denoms {
		values[i] = denom.Value.Mul(factor).IntPart()
	}

	// fewest[x] is the fewest chips worth x units, -1 when x cannot be made
	fewest := make([]int32, target+1)
	last := make([]int32, target+1)
	for x := int64(1); x <= target; x++ {
		fewest[x] = -1
		for i, v := range values {
			if v <= 0 || v > x || fewest[x-v] < 0 {
				continue
			}

			if n := fewest[x-v] + 1; fewest[x] < 0 || n < fewest[x] {
				fewest[x] = n
				last[x] = int32(i)
			}
		}
	}

	if fewest[target] < 0 {
		return nil, false
	}

	counts := Counts{}
	for x := target; x > 0; {
		denom := denoms[last[x]]
		counts[denom.ID]++
		x -= values[last[x]]
	}

	return counts, true
}

func decimalPlaces(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}

	return 0
}
