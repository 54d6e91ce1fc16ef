package chips

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashgame-server/pkg/gameerr"
)

// Counts maps a denomination id to the number of chips of that denomination
type Counts map[int]int

// Allocation is a single entry of a Counts vector
type Allocation struct {
	DenominationID int `json:"denominationId"`
	Count          int `json:"count"`
}

// Value returns the monetary value of the chips
// Counts for ids that are not in denoms are ignored, use Validate to reject them
func (c Counts) Value(denoms Denominations) decimal.Decimal {
	total := decimal.Zero
	for _, denom := range denoms {
		if n := c[denom.ID]; n != 0 {
			total = total.Add(denom.Value.Mul(decimal.NewFromInt(int64(n))))
		}
	}

	return total
}

// Chips returns the number of physical chips
func (c Counts) Chips() int {
	total := 0
	for _, n := range c {
		total += n
	}

	return total
}

// Add returns a new vector with other added to c
func (c Counts) Add(other Counts) Counts {
	sum := c.Clone()
	for id, n := range other {
		sum[id] += n
	}

	return sum
}

// Sub returns a new vector with other subtracted from c. Entries may become negative
func (c Counts) Sub(other Counts) Counts {
	diff := c.Clone()
	for id, n := range other {
		diff[id] -= n
	}

	return diff
}

// Clone returns a copy of the vector. A nil vector clones to an empty one
func (c Counts) Clone() Counts {
	c2 := make(Counts, len(c))
	for id, n := range c {
		c2[id] = n
	}

	return c2
}

// Fill returns a copy with a zero entry for every denomination that is missing
func (c Counts) Fill(denoms Denominations) Counts {
	filled := c.Clone()
	for _, denom := range denoms {
		if _, ok := filled[denom.ID]; !ok {
			filled[denom.ID] = 0
		}
	}

	return filled
}

// IsZero returns true if there are no chips
func (c Counts) IsZero() bool {
	for _, n := range c {
		if n != 0 {
			return false
		}
	}

	return true
}

// Equal returns true if both vectors hold the same chips, treating missing entries as zero
func (c Counts) Equal(other Counts) bool {
	for id, n := range c {
		if other[id] != n {
			return false
		}
	}

	for id, n := range other {
		if c[id] != n {
			return false
		}
	}

	return true
}

// Sorted returns the vector as a list ordered by denomination id
func (c Counts) Sorted() []Allocation {
	list := make([]Allocation, 0, len(c))
	for id, n := range c {
		list = append(list, Allocation{DenominationID: id, Count: n})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].DenominationID < list[j].DenominationID
	})

	return list
}

// Validate ensures every count is non-negative and refers to a known denomination
func (c Counts) Validate(denoms Denominations) error {
	for _, entry := range c.Sorted() {
		if entry.Count < 0 {
			return gameerr.New(gameerr.KindChipCountMismatch, "chip count for denomination %d cannot be negative", entry.DenominationID)
		}

		if _, ok := denoms.ByID(entry.DenominationID); !ok {
			return gameerr.New(gameerr.KindNotFound, "unknown denomination %d", entry.DenominationID)
		}
	}

	return nil
}

// Matches returns true if the chips are worth amount, differing by less than Tolerance
func (c Counts) Matches(amount decimal.Decimal, denoms Denominations) bool {
	return c.Value(denoms).Sub(amount).Abs().LessThan(Tolerance)
}
