package chips

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashgame-server/pkg/gameerr"
)

// Tolerance is the smallest monetary difference that is not treated as equal
var Tolerance = decimal.New(1, -2)

// Denomination is a chip value available at the table
type Denomination struct {
	ID    int             `json:"id"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
	Name  string          `json:"name"`
}

// Denominations is the chip set of a session
type Denominations []Denomination

// DefaultSet returns the chip set a new session starts with
func DefaultSet() Denominations {
	return Denominations{
		{ID: 1, Value: decimal.RequireFromString("0.25"), Color: "white", Name: "Quarter"},
		{ID: 2, Value: decimal.RequireFromString("0.5"), Color: "red", Name: "Half"},
		{ID: 3, Value: decimal.NewFromInt(1), Color: "green", Name: "One"},
		{ID: 4, Value: decimal.NewFromInt(5), Color: "blue", Name: "Five"},
		{ID: 5, Value: decimal.NewFromInt(10), Color: "black", Name: "Ten"},
		{ID: 6, Value: decimal.NewFromInt(25), Color: "purple", Name: "Twenty-Five"},
	}
}

// ByID returns the denomination with the given id
func (d Denominations) ByID(id int) (Denomination, bool) {
	for _, denom := range d {
		if denom.ID == id {
			return denom, true
		}
	}

	return Denomination{}, false
}

// NextID returns an id that is not yet used by the set
func (d Denominations) NextID() int {
	next := 1
	for _, denom := range d {
		if denom.ID >= next {
			next = denom.ID + 1
		}
	}

	return next
}

// Validate ensures every value is positive and every id is unique
func (d Denominations) Validate() error {
	seen := make(map[int]bool, len(d))
	for _, denom := range d {
		if !denom.Value.IsPositive() {
			return gameerr.New(gameerr.KindStateConflict, "denomination %d must have a value greater than zero", denom.ID)
		}

		if seen[denom.ID] {
			return gameerr.New(gameerr.KindStateConflict, "denomination id %d is used more than once", denom.ID)
		}

		seen[denom.ID] = true
	}

	return nil
}

// Clone returns a copy of the set
func (d Denominations) Clone() Denominations {
	if d == nil {
		return nil
	}

	d2 := make(Denominations, len(d))
	copy(d2, d)
	return d2
}

// byValue returns the denominations ordered by value, largest first when desc is true
func (d Denominations) byValue(desc bool) []Denomination {
	sorted := make([]Denomination, len(d))
	copy(sorted, d)
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return sorted[i].Value.GreaterThan(sorted[j].Value)
		}

		return sorted[i].Value.LessThan(sorted[j].Value)
	})

	return sorted
}
