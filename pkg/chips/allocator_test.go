package chips

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cashgame-server/pkg/gameerr"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func denominations(values ...string) Denominations {
	d := make(Denominations, len(values))
	for i, v := range values {
		d[i] = Denomination{ID: i + 1, Value: dec(v)}
	}

	return d
}

func assertExact(t *testing.T, amount string, denoms Denominations) Counts {
	t.Helper()

	counts, err := DefaultAllocator().Allocate(dec(amount), denoms)
	if !assert.NoError(t, err, amount) {
		return nil
	}

	assert.True(t, counts.Value(denoms).Equal(dec(amount)), "%s allocated as %s", amount, counts.Value(denoms))
	assert.Len(t, counts, len(denoms), "every denomination is present")
	for id, n := range counts {
		assert.GreaterOrEqual(t, n, 0, "denomination %d", id)
	}

	return counts
}

func TestAllocator_Allocate_exactness(t *testing.T) {
	denoms := DefaultSet()
	for _, amount := range []string{"0.25", "1", "5", "12.5", "20", "30", "30.25", "37.75", "50", "50.25", "100", "150.5", "200", "999.75"} {
		assertExact(t, amount, denoms)
	}
}

func TestAllocator_Allocate_fallback(t *testing.T) {
	a := assert.New(t)
	denoms := denominations("0.25", "0.5", "1", "10")

	counts := assertExact(t, "37.75", denoms)
	a.Equal(15, counts[1])
	a.Equal(14, counts[2])
	a.Equal(17, counts[3])
	a.Equal(1, counts[4])

	// the realistic pass overshoots with the two large chips, the greedy fill finds 25 x 4
	counts = assertExact(t, "100", DefaultSet())
	a.Equal(4, counts[6])
	a.Equal(0, counts[5])
}

func TestAllocator_Allocate_smallBuyIn(t *testing.T) {
	a := assert.New(t)
	counts := assertExact(t, "20", DefaultSet())

	// only chips worth less than 10 are handed out
	a.Equal(0, counts[5])
	a.Equal(0, counts[6])
	a.Equal(10, counts[1])
	a.Equal(9, counts[2])
	a.Equal(8, counts[3])
	a.Equal(1, counts[4])
}

func TestAllocator_Allocate_errors(t *testing.T) {
	a := assert.New(t)
	al := DefaultAllocator()

	_, err := al.Allocate(dec("10.10"), DefaultSet())
	a.True(errors.Is(err, gameerr.ErrUndistributableAmount))
	a.EqualError(err, "10.10 cannot be made from the available chips")

	_, err = al.Allocate(dec("10"), nil)
	a.True(errors.Is(err, gameerr.ErrUndistributableAmount))

	_, err = al.Allocate(dec("-1"), DefaultSet())
	a.True(errors.Is(err, gameerr.ErrUndistributableAmount))

	counts, err := al.Allocate(decimal.Zero, DefaultSet())
	a.NoError(err)
	a.True(counts.IsZero())
	a.Len(counts, 6)
}

func TestGreedy(t *testing.T) {
	a := assert.New(t)

	counts, err := Greedy(dec("37.75"), denominations("0.25", "0.5", "1", "10"))
	a.NoError(err)
	a.Equal(Counts{1: 1, 2: 1, 3: 7, 4: 3}, counts)

	_, err = Greedy(dec("3"), denominations("2"))
	a.True(errors.Is(err, gameerr.ErrUndistributableAmount))
}

func TestGreedy_exactSearch(t *testing.T) {
	a := assert.New(t)

	// largest first takes a 5 and gets stuck on the remaining 4
	counts, err := Greedy(dec("9"), denominations("3", "5"))
	a.NoError(err)
	a.Equal(Counts{1: 3, 2: 0}, counts)

	counts, err = Greedy(dec("0.9"), denominations("0.3", "0.5"))
	a.NoError(err)
	a.Equal(Counts{1: 3, 2: 0}, counts)

	counts, err = Greedy(dec("13"), denominations("4", "5", "10"))
	a.NoError(err)
	a.Equal(Counts{1: 2, 2: 1, 3: 0}, counts)

	_, err = Greedy(dec("7"), denominations("3", "5"))
	a.True(errors.Is(err, gameerr.ErrUndistributableAmount))

	for _, amount := range []string{"6", "9", "11", "12", "14"} {
		assertExact(t, amount, denominations("3", "5"))
	}
}

func TestAllocator_customTiers(t *testing.T) {
	a := assert.New(t)
	al := Allocator{BigBuyIn: dec("1000"), SmallBuyIn: dec("0")}

	counts, err := al.Allocate(dec("60"), DefaultSet())
	a.NoError(err)
	a.True(counts.Value(DefaultSet()).Equal(dec("60")))
	// the full set is in play, so smaller chips show up too
	a.Greater(counts[1]+counts[2]+counts[3]+counts[4], 0)
}
