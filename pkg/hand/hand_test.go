package hand

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cashgame-server/pkg/deck"
	"cashgame-server/pkg/gameerr"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.True(t, d(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func opts(sb, bb string) Options {
	return Options{SmallBlind: d(sb), BigBlind: d(bb)}
}

func entrants(stacks ...string) []Entrant {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	list := make([]Entrant, len(stacks))
	for i, stack := range stacks {
		list[i] = Entrant{
			ID:    ids[i],
			Name:  "Player " + ids[i],
			Seat:  i + 1,
			Stack: d(stack),
		}
	}

	return list
}

func gen() *rand.Rand {
	return rand.New(rand.NewSource(1)) // nolint:gosec
}

// start deals a hand where "a" holds the button
func start(t *testing.T, o Options, stacks ...string) *State {
	t.Helper()
	last := entrants(stacks...)[len(stacks)-1].ID
	s, err := Start(o, entrants(stacks...), last, gen())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return s
}

func mustAct(t *testing.T, s *State, id string, action Action) *State {
	t.Helper()
	next, err := Act(s, id, action)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return next
}

func chipsOnTable(s *State) decimal.Decimal {
	total := s.PotTotal()
	for _, p := range s.Players {
		total = total.Add(p.Stack)
	}

	return total
}

func TestStart(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100", "100")
	a.Equal(PhasePreFlop, s.Phase)
	a.Equal("a", s.DealerID)
	a.Equal("b", s.SmallBlindID)
	a.Equal("c", s.BigBlindID)
	a.Equal("a", s.ActivePlayerID)
	assertDecimal(t, "2", s.LastRaise)
	assertDecimal(t, "3", s.PotTotal())
	assertDecimal(t, "300", chipsOnTable(s))
	a.Empty(s.Pots)
	a.Empty(s.Community)

	b, _ := s.Player("b")
	assertDecimal(t, "1", b.Bet)
	assertDecimal(t, "99", b.Stack)
	assertDecimal(t, "2", s.ToCall("a"))
	assertDecimal(t, "1", s.ToCall("b"))
	assertDecimal(t, "0", s.ToCall("c"))

	seen := make(map[deck.Card]bool)
	for _, p := range s.Players {
		a.Len(p.Cards, 2)
		for _, c := range p.Cards {
			a.False(seen[c], "card %s dealt twice", c)
			seen[c] = true
		}
	}

	a.Len(s.Deck, deck.Size-6)
	for _, c := range s.Deck {
		a.False(seen[c])
	}

	a.Equal([]ActionKind{ActionFold, ActionCheckOrCall, ActionBetOrRaise, ActionAllIn}, s.Actions("a"))
	a.Nil(s.Actions("b"))
}

func TestStart_dealerRotates(t *testing.T) {
	a := assert.New(t)

	s, err := Start(opts("1", "2"), entrants("100", "100", "100"), "a", gen())
	a.NoError(err)
	a.Equal("b", s.DealerID)
	a.Equal("c", s.SmallBlindID)
	a.Equal("a", s.BigBlindID)
	a.Equal("b", s.ActivePlayerID)

	// entrants out of seat order and a busted player next to the button
	list := entrants("100", "0", "100", "100")
	list[0], list[3] = list[3], list[0]
	s, err = Start(opts("1", "2"), list, "a", gen())
	a.NoError(err)
	a.Len(s.Players, 3)
	a.Equal("c", s.DealerID)
	a.Equal("d", s.SmallBlindID)
	a.Equal("a", s.BigBlindID)
	a.Equal([]int{1, 3, 4}, []int{s.Players[0].Seat, s.Players[1].Seat, s.Players[2].Seat})
}

func TestStart_headsUp(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100")
	a.Equal("a", s.DealerID)
	a.Equal("b", s.SmallBlindID)
	a.Equal("a", s.BigBlindID)
	a.Equal("b", s.ActivePlayerID)
}

func TestStart_shortBlinds(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "0.5", "1")
	b, _ := s.Player("b")
	a.True(b.AllIn)
	assertDecimal(t, "0.5", b.Bet)
	assertDecimal(t, "0", b.Stack)

	c, _ := s.Player("c")
	a.True(c.AllIn)
	assertDecimal(t, "1", c.Bet)

	a.Equal("a", s.ActivePlayerID)
	assertDecimal(t, "1", s.ToCall("a"))

	s = mustAct(t, s, "a", CheckOrCall())
	a.True(IsRoundOver(s))
	a.Equal("", s.ActivePlayerID)

	out, err := Resolve(s)
	a.NoError(err)
	a.Nil(out.Result)
	a.Equal(PhaseFlop, out.State.Phase)
	a.Equal("a", out.State.ActivePlayerID)
	if a.Len(out.State.Pots, 2) {
		assertDecimal(t, "1.5", out.State.Pots[0].Amount)
		a.Equal([]string{"a", "b", "c"}, out.State.Pots[0].Eligible)
		assertDecimal(t, "1", out.State.Pots[1].Amount)
		a.Equal([]string{"a", "c"}, out.State.Pots[1].Eligible)
	}
}

func TestStart_errors(t *testing.T) {
	a := assert.New(t)

	s, err := Start(opts("1", "2"), entrants("100", "0"), "a", gen())
	a.Nil(s)
	a.True(errors.Is(err, gameerr.ErrInsufficientPlayers))
	a.EqualError(err, "at least two players with chips are required, found 1")

	_, err = Start(opts("1", "2"), entrants("100", "100"), "", gen())
	a.True(errors.Is(err, gameerr.ErrStateConflict))

	_, err = Start(opts("2", "1"), entrants("100", "100"), "a", gen())
	a.True(errors.Is(err, gameerr.ErrInvalidBet))

	_, err = Start(opts("0", "1"), entrants("100", "100"), "a", gen())
	a.True(errors.Is(err, gameerr.ErrInvalidBet))
}

func TestAct_invalidRaise(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("10", "20"), "100", "100", "100")
	before := s.Clone()
	assertDecimal(t, "20", s.LastRaise)

	next, err := Act(s, "a", BetOrRaise(d("15")))
	a.Nil(next)
	a.True(errors.Is(err, gameerr.ErrInvalidBet))
	a.Equal(before, s)

	_, err = Act(s, "a", BetOrRaise(d("20")))
	a.True(errors.Is(err, gameerr.ErrInvalidBet))

	_, err = Act(s, "a", BetOrRaise(d("101")))
	a.True(errors.Is(err, gameerr.ErrInvalidBet))
	a.EqualError(err, "a bet of 101 exceeds your stack of 100")
	a.Equal(before, s)

	next, err = Act(s, "a", BetOrRaise(d("100")))
	a.NoError(err)
	assertDecimal(t, "100", next.LastRaise)
	p, _ := next.Player("a")
	a.True(p.AllIn)
	a.Equal(before, s)
}

func TestAct_wrongPlayer(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100", "100")
	before := s.Clone()

	_, err := Act(s, "b", Fold())
	a.True(errors.Is(err, gameerr.ErrStateConflict))
	a.EqualError(err, "it is not your turn")

	_, err = Act(s, "a", Action{Kind: "dance"})
	a.True(errors.Is(err, gameerr.ErrStateConflict))

	_, err = Act(nil, "a", Fold())
	a.True(errors.Is(err, gameerr.ErrStateConflict))

	a.Equal(before, s)
}

func TestAct_turnOrder(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100", "100", "100")
	a.Equal("a", s.DealerID)
	a.Equal("d", s.ActivePlayerID)

	s = mustAct(t, s, "d", Fold())
	a.Equal("a", s.ActivePlayerID)

	s = mustAct(t, s, "a", AllIn())
	a.Equal("b", s.ActivePlayerID)
	assertDecimal(t, "100", s.LastRaise)

	s = mustAct(t, s, "b", Fold())
	a.Equal("c", s.ActivePlayerID)
	a.False(IsRoundOver(s))

	s = mustAct(t, s, "c", CheckOrCall())
	c, _ := s.Player("c")
	a.True(c.AllIn)
	a.True(IsRoundOver(s))
	a.Equal("", s.ActivePlayerID)
	assertDecimal(t, "400", chipsOnTable(s))

	_, err := Act(s, "c", CheckOrCall())
	a.True(errors.Is(err, gameerr.ErrStateConflict))

	// nobody can act, so the board runs out
	out, err := Resolve(s)
	a.NoError(err)
	a.Nil(out.Result)
	s = out.State
	a.Equal(PhaseShowdown, s.Phase)
	a.Equal("", s.ActivePlayerID)
	a.Len(s.Community, 5)
	a.Len(s.Deck, deck.Size-8-8)
	if a.Len(s.Pots, 1) {
		assertDecimal(t, "201", s.Pots[0].Amount)
		a.Equal([]string{"a", "c"}, s.Pots[0].Eligible)
	}

	assertDecimal(t, "400", chipsOnTable(s))

	_, err = Advance(s)
	a.True(errors.Is(err, gameerr.ErrStateConflict))
	a.Nil(s.Actions("a"))
}

func TestAct_bigBlindOption(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100", "100")
	s = mustAct(t, s, "a", CheckOrCall())
	s = mustAct(t, s, "b", CheckOrCall())
	a.Equal("c", s.ActivePlayerID)
	a.False(IsRoundOver(s))

	_, err := Advance(s)
	a.True(errors.Is(err, gameerr.ErrStateConflict))

	s = mustAct(t, s, "c", CheckOrCall())
	a.True(IsRoundOver(s))

	s, err = Advance(s)
	a.NoError(err)
	a.Equal(PhaseFlop, s.Phase)
	a.Len(s.Community, 3)
	a.Len(s.Deck, deck.Size-6-4)
	a.Equal("b", s.ActivePlayerID)
	assertDecimal(t, "0", s.LastRaise)
	if a.Len(s.Pots, 1) {
		assertDecimal(t, "6", s.Pots[0].Amount)
		a.Equal([]string{"a", "b", "c"}, s.Pots[0].Eligible)
	}

	for _, p := range s.Players {
		a.False(p.HasActed)
		assertDecimal(t, "0", p.Bet)
	}

	_, err = Act(s, "b", BetOrRaise(d("0")))
	a.True(errors.Is(err, gameerr.ErrInvalidBet))

	s = mustAct(t, s, "b", BetOrRaise(d("10")))
	a.Equal("c", s.ActivePlayerID)
	s = mustAct(t, s, "c", CheckOrCall())
	a.Equal("a", s.ActivePlayerID)
	a.False(IsRoundOver(s))
	s = mustAct(t, s, "a", BetOrRaise(d("30")))
	a.Equal("b", s.ActivePlayerID)
	s = mustAct(t, s, "b", CheckOrCall())
	s = mustAct(t, s, "c", Fold())
	a.True(IsRoundOver(s))

	out, err := Resolve(s)
	a.NoError(err)
	s = out.State
	a.Equal(PhaseTurn, s.Phase)
	a.Len(s.Community, 4)
	a.Equal("b", s.ActivePlayerID)
	if a.Len(s.Pots, 1) {
		assertDecimal(t, "76", s.Pots[0].Amount)
		a.Equal([]string{"a", "b"}, s.Pots[0].Eligible)
	}

	assertDecimal(t, "300", chipsOnTable(s))
}

func TestAct_earlyTermination(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100", "100")
	s = mustAct(t, s, "a", Fold())
	s = mustAct(t, s, "b", Fold())
	a.True(IsRoundOver(s))
	a.Equal("", s.ActivePlayerID)

	_, err := Advance(s)
	a.True(errors.Is(err, gameerr.ErrStateConflict))

	out, err := Resolve(s)
	a.NoError(err)
	a.Nil(out.State)
	if a.NotNil(out.Result) {
		assertDecimal(t, "3", out.Result.Payout("c"))
		a.Len(out.Result.Payouts, 1)
		for _, p := range out.Result.Players {
			if p.ID == "c" {
				assertDecimal(t, "101", p.Stack)
			}

			assertDecimal(t, "0", p.Bet)
		}
	}
}

func TestResolve_roundNotOver(t *testing.T) {
	a := assert.New(t)

	s := start(t, opts("1", "2"), "100", "100", "100")
	out, err := Resolve(s)
	a.NoError(err)
	a.Equal(s, out.State)

	_, err = Resolve(nil)
	a.True(errors.Is(err, gameerr.ErrStateConflict))
}
