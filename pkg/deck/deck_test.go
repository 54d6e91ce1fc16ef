package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := assert.New(t)
	cards := New()

	a.Equal(52, len(cards))
	a.Equal(Card{Rank: 2, Suit: Spades}, cards[0])
	a.Equal(Card{Rank: 14, Suit: Spades}, cards[12])
	a.Equal(Card{Rank: 14, Suit: Clubs}, cards[51])

	seen := make(map[Card]bool)
	for _, card := range cards {
		a.False(seen[card], "duplicate card %s", card)
		seen[card] = true
	}

	a.Equal(HashCode(New()), HashCode(cards))
}

func TestShuffle(t *testing.T) {
	a := assert.New(t)

	cards := New()
	original := HashCode(cards)

	shuffled := Shuffle(cards, rand.New(rand.NewSource(1))) // nolint:gosec
	a.Equal(original, HashCode(cards), "input must not be modified")
	a.NotEqual(original, HashCode(shuffled))
	a.ElementsMatch(cards, shuffled)

	again := Shuffle(cards, rand.New(rand.NewSource(1))) // nolint:gosec
	a.Equal(HashCode(shuffled), HashCode(again), "same seed yields the same order")

	a.Len(Shuffle(cards, nil), 52)
}

func TestDraw(t *testing.T) {
	a := assert.New(t)
	cards := CardsFromString("2c,3c")

	card, rest, err := Draw(cards)
	a.NoError(err)
	a.Equal(CardFromString("2c"), card)
	a.Equal("3c", CardsToString(rest))

	card, rest, err = Draw(rest)
	a.NoError(err)
	a.Equal(CardFromString("3c"), card)
	a.Empty(rest)

	_, _, err = Draw(rest)
	a.Equal(ErrEndOfDeck, err)
}
