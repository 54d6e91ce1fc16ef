package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"cashgame-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Size is the number of cards in a standard deck
const Size = 52

// New returns a new deck of cards.
// Important! this deck is unshuffled. The order is spades, hearts, diamonds, clubs, each from 2 to Ace
func New() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	return cards
}

// Shuffle returns a shuffled copy of the cards. The input slice is not modified
func Shuffle(cards []Card, gen rng.Generator) []Card {
	if gen == nil {
		gen = rng.Default()
	}

	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)

	for j := len(shuffled) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Draw returns the top card and the remaining cards
// If there are no more cards, an ErrEndOfDeck is returned
func Draw(cards []Card) (Card, []Card, error) {
	if len(cards) == 0 {
		return Card{}, cards, ErrEndOfDeck
	}

	return cards[0], cards[1:], nil
}

// HashCode returns a SHA1 hash code of the cards in order
func HashCode(cards []Card) string {
	hash := sha1.New() // nolint:gosec
	for _, card := range cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
