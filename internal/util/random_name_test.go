package util

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fixed int

func (f fixed) Intn(n int) int {
	return int(f) % n
}

func TestGuestName(t *testing.T) {
	a := assert.New(t)

	a.Equal("Fast Dog", GuestName(fixed(0)))
	a.Equal("Slow Cat", GuestName(fixed(1)))

	gen := rand.New(rand.NewSource(0)) // nolint:gosec
	name := GuestName(gen)
	parts := strings.Split(name, " ")
	if a.Len(parts, 2) {
		a.Contains(adjectives, parts[0])
		a.Contains(animals, parts[1])
	}

	a.NotEmpty(GuestName(nil))
}

func TestNewID(t *testing.T) {
	a := assert.New(t)

	id := NewID()
	_, err := uuid.Parse(id)
	a.NoError(err)
	a.NotEqual(id, NewID())
}
