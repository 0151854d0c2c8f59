// Package gameid generates short, time-sortable identifiers for games.
//
// An ID is a "g" prefix followed by 22 characters of Crockford base32: ten
// characters of millisecond timestamp then twelve characters of randomness.
// IDs generated later sort after earlier ones.
package gameid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Crockford's base32
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

const (
	prefix    = "g"
	timeChars = 10
	randChars = 12
	idLength  = len(prefix) + timeChars + randChars
)

// RandSource supplies randomness; *rand.Rand from math/rand/v2 satisfies it
type RandSource interface {
	Uint64() uint64
}

// Generator produces game IDs from an injectable clock and random source
type Generator struct {
	now        func() time.Time
	randSource RandSource
}

// NewGenerator creates a generator. A nil now uses time.Now and a nil
// randSource uses crypto/rand.
func NewGenerator(now func() time.Time, randSource RandSource) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now, randSource: randSource}
}

// Generate returns an ID using the wall clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate returns a new game ID
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(idLength)
	b.WriteString(prefix)
	b.WriteString(encode(uint64(g.now().UnixMilli()), timeChars))
	b.WriteString(encode(g.random(), randChars))
	return b.String()
}

func (g *Generator) random() uint64 {
	if g.randSource != nil {
		return g.randSource.Uint64()
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// encode writes the low 5*n bits of v as n base32 characters, most
// significant first
func encode(v uint64, n int) string {
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = alphabet[v&0x1f]
		v >>= 5
	}
	return string(out)
}

// Validate checks that id has the expected prefix, length and alphabet
func Validate(id string) error {
	if len(id) != idLength {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", idLength, len(id))
	}
	if !strings.HasPrefix(id, prefix) {
		return fmt.Errorf("game ID must start with %q", prefix)
	}
	for i, char := range id[len(prefix):] {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i+len(prefix))
		}
	}
	return nil
}
