package animal

import (
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Role says which compatibility list a companion belongs to.
type Role string

// Companion roles.
const (
	RoleGood Role = "good"
	RoleBad  Role = "bad"
)

// ColorPicker chooses the colour shown next to a compatible or
// incompatible companion animal. Index is the companion's position in its
// list.
type ColorPicker interface {
	PickColor(subject, companion string, role Role, index int) string
}

// HashPicker derives companion colours from a BLAKE2b digest of the
// subject, companion, role and index, so a reading is reproducible.
type HashPicker struct{}

// PickColor implements ColorPicker.
func (HashPicker) PickColor(subject, companion string, role Role, index int) string {
	key := subject + "|" + companion + "|" + string(role) + "|" + strconv.Itoa(index)
	sum := blake2b.Sum256([]byte(key))
	n := binary.BigEndian.Uint64(sum[:8])
	return data.Colors[n%uint64(len(data.Colors))]
}

// RandomPicker draws colours from a random source. Use it with a seeded
// source in tests that need varied but repeatable colours.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker returns a picker backed by src.
func NewRandomPicker(src rand.Source) *RandomPicker {
	return &RandomPicker{rng: rand.New(src)}
}

// PickColor implements ColorPicker.
func (p *RandomPicker) PickColor(_, _ string, _ Role, _ int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return data.Colors[p.rng.IntN(len(data.Colors))]
}

// FixedPicker always returns the same colour.
type FixedPicker string

// PickColor implements ColorPicker.
func (f FixedPicker) PickColor(_, _ string, _ Role, _ int) string {
	return string(f)
}
