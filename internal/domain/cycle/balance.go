package cycle

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Balance holds a count or share per phase, indexed by Phase.
// It encodes as a JSON object keyed by phase kanji in canonical order.
type Balance [PhaseCount]int

// Total returns the sum over all phases.
func (b Balance) Total() int {
	total := 0
	for _, v := range b {
		total += v
	}
	return total
}

// Percentages converts counts into whole percentages that always sum to
// 100. Each share is floored and the leftover points go to the largest
// remainders, earlier phases first on equal remainders.
func (b Balance) Percentages() Balance {
	total := b.Total()
	var out Balance
	if total == 0 {
		return out
	}

	var remainders [PhaseCount]int
	assigned := 0
	for i, v := range b {
		out[i] = v * 100 / total
		remainders[i] = v * 100 % total
		assigned += out[i]
	}

	for ; assigned < 100; assigned++ {
		best := 0
		for i := 1; i < PhaseCount; i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		out[best]++
		remainders[best] = -1
	}
	return out
}

// Dominant returns the phase with the highest value. Ties go to the phase
// that comes first in canonical order.
func (b Balance) Dominant() Phase {
	best := Wood
	for _, p := range Phases {
		if b[p] > b[best] {
			best = p
		}
	}
	return best
}

// Weakest returns the phase with the lowest value. Ties go to the phase
// that comes last in canonical order, matching the tail of a stable
// descending sort.
func (b Balance) Weakest() Phase {
	worst := Water
	for i := PhaseCount - 1; i >= 0; i-- {
		if b[Phases[i]] < b[worst] {
			worst = Phases[i]
		}
	}
	return worst
}

// Least returns the phase with the lowest value, ties going to the phase
// that comes first in canonical order.
func (b Balance) Least() Phase {
	least := Wood
	for _, p := range Phases {
		if b[p] < b[least] {
			least = p
		}
	}
	return least
}

// MarshalJSON encodes the balance as {"木":n,"火":n,"土":n,"金":n,"水":n}.
func (b Balance) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range Phases {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(p.String()))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b[p]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a phase-keyed object. Unknown keys are rejected.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Balance
	for key, v := range raw {
		p, err := ParsePhase(key)
		if err != nil {
			return err
		}
		out[p] = v
	}
	*b = out
	return nil
}
