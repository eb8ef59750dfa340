package cycle

import (
	"fmt"
)

// Cycle sizes.
const (
	StemCount   = 10
	BranchCount = 12
	PhaseCount  = 5
)

// AnchorYear is the 甲子 year every stem and branch index is measured from.
const AnchorYear = 1924

// Mod returns x modulo m in the range [0, m).
func Mod(x, m int) int {
	return ((x % m) + m) % m
}

// Stem is one of the ten heavenly stems, 甲 (0) through 癸 (9).
type Stem int

// Branch is one of the twelve earthly branches, 子 (0) through 亥 (11).
type Branch int

// Phase is one of the five elements in generative order.
type Phase int

// Phases in generative order. Each phase generates the next one.
const (
	Wood Phase = iota
	Fire
	Earth
	Metal
	Water
)

// Phases lists every phase in canonical order.
var Phases = [PhaseCount]Phase{Wood, Fire, Earth, Metal, Water}

var (
	stemNames   = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	branchNames = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
	phaseNames  = [PhaseCount]string{"木", "火", "土", "金", "水"}

	branchPhases = [BranchCount]Phase{
		Water, Earth, Wood, Wood, Earth, Fire,
		Fire, Earth, Metal, Metal, Earth, Water,
	}
)

// StemOf returns the stem at index i, wrapping in both directions.
func StemOf(i int) Stem {
	return Stem(Mod(i, StemCount))
}

// BranchOf returns the branch at index i, wrapping in both directions.
func BranchOf(i int) Branch {
	return Branch(Mod(i, BranchCount))
}

// Index returns the normalized position of the stem in the cycle.
func (s Stem) Index() int { return Mod(int(s), StemCount) }

// Phase returns the element of the stem. Stems come in pairs per element.
func (s Stem) Phase() Phase {
	return Phases[s.Index()/2]
}

// Yang reports whether the stem is yang. Even positions are yang.
func (s Stem) Yang() bool {
	return s.Index()%2 == 0
}

// YinYang returns 陽 or 陰.
func (s Stem) YinYang() string {
	if s.Yang() {
		return "陽"
	}
	return "陰"
}

func (s Stem) String() string { return stemNames[s.Index()] }

// MarshalText encodes the stem as its kanji.
func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a stem kanji.
func (s *Stem) UnmarshalText(text []byte) error {
	parsed, err := ParseStem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStem resolves a stem kanji.
func ParseStem(name string) (Stem, error) {
	for i, n := range stemNames {
		if n == name {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stem %q", name)
}

// Index returns the normalized position of the branch in the cycle.
func (b Branch) Index() int { return Mod(int(b), BranchCount) }

// Phase returns the element of the branch.
func (b Branch) Phase() Phase {
	return branchPhases[b.Index()]
}

func (b Branch) String() string { return branchNames[b.Index()] }

// MarshalText encodes the branch as its kanji.
func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText decodes a branch kanji.
func (b *Branch) UnmarshalText(text []byte) error {
	parsed, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBranch resolves a branch kanji.
func ParseBranch(name string) (Branch, error) {
	for i, n := range branchNames {
		if n == name {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("unknown branch %q", name)
}

func (p Phase) index() int { return Mod(int(p), PhaseCount) }

func (p Phase) String() string { return phaseNames[p.index()] }

// MarshalText encodes the phase as its kanji.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a phase kanji.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase resolves a phase kanji.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Generates reports whether p generates other (木→火→土→金→水→木).
func (p Phase) Generates(other Phase) bool {
	return Mod(p.index()+1, PhaseCount) == other.index()
}

// Destroys reports whether p destroys other (木→土→水→火→金→木).
func (p Phase) Destroys(other Phase) bool {
	return Mod(p.index()+2, PhaseCount) == other.index()
}

// Relation classifies how one phase acts on another.
type Relation int

// Relations between two phases, as seen from the acting phase.
const (
	Neutral Relation = iota
	Generative
	Destructive
)

// RelationTo classifies the effect of p on other.
func (p Phase) RelationTo(other Phase) Relation {
	switch {
	case p.Generates(other):
		return Generative
	case p.Destroys(other):
		return Destructive
	default:
		return Neutral
	}
}
