package domain

import (
	"fmt"
	"strings"
)

// SystemType tags a profile with the divination system that produced it.
// The string values are part of the wire contract.
type SystemType string

// Supported divination systems.
const (
	SystemNumerology    SystemType = "numerology"
	SystemFourPillars   SystemType = "fourPillars"
	SystemSanmei        SystemType = "sanmei"
	SystemMBTI          SystemType = "mbti"
	SystemAnimalFortune SystemType = "animalFortune"
)

// AllSystems lists every supported system in a stable order.
var AllSystems = []SystemType{
	SystemNumerology,
	SystemFourPillars,
	SystemSanmei,
	SystemMBTI,
	SystemAnimalFortune,
}

// Valid reports whether s is one of the supported systems.
func (s SystemType) Valid() bool {
	for _, known := range AllSystems {
		if s == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s SystemType) String() string {
	return string(s)
}

// ParseSystemType resolves a system tag. Matching is case-insensitive so
// that "fourpillars" and "fourPillars" are the same system.
func ParseSystemType(raw string) (SystemType, error) {
	for _, known := range AllSystems {
		if strings.EqualFold(raw, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSystem, raw)
}
