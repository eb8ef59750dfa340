// Package cycle implements the calendar arithmetic shared by the
// four-pillars and sanmei calculators: the 10-stem and 12-branch cycles,
// the five phases with their generative and destructive relations, pillar
// derivation anchored at 1924-01-01 (甲子), and elemental balance.
//
// Every function is total. Offsets before the anchor are normalized with
// Mod rather than rejected.
package cycle
