package cycle

import (
	"github.com/phrazzld/uranai-api/internal/domain"
)

// DefaultHour is used for the hour pillar when no birth time is known.
const DefaultHour = 12

// anchorDate is the 甲子 day all day pillars count from.
var anchorDate = domain.Date{Year: AnchorYear, Month: 1, Day: 1}

// Pillar is a stem/branch pair for one temporal unit of a birth moment.
type Pillar struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

// String returns the pair as two kanji, e.g. 甲子.
func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// Pillars are the year, month, day and hour pillars of a birth moment.
type Pillars struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// All returns the pillars in year, month, day, hour order.
func (p Pillars) All() [4]Pillar {
	return [4]Pillar{p.Year, p.Month, p.Day, p.Hour}
}

// Balance counts the element of each of the eight stem and branch slots.
func (p Pillars) Balance() Balance {
	var b Balance
	for _, pillar := range p.All() {
		b[pillar.Stem.Phase()]++
		b[pillar.Branch.Phase()]++
	}
	return b
}

// YearPillar derives the pillar of a calendar year.
func YearPillar(year int) Pillar {
	offset := year - AnchorYear
	return Pillar{Stem: StemOf(offset), Branch: BranchOf(offset)}
}

// pairedOffset is the start of the month or hour stem sequence. Stems five
// apart (甲己, 乙庚, ...) share a start.
func pairedOffset(s Stem) int {
	return (s.Index() % 5) * 2
}

// MonthPillar derives the pillar of month (1-12) in year. Months start at
// 寅 and the stem sequence is seeded by the year stem.
func MonthPillar(year, month int) Pillar {
	yearStem := YearPillar(year).Stem
	return Pillar{
		Stem:   StemOf(pairedOffset(yearStem) + month - 1),
		Branch: BranchOf(month + 1),
	}
}

// DayPillar derives the pillar of a date from the true day count since
// 1924-01-01. Dates before the anchor wrap backwards.
func DayPillar(date domain.Date) Pillar {
	days := date.DaysSince(anchorDate)
	return Pillar{Stem: StemOf(days), Branch: BranchOf(days)}
}

// HourPillar derives the pillar of an hour (0-23) on a day with the given
// stem. Each branch covers two hours, with 子 starting at 23:00.
func HourPillar(dayStem Stem, hour int) Pillar {
	slot := Mod(hour+1, 24) / 2
	return Pillar{
		Stem:   StemOf(pairedOffset(dayStem) + ((hour+1)/2)%12),
		Branch: BranchOf(slot),
	}
}

// PillarsOf derives all four pillars for a date and hour.
func PillarsOf(date domain.Date, hour int) Pillars {
	day := DayPillar(date)
	return Pillars{
		Year:  YearPillar(date.Year),
		Month: MonthPillar(date.Year, int(date.Month)),
		Day:   day,
		Hour:  HourPillar(day.Stem, hour),
	}
}

// PillarsOfRecord derives the pillars of a birth record, using DefaultHour
// when the time of birth is unknown.
func PillarsOfRecord(rec domain.BirthRecord) Pillars {
	hour := DefaultHour
	if rec.BirthTime != nil {
		hour = rec.BirthTime.Hour
	}
	return PillarsOf(rec.BirthDate, hour)
}
