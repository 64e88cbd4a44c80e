// Package epiweek implements the epidemiological (CDC/MMWR) week calendar used
// by SINAN: weeks run Sunday to Saturday and week 1 is the week containing
// 4 January, so the first days of January can belong to the previous year.
package epiweek

import "time"

// Week is an epidemiological week.
type Week struct {
	Year int
	Week int
}

// FromDate returns the epidemiological week containing t (its calendar date,
// in t's location).
func FromDate(t time.Time) Week {
	d := dateOnly(t)
	year := d.Year()
	start := yearStart(year)
	if d.Before(start) {
		year--
		start = yearStart(year)
	} else if next := yearStart(year + 1); !d.Before(next) {
		year++
		start = next
	}
	days := int(d.Sub(start).Hours()/24 + 0.5)
	return Week{Year: year, Week: days/7 + 1}
}

// CurrentYear is the epidemiological year of now.
func CurrentYear(now time.Time) int {
	return FromDate(now).Year
}

// WeeksInYear returns 52 or 53.
func WeeksInYear(year int) int {
	days := int(yearStart(year+1).Sub(yearStart(year)).Hours()/24 + 0.5)
	return days / 7
}

// StartDate returns the Sunday that opens w.
func (w Week) StartDate() time.Time {
	return yearStart(w.Year).AddDate(0, 0, (w.Week-1)*7)
}

// yearStart is the Sunday on or before 4 January.
func yearStart(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return jan4.AddDate(0, 0, -int(jan4.Weekday()))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
