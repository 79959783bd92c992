// Package freq parses, steps and infers panel sampling frequencies expressed
// as pandas-style offset aliases such as "D", "15min", "W-MON" or "MS".
package freq

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
)

var (
	ErrUnknownFrequency = errors.New("unknown frequency alias")
	ErrCannotInfer      = errors.New("cannot infer frequency from timestamps")
)

type unit int

const (
	unitSecond unit = iota
	unitMinute
	unitHour
	unitDay
	unitBusinessDay
	unitWeek
	unitMonthStart
	unitMonthEnd
	unitQuarterStart
	unitQuarterEnd
	unitYearStart
	unitYearEnd
)

// Frequency is a parsed sampling frequency: an integer multiple of a unit,
// with a weekday anchor for weekly frequencies.
type Frequency struct {
	n       int
	unit    unit
	weekday time.Weekday
}

var aliases = map[string]unit{
	"s": unitSecond, "S": unitSecond,
	"min": unitMinute, "T": unitMinute,
	"h": unitHour, "H": unitHour,
	"D":  unitDay,
	"B":  unitBusinessDay,
	"W":  unitWeek,
	"MS": unitMonthStart,
	"M":  unitMonthEnd, "ME": unitMonthEnd,
	"QS": unitQuarterStart,
	"Q":  unitQuarterEnd, "QE": unitQuarterEnd,
	"YS": unitYearStart, "AS": unitYearStart,
	"Y": unitYearEnd, "A": unitYearEnd, "YE": unitYearEnd,
}

var weekdays = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

// Parse converts an offset alias with an optional leading integer multiple
// into a Frequency.
func Parse(s string) (Frequency, error) {
	orig := s
	s = strings.TrimSpace(s)
	n := 0
	digits := false
	for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		d, _ := strconv.Atoi(s[:1])
		n = n*10 + d
		s = s[1:]
		digits = true
	}
	if digits && n == 0 {
		return Frequency{}, fmt.Errorf("zero multiple %q, %w", orig, ErrUnknownFrequency)
	}
	if n == 0 {
		n = 1
	}
	f := Frequency{n: n, weekday: time.Sunday}
	if wd, found := strings.CutPrefix(s, "W-"); found {
		anchor, exists := weekdays[wd]
		if !exists {
			return Frequency{}, fmt.Errorf("bad weekly anchor %q, %w", orig, ErrUnknownFrequency)
		}
		f.unit = unitWeek
		f.weekday = anchor
		return f, nil
	}
	u, exists := aliases[s]
	if !exists {
		return Frequency{}, fmt.Errorf("%q, %w", orig, ErrUnknownFrequency)
	}
	f.unit = u
	return f, nil
}

// N returns the integer multiple of the frequency unit.
func (f Frequency) N() int {
	return f.n
}

func (f Frequency) String() string {
	var base string
	switch f.unit {
	case unitSecond:
		base = "s"
	case unitMinute:
		base = "min"
	case unitHour:
		base = "h"
	case unitDay:
		base = "D"
	case unitBusinessDay:
		base = "B"
	case unitWeek:
		base = "W-" + strings.ToUpper(f.weekday.String()[:3])
	case unitMonthStart:
		base = "MS"
	case unitMonthEnd:
		base = "M"
	case unitQuarterStart:
		base = "QS"
	case unitQuarterEnd:
		base = "Q"
	case unitYearStart:
		base = "YS"
	case unitYearEnd:
		base = "Y"
	}
	if f.n > 1 {
		return strconv.Itoa(f.n) + base
	}
	return base
}

var businessCal = cal.NewBusinessCalendar()

// Add advances t by n periods at this frequency. Calendar units keep their
// anchoring: month-end frequencies land on the last day of the target month
// and business days step weekday to weekday. n may be negative.
func (f Frequency) Add(t time.Time, n int) time.Time {
	total := n * f.n
	switch f.unit {
	case unitSecond:
		return t.Add(time.Duration(total) * time.Second)
	case unitMinute:
		return t.Add(time.Duration(total) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(total) * time.Hour)
	case unitDay:
		return t.AddDate(0, 0, total)
	case unitBusinessDay:
		return addBusinessDays(t, total)
	case unitWeek:
		return t.AddDate(0, 0, 7*total)
	case unitMonthStart:
		return t.AddDate(0, total, 0)
	case unitMonthEnd:
		return addMonthsAnchoredEnd(t, total)
	case unitQuarterStart:
		return t.AddDate(0, 3*total, 0)
	case unitQuarterEnd:
		return addMonthsAnchoredEnd(t, 3*total)
	case unitYearStart:
		return t.AddDate(total, 0, 0)
	case unitYearEnd:
		return addMonthsAnchoredEnd(t, 12*total)
	}
	return t
}

func addBusinessDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for i := 0; i < n; i++ {
		t = t.AddDate(0, 0, step)
		for !businessCal.IsWorkday(t) {
			t = t.AddDate(0, 0, step)
		}
	}
	return t
}

// lands on the last day of the month m months away, preserving clock time
func addMonthsAnchoredEnd(t time.Time, m int) time.Time {
	hh, mi, ss := t.Clock()
	return time.Date(t.Year(), t.Month()+time.Month(m)+1, 0, hh, mi, ss, t.Nanosecond(), t.Location())
}
