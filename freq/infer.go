package freq

import (
	"fmt"
	"sort"
	"time"

	"github.com/panelcv/go-panelcv/dataset"
)

// Resolve returns the parsed frequency when freqStr is non-empty. Otherwise
// it infers the frequency from the series with the most observations, ties
// broken by first occurrence. Only that one representative series is
// inspected; callers must ensure all series share one true frequency.
func Resolve(tbl *dataset.Table, freqStr string) (Frequency, error) {
	if freqStr != "" {
		return Parse(freqStr)
	}

	counts := make(map[string]int)
	var order []string
	for _, id := range tbl.SeriesIDs() {
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}
	var repr string
	for _, id := range order {
		if repr == "" || counts[id] > counts[repr] {
			repr = id
		}
	}

	times := make([]time.Time, 0, counts[repr])
	for i, id := range tbl.SeriesIDs() {
		if id == repr {
			times = append(times, tbl.Times()[i].UTC())
		}
	}
	sort.Slice(times, func(a, b int) bool { return times[a].Before(times[b]) })
	return Infer(times)
}

// Infer determines the single frequency that exactly reproduces the spacing
// of the given ascending timestamps. It needs at least 3 points and fails
// when the spacing is irregular, has gaps or contains duplicates.
func Infer(times []time.Time) (Frequency, error) {
	if len(times) < 3 {
		return Frequency{}, fmt.Errorf("need at least 3 timestamps, got %d, %w", len(times), ErrCannotInfer)
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return Frequency{}, fmt.Errorf("duplicate or unordered timestamp at %d, %w", i, ErrCannotInfer)
		}
	}

	if f, inferred := inferCalendar(times); inferred {
		return f, nil
	}
	if f, inferred := inferFixed(times); inferred {
		return f, nil
	}
	if f, inferred := inferBusinessDaily(times); inferred {
		return f, nil
	}
	return Frequency{}, fmt.Errorf("irregular timestamp spacing, %w", ErrCannotInfer)
}

// month start/end families, including their quarterly and yearly anchorings
func inferCalendar(times []time.Time) (Frequency, bool) {
	if !sameClock(times) {
		return Frequency{}, false
	}
	monthStart := true
	monthEnd := true
	for _, t := range times {
		if t.Day() != 1 {
			monthStart = false
		}
		if t.Day() != lastDayOfMonth(t) {
			monthEnd = false
		}
	}
	if !monthStart && !monthEnd {
		return Frequency{}, false
	}
	step := monthIndex(times[1]) - monthIndex(times[0])
	if step < 1 {
		return Frequency{}, false
	}
	for i := 1; i < len(times); i++ {
		if monthIndex(times[i])-monthIndex(times[i-1]) != step {
			return Frequency{}, false
		}
	}
	month := times[0].Month()
	if monthStart {
		switch {
		case step%12 == 0 && month == time.January:
			return Frequency{n: step / 12, unit: unitYearStart, weekday: time.Sunday}, true
		case step%3 == 0 && (month == time.January || month == time.April || month == time.July || month == time.October):
			return Frequency{n: step / 3, unit: unitQuarterStart, weekday: time.Sunday}, true
		default:
			return Frequency{n: step, unit: unitMonthStart, weekday: time.Sunday}, true
		}
	}
	switch {
	case step%12 == 0 && month == time.December:
		return Frequency{n: step / 12, unit: unitYearEnd, weekday: time.Sunday}, true
	case step%3 == 0 && (month == time.March || month == time.June || month == time.September || month == time.December):
		return Frequency{n: step / 3, unit: unitQuarterEnd, weekday: time.Sunday}, true
	default:
		return Frequency{n: step, unit: unitMonthEnd, weekday: time.Sunday}, true
	}
}

func inferFixed(times []time.Time) (Frequency, bool) {
	d := times[1].Sub(times[0])
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) != d {
			return Frequency{}, false
		}
	}
	const day = 24 * time.Hour
	f := Frequency{weekday: time.Sunday}
	switch {
	case d%(7*day) == 0:
		f.n = int(d / (7 * day))
		f.unit = unitWeek
		f.weekday = times[0].Weekday()
	case d%day == 0:
		f.n = int(d / day)
		f.unit = unitDay
	case d%time.Hour == 0:
		f.n = int(d / time.Hour)
		f.unit = unitHour
	case d%time.Minute == 0:
		f.n = int(d / time.Minute)
		f.unit = unitMinute
	case d%time.Second == 0:
		f.n = int(d / time.Second)
		f.unit = unitSecond
	default:
		return Frequency{}, false
	}
	return f, true
}

func inferBusinessDaily(times []time.Time) (Frequency, bool) {
	if !sameClock(times) {
		return Frequency{}, false
	}
	b := Frequency{n: 1, unit: unitBusinessDay, weekday: time.Sunday}
	for i := 1; i < len(times); i++ {
		if !b.Add(times[i-1], 1).Equal(times[i]) {
			return Frequency{}, false
		}
	}
	return b, true
}

func sameClock(times []time.Time) bool {
	h0, m0, s0 := times[0].Clock()
	for _, t := range times[1:] {
		h, m, s := t.Clock()
		if h != h0 || m != m0 || s != s0 || t.Nanosecond() != times[0].Nanosecond() {
			return false
		}
	}
	return true
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
