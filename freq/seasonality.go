package freq

// Seasonality returns the dominant seasonal period for a frequency: the
// number of observations after which the seasonal pattern repeats, e.g. 7 for
// daily data and 24 for hourly. Multiples divide the base period, so 30min
// data has a period of 48; the result is never below 1.
func Seasonality(f Frequency) int {
	var base int
	switch f.unit {
	case unitSecond:
		base = 3600
	case unitMinute:
		base = 1440
	case unitHour:
		base = 24
	case unitDay:
		base = 7
	case unitBusinessDay:
		base = 5
	case unitWeek:
		base = 1
	case unitMonthStart, unitMonthEnd:
		base = 12
	case unitQuarterStart, unitQuarterEnd:
		base = 4
	default:
		base = 1
	}
	if s := base / f.n; s > 1 {
		return s
	}
	return 1
}
