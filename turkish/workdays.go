package turkish

import "time"

// =============================================================================
// BUSINESS-DAY ARITHMETIC - weekmask 1111100 (Mon-Fri) plus holidays
// =============================================================================

// HolidayCalendar answers whether a date is an official holiday.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// HolidaySet is a fixed set of dates (day precision, any location).
type HolidaySet map[string]bool

// NewHolidaySet builds a set from explicit dates.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[dayKey(d)] = true
	}
	return s
}

func (s HolidaySet) IsHoliday(date time.Time) bool { return s[dayKey(date)] }

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

// IsWorkday reports whether date is Mon-Fri and not a holiday.
func IsWorkday(date time.Time, cal HolidayCalendar) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if cal != nil && cal.IsHoliday(date) {
		return false
	}
	return true
}

// BusinessDayEnd returns the date of the dayCount-th workday counting from
// start inclusive. A leave of 5 workdays starting Monday ends Friday.
// dayCount must be >= 1; the zero time is returned otherwise.
func BusinessDayEnd(start time.Time, dayCount int, cal HolidayCalendar) time.Time {
	if dayCount < 1 {
		return time.Time{}
	}
	d := start
	remaining := dayCount
	for {
		if IsWorkday(d, cal) {
			remaining--
			if remaining == 0 {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

// CountWorkdays counts workdays in [from, to] inclusive.
func CountWorkdays(from, to time.Time, cal HolidayCalendar) int {
	if to.Before(from) {
		return 0
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d, cal) {
			n++
		}
	}
	return n
}
