// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package xtime provides civil date types that extend the standard time package.
//
// A Date has no time of day and no location. Statement exports only ever carry
// calendar dates, so converting them to time.Time would invite time zone bugs.
package xtime

import (
	"fmt"
	"strings"
	"time"
)

// isoLayout is the canonical layout used by Date.String.
const isoLayout = "2006-01-02"

// slashLayout is the layout used by Japanese broker exports.
const slashLayout = "2006/01/02"

// Date is a calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// TimeToDate returns the Date that t falls on in t's location.
func TimeToDate(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in "YYYY-MM-DD" or "YYYY/MM/DD" form.
func ParseDate(s string) (Date, error) {
	layout := isoLayout
	if strings.Contains(s, "/") {
		layout = slashLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, err
	}
	return TimeToDate(t), nil
}

// String returns the date in "YYYY-MM-DD" form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// YearMonth returns the calendar month containing d.
func (d Date) YearMonth() Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Compare returns -1, 0, or +1 depending on whether d is before, equal to, or after d2.
func (d Date) Compare(d2 Date) int {
	switch {
	case d.Year != d2.Year:
		return compareInt(d.Year, d2.Year)
	case d.Month != d2.Month:
		return compareInt(int(d.Month), int(d2.Month))
	default:
		return compareInt(d.Day, d2.Day)
	}
}

func compareInt(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
