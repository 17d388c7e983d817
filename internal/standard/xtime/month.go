// Copyright 2026 Peter Edge
//
// All rights reserved.

package xtime

import (
	"fmt"
	"time"
)

// Month is a calendar month, a Date with the day truncated.
type Month struct {
	Year  int
	Month time.Month
}

// String returns the month in "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Compare returns -1, 0, or +1 depending on whether m is before, equal to, or after m2.
func (m Month) Compare(m2 Month) int {
	if m.Year != m2.Year {
		return compareInt(m.Year, m2.Year)
	}
	return compareInt(int(m.Month), int(m2.Month))
}
