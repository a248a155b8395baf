// Package mjd converts between measurement-set TIME values (seconds since
// the Modified Julian Date origin) and time.Time.
package mjd

import (
	"fmt"
	"strings"
	"time"
)

// Epoch is the MJD origin as used by the TIME and TIME_RANGE columns.
// The two-second offset matches the TAI-UTC handling of the correlator
// output these tables come from and must not change.
var Epoch = time.Date(1858, time.November, 17, 0, 0, 2, 0, time.UTC)

// ToTime converts a TIME column value (seconds since Epoch) to time.Time.
func ToTime(seconds float64) time.Time {
	return Epoch.Add(time.Duration(seconds * float64(time.Second)))
}

// FromTime converts a time.Time to a TIME column value.
func FromTime(t time.Time) float64 {
	return t.Sub(Epoch).Seconds()
}

// Days returns the fractional MJD day count for t.
func Days(t time.Time) float64 {
	return t.Sub(Epoch).Hours() / 24.0
}

// ParseTime parses YYYY/MM/DD/hh:mm[:ss] or YYYY/DOY/hh:mm[:ss].
func ParseTime(s string) (time.Time, error) {
	slashes := strings.Count(s, "/")
	if slashes != 2 && slashes != 3 {
		return time.Time{}, fmt.Errorf("time %q must be YYYY/MM/DD/hh:mm[:ss] or YYYY/DOY/hh:mm[:ss]", s)
	}
	layout := "2006/"
	if slashes == 2 {
		layout += "002/"
	} else {
		layout += "01/02/"
	}
	layout += "15:04"
	if strings.Count(s, ":") == 2 {
		layout += ":05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q must be YYYY/MM/DD/hh:mm[:ss] or YYYY/DOY/hh:mm[:ss]: %w", s, err)
	}
	return t, nil
}
