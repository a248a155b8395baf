package mjd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochRoundTrip(t *testing.T) {
	assert.Equal(t, 0.0, FromTime(Epoch))
	assert.True(t, ToTime(0).Equal(Epoch))

	// One day after the origin.
	day := Epoch.Add(24 * time.Hour)
	assert.Equal(t, 86400.0, FromTime(day))
	assert.True(t, ToTime(86400).Equal(day))
	assert.Equal(t, 1.0, Days(day))
}

func TestToTime_ModernDate(t *testing.T) {
	// A value in the range a current observation would carry.
	const sec = 5.0e9
	got := ToTime(sec)
	assert.Equal(t, 2017, got.Year())
	assert.InDelta(t, sec, FromTime(got), 1e-6)
}

func TestParseTime_DayOfYear(t *testing.T) {
	got, err := ParseTime("2024/032/11:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 11, 30, 0, 0, time.UTC), got)

	got, err = ParseTime("2024/032/11:30:45")
	require.NoError(t, err)
	assert.Equal(t, 45, got.Second())
}

func TestParseTime_Calendar(t *testing.T) {
	got, err := ParseTime("2024/02/01/11:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 11, 30, 0, 0, time.UTC), got)

	got, err = ParseTime("2024/02/01/11:30:15")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Second())
}

func TestParseTime_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024", "2024/02", "2024-02-01 11:30", "2024/02/01/11:30:15:99"} {
		_, err := ParseTime(s)
		assert.Error(t, err, "input %q", s)
	}
}
