package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		dateStr     string
		expectedOk  bool
		expectedY   int
		expectedM   time.Month
		expectedD   int
		expectedFmt string
	}{
		{"ISO format", "2024-01-15", true, 2024, time.January, 15, DateLayoutISO},
		{"Full timestamp", "2024-01-15 10:30:45", true, 2024, time.January, 15, DateLayoutFull},
		{"US format", "01/15/2024", true, 2024, time.January, 15, DateLayoutUS},
		{"US short format", "1/5/2024", true, 2024, time.January, 5, DateLayoutUSShort},
		{"US ambiguous is month first", "03/04/2024", true, 2024, time.March, 4, DateLayoutUS},
		{"European format", "15.01.2024", true, 2024, time.January, 15, DateLayoutEuropean},
		{"Extra whitespace", "  2024-01-15 ", true, 2024, time.January, 15, DateLayoutISO},
		{"Empty string", "", false, 0, 0, 0, ""},
		{"Invalid format", "not a date", false, 0, 0, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, format, err := ParseDate(tc.dateStr)

			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
			assert.Equal(t, tc.expectedFmt, format)
		})
	}
}

func TestParseDateString_KeepsTime(t *testing.T) {
	date, err := ParseDateString("2024-02-03 14:05:06")
	require.NoError(t, err)
	assert.Equal(t, 14, date.Hour())
	assert.Equal(t, 5, date.Minute())
}

func TestDayBoundaries(t *testing.T) {
	date := time.Date(2024, time.February, 17, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 17, 0, 0, 0, 0, time.UTC), StartOfDay(date))
	assert.Equal(t, 23, EndOfDay(date).Hour())
	assert.Equal(t, 17, EndOfDay(date).Day())
}

func TestFormatting(t *testing.T) {
	date := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-09", ToISODate(date))
	assert.Equal(t, "", ToISODate(time.Time{}))
}
