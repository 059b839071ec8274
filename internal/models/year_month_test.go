package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, ym)
	assert.Equal(t, "2024-02", ym.String())

	for _, bad := range []string{"2024-13", "2024-2", "24-02", "2024/02", ""} {
		_, err := ParseYearMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestYearMonth_Before(t *testing.T) {
	jan := YearMonth{Year: 2024, Month: time.January}
	dec := YearMonth{Year: 2023, Month: time.December}

	assert.True(t, dec.Before(jan))
	assert.False(t, jan.Before(dec))
	assert.False(t, jan.Before(jan))
}

func TestYearMonth_Text(t *testing.T) {
	var ym YearMonth
	require.NoError(t, ym.UnmarshalText([]byte("2023-11")))
	out, err := ym.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2023-11", string(out))

	assert.Error(t, ym.UnmarshalText([]byte("nope")))
}
