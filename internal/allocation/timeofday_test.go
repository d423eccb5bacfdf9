package allocation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:45")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 45, tod.Minute())
	assert.Equal(t, "09:45", tod.String())

	_, err = ParseTimeOfDay("9.45")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestTimeOfDayArithmetic(t *testing.T) {
	start := MustParseTimeOfDay("23:45")
	end := start.Add(Quantum)

	assert.Equal(t, "24:00", end.String())
	assert.Equal(t, 15*time.Minute, end.Sub(start))
	assert.True(t, start.Before(end))
	assert.True(t, start.OnQuarterHour())
	assert.False(t, MustParseTimeOfDay("10:20").OnQuarterHour())
}

func TestTimeOfDayOfTruncatesSeconds(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 14, 59, 999, time.UTC)
	assert.Equal(t, MustParseTimeOfDay("08:14"), TimeOfDayOf(now))
}

func TestTimeOfDayJSON(t *testing.T) {
	var payload struct {
		Start TimeOfDay `json:"startTime"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"startTime":"10:30"}`), &payload))
	assert.Equal(t, NewTimeOfDay(10, 30), payload.Start)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startTime":"10:30"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"startTime":1030}`), &payload))
}

func TestTimeOfDaySQL(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan([]byte("13:00")))
	assert.Equal(t, NewTimeOfDay(13, 0), tod)

	value, err := tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "13:00", value)

	assert.Error(t, tod.Scan(42))
}
