package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfUsesLocation(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in Tokyo
	ts := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, Day{2024, time.January, 1}, DayOf(ts, time.UTC))
	assert.Equal(t, Day{2024, time.January, 2}, DayOf(ts, tokyo))
}

func TestDayArithmeticCrossesBoundaries(t *testing.T) {
	assert.Equal(t, Day{2023, time.December, 31}, Day{2024, time.January, 1}.Prev())
	assert.Equal(t, Day{2024, time.February, 29}, Day{2024, time.February, 28}.Next())
	assert.Equal(t, Day{2024, time.March, 1}, Day{2024, time.February, 29}.Next())
}

func TestDayJSON(t *testing.T) {
	d := Day{2024, time.March, 5}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	var parsed Day
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, d, parsed)

	var zero Day
	require.NoError(t, json.Unmarshal([]byte(`""`), &zero))
	assert.True(t, zero.IsZero())
}

func TestParseDayRejectsGarbage(t *testing.T) {
	_, err := ParseDay("yesterday")
	assert.Error(t, err)
}
