package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreakRecordLogin(t *testing.T) {
	dayN := Day{2024, time.January, 10}
	var s Streak

	assert.True(t, s.RecordLogin(dayN))
	assert.Equal(t, 1, s.Count)

	assert.False(t, s.RecordLogin(dayN))
	assert.Equal(t, 1, s.Count)

	s.RecordLogin(dayN.Next())
	assert.Equal(t, 2, s.Count)

	s.RecordLogin(dayN.Next().Next().Next())
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 2, s.Longest)
	assert.Equal(t, dayN.Next().Next().Next(), s.LastLogin)
}
