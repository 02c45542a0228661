package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChallenge_IsTerminal(t *testing.T) {
	// Arrange
	testCases := []struct {
		name     string
		state    string
		expected bool
	}{
		{"Scheduled не терминален", ChallengeStateScheduled, false},
		{"Active не терминален", ChallengeStateActive, false},
		{"Closing не терминален", ChallengeStateClosing, false},
		{"Defeated терминален", ChallengeStateDefeated, true},
		{"Expired терминален", ChallengeStateExpired, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &Challenge{State: tc.state}

			// Act & Assert
			assert.Equal(t, tc.expected, ch.IsTerminal())
		})
	}
}

func TestChallenge_IsActive(t *testing.T) {
	// Arrange
	active := &Challenge{State: ChallengeStateActive}
	closing := &Challenge{State: ChallengeStateClosing}

	// Act & Assert
	assert.True(t, active.IsActive())
	assert.False(t, closing.IsActive(), "Closing не принимает урон и записи")
}

func TestChallenge_IsDue(t *testing.T) {
	// Arrange
	now := time.Now()

	// Act & Assert
	past := &Challenge{EndsAt: now.Add(-time.Minute)}
	assert.True(t, past.IsDue(now), "Прошедший дедлайн — челлендж просрочен")

	exact := &Challenge{EndsAt: now}
	assert.True(t, exact.IsDue(now), "Дедлайн ровно сейчас — уже просрочен")

	future := &Challenge{EndsAt: now.Add(time.Minute)}
	assert.False(t, future.IsDue(now))
}

func TestQuestion_IsCorrect(t *testing.T) {
	// Arrange
	q := &Question{CorrectOption: 2, Options: []string{"a", "b", "c", "d"}}

	// Act & Assert
	assert.True(t, q.IsCorrect(2))
	assert.False(t, q.IsCorrect(0))
}

func TestQuestion_IsValidOption(t *testing.T) {
	// Arrange
	q := &Question{Options: []string{"a", "b", "c"}}

	// Act & Assert
	assert.True(t, q.IsValidOption(0))
	assert.True(t, q.IsValidOption(2))
	assert.False(t, q.IsValidOption(3), "Индекс за пределами вариантов недопустим")
	assert.False(t, q.IsValidOption(-1))
}

func TestAssignedQuestion_BelongsTo(t *testing.T) {
	// Arrange
	aq := &AssignedQuestion{ParticipantID: 5}

	// Act & Assert
	assert.True(t, aq.BelongsTo(5))
	assert.False(t, aq.BelongsTo(6))
}
