package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAttemptTimer(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	attempt := AssessmentAttemptModel{AssessmentAttemptStartedAt: start}

	t.Run("tanpa time limit", func(t *testing.T) {
		assert.Nil(t, attempt.Deadline(nil))
		assert.False(t, attempt.IsExpired(start.Add(24*time.Hour), nil))
		assert.Nil(t, attempt.RemainingSeconds(start, nil))
	})

	t.Run("dengan time limit", func(t *testing.T) {
		limit := intPtr(30)
		dl := attempt.Deadline(limit)
		require.NotNil(t, dl)
		assert.Equal(t, start.Add(30*time.Minute), *dl)

		assert.False(t, attempt.IsExpired(start.Add(29*time.Minute), limit))
		assert.True(t, attempt.IsExpired(start.Add(31*time.Minute), limit))

		rem := attempt.RemainingSeconds(start.Add(29*time.Minute), limit)
		require.NotNil(t, rem)
		assert.Equal(t, 60, *rem)

		rem = attempt.RemainingSeconds(start.Add(2*time.Hour), limit)
		require.NotNil(t, rem)
		assert.Equal(t, 0, *rem)
	})

	t.Run("extra time menggeser deadline", func(t *testing.T) {
		limit := intPtr(30)
		extended := attempt
		extended.AssessmentAttemptTimeExtensionSeconds = 300

		dl := extended.Deadline(limit)
		require.NotNil(t, dl)
		assert.Equal(t, start.Add(35*time.Minute), *dl)
		assert.False(t, extended.IsExpired(start.Add(34*time.Minute), limit))
	})
}

func TestAttemptIsOpen(t *testing.T) {
	attempt := AssessmentAttemptModel{}
	assert.True(t, attempt.IsOpen())

	done := time.Now().UTC()
	attempt.AssessmentAttemptCompletedAt = &done
	assert.False(t, attempt.IsOpen())
}

func TestMergeAnswers(t *testing.T) {
	attempt := AssessmentAttemptModel{}
	require.NoError(t, attempt.SetAnswersMap(map[string]interface{}{
		"q1": float64(2),
		"q2": "jawa barat",
	}))

	// patch: q2 ditimpa, q3 baru, q1 tidak disentuh
	require.NoError(t, attempt.MergeAnswers(map[string]interface{}{
		"q2": "jawa timur",
		"q3": float64(0),
	}))

	got, err := attempt.AnswersMap()
	require.NoError(t, err)
	assert.Equal(t, float64(2), got["q1"])
	assert.Equal(t, "jawa timur", got["q2"])
	assert.Equal(t, float64(0), got["q3"])
}

func TestAnswersMap_Empty(t *testing.T) {
	attempt := AssessmentAttemptModel{}
	got, err := attempt.AnswersMap()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOverridesMap_RoundTrip(t *testing.T) {
	attempt := AssessmentAttemptModel{}
	require.NoError(t, attempt.SetOverridesMap(map[string]float64{"q9": 7.5}))

	got, err := attempt.OverridesMap()
	require.NoError(t, err)
	assert.Equal(t, 7.5, got["q9"])
}
