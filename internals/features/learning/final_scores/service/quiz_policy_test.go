package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
)

func quizAssessment() asmodel.AssessmentModel {
	return asmodel.AssessmentModel{
		AssessmentID:   uuid.New(),
		AssessmentType: asmodel.AssessmentTypeQuiz,
	}
}

func gradedAttempt(assessmentID uuid.UUID, score, total float64, completedAt time.Time) atmodel.AssessmentAttemptModel {
	return atmodel.AssessmentAttemptModel{
		AssessmentAttemptID:           uuid.New(),
		AssessmentAttemptAssessmentID: assessmentID,
		AssessmentAttemptScore:        score,
		AssessmentAttemptTotalPoints:  total,
		AssessmentAttemptCompletedAt:  &completedAt,
		AssessmentAttemptIsGraded:     true,
	}
}

func TestAttemptPercent(t *testing.T) {
	a := gradedAttempt(uuid.New(), 8, 10, time.Now())
	assert.InDelta(t, 80.0, AttemptPercent(&a), 1e-9)

	// total 0 tidak boleh bagi nol
	z := gradedAttempt(uuid.New(), 0, 0, time.Now())
	assert.Equal(t, 0.0, AttemptPercent(&z))
}

func TestBestAttemptAverage(t *testing.T) {
	now := time.Now().UTC()
	q1 := quizAssessment()
	q2 := quizAssessment()
	q3 := quizAssessment() // tanpa attempt sama sekali

	a1lo := gradedAttempt(q1.AssessmentID, 6, 10, now.Add(-2*time.Hour)) // 60
	a1hi := gradedAttempt(q1.AssessmentID, 9, 10, now.Add(-1*time.Hour)) // 90
	a2 := gradedAttempt(q2.AssessmentID, 7, 10, now)                     // 70

	byAssessment := map[uuid.UUID][]atmodel.AssessmentAttemptModel{
		q1.AssessmentID: {a1lo, a1hi},
		q2.AssessmentID: {a2},
	}

	// best(q1)=90, best(q2)=70; q3 tidak ikut pembagi → (90+70)/2 = 80
	got := BestAttemptAverage([]asmodel.AssessmentModel{q1, q2, q3}, byAssessment)
	assert.InDelta(t, 80.0, got, 1e-9)
}

func TestBestAttemptAverage_SkipsIneligible(t *testing.T) {
	now := time.Now().UTC()
	q := quizAssessment()

	open := gradedAttempt(q.AssessmentID, 10, 10, now)
	open.AssessmentAttemptCompletedAt = nil

	ungraded := gradedAttempt(q.AssessmentID, 10, 10, now)
	ungraded.AssessmentAttemptIsGraded = false

	remedial := gradedAttempt(q.AssessmentID, 10, 10, now)
	remedial.AssessmentAttemptIsRemedial = true

	ok := gradedAttempt(q.AssessmentID, 5, 10, now) // 50

	got := BestAttemptAverage(
		[]asmodel.AssessmentModel{q},
		map[uuid.UUID][]atmodel.AssessmentAttemptModel{
			q.AssessmentID: {open, ungraded, remedial, ok},
		},
	)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestBestAttemptAverage_NoEligibleAttempts(t *testing.T) {
	q := quizAssessment()
	got := BestAttemptAverage([]asmodel.AssessmentModel{q}, nil)
	assert.Equal(t, 0.0, got)
}

func TestLatestAttemptAverage(t *testing.T) {
	now := time.Now().UTC()
	q := quizAssessment()

	older := gradedAttempt(q.AssessmentID, 9, 10, now.Add(-1*time.Hour)) // 90
	newer := gradedAttempt(q.AssessmentID, 6, 10, now)                   // 60

	got := LatestAttemptAverage(
		[]asmodel.AssessmentModel{q},
		map[uuid.UUID][]atmodel.AssessmentAttemptModel{
			q.AssessmentID: {older, newer},
		},
	)
	assert.InDelta(t, 60.0, got, 1e-9)
}
