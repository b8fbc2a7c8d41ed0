package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
	"bilearning_backend/internals/features/learning/faults"
	fsmodel "bilearning_backend/internals/features/learning/final_scores/model"
	pmodel "bilearning_backend/internals/features/learning/powerups/model"
)

// Integration test terhadap Postgres sungguhan.
// Jalankan dengan:
//
//	BILEARNING_INTEGRATION=1 BILEARNING_TEST_DSN="host=localhost ..." go test ./...
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("BILEARNING_INTEGRATION") != "1" {
		t.Skip("set BILEARNING_INTEGRATION=1 untuk menjalankan integration test")
	}
	dsn := os.Getenv("BILEARNING_TEST_DSN")
	require.NotEmpty(t, dsn, "BILEARNING_TEST_DSN wajib diisi")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&asmodel.AssessmentModel{},
		&asmodel.AssessmentQuestionModel{},
		&atmodel.AssessmentAttemptModel{},
		&pmodel.AssessmentPowerupModel{},
		&pmodel.AttemptPowerupModel{},
		&fsmodel.FinalScoreModel{},
	))
	return db
}

func seedQuizWithQuestions(t *testing.T, db *gorm.DB, courseID uuid.UUID) (asmodel.AssessmentModel, []asmodel.AssessmentQuestionModel) {
	t.Helper()
	limit := 30
	assessment := asmodel.AssessmentModel{
		AssessmentID:               uuid.New(),
		AssessmentCourseID:         courseID,
		AssessmentType:             asmodel.AssessmentTypeQuiz,
		AssessmentTitle:            "Quiz Sejarah Bab 1",
		AssessmentTimeLimitMinutes: &limit,
		AssessmentIsPublished:      true,
		AssessmentAllowRetakes:     true,
	}
	require.NoError(t, db.Create(&assessment).Error)

	questions := []asmodel.AssessmentQuestionModel{
		{
			AssessmentQuestionID:           uuid.New(),
			AssessmentQuestionAssessmentID: assessment.AssessmentID,
			AssessmentQuestionType:         asmodel.QuestionTypeMultipleChoice,
			AssessmentQuestionText:         "Ibukota Indonesia?",
			AssessmentQuestionAnswerConfig: datatypes.JSON([]byte(`{"options":["Jakarta","Bandung","Medan"],"correct_index":0}`)),
			AssessmentQuestionPoints:       5,
			AssessmentQuestionOrder:        1,
		},
		{
			AssessmentQuestionID:           uuid.New(),
			AssessmentQuestionAssessmentID: assessment.AssessmentID,
			AssessmentQuestionType:         asmodel.QuestionTypeFillBlank,
			AssessmentQuestionText:         "Proklamator Indonesia adalah ...",
			AssessmentQuestionAnswerConfig: datatypes.JSON([]byte(`{"accepted_answers":["Soekarno","Bung Karno"]}`)),
			AssessmentQuestionPoints:       5,
			AssessmentQuestionOrder:        2,
		},
	}
	require.NoError(t, db.Create(&questions).Error)
	return assessment, questions
}

func TestIntegration_AttemptLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	svc := NewAttemptService(db, nil, nil)
	userID := uuid.New()
	assessment, questions := seedQuizWithQuestions(t, db, uuid.New())

	// Start
	attempt, err := svc.Start(ctx, StartAttemptInput{
		AssessmentID: assessment.AssessmentID,
		UserID:       userID,
	})
	require.NoError(t, err)
	assert.True(t, attempt.IsOpen())
	assert.Equal(t, 10.0, attempt.AssessmentAttemptTotalPoints)

	// Start kedua saat masih berjalan harus ditolak
	_, err = svc.Start(ctx, StartAttemptInput{
		AssessmentID: assessment.AssessmentID,
		UserID:       userID,
	})
	require.Error(t, err)
	assert.True(t, errorsIsAny(err, faults.ErrNotEligible, faults.ErrConflict), "dapat: %v", err)

	// SaveProgress: jawab soal pertama saja
	attempt, err = svc.SaveProgress(ctx, attempt.AssessmentAttemptID, userID, map[string]interface{}{
		questions[0].AssessmentQuestionID.String(): float64(0),
	})
	require.NoError(t, err)

	// Submit dengan jawaban final soal kedua
	res, err := svc.Submit(ctx, attempt.AssessmentAttemptID, userID, map[string]interface{}{
		questions[1].AssessmentQuestionID.String(): "bung karno",
	})
	require.NoError(t, err)
	assert.False(t, res.Attempt.IsOpen())
	assert.Equal(t, 10.0, res.Attempt.AssessmentAttemptScore)
	assert.True(t, res.Attempt.AssessmentAttemptIsGraded)
	assert.Equal(t, 300, res.PointsAwarded) // 200 + 100 * 100%

	// Submit kedua harus ditolak
	_, err = svc.Submit(ctx, attempt.AssessmentAttemptID, userID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrAttemptClosed)

	// SaveProgress setelah submit harus ditolak
	_, err = svc.SaveProgress(ctx, attempt.AssessmentAttemptID, userID, map[string]interface{}{
		questions[0].AssessmentQuestionID.String(): float64(1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrAttemptClosed)

	// Retake diizinkan setelah attempt pertama selesai
	second, err := svc.Start(ctx, StartAttemptInput{
		AssessmentID: assessment.AssessmentID,
		UserID:       userID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, attempt.AssessmentAttemptID, second.AssessmentAttemptID)
}

func TestIntegration_EssayGrading(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rewards := &recordingRewardNotifier{}
	svc := NewAttemptService(db, nil, rewards)
	userID := uuid.New()

	assessment := asmodel.AssessmentModel{
		AssessmentID:          uuid.New(),
		AssessmentCourseID:    uuid.New(),
		AssessmentType:        asmodel.AssessmentTypeQuiz,
		AssessmentTitle:       "Quiz Esai",
		AssessmentIsPublished: true,
	}
	require.NoError(t, db.Create(&assessment).Error)

	essay := asmodel.AssessmentQuestionModel{
		AssessmentQuestionID:           uuid.New(),
		AssessmentQuestionAssessmentID: assessment.AssessmentID,
		AssessmentQuestionType:         asmodel.QuestionTypeEssay,
		AssessmentQuestionText:         "Jelaskan makna Sumpah Pemuda.",
		AssessmentQuestionPoints:       10,
		AssessmentQuestionOrder:        1,
	}
	require.NoError(t, db.Create(&essay).Error)

	attempt, err := svc.Start(ctx, StartAttemptInput{AssessmentID: assessment.AssessmentID, UserID: userID})
	require.NoError(t, err)

	res, err := svc.Submit(ctx, attempt.AssessmentAttemptID, userID, map[string]interface{}{
		essay.AssessmentQuestionID.String(): "Uraian murid...",
	})
	require.NoError(t, err)
	assert.False(t, res.Attempt.AssessmentAttemptIsGraded)
	assert.Equal(t, 0.0, res.Attempt.AssessmentAttemptScore)

	// Nilai di luar range harus ditolak utuh (all-or-nothing)
	_, err = svc.GradeEssays(ctx, attempt.AssessmentAttemptID, []EssayGradeInput{
		{QuestionID: essay.AssessmentQuestionID, Points: 11},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrValidation)

	res, err = svc.GradeEssays(ctx, attempt.AssessmentAttemptID, []EssayGradeInput{
		{QuestionID: essay.AssessmentQuestionID, Points: 8},
	})
	require.NoError(t, err)
	assert.True(t, res.Attempt.AssessmentAttemptIsGraded)
	assert.Equal(t, 8.0, res.Attempt.AssessmentAttemptScore)

	// reward dikirim sekali saat attempt berubah jadi graded
	assert.Equal(t, 1, rewards.calls)
	assert.Equal(t, 280, rewards.lastPoints) // 200 + 100 * 80%

	// Re-grade: nilai terakhir yang menang, TANPA reward kedua
	res, err = svc.GradeEssays(ctx, attempt.AssessmentAttemptID, []EssayGradeInput{
		{QuestionID: essay.AssessmentQuestionID, Points: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, res.Attempt.AssessmentAttemptScore)
	assert.Equal(t, 1, rewards.calls)
}

func TestIntegration_ExpiredAttemptFinalizedOnRestart(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	svc := NewAttemptService(db, nil, nil)
	userID := uuid.New()
	courseID := uuid.New()
	assessment, questions := seedQuizWithQuestions(t, db, courseID)

	attempt, err := svc.Start(ctx, StartAttemptInput{AssessmentID: assessment.AssessmentID, UserID: userID})
	require.NoError(t, err)

	_, err = svc.SaveProgress(ctx, attempt.AssessmentAttemptID, userID, map[string]interface{}{
		questions[0].AssessmentQuestionID.String(): float64(0),
	})
	require.NoError(t, err)

	// mundurkan started_at melewati deadline
	past := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&atmodel.AssessmentAttemptModel{}).
		Where("assessment_attempt_id = ?", attempt.AssessmentAttemptID).
		Update("assessment_attempt_started_at", past).Error)

	// submit pada attempt expired ditolak
	_, err = svc.Submit(ctx, attempt.AssessmentAttemptID, userID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrAttemptClosed)

	// start baru: attempt lama di-finalize dari jawaban tersimpan
	fresh, err := svc.Start(ctx, StartAttemptInput{AssessmentID: assessment.AssessmentID, UserID: userID})
	require.NoError(t, err)
	assert.NotEqual(t, attempt.AssessmentAttemptID, fresh.AssessmentAttemptID)

	var old atmodel.AssessmentAttemptModel
	require.NoError(t, db.First(&old, "assessment_attempt_id = ?", attempt.AssessmentAttemptID).Error)
	assert.False(t, old.IsOpen())
	assert.Equal(t, 5.0, old.AssessmentAttemptScore)
	assert.True(t, old.AssessmentAttemptIsGraded)

	// attempt yang graded karena expiry ikut masuk final score course
	var fs fsmodel.FinalScoreModel
	require.NoError(t, db.First(&fs,
		"final_score_user_id = ? AND final_score_course_id = ?", userID, courseID).Error)
	assert.InDelta(t, 50.0, fs.FinalScoreQuizScore, 1e-9) // 5/10 poin
}

// Assessment timed TANPA retake: expiry tetap membuka fresh start.
func TestIntegration_ExpiredAttemptRestartWithoutRetakes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	svc := NewAttemptService(db, nil, nil)
	userID := uuid.New()

	limit := 30
	assessment := asmodel.AssessmentModel{
		AssessmentID:               uuid.New(),
		AssessmentCourseID:         uuid.New(),
		AssessmentType:             asmodel.AssessmentTypeQuiz,
		AssessmentTitle:            "Quiz Sekali Jalan",
		AssessmentTimeLimitMinutes: &limit,
		AssessmentIsPublished:      true,
		AssessmentAllowRetakes:     false,
	}
	require.NoError(t, db.Create(&assessment).Error)

	attempt, err := svc.Start(ctx, StartAttemptInput{AssessmentID: assessment.AssessmentID, UserID: userID})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&atmodel.AssessmentAttemptModel{}).
		Where("assessment_attempt_id = ?", attempt.AssessmentAttemptID).
		Update("assessment_attempt_started_at", past).Error)

	fresh, err := svc.Start(ctx, StartAttemptInput{AssessmentID: assessment.AssessmentID, UserID: userID})
	require.NoError(t, err, "attempt expired harus tetap mengizinkan fresh start meski retake dimatikan")
	assert.NotEqual(t, attempt.AssessmentAttemptID, fresh.AssessmentAttemptID)

	// setelah fresh attempt DISUBMIT, barulah kebijakan no-retake menolak
	_, err = svc.Submit(ctx, fresh.AssessmentAttemptID, userID, nil)
	require.NoError(t, err)
	_, err = svc.Start(ctx, StartAttemptInput{AssessmentID: assessment.AssessmentID, UserID: userID})
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrNotEligible)
}

// recordingRewardNotifier menghitung notifikasi reward yang keluar.
type recordingRewardNotifier struct {
	calls      int
	lastPoints int
}

func (r *recordingRewardNotifier) NotifyPointsAwarded(_ context.Context, _, _ uuid.UUID, points int) error {
	r.calls++
	r.lastPoints = points
	return nil
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
