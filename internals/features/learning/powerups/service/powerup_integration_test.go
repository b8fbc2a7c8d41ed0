package service

import (
	"context"
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
	pmodel "bilearning_backend/internals/features/learning/powerups/model"
)

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
	))
	return db
}

type powerupFixture struct {
	assessment asmodel.AssessmentModel
	question   asmodel.AssessmentQuestionModel
	attempt    atmodel.AssessmentAttemptModel
	fiftyFifty pmodel.AssessmentPowerupModel
	extraTime  pmodel.AssessmentPowerupModel
	userID     uuid.UUID
}

func seedPowerupFixture(t *testing.T, db *gorm.DB) powerupFixture {
	t.Helper()
	limit := 30
	f := powerupFixture{userID: uuid.New()}

	f.assessment = asmodel.AssessmentModel{
		AssessmentID:               uuid.New(),
		AssessmentCourseID:         uuid.New(),
		AssessmentType:             asmodel.AssessmentTypeQuiz,
		AssessmentTitle:            "Quiz Geografi",
		AssessmentTimeLimitMinutes: &limit,
		AssessmentIsPublished:      true,
	}
	require.NoError(t, db.Create(&f.assessment).Error)

	f.question = asmodel.AssessmentQuestionModel{
		AssessmentQuestionID:           uuid.New(),
		AssessmentQuestionAssessmentID: f.assessment.AssessmentID,
		AssessmentQuestionType:         asmodel.QuestionTypeMultipleChoice,
		AssessmentQuestionText:         "Gunung tertinggi di Indonesia?",
		AssessmentQuestionAnswerConfig: datatypes.JSON([]byte(`{"options":["Puncak Jaya","Rinjani","Semeru","Kerinci"],"correct_index":0}`)),
		AssessmentQuestionPoints:       5,
		AssessmentQuestionOrder:        1,
	}
	require.NoError(t, db.Create(&f.question).Error)

	f.attempt = atmodel.AssessmentAttemptModel{
		AssessmentAttemptID:           uuid.New(),
		AssessmentAttemptAssessmentID: f.assessment.AssessmentID,
		AssessmentAttemptUserID:       f.userID,
		AssessmentAttemptStartedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&f.attempt).Error)

	f.fiftyFifty = pmodel.AssessmentPowerupModel{
		AssessmentPowerupID:           uuid.New(),
		AssessmentPowerupAssessmentID: f.assessment.AssessmentID,
		AssessmentPowerupKind:         pmodel.PowerupKindFiftyFifty,
		AssessmentPowerupUsageLimit:   1,
	}
	require.NoError(t, db.Create(&f.fiftyFifty).Error)

	f.extraTime = pmodel.AssessmentPowerupModel{
		AssessmentPowerupID:           uuid.New(),
		AssessmentPowerupAssessmentID: f.assessment.AssessmentID,
		AssessmentPowerupKind:         pmodel.PowerupKindExtraTime,
		AssessmentPowerupUsageLimit:   2,
		AssessmentPowerupExtraSeconds: 300,
	}
	require.NoError(t, db.Create(&f.extraTime).Error)

	return f
}

func TestIntegration_FiftyFifty(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	f := seedPowerupFixture(t, db)
	svc := NewPowerupService(db)

	qid := f.question.AssessmentQuestionID
	res, err := svc.Use(ctx, UsePowerupInput{
		AttemptID:  f.attempt.AssessmentAttemptID,
		UserID:     f.userID,
		PowerupID:  f.fiftyFifty.AssessmentPowerupID,
		QuestionID: &qid,
	})
	require.NoError(t, err)
	assert.Equal(t, pmodel.PowerupKindFiftyFifty, res.Kind)
	assert.Len(t, res.RemovedOptions, 2)
	assert.NotContains(t, res.RemovedOptions, 0, "kunci jawaban tidak boleh disembunyikan")
	assert.Equal(t, 0, res.UsesLeft)

	// pemakaian ulang pada soal sama: idempotent, set tidak berubah
	again, err := svc.Use(ctx, UsePowerupInput{
		AttemptID:  f.attempt.AssessmentAttemptID,
		UserID:     f.userID,
		PowerupID:  f.fiftyFifty.AssessmentPowerupID,
		QuestionID: &qid,
	})
	require.NoError(t, err)
	assert.Equal(t, res.RemovedOptions, again.RemovedOptions)

	// restore view
	active, err := svc.ActiveFiftyFifties(ctx, f.attempt.AssessmentAttemptID)
	require.NoError(t, err)
	assert.Equal(t, res.RemovedOptions, active[qid.String()])
}

func TestIntegration_ExtraTime(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	f := seedPowerupFixture(t, db)
	svc := NewPowerupService(db)

	res, err := svc.Use(ctx, UsePowerupInput{
		AttemptID: f.attempt.AssessmentAttemptID,
		UserID:    f.userID,
		PowerupID: f.extraTime.AssessmentPowerupID,
	})
	require.NoError(t, err)
	assert.Equal(t, pmodel.PowerupKindExtraTime, res.Kind)
	require.NotNil(t, res.RemainingSeconds)
	assert.Greater(t, *res.RemainingSeconds, 30*60, "deadline harus bergeser mundur")
	assert.Equal(t, 1, res.UsesLeft)

	// pemakaian kedua masih dalam kuota
	_, err = svc.Use(ctx, UsePowerupInput{
		AttemptID: f.attempt.AssessmentAttemptID,
		UserID:    f.userID,
		PowerupID: f.extraTime.AssessmentPowerupID,
	})
	require.NoError(t, err)

	// kuota habis
	_, err = svc.Use(ctx, UsePowerupInput{
		AttemptID: f.attempt.AssessmentAttemptID,
		UserID:    f.userID,
		PowerupID: f.extraTime.AssessmentPowerupID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, faults.ErrLimitExceeded)
}
