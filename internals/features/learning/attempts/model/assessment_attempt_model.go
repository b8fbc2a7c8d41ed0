// file: internals/features/learning/attempts/model/assessment_attempt_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
   ASSESSMENT ATTEMPT
   1 row = 1 pengerjaan (user × assessment).
   - answers         : jawaban mentah per soal (JSONB, key = question_id)
   - grade_overrides : nilai manual essay per soal (JSONB, key = question_id)
   Dua dokumen sengaja dipisah; digabung cuma saat grading.
   State machine: NotStarted → InProgress → {Expired, Submitted} → Graded.
   Expired tidak pernah disimpan sebagai kolom — dihitung lazy
   dari started_at + time_limit + extension.
========================================================= */

type AssessmentAttemptModel struct {
	AssessmentAttemptID           uuid.UUID `gorm:"column:assessment_attempt_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assessment_attempt_id"`
	AssessmentAttemptAssessmentID uuid.UUID `gorm:"column:assessment_attempt_assessment_id;type:uuid;not null;uniqueIndex:uq_assessment_attempt_open,where:assessment_attempt_completed_at IS NULL" json:"assessment_attempt_assessment_id"`
	AssessmentAttemptUserID       uuid.UUID `gorm:"column:assessment_attempt_user_id;type:uuid;not null;uniqueIndex:uq_assessment_attempt_open,where:assessment_attempt_completed_at IS NULL" json:"assessment_attempt_user_id"`

	AssessmentAttemptAnswers        datatypes.JSON `gorm:"column:assessment_attempt_answers;type:jsonb" json:"assessment_attempt_answers,omitempty"`
	AssessmentAttemptGradeOverrides datatypes.JSON `gorm:"column:assessment_attempt_grade_overrides;type:jsonb" json:"assessment_attempt_grade_overrides,omitempty"`

	AssessmentAttemptScore       float64 `gorm:"column:assessment_attempt_score;type:numeric(8,2);not null;default:0" json:"assessment_attempt_score"`
	AssessmentAttemptTotalPoints float64 `gorm:"column:assessment_attempt_total_points;type:numeric(8,2);not null;default:0" json:"assessment_attempt_total_points"`

	AssessmentAttemptStartedAt            time.Time  `gorm:"column:assessment_attempt_started_at;type:timestamptz;not null" json:"assessment_attempt_started_at"`
	AssessmentAttemptTimeExtensionSeconds int        `gorm:"column:assessment_attempt_time_extension_seconds;not null;default:0" json:"assessment_attempt_time_extension_seconds"`
	AssessmentAttemptCompletedAt          *time.Time `gorm:"column:assessment_attempt_completed_at;type:timestamptz" json:"assessment_attempt_completed_at,omitempty"`

	AssessmentAttemptIsGraded      bool `gorm:"column:assessment_attempt_is_graded;not null;default:false" json:"assessment_attempt_is_graded"`
	AssessmentAttemptIsRemedial    bool `gorm:"column:assessment_attempt_is_remedial;not null;default:false" json:"assessment_attempt_is_remedial"`
	AssessmentAttemptPointsAwarded int  `gorm:"column:assessment_attempt_points_awarded;not null;default:0" json:"assessment_attempt_points_awarded"`

	AssessmentAttemptCreatedAt time.Time `gorm:"column:assessment_attempt_created_at;autoCreateTime" json:"assessment_attempt_created_at"`
	AssessmentAttemptUpdatedAt time.Time `gorm:"column:assessment_attempt_updated_at;autoUpdateTime" json:"assessment_attempt_updated_at"`
}

func (AssessmentAttemptModel) TableName() string { return "assessment_attempts" }

/* =========================================================
   DOKUMEN JAWABAN & OVERRIDE
========================================================= */

// AnswersMap membaca dokumen jawaban (key = question_id string).
func (m *AssessmentAttemptModel) AnswersMap() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if len(m.AssessmentAttemptAnswers) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(m.AssessmentAttemptAnswers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *AssessmentAttemptModel) SetAnswersMap(answers map[string]interface{}) error {
	b, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	m.AssessmentAttemptAnswers = datatypes.JSON(b)
	return nil
}

// MergeAnswers: patch jawaban masuk di-merge key-per-key (latest wins),
// jawaban lama yang tidak disentuh tetap utuh.
func (m *AssessmentAttemptModel) MergeAnswers(patch map[string]interface{}) error {
	cur, err := m.AnswersMap()
	if err != nil {
		return err
	}
	for k, v := range patch {
		cur[k] = v
	}
	return m.SetAnswersMap(cur)
}

// OverridesMap membaca nilai manual essay (key = question_id string).
func (m *AssessmentAttemptModel) OverridesMap() (map[string]float64, error) {
	out := make(map[string]float64)
	if len(m.AssessmentAttemptGradeOverrides) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(m.AssessmentAttemptGradeOverrides, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *AssessmentAttemptModel) SetOverridesMap(ov map[string]float64) error {
	b, err := json.Marshal(ov)
	if err != nil {
		return err
	}
	m.AssessmentAttemptGradeOverrides = datatypes.JSON(b)
	return nil
}

/* =========================================================
   TIMER / EXPIRY (lazy, tanpa background sweep)
========================================================= */

// Deadline menghitung batas akhir attempt. nil = tanpa batas waktu.
func (m *AssessmentAttemptModel) Deadline(timeLimitMinutes *int) *time.Time {
	if timeLimitMinutes == nil {
		return nil
	}
	d := m.AssessmentAttemptStartedAt.
		Add(time.Duration(*timeLimitMinutes) * time.Minute).
		Add(time.Duration(m.AssessmentAttemptTimeExtensionSeconds) * time.Second)
	return &d
}

// IsExpired: time limit terpasang DAN now sudah lewat deadline.
func (m *AssessmentAttemptModel) IsExpired(now time.Time, timeLimitMinutes *int) bool {
	dl := m.Deadline(timeLimitMinutes)
	if dl == nil {
		return false
	}
	return now.After(*dl)
}

// RemainingSeconds: sisa waktu dalam detik (nil = untimed, 0 = habis).
func (m *AssessmentAttemptModel) RemainingSeconds(now time.Time, timeLimitMinutes *int) *int {
	dl := m.Deadline(timeLimitMinutes)
	if dl == nil {
		return nil
	}
	rem := int(dl.Sub(now).Seconds())
	if rem < 0 {
		rem = 0
	}
	return &rem
}

// IsOpen: belum disubmit (completed_at masih NULL).
func (m *AssessmentAttemptModel) IsOpen() bool {
	return m.AssessmentAttemptCompletedAt == nil
}
