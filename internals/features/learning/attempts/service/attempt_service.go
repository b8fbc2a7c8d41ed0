// file: internals/features/learning/attempts/service/attempt_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
	"bilearning_backend/internals/features/learning/faults"
	fssvc "bilearning_backend/internals/features/learning/final_scores/service"
)

/* =========================================================
   ATTEMPT ORCHESTRATOR (state machine)
   NotStarted → InProgress → {Expired, Submitted} → Graded

   Semua mutasi read-modify-write pada 1 attempt diserialisasi
   lewat SELECT ... FOR UPDATE di dalam transaction, supaya
   double-click / double-submit dari client tidak saling
   menimpa. Expiry dihitung lazy — tidak ada background sweep.
========================================================= */

type AttemptService struct {
	DB          *gorm.DB
	Enrollment  EnrollmentChecker
	Rewards     RewardNotifier
	FinalScores *fssvc.FinalScoreService
}

func NewAttemptService(db *gorm.DB, enrollment EnrollmentChecker, rewards RewardNotifier) *AttemptService {
	if enrollment == nil {
		enrollment = AllowAllEnrollment{}
	}
	if rewards == nil {
		rewards = LogRewardNotifier{}
	}
	return &AttemptService{
		DB:          db,
		Enrollment:  enrollment,
		Rewards:     rewards,
		FinalScores: fssvc.NewFinalScoreService(db),
	}
}

/* =========================================================
   INPUT / OUTPUT
========================================================= */

type StartAttemptInput struct {
	AssessmentID uuid.UUID
	UserID       uuid.UUID

	// Caller yang membedakan start biasa vs remedial
	IsRemedial bool
	// Ambang lulus (persen 0–100) — wajib saat IsRemedial
	PassingThreshold float64
}

type EssayGradeInput struct {
	QuestionID uuid.UUID
	Points     float64
}

type SubmitResult struct {
	Attempt       *atmodel.AssessmentAttemptModel
	PointsAwarded int
}

/* =========================================================
   CAN USER ATTEMPT
========================================================= */

// CanUserAttempt: boleh start kalau belum pernah attempt, ATAU attempt
// terakhir sudah expired, ATAU attempt terakhir selesai & retake diizinkan.
// Pure terhadap (assessment, attempt terakhir, now) — dipakai ulang di
// dalam transaction Start dengan row yang sudah terkunci.
func CanUserAttempt(assessment *asmodel.AssessmentModel, latest *atmodel.AssessmentAttemptModel, now time.Time) bool {
	if latest == nil {
		return true
	}
	if latest.IsOpen() {
		return latest.IsExpired(now, assessment.AssessmentTimeLimitMinutes)
	}
	return assessment.AssessmentAllowRetakes
}

/* =========================================================
   START
========================================================= */

func (s *AttemptService) Start(ctx context.Context, in StartAttemptInput) (*atmodel.AssessmentAttemptModel, error) {
	assessment, err := s.loadAssessment(ctx, in.AssessmentID)
	if err != nil {
		return nil, err
	}
	if !assessment.AssessmentIsPublished {
		return nil, fmt.Errorf("%w: assessment belum dipublish", faults.ErrNotEligible)
	}

	// Gate enrollment — datanya milik service course (kolaborator eksternal)
	enrolled, err := s.Enrollment.IsUserEnrolled(ctx, assessment.AssessmentCourseID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("%w: user belum terdaftar di course", faults.ErrNotEligible)
	}

	if in.IsRemedial {
		if !assessment.AssessmentAllowsRemedial {
			return nil, fmt.Errorf("%w: assessment tidak membuka remedial", faults.ErrNotEligible)
		}
		if in.PassingThreshold <= 0 || in.PassingThreshold > 100 {
			return nil, fmt.Errorf("%w: passing_threshold harus 1–100", faults.ErrValidation)
		}
	}

	questions, err := s.loadQuestions(ctx, assessment.AssessmentID)
	if err != nil {
		return nil, err
	}
	totalPoints := 0.0
	for _, q := range questions {
		totalPoints += q.AssessmentQuestionPoints
	}

	now := time.Now().UTC()
	var (
		created   *atmodel.AssessmentAttemptModel
		finalized *atmodel.AssessmentAttemptModel
	)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Kunci attempt terakhir supaya dua request start yang balapan
		// tidak dua-duanya lolos cek
		latest, err := lockLatestAttempt(tx, assessment.AssessmentID, in.UserID)
		if err != nil {
			return err
		}

		// Kelayakan dicek SEBELUM attempt expired ditutup: attempt terbuka
		// yang lewat deadline selalu mengizinkan fresh start, terlepas dari
		// kebijakan retake
		if !CanUserAttempt(assessment, latest, now) {
			if latest != nil && latest.IsOpen() {
				return fmt.Errorf("%w: masih ada attempt yang berjalan", faults.ErrNotEligible)
			}
			return fmt.Errorf("%w: retake tidak diizinkan untuk assessment ini", faults.ErrNotEligible)
		}

		// Attempt open yang sudah expired ditutup (auto-submit jawaban yang
		// sempat tersimpan) supaya unique index open-attempt tidak menolak insert
		if latest != nil && latest.IsOpen() && latest.IsExpired(now, assessment.AssessmentTimeLimitMinutes) {
			if err := s.finalizeExpired(tx, latest, assessment, questions); err != nil {
				return err
			}
			finalized = latest
		}

		if in.IsRemedial {
			if err := s.checkRemedialEligibility(tx, assessment, in.UserID, in.PassingThreshold); err != nil {
				return err
			}
		}

		attempt := &atmodel.AssessmentAttemptModel{
			AssessmentAttemptAssessmentID: assessment.AssessmentID,
			AssessmentAttemptUserID:       in.UserID,
			AssessmentAttemptStartedAt:    now,
			AssessmentAttemptTotalPoints:  totalPoints,
			AssessmentAttemptIsRemedial:   in.IsRemedial,
		}
		if err := attempt.SetAnswersMap(map[string]interface{}{}); err != nil {
			return err
		}
		if err := tx.Create(attempt).Error; err != nil {
			if isDuplicateErr(err) {
				// request kembar lolos bersamaan → yang kalah dapat Conflict
				return fmt.Errorf("%w: attempt ganda terdeteksi", faults.ErrConflict)
			}
			return err
		}
		created = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Attempt yang ditutup karena expiry ikut memicu side-effect pasca
	// transaksi (reward + recompute final score), sama seperti submit biasa
	if finalized != nil {
		s.afterGraded(ctx, finalized, assessment.AssessmentCourseID, finalized.AssessmentAttemptIsGraded, assessment.AssessmentType)
	}

	log.Printf("[AttemptService] Started. attempt_id=%s assessment_id=%s user_id=%s remedial=%v",
		created.AssessmentAttemptID, assessment.AssessmentID, in.UserID, in.IsRemedial)
	return created, nil
}

// checkRemedialEligibility: attempt non-remedial terakhir harus sudah selesai
// dan skornya di bawah ambang lulus.
func (s *AttemptService) checkRemedialEligibility(tx *gorm.DB, assessment *asmodel.AssessmentModel, userID uuid.UUID, threshold float64) error {
	var prev atmodel.AssessmentAttemptModel
	err := tx.
		Where("assessment_attempt_assessment_id = ? AND assessment_attempt_user_id = ?", assessment.AssessmentID, userID).
		Where("assessment_attempt_is_remedial = FALSE").
		Where("assessment_attempt_completed_at IS NOT NULL").
		Order("assessment_attempt_completed_at DESC").
		First(&prev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: belum ada attempt reguler yang selesai", faults.ErrNotEligible)
		}
		return err
	}

	pct := prev.AssessmentAttemptScore / math.Max(prev.AssessmentAttemptTotalPoints, 1) * 100
	if pct >= threshold {
		return fmt.Errorf("%w: skor terakhir sudah di atas ambang lulus", faults.ErrNotEligible)
	}
	return nil
}

/* =========================================================
   SAVE PROGRESS
========================================================= */

func (s *AttemptService) SaveProgress(ctx context.Context, attemptID, userID uuid.UUID, patch map[string]interface{}) (*atmodel.AssessmentAttemptModel, error) {
	var out *atmodel.AssessmentAttemptModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, assessment, err := s.lockAttemptWithAssessment(tx, attemptID, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if !attempt.IsOpen() || attempt.IsExpired(now, assessment.AssessmentTimeLimitMinutes) {
			return fmt.Errorf("%w: attempt sudah selesai / waktu habis", faults.ErrAttemptClosed)
		}

		if err := attempt.MergeAnswers(patch); err != nil {
			return err
		}
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}
		out = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =========================================================
   SUBMIT
========================================================= */

// Submit menutup attempt (sekali saja), jalankan auto-grader, hitung
// points_awarded, dan kalau sudah fully graded → trigger hitung ulang
// final score course.
func (s *AttemptService) Submit(ctx context.Context, attemptID, userID uuid.UUID, finalAnswers map[string]interface{}) (*SubmitResult, error) {
	var (
		result      *SubmitResult
		courseID    uuid.UUID
		newlyGraded bool
		atype       asmodel.AssessmentType
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, assessment, err := s.lockAttemptWithAssessment(tx, attemptID, userID)
		if err != nil {
			return err
		}
		if !attempt.IsOpen() {
			// double-submit: request kedua ditolak, bukan di-regrade
			return fmt.Errorf("%w: attempt sudah disubmit", faults.ErrAttemptClosed)
		}

		now := time.Now().UTC()
		if attempt.IsExpired(now, assessment.AssessmentTimeLimitMinutes) {
			return fmt.Errorf("%w: waktu pengerjaan sudah habis", faults.ErrAttemptClosed)
		}

		if len(finalAnswers) > 0 {
			if err := attempt.MergeAnswers(finalAnswers); err != nil {
				return err
			}
		}

		questions, err := s.loadQuestionsTx(tx, assessment.AssessmentID)
		if err != nil {
			return err
		}

		answers, err := attempt.AnswersMap()
		if err != nil {
			return err
		}
		overrides, err := attempt.OverridesMap()
		if err != nil {
			return err
		}

		outcome := GradeQuestions(questions, answers, overrides)

		attempt.AssessmentAttemptCompletedAt = &now
		attempt.AssessmentAttemptScore = outcome.Score
		attempt.AssessmentAttemptTotalPoints = outcome.TotalPoints
		attempt.AssessmentAttemptIsGraded = outcome.IsGraded
		attempt.AssessmentAttemptPointsAwarded = ComputePointsAwarded(
			assessment.AssessmentType, outcome.Score, outcome.TotalPoints, attempt.AssessmentAttemptIsRemedial,
		)

		if err := tx.Save(attempt).Error; err != nil {
			return err
		}

		courseID = assessment.AssessmentCourseID
		newlyGraded = outcome.IsGraded
		atype = assessment.AssessmentType
		result = &SubmitResult{Attempt: attempt, PointsAwarded: attempt.AssessmentAttemptPointsAwarded}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterGraded(ctx, result.Attempt, courseID, newlyGraded, atype)
	return result, nil
}

/* =========================================================
   MANUAL GRADING (essay)
========================================================= */

// GradeEssays menulis nilai manual untuk soal essay — batch all-or-nothing,
// re-grading idempotent (nilai terakhir yang menang).
func (s *AttemptService) GradeEssays(ctx context.Context, attemptID uuid.UUID, grades []EssayGradeInput) (*SubmitResult, error) {
	if len(grades) == 0 {
		return nil, fmt.Errorf("%w: batch nilai kosong", faults.ErrValidation)
	}

	var (
		result      *SubmitResult
		courseID    uuid.UUID
		newlyGraded bool
		atype       asmodel.AssessmentType
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, assessment, err := s.lockAttempt(tx, attemptID)
		if err != nil {
			return err
		}
		if attempt.AssessmentAttemptCompletedAt == nil {
			return fmt.Errorf("%w: attempt belum disubmit", faults.ErrValidation)
		}
		wasGraded := attempt.AssessmentAttemptIsGraded

		questions, err := s.loadQuestionsTx(tx, assessment.AssessmentID)
		if err != nil {
			return err
		}
		byID := make(map[string]*asmodel.AssessmentQuestionModel, len(questions))
		for i := range questions {
			byID[questions[i].AssessmentQuestionID.String()] = &questions[i]
		}

		// 1) Validasi seluruh batch dulu — satu entry invalid = semua ditolak
		for _, g := range grades {
			q, ok := byID[g.QuestionID.String()]
			if !ok {
				return fmt.Errorf("%w: soal %s bukan bagian assessment ini", faults.ErrValidation, g.QuestionID)
			}
			if !q.IsEssay() {
				return fmt.Errorf("%w: soal %s bukan essay", faults.ErrValidation, g.QuestionID)
			}
			if g.Points < 0 || g.Points > q.AssessmentQuestionPoints {
				return fmt.Errorf("%w: nilai soal %s di luar range 0–%.2f",
					faults.ErrValidation, g.QuestionID, q.AssessmentQuestionPoints)
			}
		}

		// 2) Merge override (latest wins)
		overrides, err := attempt.OverridesMap()
		if err != nil {
			return err
		}
		for _, g := range grades {
			overrides[g.QuestionID.String()] = g.Points
		}
		if err := attempt.SetOverridesMap(overrides); err != nil {
			return err
		}

		// 3) Hitung ulang skor dari seluruh soal (auto + override)
		answers, err := attempt.AnswersMap()
		if err != nil {
			return err
		}
		outcome := GradeQuestions(questions, answers, overrides)

		attempt.AssessmentAttemptScore = outcome.Score
		attempt.AssessmentAttemptTotalPoints = outcome.TotalPoints
		attempt.AssessmentAttemptIsGraded = outcome.IsGraded
		attempt.AssessmentAttemptPointsAwarded = ComputePointsAwarded(
			assessment.AssessmentType, outcome.Score, outcome.TotalPoints, attempt.AssessmentAttemptIsRemedial,
		)

		if err := tx.Save(attempt).Error; err != nil {
			return err
		}

		courseID = assessment.AssessmentCourseID
		newlyGraded = !wasGraded && outcome.IsGraded
		atype = assessment.AssessmentType
		result = &SubmitResult{Attempt: attempt, PointsAwarded: attempt.AssessmentAttemptPointsAwarded}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterGraded(ctx, result.Attempt, courseID, newlyGraded, atype)
	return result, nil
}

/* =========================================================
   READ
========================================================= */

func (s *AttemptService) GetAttempt(ctx context.Context, attemptID, userID uuid.UUID) (*atmodel.AssessmentAttemptModel, *asmodel.AssessmentModel, error) {
	var attempt atmodel.AssessmentAttemptModel
	err := s.DB.WithContext(ctx).
		First(&attempt, "assessment_attempt_id = ? AND assessment_attempt_user_id = ?", attemptID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: attempt tidak ditemukan", faults.ErrNotFound)
		}
		return nil, nil, err
	}
	assessment, err := s.loadAssessment(ctx, attempt.AssessmentAttemptAssessmentID)
	if err != nil {
		return nil, nil, err
	}
	return &attempt, assessment, nil
}

/* =========================================================
   INTERNAL
========================================================= */

// afterGraded: side-effect pasca transaksi — reward ke gamifikasi +
// hitung ulang final score. Dua-duanya best-effort: gagal cuma dicatat,
// attempt yang sudah tersimpan tidak di-rollback.
// Reward cuma dikirim saat attempt BERUBAH jadi graded (newlyGraded);
// re-grade essay (latest wins) tidak boleh memicu reward ganda.
func (s *AttemptService) afterGraded(ctx context.Context, attempt *atmodel.AssessmentAttemptModel, courseID uuid.UUID, newlyGraded bool, atype asmodel.AssessmentType) {
	if !attempt.AssessmentAttemptIsGraded {
		return
	}

	if newlyGraded && attempt.AssessmentAttemptPointsAwarded > 0 {
		if err := s.Rewards.NotifyPointsAwarded(ctx, attempt.AssessmentAttemptUserID, attempt.AssessmentAttemptID, attempt.AssessmentAttemptPointsAwarded); err != nil {
			log.Printf("[AttemptService] reward notify gagal: %v", err)
		}
	}

	// practice tidak pernah menyumbang final score
	if atype == asmodel.AssessmentTypeQuiz || atype == asmodel.AssessmentTypeFinalExam {
		if _, err := s.FinalScores.Recompute(ctx, attempt.AssessmentAttemptUserID, courseID); err != nil {
			log.Printf("[AttemptService] recompute final score gagal: %v", err)
		}
	}
}

// finalizeExpired: attempt open yang deadline-nya lewat ditutup dengan
// jawaban seadanya. completed_at dipatok di deadline, bukan now.
func (s *AttemptService) finalizeExpired(tx *gorm.DB, attempt *atmodel.AssessmentAttemptModel, assessment *asmodel.AssessmentModel, questions []asmodel.AssessmentQuestionModel) error {
	answers, err := attempt.AnswersMap()
	if err != nil {
		return err
	}
	overrides, err := attempt.OverridesMap()
	if err != nil {
		return err
	}
	outcome := GradeQuestions(questions, answers, overrides)

	deadline := attempt.Deadline(assessment.AssessmentTimeLimitMinutes)
	attempt.AssessmentAttemptCompletedAt = deadline
	attempt.AssessmentAttemptScore = outcome.Score
	attempt.AssessmentAttemptTotalPoints = outcome.TotalPoints
	attempt.AssessmentAttemptIsGraded = outcome.IsGraded
	attempt.AssessmentAttemptPointsAwarded = ComputePointsAwarded(
		assessment.AssessmentType, outcome.Score, outcome.TotalPoints, attempt.AssessmentAttemptIsRemedial,
	)

	log.Printf("[AttemptService] Expired attempt ditutup. attempt_id=%s score=%.2f", attempt.AssessmentAttemptID, outcome.Score)
	return tx.Save(attempt).Error
}

func (s *AttemptService) loadAssessment(ctx context.Context, id uuid.UUID) (*asmodel.AssessmentModel, error) {
	var a asmodel.AssessmentModel
	err := s.DB.WithContext(ctx).First(&a, "assessment_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assessment tidak ditemukan", faults.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (s *AttemptService) loadQuestions(ctx context.Context, assessmentID uuid.UUID) ([]asmodel.AssessmentQuestionModel, error) {
	return s.loadQuestionsTx(s.DB.WithContext(ctx), assessmentID)
}

func (s *AttemptService) loadQuestionsTx(tx *gorm.DB, assessmentID uuid.UUID) ([]asmodel.AssessmentQuestionModel, error) {
	var qs []asmodel.AssessmentQuestionModel
	err := tx.
		Where("assessment_question_assessment_id = ?", assessmentID).
		Order("assessment_question_order ASC").
		Find(&qs).Error
	return qs, err
}

// lockAttempt: SELECT ... FOR UPDATE 1 attempt + assessment-nya.
func (s *AttemptService) lockAttempt(tx *gorm.DB, attemptID uuid.UUID) (*atmodel.AssessmentAttemptModel, *asmodel.AssessmentModel, error) {
	var attempt atmodel.AssessmentAttemptModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&attempt, "assessment_attempt_id = ?", attemptID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: attempt tidak ditemukan", faults.ErrNotFound)
		}
		return nil, nil, err
	}

	var assessment asmodel.AssessmentModel
	if err := tx.First(&assessment, "assessment_id = ?", attempt.AssessmentAttemptAssessmentID).Error; err != nil {
		return nil, nil, err
	}
	return &attempt, &assessment, nil
}

func (s *AttemptService) lockAttemptWithAssessment(tx *gorm.DB, attemptID, userID uuid.UUID) (*atmodel.AssessmentAttemptModel, *asmodel.AssessmentModel, error) {
	attempt, assessment, err := s.lockAttempt(tx, attemptID)
	if err != nil {
		return nil, nil, err
	}
	if attempt.AssessmentAttemptUserID != userID {
		return nil, nil, fmt.Errorf("%w: attempt bukan milik user", faults.ErrNotFound)
	}
	return attempt, assessment, nil
}

func lockLatestAttempt(tx *gorm.DB, assessmentID, userID uuid.UUID) (*atmodel.AssessmentAttemptModel, error) {
	var rows []atmodel.AssessmentAttemptModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("assessment_attempt_assessment_id = ? AND assessment_attempt_user_id = ?", assessmentID, userID).
		Order("assessment_attempt_started_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
