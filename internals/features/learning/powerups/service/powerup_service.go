// file: internals/features/learning/powerups/service/powerup_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
	"bilearning_backend/internals/features/learning/faults"
	pmodel "bilearning_backend/internals/features/learning/powerups/model"
)

/* =========================================================
   POWERUP LEDGER
   Cek-kuota-lalu-insert dijalankan di dalam transaction yang
   sudah mengunci row attempt (FOR UPDATE), jadi dua request
   kembar tidak bisa dua-duanya lolos limit. Unique index di
   ledger jadi jaring pengaman kedua.
========================================================= */

type PowerupService struct {
	DB *gorm.DB

	// dipisah supaya pemilihan opsi fifty-fifty bisa dites deterministik
	rng *rand.Rand
}

func NewPowerupService(db *gorm.DB) *PowerupService {
	return &PowerupService{
		DB:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type UsePowerupInput struct {
	AttemptID uuid.UUID
	UserID    uuid.UUID
	PowerupID uuid.UUID

	// wajib untuk fifty_fifty, diabaikan untuk extra_time
	QuestionID *uuid.UUID
}

type UsePowerupResult struct {
	Kind pmodel.PowerupKind `json:"kind"`

	// fifty_fifty: index opsi yang disembunyikan
	RemovedOptions []int `json:"removed_options,omitempty"`

	// extra_time: sisa waktu setelah perpanjangan (detik)
	RemainingSeconds *int `json:"remaining_seconds,omitempty"`

	// sisa kuota powerup ini setelah pemakaian
	UsesLeft int `json:"uses_left"`
}

func (s *PowerupService) Use(ctx context.Context, in UsePowerupInput) (*UsePowerupResult, error) {
	var out *UsePowerupResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Kunci attempt — serialisasi semua mutasi powerup per attempt
		var attempt atmodel.AssessmentAttemptModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&attempt, "assessment_attempt_id = ? AND assessment_attempt_user_id = ?", in.AttemptID, in.UserID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: attempt tidak ditemukan", faults.ErrNotFound)
			}
			return err
		}

		// 2) Assessment harus mengizinkan powerup (practice/quiz, published)
		var assessment asmodel.AssessmentModel
		if err := tx.First(&assessment, "assessment_id = ?", attempt.AssessmentAttemptAssessmentID).Error; err != nil {
			return err
		}
		if !assessment.PowerupsAllowed() {
			return fmt.Errorf("%w: powerup tidak tersedia untuk assessment ini", faults.ErrNotApplicable)
		}

		// 3) Attempt harus masih berjalan & belum expired
		now := time.Now().UTC()
		if !attempt.IsOpen() || attempt.IsExpired(now, assessment.AssessmentTimeLimitMinutes) {
			return fmt.Errorf("%w: attempt sudah selesai / waktu habis", faults.ErrAttemptClosed)
		}

		// 4) Powerup harus terdaftar di katalog assessment ini
		var powerup pmodel.AssessmentPowerupModel
		err = tx.First(&powerup,
			"assessment_powerup_id = ? AND assessment_powerup_assessment_id = ?",
			in.PowerupID, assessment.AssessmentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: powerup tidak terdaftar di assessment ini", faults.ErrNotApplicable)
			}
			return err
		}

		switch powerup.AssessmentPowerupKind {
		case pmodel.PowerupKindFiftyFifty:
			out, err = s.useFiftyFifty(tx, &attempt, &assessment, &powerup, in.QuestionID)
		case pmodel.PowerupKindExtraTime:
			out, err = s.useExtraTime(tx, &attempt, &assessment, &powerup, now)
		default:
			err = fmt.Errorf("%w: jenis powerup tidak dikenal", faults.ErrNotApplicable)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PowerupService] Used. attempt_id=%s powerup_id=%s kind=%s uses_left=%d",
		in.AttemptID, in.PowerupID, out.Kind, out.UsesLeft)
	return out, nil
}

/* =========================================================
   FIFTY-FIFTY
========================================================= */

func (s *PowerupService) useFiftyFifty(
	tx *gorm.DB,
	attempt *atmodel.AssessmentAttemptModel,
	assessment *asmodel.AssessmentModel,
	powerup *pmodel.AssessmentPowerupModel,
	questionID *uuid.UUID,
) (*UsePowerupResult, error) {
	if questionID == nil || *questionID == uuid.Nil {
		return nil, fmt.Errorf("%w: question_id wajib untuk fifty-fifty", faults.ErrValidation)
	}

	// Idempotent: kalau soal ini sudah pernah kena fifty-fifty di attempt
	// yang sama, kembalikan set lama — tanpa makan kuota & tanpa re-random
	var existing pmodel.AttemptPowerupModel
	err := tx.
		Where("attempt_powerup_attempt_id = ? AND attempt_powerup_powerup_id = ? AND attempt_powerup_question_id = ?",
			attempt.AssessmentAttemptID, powerup.AssessmentPowerupID, *questionID).
		First(&existing).Error
	if err == nil {
		d, derr := existing.FiftyFiftyDetails()
		if derr != nil {
			return nil, derr
		}
		used, cerr := s.usageCount(tx, attempt.AssessmentAttemptID, powerup.AssessmentPowerupID)
		if cerr != nil {
			return nil, cerr
		}
		return &UsePowerupResult{
			Kind:           pmodel.PowerupKindFiftyFifty,
			RemovedOptions: d.RemovedOptions,
			UsesLeft:       maxInt(powerup.AssessmentPowerupUsageLimit-used, 0),
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.checkLimit(tx, attempt.AssessmentAttemptID, powerup); err != nil {
		return nil, err
	}

	// Soal target harus multiple_choice milik assessment ini
	var question asmodel.AssessmentQuestionModel
	err = tx.First(&question,
		"assessment_question_id = ? AND assessment_question_assessment_id = ?",
		*questionID, assessment.AssessmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: soal tidak ditemukan di assessment ini", faults.ErrNotApplicable)
		}
		return nil, err
	}
	cfg, err := question.ParseConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Type != asmodel.QuestionTypeMultipleChoice {
		return nil, fmt.Errorf("%w: fifty-fifty hanya untuk multiple_choice", faults.ErrNotApplicable)
	}

	removed := PickRemovedOptions(len(cfg.MultipleChoice.Options), cfg.MultipleChoice.CorrectIndex, s.rng)

	row := pmodel.AttemptPowerupModel{
		AttemptPowerupAttemptID: attempt.AssessmentAttemptID,
		AttemptPowerupPowerupID: powerup.AssessmentPowerupID,
	}
	if err := row.SetFiftyFiftyDetails(pmodel.FiftyFiftyDetails{
		QuestionID:     *questionID,
		RemovedOptions: removed,
	}); err != nil {
		return nil, err
	}
	if err := tx.Create(&row).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, fmt.Errorf("%w: pemakaian ganda terdeteksi", faults.ErrConflict)
		}
		return nil, err
	}

	used, err := s.usageCount(tx, attempt.AssessmentAttemptID, powerup.AssessmentPowerupID)
	if err != nil {
		return nil, err
	}
	return &UsePowerupResult{
		Kind:           pmodel.PowerupKindFiftyFifty,
		RemovedOptions: removed,
		UsesLeft:       maxInt(powerup.AssessmentPowerupUsageLimit-used, 0),
	}, nil
}

/* =========================================================
   EXTRA TIME
========================================================= */

func (s *PowerupService) useExtraTime(
	tx *gorm.DB,
	attempt *atmodel.AssessmentAttemptModel,
	assessment *asmodel.AssessmentModel,
	powerup *pmodel.AssessmentPowerupModel,
	now time.Time,
) (*UsePowerupResult, error) {
	if assessment.AssessmentTimeLimitMinutes == nil {
		return nil, fmt.Errorf("%w: assessment ini tanpa batas waktu", faults.ErrNotApplicable)
	}
	if powerup.AssessmentPowerupExtraSeconds <= 0 {
		return nil, fmt.Errorf("%w: powerup extra_time tanpa konfigurasi detik", faults.ErrValidation)
	}

	if err := s.checkLimit(tx, attempt.AssessmentAttemptID, powerup); err != nil {
		return nil, err
	}

	attempt.AssessmentAttemptTimeExtensionSeconds += powerup.AssessmentPowerupExtraSeconds
	if err := tx.Save(attempt).Error; err != nil {
		return nil, err
	}

	row := pmodel.AttemptPowerupModel{
		AttemptPowerupAttemptID: attempt.AssessmentAttemptID,
		AttemptPowerupPowerupID: powerup.AssessmentPowerupID,
	}
	if err := row.SetExtraTimeDetails(pmodel.ExtraTimeDetails{
		SecondsAdded: powerup.AssessmentPowerupExtraSeconds,
	}); err != nil {
		return nil, err
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}

	used, err := s.usageCount(tx, attempt.AssessmentAttemptID, powerup.AssessmentPowerupID)
	if err != nil {
		return nil, err
	}
	return &UsePowerupResult{
		Kind:             pmodel.PowerupKindExtraTime,
		RemainingSeconds: attempt.RemainingSeconds(now, assessment.AssessmentTimeLimitMinutes),
		UsesLeft:         maxInt(powerup.AssessmentPowerupUsageLimit-used, 0),
	}, nil
}

/* =========================================================
   INTERNAL
========================================================= */

func (s *PowerupService) usageCount(tx *gorm.DB, attemptID, powerupID uuid.UUID) (int, error) {
	var n int64
	err := tx.Model(&pmodel.AttemptPowerupModel{}).
		Where("attempt_powerup_attempt_id = ? AND attempt_powerup_powerup_id = ?", attemptID, powerupID).
		Count(&n).Error
	return int(n), err
}

func (s *PowerupService) checkLimit(tx *gorm.DB, attemptID uuid.UUID, powerup *pmodel.AssessmentPowerupModel) error {
	used, err := s.usageCount(tx, attemptID, powerup.AssessmentPowerupID)
	if err != nil {
		return err
	}
	if used >= powerup.AssessmentPowerupUsageLimit {
		return fmt.Errorf("%w: kuota powerup habis (%d/%d)",
			faults.ErrLimitExceeded, used, powerup.AssessmentPowerupUsageLimit)
	}
	return nil
}

// PickRemovedOptions memilih maksimal 2 index opsi SALAH untuk
// disembunyikan. Output selalu terurut ascending.
func PickRemovedOptions(numOptions, correctIndex int, rng *rand.Rand) []int {
	wrong := make([]int, 0, numOptions-1)
	for i := 0; i < numOptions; i++ {
		if i != correctIndex {
			wrong = append(wrong, i)
		}
	}
	rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })

	n := 2
	if len(wrong) < n {
		n = len(wrong)
	}
	removed := append([]int(nil), wrong[:n]...)
	sort.Ints(removed)
	return removed
}

// ActiveFiftyFifties: map question_id → removed options, buat restore UI.
func (s *PowerupService) ActiveFiftyFifties(ctx context.Context, attemptID uuid.UUID) (map[string][]int, error) {
	var rows []pmodel.AttemptPowerupModel
	err := s.DB.WithContext(ctx).
		Where("attempt_powerup_attempt_id = ? AND attempt_powerup_question_id IS NOT NULL", attemptID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]int, len(rows))
	for i := range rows {
		d, err := rows[i].FiftyFiftyDetails()
		if err != nil {
			continue
		}
		out[d.QuestionID.String()] = d.RemovedOptions
	}
	return out, nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
