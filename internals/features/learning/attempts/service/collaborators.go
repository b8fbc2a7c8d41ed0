// file: internals/features/learning/attempts/service/collaborators.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
)

/* =========================================================
   KOLABORATOR EKSTERNAL
   Engine ini tidak pegang data enrollment maupun saldo
   XP/poin user — dua-duanya milik service lain. Di sini cuma
   ada kontraknya.
========================================================= */

// EnrollmentChecker: gate untuk start attempt.
type EnrollmentChecker interface {
	IsUserEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

// RewardNotifier menerima points_awarded dari hasil submit/grading.
// Implementasi production meneruskan ke service gamifikasi;
// engine tidak pernah menulis saldo user langsung.
type RewardNotifier interface {
	NotifyPointsAwarded(ctx context.Context, userID, attemptID uuid.UUID, points int) error
}

// LogRewardNotifier: default kalau service gamifikasi belum dipasang.
type LogRewardNotifier struct{}

func (LogRewardNotifier) NotifyPointsAwarded(_ context.Context, userID, attemptID uuid.UUID, points int) error {
	log.Printf("[LogRewardNotifier] user_id=%s attempt_id=%s points_awarded=%d (tidak diteruskan)", userID, attemptID, points)
	return nil
}

// AllowAllEnrollment: fallback dev/testing — semua user dianggap enrolled.
type AllowAllEnrollment struct{}

func (AllowAllEnrollment) IsUserEnrolled(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return true, nil
}
