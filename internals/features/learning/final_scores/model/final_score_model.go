// file: internals/features/learning/final_scores/model/final_score_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   FINAL SCORE
   1 row per (user × course), di-upsert tiap ada attempt yang
   selesai dinilai. Murni hasil hitung ulang dari history
   attempt — aman dijalankan berulang.
========================================================= */

type FinalScoreModel struct {
	FinalScoreID       uuid.UUID `gorm:"column:final_score_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"final_score_id"`
	FinalScoreUserID   uuid.UUID `gorm:"column:final_score_user_id;type:uuid;not null;uniqueIndex:uq_final_score_user_course" json:"final_score_user_id"`
	FinalScoreCourseID uuid.UUID `gorm:"column:final_score_course_id;type:uuid;not null;uniqueIndex:uq_final_score_user_course" json:"final_score_course_id"`

	// Semua skor dinormalisasi 0–100
	FinalScoreQuizScore      float64 `gorm:"column:final_score_quiz_score;type:numeric(5,2);not null;default:0" json:"final_score_quiz_score"`
	FinalScoreFinalExamScore float64 `gorm:"column:final_score_final_exam_score;type:numeric(5,2);not null;default:0" json:"final_score_final_exam_score"`
	FinalScoreTotalScore     int     `gorm:"column:final_score_total_score;not null;default:0" json:"final_score_total_score"`

	// Mirror dari attempt final exam terbaik: hasil remedial atau bukan
	FinalScoreIsRemedial bool `gorm:"column:final_score_is_remedial;not null;default:false" json:"final_score_is_remedial"`

	FinalScoreCreatedAt time.Time `gorm:"column:final_score_created_at;autoCreateTime" json:"final_score_created_at"`
	FinalScoreUpdatedAt time.Time `gorm:"column:final_score_updated_at;autoUpdateTime" json:"final_score_updated_at"`
}

func (FinalScoreModel) TableName() string { return "final_scores" }
