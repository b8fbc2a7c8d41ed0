// file: internals/features/learning/powerups/model/assessment_powerup_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   KATALOG POWERUP
   1 row = 1 jenis powerup yang diizinkan pada 1 assessment,
   lengkap dengan limit pemakaian per-attempt.
========================================================= */

type PowerupKind string

const (
	PowerupKindFiftyFifty PowerupKind = "fifty_fifty" // sembunyikan 2 opsi salah (multiple_choice)
	PowerupKindExtraTime  PowerupKind = "extra_time"  // tambah durasi attempt
)

type AssessmentPowerupModel struct {
	AssessmentPowerupID           uuid.UUID   `gorm:"column:assessment_powerup_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assessment_powerup_id"`
	AssessmentPowerupAssessmentID uuid.UUID   `gorm:"column:assessment_powerup_assessment_id;type:uuid;not null;uniqueIndex:uq_assessment_powerup_kind" json:"assessment_powerup_assessment_id"`
	AssessmentPowerupKind         PowerupKind `gorm:"column:assessment_powerup_kind;type:varchar(16);not null;uniqueIndex:uq_assessment_powerup_kind" json:"assessment_powerup_kind"`

	// Maksimal pemakaian per attempt
	AssessmentPowerupUsageLimit int `gorm:"column:assessment_powerup_usage_limit;not null;default:1" json:"assessment_powerup_usage_limit"`

	// Khusus extra_time: detik yang ditambahkan per pemakaian
	AssessmentPowerupExtraSeconds int `gorm:"column:assessment_powerup_extra_seconds;not null;default:0" json:"assessment_powerup_extra_seconds"`

	AssessmentPowerupCreatedAt time.Time      `gorm:"column:assessment_powerup_created_at;autoCreateTime" json:"assessment_powerup_created_at"`
	AssessmentPowerupDeletedAt gorm.DeletedAt `gorm:"column:assessment_powerup_deleted_at" json:"assessment_powerup_deleted_at,omitempty"`
}

func (AssessmentPowerupModel) TableName() string { return "assessment_powerups" }
