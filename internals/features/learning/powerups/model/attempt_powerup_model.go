// file: internals/features/learning/powerups/model/attempt_powerup_model.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
   LEDGER PEMAKAIAN POWERUP
   1 row = 1 pemakaian pada 1 attempt. Details berbentuk
   variant per jenis powerup (bukan map bebas):
   - fifty_fifty : {question_id, removed_options}
   - extra_time  : {seconds_added}
   Unique index (attempt, powerup, question) menjadikan
   fifty-fifty idempotent per soal di level DB juga.
========================================================= */

type FiftyFiftyDetails struct {
	QuestionID     uuid.UUID `json:"question_id"`
	RemovedOptions []int     `json:"removed_options"`
}

type ExtraTimeDetails struct {
	SecondsAdded int `json:"seconds_added"`
}

type AttemptPowerupModel struct {
	AttemptPowerupID        uuid.UUID `gorm:"column:attempt_powerup_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"attempt_powerup_id"`
	AttemptPowerupAttemptID uuid.UUID `gorm:"column:attempt_powerup_attempt_id;type:uuid;not null;index;uniqueIndex:uq_attempt_powerup_question" json:"attempt_powerup_attempt_id"`
	AttemptPowerupPowerupID uuid.UUID `gorm:"column:attempt_powerup_powerup_id;type:uuid;not null;uniqueIndex:uq_attempt_powerup_question" json:"attempt_powerup_powerup_id"`

	// Terisi hanya untuk fifty_fifty (NULL untuk extra_time,
	// jadi unique index parsial tidak mengunci extra_time).
	AttemptPowerupQuestionID *uuid.UUID `gorm:"column:attempt_powerup_question_id;type:uuid;uniqueIndex:uq_attempt_powerup_question,where:attempt_powerup_question_id IS NOT NULL" json:"attempt_powerup_question_id,omitempty"`

	AttemptPowerupUsedAt  time.Time      `gorm:"column:attempt_powerup_used_at;type:timestamptz;not null;autoCreateTime" json:"attempt_powerup_used_at"`
	AttemptPowerupDetails datatypes.JSON `gorm:"column:attempt_powerup_details;type:jsonb;not null" json:"attempt_powerup_details"`
}

func (AttemptPowerupModel) TableName() string { return "assessment_attempt_powerups" }

// ------------------------
// Details codec
// ------------------------

func (m *AttemptPowerupModel) SetFiftyFiftyDetails(d FiftyFiftyDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.AttemptPowerupDetails = datatypes.JSON(b)
	m.AttemptPowerupQuestionID = &d.QuestionID
	return nil
}

func (m *AttemptPowerupModel) SetExtraTimeDetails(d ExtraTimeDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.AttemptPowerupDetails = datatypes.JSON(b)
	return nil
}

func (m *AttemptPowerupModel) FiftyFiftyDetails() (*FiftyFiftyDetails, error) {
	var d FiftyFiftyDetails
	if err := json.Unmarshal(m.AttemptPowerupDetails, &d); err != nil {
		return nil, fmt.Errorf("details fifty_fifty rusak: %w", err)
	}
	return &d, nil
}

func (m *AttemptPowerupModel) ExtraTimeDetails() (*ExtraTimeDetails, error) {
	var d ExtraTimeDetails
	if err := json.Unmarshal(m.AttemptPowerupDetails, &d); err != nil {
		return nil, fmt.Errorf("details extra_time rusak: %w", err)
	}
	return &d, nil
}
