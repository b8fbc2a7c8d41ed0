// file: internals/features/learning/powerups/dto/powerup_dto.go
package dto

import (
	"github.com/google/uuid"
)

type UsePowerupRequest struct {
	PowerupID uuid.UUID `json:"powerup_id" validate:"required"`

	// wajib untuk fifty_fifty
	QuestionID *uuid.UUID `json:"question_id" validate:"omitempty"`
}
