// file: internals/features/participants/dto/participant_dto.go
package dto

import (
	"time"

	"classtrack_backend/internals/constants"
	"classtrack_backend/internals/features/participants/model"
)

/* ========== REQUEST DTOs ========== */

type CreateParticipantRequest struct {
	Name    string           `json:"name" validate:"required,min=1,max=160"`
	DOB     time.Time        `json:"dob" validate:"required"`
	Gender  constants.Gender `json:"gender" validate:"required,oneof=male female"`
	ClassID string           `json:"class_id" validate:"required,max=64"`
}

// UpdateParticipantRequest never carries age: the stored age is a snapshot
// from creation time and re-deriving it would be a separate, explicit
// mutation.
type UpdateParticipantRequest struct {
	Name    *string           `json:"name" validate:"omitempty,min=1,max=160"`
	DOB     *time.Time        `json:"dob"`
	Gender  *constants.Gender `json:"gender" validate:"omitempty,oneof=male female"`
	ClassID *string           `json:"class_id" validate:"omitempty,max=64"`
}

/* ========== RESPONSE DTO ========== */

type ParticipantResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	DOB       time.Time        `json:"dob"`
	Age       int              `json:"age"`
	Gender    constants.Gender `json:"gender"`
	ClassID   string           `json:"class_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewParticipantResponse(m *model.ParticipantModel) *ParticipantResponse {
	if m == nil {
		return nil
	}
	return &ParticipantResponse{
		ID:        m.ID,
		Name:      m.Name,
		DOB:       m.DOB,
		Age:       m.Age,
		Gender:    m.Gender,
		ClassID:   m.ClassID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
