// file: internals/features/sessions/dto/session_dto.go
package dto

import (
	"time"

	"classtrack_backend/internals/features/sessions/model"
)

/* ========== REQUEST DTOs ========== */

type CreateSessionRequest struct {
	ClassID        string   `json:"class_id" validate:"required,max=64"`
	Photo          *string  `json:"photo"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,max=64"`
}

/* ========== RESPONSE DTO ========== */

type SessionResponse struct {
	ID             string    `json:"id"`
	ClassID        string    `json:"class_id"`
	Photo          *string   `json:"photo,omitempty"`
	ParticipantIDs []string  `json:"participant_ids,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewSessionResponse(m *model.SessionModel, participantIDs []string) *SessionResponse {
	if m == nil {
		return nil
	}
	return &SessionResponse{
		ID:             m.ID,
		ClassID:        m.ClassID,
		Photo:          m.Photo,
		ParticipantIDs: participantIDs,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
