// file: internals/features/classes/dto/class_dto.go
package dto

import (
	"time"

	"classtrack_backend/internals/features/classes/model"
)

/* ========== REQUEST DTOs ========== */

type CreateClassRequest struct {
	Name                  string   `json:"name" validate:"required,min=1,max=160"`
	Description           *string  `json:"description"`
	GuardianID            *string  `json:"guardian_id" validate:"omitempty,max=64"`
	TrainerID             *string  `json:"trainer_id" validate:"omitempty,max=64"`
	TrainerCostPerSession int      `json:"trainer_cost_per_session" validate:"required,gt=0"`
	CoordinatorIDs        []string `json:"coordinator_ids" validate:"omitempty,dive,max=64"`
}

type UpdateClassRequest struct {
	Name                  *string `json:"name" validate:"omitempty,min=1,max=160"`
	Description           *string `json:"description"`
	GuardianID            *string `json:"guardian_id" validate:"omitempty,max=64"`
	TrainerID             *string `json:"trainer_id" validate:"omitempty,max=64"`
	TrainerCostPerSession *int    `json:"trainer_cost_per_session" validate:"omitempty,gt=0"`
	// CoordinatorIDs, when present, is the desired full set; the mutator
	// reconciles the join rows by set difference.
	CoordinatorIDs *[]string `json:"coordinator_ids" validate:"omitempty,dive,max=64"`
}

/* ========== RESPONSE DTO ========== */

type ClassResponse struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Description           *string   `json:"description,omitempty"`
	GuardianID            *string   `json:"guardian_id,omitempty"`
	TrainerID             *string   `json:"trainer_id,omitempty"`
	TrainerCostPerSession int       `json:"trainer_cost_per_session"`
	CoordinatorIDs        []string  `json:"coordinator_ids,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func NewClassResponse(m *model.ClassModel, coordinatorIDs []string) *ClassResponse {
	if m == nil {
		return nil
	}
	return &ClassResponse{
		ID:                    m.ID,
		Name:                  m.Name,
		Description:           m.Description,
		GuardianID:            m.GuardianID,
		TrainerID:             m.TrainerID,
		TrainerCostPerSession: m.TrainerCostPerSession,
		CoordinatorIDs:        coordinatorIDs,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
