// file: internals/features/users/dto/user_dto.go
package dto

import (
	"time"

	"classtrack_backend/internals/constants"
	"classtrack_backend/internals/features/users/model"
)

/* ========== REQUEST DTOs ========== */

type CreateUserRequest struct {
	// ID is only honored by the speculative context; the authoritative
	// context always uses the directory-issued id.
	ID          string         `json:"id" validate:"omitempty,max=64"`
	FirstName   string         `json:"first_name" validate:"required,min=1,max=120"`
	LastName    *string        `json:"last_name" validate:"omitempty,max=120"`
	Email       string         `json:"email" validate:"required,email"`
	PhoneNumber string         `json:"phone_number" validate:"required,min=6,max=32"`
	Password    string         `json:"password" validate:"required,min=8"`
	Role        constants.Role `json:"role" validate:"required,oneof=admin guardian coordinator facilitator trainer finance"`
}

type UpdateUserRequest struct {
	FirstName   *string         `json:"first_name" validate:"omitempty,min=1,max=120"`
	LastName    *string         `json:"last_name" validate:"omitempty,max=120"`
	Email       *string         `json:"email" validate:"omitempty,email"`
	PhoneNumber *string         `json:"phone_number" validate:"omitempty,min=6,max=32"`
	Role        *constants.Role `json:"role" validate:"omitempty,oneof=admin guardian coordinator facilitator trainer finance"`
}

/* ========== RESPONSE DTO ========== */

type UserResponse struct {
	ID          string         `json:"id"`
	FirstName   string         `json:"first_name"`
	LastName    *string        `json:"last_name,omitempty"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	Role        constants.Role `json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewUserResponse(m *model.UserModel) *UserResponse {
	if m == nil {
		return nil
	}
	return &UserResponse{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewUserResponses(ms []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *NewUserResponse(&ms[i]))
	}
	return out
}
