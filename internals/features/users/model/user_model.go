// file: internals/features/users/model/user_model.go
package model

import (
	"time"

	"classtrack_backend/internals/constants"
)

// UserModel maps the `users` table. The primary key is the identity
// directory's external id, so it is an opaque varchar rather than a UUID.
type UserModel struct {
	ID          string         `json:"id" gorm:"column:id;type:varchar(64);primaryKey"`
	FirstName   string         `json:"first_name" gorm:"column:first_name;type:varchar(120);not null"`
	LastName    *string        `json:"last_name,omitempty" gorm:"column:last_name;type:varchar(120)"`
	Role        constants.Role `json:"role" gorm:"column:role;type:roles;not null;default:'coordinator'"`
	Email       string         `json:"email" gorm:"column:email;type:varchar(255);not null"`
	PhoneNumber string         `json:"phone_number" gorm:"column:phone_number;type:varchar(32);not null"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// FullName joins first and last name, skipping an absent last name.
func (u *UserModel) FullName() string {
	if u.LastName == nil || *u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + *u.LastName
}
