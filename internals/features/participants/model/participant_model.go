// file: internals/features/participants/model/participant_model.go
package model

import (
	"time"

	"classtrack_backend/internals/constants"
)

// ParticipantModel maps the `participants` table. Age is a snapshot derived
// from DOB at creation time; nothing recomputes it afterwards.
type ParticipantModel struct {
	ID        string           `json:"id" gorm:"column:id;type:varchar(64);primaryKey"`
	Name      string           `json:"name" gorm:"column:name;type:varchar(160);not null"`
	DOB       time.Time        `json:"dob" gorm:"column:dob;type:date;not null"`
	Age       int              `json:"age" gorm:"column:age;not null"`
	Gender    constants.Gender `json:"gender" gorm:"column:gender;type:gender;not null"`
	ClassID   string           `json:"class_id" gorm:"column:class_id;type:varchar(64);not null"`
	CreatedAt time.Time        `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (ParticipantModel) TableName() string {
	return "participants"
}
