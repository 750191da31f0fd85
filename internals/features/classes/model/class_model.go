// file: internals/features/classes/model/class_model.go
package model

import "time"

// ClassModel maps the `classes` table.
type ClassModel struct {
	ID                    string    `json:"id" gorm:"column:id;type:varchar(64);primaryKey"`
	Name                  string    `json:"name" gorm:"column:name;type:varchar(160);not null"`
	Description           *string   `json:"description,omitempty" gorm:"column:description;type:text"`
	GuardianID            *string   `json:"guardian_id,omitempty" gorm:"column:guardian_id;type:varchar(64)"`
	TrainerID             *string   `json:"trainer_id,omitempty" gorm:"column:trainer_id;type:varchar(64)"`
	TrainerCostPerSession int       `json:"trainer_cost_per_session" gorm:"column:trainer_cost_per_session;not null"`
	CreatedAt             time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt             time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (ClassModel) TableName() string {
	return "classes"
}

// ClassCoordinatorModel maps the `class_coordinators` join table. A class has
// many coordinators; the pair is the primary key.
type ClassCoordinatorModel struct {
	ClassID       string    `json:"class_id" gorm:"column:class_id;type:varchar(64);primaryKey"`
	CoordinatorID string    `json:"coordinator_id" gorm:"column:coordinator_id;type:varchar(64);primaryKey"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

func (ClassCoordinatorModel) TableName() string {
	return "class_coordinators"
}
