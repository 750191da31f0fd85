// file: internals/features/sessions/model/session_model.go
package model

import "time"

// SessionModel maps the `sessions` table. A session is "unbilled" while no
// invoiced_sessions row references it.
type SessionModel struct {
	ID        string    `json:"id" gorm:"column:id;type:varchar(64);primaryKey"`
	ClassID   string    `json:"class_id" gorm:"column:class_id;type:varchar(64);not null"`
	Photo     *string   `json:"photo,omitempty" gorm:"column:photo;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

// SessionParticipantModel maps the `session_participants` join table.
type SessionParticipantModel struct {
	ParticipantID string    `json:"participant_id" gorm:"column:participant_id;type:varchar(64);primaryKey"`
	SessionID     string    `json:"session_id" gorm:"column:session_id;type:varchar(64);primaryKey"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

func (SessionParticipantModel) TableName() string {
	return "session_participants"
}
