// file: internals/features/invoices/model/invoice_model.go
package model

import "time"

// InvoiceModel maps the `invoices` table. `paid` may only become true after
// `approved`; once paid, the approval flag is frozen. Both rules live in the
// invoice mutators, not in the schema.
type InvoiceModel struct {
	ID                string    `json:"id" gorm:"column:id;type:varchar(64);primaryKey"`
	ClassID           string    `json:"class_id" gorm:"column:class_id;type:varchar(64);not null"`
	InvoicePath       string    `json:"invoice_path" gorm:"column:invoice_path;type:text;not null"`
	Approved          bool      `json:"approved" gorm:"column:approved;not null;default:false"`
	Paid              bool      `json:"paid" gorm:"column:paid;not null;default:false"`
	PaymentScreenshot *string   `json:"payment_screenshot,omitempty" gorm:"column:payment_screenshot;type:text"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoicedSessionModel maps the `invoiced_sessions` join table. A row's
// existence is the sole marker that the session has been billed.
type InvoicedSessionModel struct {
	InvoiceID string    `json:"invoice_id" gorm:"column:invoice_id;type:varchar(64);primaryKey"`
	SessionID string    `json:"session_id" gorm:"column:session_id;type:varchar(64);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

func (InvoicedSessionModel) TableName() string {
	return "invoiced_sessions"
}
