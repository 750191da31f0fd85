// file: internals/features/invoices/dto/invoice_dto.go
package dto

import (
	"time"

	"classtrack_backend/internals/features/invoices/model"
)

/* ========== REQUEST DTOs ========== */

type MarkPaidRequest struct {
	PaymentScreenshot string `json:"payment_screenshot" validate:"required,min=1"`
}

/* ========== RESPONSE DTO ========== */

type InvoiceResponse struct {
	ID                string    `json:"id"`
	ClassID           string    `json:"class_id"`
	InvoicePath       string    `json:"invoice_path"`
	Approved          bool      `json:"approved"`
	Paid              bool      `json:"paid"`
	PaymentScreenshot *string   `json:"payment_screenshot,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewInvoiceResponse(m *model.InvoiceModel) *InvoiceResponse {
	if m == nil {
		return nil
	}
	return &InvoiceResponse{
		ID:                m.ID,
		ClassID:           m.ClassID,
		InvoicePath:       m.InvoicePath,
		Approved:          m.Approved,
		Paid:              m.Paid,
		PaymentScreenshot: m.PaymentScreenshot,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func NewInvoiceResponses(ms []model.InvoiceModel) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *NewInvoiceResponse(&ms[i]))
	}
	return out
}
