// file: internals/features/invoices/service/renderer.go
package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	classmodel "classtrack_backend/internals/features/classes/model"
	sessionmodel "classtrack_backend/internals/features/sessions/model"
)

// invoiceArtifactKey is the storage key an invoice's rendered PDF lives at.
// Mutators and the reconciler both use it so a manually generated invoice
// and a scheduled one land in the same layout.
func invoiceArtifactKey(assetFolder, invoiceID string) string {
	return fmt.Sprintf("%s/invoices/%s.pdf", strings.TrimSuffix(assetFolder, "/"), invoiceID)
}

// billingDocument is the fully resolved content of one invoice artifact.
// Line items are ordered by session date ascending.
type billingDocument struct {
	InvoiceID   string
	ClassName   string
	TrainerName string
	IssuedAt    time.Time
	Lines       []billingLine
	Total       int
}

type billingLine struct {
	Date   time.Time
	Rate   int
	Amount int
}

// buildBillingDocument prices each session at the class's current per-session
// trainer cost. Sessions must already be ordered oldest first.
func buildBillingDocument(invoiceID string, class *classmodel.ClassModel, trainerName string, sessions []sessionmodel.SessionModel, issuedAt time.Time) *billingDocument {
	doc := &billingDocument{
		InvoiceID:   invoiceID,
		ClassName:   class.Name,
		TrainerName: trainerName,
		IssuedAt:    issuedAt,
	}
	for _, s := range sessions {
		line := billingLine{
			Date:   s.CreatedAt,
			Rate:   class.TrainerCostPerSession,
			Amount: class.TrainerCostPerSession,
		}
		doc.Lines = append(doc.Lines, line)
		doc.Total += line.Amount
	}
	return doc
}

// renderInvoicePDF lays the document out as a single-page A4 invoice and
// returns the encoded bytes.
func renderInvoicePDF(doc *billingDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+doc.InvoiceID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Invoice", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Invoice ID: "+doc.InvoiceID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Class: "+doc.ClassName, "", 1, "L", false, 0, "")
	if doc.TrainerName != "" {
		pdf.CellFormat(0, 6, "Trainer: "+doc.TrainerName, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Issued: "+doc.IssuedAt.Format("2 January 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(70, 8, "Session Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(70, 8, line.Date.Format("2 Jan 2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, formatINR(line.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 8, formatINR(line.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, formatINR(doc.Total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// formatINR renders an amount with Indian digit grouping: the last three
// digits stand alone, every earlier group holds two (12,34,567).
func formatINR(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return sign + "Rs. " + digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + "Rs. " + strings.Join(groups, ",") + "," + tail
}
