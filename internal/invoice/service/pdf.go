package service

import (
	"context"
	"fmt"
	"time"

	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/invoice/domain"
	"github.com/saralbooks/saralbooks/internal/providers/pdf"
	"github.com/saralbooks/saralbooks/pkg/dates"
	"github.com/saralbooks/saralbooks/pkg/phone"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GeneratePDF renders an approved invoice, stores the result in the
// document store and stamps the reference on the invoice row.
func (s *service) GeneratePDF(ctx context.Context, id string) (string, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return "", err
	}
	if !actor.CanApprove() {
		return "", domain.ErrForbidden
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return "", err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return "", err
	}
	if invoice == nil {
		return "", domain.ErrNotFound
	}
	if invoice.Status != domain.StatusApproved {
		return "", domain.ErrNotApproved
	}

	items, err := s.repo.ItemsWithProducts(ctx, s.db, invoiceID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", domain.ErrNoItems
	}

	data := pdf.InvoiceData{
		InvoiceNumber: invoice.InvoiceNumber,
		TaxAmount:     formatAmount(invoice.TaxAmount),
		TotalAmount:   formatAmount(invoice.TotalAmount),
		GeneratedAt:   time.Now().UTC().Format("02-01-2006 15:04:05"),
	}
	if invoice.TaxAmount.IsZero() {
		data.TaxAmount = ""
	}
	if invoice.InvoiceDate != nil {
		data.InvoiceDate = dates.Format(*invoice.InvoiceDate)
	}
	if invoice.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, s.db, *invoice.CustomerID)
		if err == nil && customer != nil {
			data.CustomerName = customer.Name
			data.CustomerPhone = phone.FormatDisplay(customer.Phone)
			data.CustomerEmail = customer.Email
			data.CustomerGSTIN = customer.GSTIN
			data.CustomerAddress = customer.Address
		}
	}
	for _, item := range items {
		name := item.ProductName
		if name == "" {
			name = item.Description
		}
		if name == "" {
			name = "Unnamed Product"
		}
		data.Items = append(data.Items, pdf.LineRow{
			Name:      name,
			Quantity:  item.Quantity.String(),
			UnitPrice: formatAmount(item.UnitPrice),
			LineTotal: formatAmount(item.LineTotal),
		})
	}

	rendered, err := s.pdf.RenderInvoice(ctx, data)
	if err != nil {
		s.log.Error("failed to render invoice pdf",
			zap.Int64("invoice_id", invoiceID.Int64()),
			zap.Error(err),
		)
		return "", err
	}

	fileName := "invoice_" + invoice.InvoiceNumber + ".pdf"
	if invoice.InvoiceNumber == "" {
		fileName = "invoice_unknown.pdf"
	}
	documentID, err := s.documents.Store(ctx, documentdomain.StoreRequest{
		InvoiceID:    invoiceID,
		DocumentType: documentdomain.DocumentTypeGeneratedPDF,
		FileName:     fileName,
		ContentType:  "application/pdf",
		FileData:     rendered,
		UploadedBy:   actor.UserID,
	})
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	invoice.GeneratedPDFID = &documentID
	invoice.GeneratedPDFAt = &now
	if err := s.repo.Save(ctx, s.db, invoice); err != nil {
		return "", err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: &invoiceID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionPDFGenerated,
		Details:   map[string]any{"document_id": documentID},
	})
	return documentID, nil
}

func formatAmount(v decimal.Decimal) string {
	return fmt.Sprintf("Rs. %s", v.StringFixed(2))
}
