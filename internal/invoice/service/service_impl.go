package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/actorcontext"
	analyticsdomain "github.com/saralbooks/saralbooks/internal/analytics/domain"
	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	"github.com/saralbooks/saralbooks/internal/config"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/invoice/domain"
	"github.com/saralbooks/saralbooks/internal/ocr"
	"github.com/saralbooks/saralbooks/internal/providers/pdf"
	productdomain "github.com/saralbooks/saralbooks/internal/product/domain"
	stagingdomain "github.com/saralbooks/saralbooks/internal/staging/domain"
	"github.com/saralbooks/saralbooks/pkg/dates"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// totalTolerance is the allowed gap between the submitted total and the
// sum of line totals: two minor currency units.
var totalTolerance = decimal.New(2, -2)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Config       config.Config
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	StagingRepo  stagingdomain.Repository
	Documents    documentdomain.Service
	Audit        auditdomain.Service
	AuditRepo    auditdomain.Repository
	Analytics    analyticsdomain.Service
	OCR          ocr.Client
	PDF          pdf.Provider
}

type service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	cfg          config.Config
	repo         domain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	stagingRepo  stagingdomain.Repository
	documents    documentdomain.Service
	audit        auditdomain.Service
	auditRepo    auditdomain.Repository
	analytics    analyticsdomain.Service
	ocr          ocr.Client
	pdf          pdf.Provider
}

func New(p Params) domain.Service {
	return &service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		cfg:          p.Config,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		stagingRepo:  p.StagingRepo,
		documents:    p.Documents,
		audit:        p.Audit,
		auditRepo:    p.AuditRepo,
		analytics:    p.Analytics,
		ocr:          p.OCR,
		pdf:          p.PDF,
	}
}

func (s *service) actor(ctx context.Context) (actorcontext.Actor, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return actorcontext.Actor{}, domain.ErrUnauthenticated
	}
	return actor, nil
}

func parseID(raw string) (snowflake.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidID
	}
	return snowflake.ParseInt64(n), nil
}

// Upload runs extraction before any database write: an unreachable OCR
// service must not leave a half-created invoice behind.
func (s *service) Upload(ctx context.Context, files []domain.UploadFile) (*domain.UploadResult, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.CanReview() {
		return nil, domain.ErrForbidden
	}
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if len(files) > s.cfg.MaxUploadFiles {
		return nil, domain.ErrTooManyFiles
	}

	batch := make([]ocr.File, 0, len(files))
	for _, f := range files {
		batch = append(batch, ocr.File{Name: f.Name, ContentType: f.ContentType, Data: f.Data})
	}
	extracted, err := s.ocr.Process(ctx, batch)
	if err != nil {
		if errors.Is(err, ocr.ErrServiceUnavailable) {
			return nil, fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
		}
		return nil, err
	}

	now := time.Now().UTC()
	invoice := &domain.Invoice{
		ID:            s.genID.Generate(),
		InvoiceNumber: extracted.Payload.Invoice.InvoiceNumber,
		Currency:      extracted.Payload.Invoice.Currency,
		Status:        domain.StatusPendingReview,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
	}
	if invoice.Currency == "" {
		invoice.Currency = "INR"
	}
	if parsed, ok := dates.Normalize(extracted.Payload.Invoice.InvoiceDate); ok {
		invoice.InvoiceDate = &parsed
	}
	if extracted.Payload.Invoice.TotalAmount != nil {
		invoice.TotalAmount = *extracted.Payload.Invoice.TotalAmount
	}
	if extracted.Payload.Invoice.TaxAmount != nil {
		invoice.TaxAmount = *extracted.Payload.Invoice.TaxAmount
	}
	if extracted.Payload.Invoice.DiscountAmount != nil {
		invoice.DiscountAmount = *extracted.Payload.Invoice.DiscountAmount
	}

	draft := &stagingdomain.ReviewDocument{
		ID:        s.genID.Generate(),
		InvoiceID: invoice.ID,
		RawOCR:    []byte(extracted.Raw),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := draft.SetPayload(extracted.Payload); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, invoice); err != nil {
			return err
		}
		return s.stagingRepo.Upsert(ctx, tx, draft)
	})
	if err != nil {
		s.log.Error("failed to create invoice from upload", zap.Error(err))
		return nil, err
	}

	for i, f := range files {
		position := i + 1
		if _, err := s.documents.Store(ctx, documentdomain.StoreRequest{
			InvoiceID:    invoice.ID,
			DocumentType: documentdomain.DocumentTypeOriginal,
			FileName:     f.Name,
			ContentType:  f.ContentType,
			FileData:     f.Data,
			Position:     &position,
			UploadedBy:   actor.UserID,
		}); err != nil {
			s.log.Error("failed to store original document",
				zap.Int64("invoice_id", invoice.ID.Int64()),
				zap.String("file_name", f.Name),
				zap.Error(err),
			)
			return nil, err
		}
	}

	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: &invoice.ID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionInvoiceUploaded,
		Details:   map[string]any{"file_count": len(files)},
	})

	return &domain.UploadResult{InvoiceID: invoice.ID, Extracted: extracted.Payload}, nil
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Summary, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" {
		switch actor.Role {
		case actorcontext.RoleAccountant:
			filter.Status = domain.StatusApproved
		case actorcontext.RoleStaff:
			filter.CreatedBy = actor.UserID
		}
	}

	summaries, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		docs, err := s.documents.ListByInvoice(ctx, summaries[i].ID)
		if err == nil {
			summaries[i].DocumentCount = len(docs)
		}
		if summaries[i].Status == domain.StatusPendingReview {
			s.overlayDraft(ctx, &summaries[i])
		}
	}
	return summaries, nil
}

// overlayDraft replaces listing fields with the staging draft's values:
// pre-approval, the draft holds the freshest review data.
func (s *service) overlayDraft(ctx context.Context, summary *domain.Summary) {
	doc, err := s.stagingRepo.FindByInvoice(ctx, s.db, summary.ID)
	if err != nil || doc == nil {
		return
	}
	payload, err := doc.DecodePayload()
	if err != nil {
		return
	}
	if payload.Invoice.InvoiceNumber != "" {
		summary.InvoiceNumber = payload.Invoice.InvoiceNumber
	}
	if parsed, ok := dates.Normalize(payload.Invoice.InvoiceDate); ok {
		summary.InvoiceDate = &parsed
	}
	if payload.Invoice.TotalAmount != nil {
		summary.TotalAmount = *payload.Invoice.TotalAmount
	}
	if payload.Customer.Name != "" {
		summary.CustomerName = payload.Customer.Name
	}
}

func (s *service) Get(ctx context.Context, id string) (*domain.Detail, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if actor.Role == actorcontext.RoleAccountant && invoice.Status != domain.StatusApproved {
		return nil, domain.ErrForbidden
	}
	if actor.Role == actorcontext.RoleStaff && invoice.Status != domain.StatusApproved && invoice.CreatedBy != actor.UserID {
		return nil, domain.ErrForbidden
	}

	detail := &domain.Detail{Invoice: *invoice}

	if invoice.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, s.db, *invoice.CustomerID)
		if err == nil && customer != nil {
			detail.CustomerName = customer.Name
			detail.CustomerPhone = customer.Phone
			detail.CustomerEmail = customer.Email
			detail.CustomerGSTIN = customer.GSTIN
			detail.CustomerAddress = customer.Address
		}
	}

	items, err := s.repo.ItemsWithProducts(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	detail.Items = items

	docs, err := s.documents.ListByInvoice(ctx, invoiceID)
	if err == nil {
		detail.Documents = docs
	}

	if doc, err := s.stagingRepo.FindByInvoice(ctx, s.db, invoiceID); err == nil && doc != nil {
		if payload, err := doc.DecodePayload(); err == nil {
			detail.Draft = &payload
			detail.RawOCR = doc.RawOCR
			// pre-approval with no relational items yet: surface the
			// reviewed customer/items from the draft
			preApproval := invoice.Status == domain.StatusPendingReview || invoice.Status == domain.StatusPendingApproval
			if preApproval && len(detail.Items) == 0 {
				if detail.CustomerName == "" {
					detail.CustomerName = payload.Customer.Name
					detail.CustomerPhone = payload.Customer.Phone
					detail.CustomerEmail = payload.Customer.Email
					detail.CustomerGSTIN = payload.Customer.GSTIN
					detail.CustomerAddress = payload.Customer.Address
				}
				detail.Items = draftItems(invoiceID, payload.Items)
			}
		}
	}

	return detail, nil
}

// draftItems maps draft lines to the item view shape, with no relational
// ids yet.
func draftItems(invoiceID snowflake.ID, items []stagingdomain.ItemData) []domain.ItemWithProduct {
	out := make([]domain.ItemWithProduct, 0, len(items))
	for i, item := range items {
		row := domain.ItemWithProduct{
			LineItem: domain.LineItem{
				InvoiceID:   invoiceID,
				Description: item.Description,
				Position:    i + 1,
			},
			ProductName: domain.ItemName(item),
		}
		if item.Quantity != nil {
			row.Quantity = *item.Quantity
		}
		if item.UnitPrice != nil {
			row.UnitPrice = *item.UnitPrice
		}
		if item.TaxPercentage != nil {
			row.TaxPercentage = *item.TaxPercentage
		}
		row.LineTotal = computeLineTotal(item)
		out = append(out, row)
	}
	return out
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	if !actor.CanReview() {
		return domain.ErrForbidden
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	if !invoice.Status.Editable() {
		return domain.ErrNotEditable
	}

	applyHeader(invoice, req.Invoice)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		return s.mergeDraft(ctx, tx, invoiceID, req)
	})
	if err != nil {
		s.log.Error("failed to update invoice", zap.Int64("invoice_id", invoiceID.Int64()), zap.Error(err))
		return err
	}

	sections := []string{"invoice"}
	if req.Customer != nil {
		sections = append(sections, "customer")
	}
	if len(req.Items) > 0 {
		sections = append(sections, "items")
	}
	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: &invoiceID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionInvoiceReviewed,
		Details:   map[string]any{"updated_sections": sections},
	})
	s.analytics.InvalidateAll(ctx)
	return nil
}

func applyHeader(invoice *domain.Invoice, data stagingdomain.InvoiceData) {
	invoice.InvoiceNumber = data.InvoiceNumber
	if parsed, ok := dates.Normalize(data.InvoiceDate); ok {
		invoice.InvoiceDate = &parsed
	} else if strings.TrimSpace(data.InvoiceDate) == "" {
		invoice.InvoiceDate = nil
	}
	if data.TotalAmount != nil {
		invoice.TotalAmount = *data.TotalAmount
	}
	if data.TaxAmount != nil {
		invoice.TaxAmount = *data.TaxAmount
	}
	if data.DiscountAmount != nil {
		invoice.DiscountAmount = *data.DiscountAmount
	}
	if data.Currency != "" {
		invoice.Currency = data.Currency
	} else if invoice.Currency == "" {
		invoice.Currency = "INR"
	}
}

// mergeDraft folds review edits into the staging draft so the draft stays
// the single pre-approval source of truth.
func (s *service) mergeDraft(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, req domain.UpdateRequest) error {
	doc, err := s.stagingRepo.FindByInvoice(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if doc == nil {
		doc = &stagingdomain.ReviewDocument{
			ID:        s.genID.Generate(),
			InvoiceID: invoiceID,
			CreatedAt: now,
		}
	}
	payload, err := doc.DecodePayload()
	if err != nil {
		return err
	}
	payload.Invoice = req.Invoice
	if req.Customer != nil {
		payload.Customer = *req.Customer
	}
	if len(req.Items) > 0 {
		payload.Items = req.Items
	}
	if err := doc.SetPayload(payload); err != nil {
		return err
	}
	doc.UpdatedAt = now
	return s.stagingRepo.Upsert(ctx, tx, doc)
}

func (s *service) Submit(ctx context.Context, id string, req domain.SubmitRequest) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	if !actor.CanReview() {
		return domain.ErrForbidden
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}
	if errs := validateSubmission(req); errs != nil {
		return errs
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	if !invoice.Status.Editable() {
		return domain.ErrNotSubmittable
	}

	now := time.Now().UTC()
	applyHeader(invoice, req.Invoice)
	invoice.Status = domain.StatusPendingApproval
	invoice.SubmittedBy = &actor.UserID
	invoice.SubmittedAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		doc, err := s.stagingRepo.FindByInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if doc == nil {
			doc = &stagingdomain.ReviewDocument{
				ID:        s.genID.Generate(),
				InvoiceID: invoiceID,
				CreatedAt: now,
			}
		}
		if err := doc.SetPayload(stagingdomain.Payload{
			Invoice:  req.Invoice,
			Customer: req.Customer,
			Items:    req.Items,
		}); err != nil {
			return err
		}
		doc.LinkedCustomerID = req.LinkedCustomerID
		doc.UpdatedAt = now
		return s.stagingRepo.Upsert(ctx, tx, doc)
	})
	if err != nil {
		s.log.Error("failed to submit invoice", zap.Int64("invoice_id", invoiceID.Int64()), zap.Error(err))
		return err
	}

	details := map[string]any{}
	if req.LinkedCustomerID != nil {
		details["linked_customer_id"] = req.LinkedCustomerID.Int64()
	}
	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: &invoiceID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionInvoiceSubmitted,
		Details:   details,
	})
	s.analytics.InvalidateAll(ctx)
	return nil
}

func validateSubmission(req domain.SubmitRequest) domain.FieldErrors {
	errs := domain.FieldErrors{}

	if strings.TrimSpace(req.Invoice.InvoiceNumber) == "" {
		errs["invoice_number"] = "Invoice number is required"
	}
	if strings.TrimSpace(req.Invoice.InvoiceDate) == "" {
		errs["invoice_date"] = "Invoice date is required"
	} else if _, ok := dates.Normalize(req.Invoice.InvoiceDate); !ok {
		errs["invoice_date"] = "Invoice date is not a recognizable date"
	}

	itemsValid := true
	if len(req.Items) == 0 {
		errs["items"] = "At least one line item is required"
		itemsValid = false
	} else {
		for i, item := range req.Items {
			if item.Quantity == nil || !item.Quantity.IsPositive() {
				errs[fmt.Sprintf("items[%d].quantity", i)] = "Quantity must be greater than 0"
				itemsValid = false
			}
			if item.UnitPrice == nil || !item.UnitPrice.IsPositive() {
				errs[fmt.Sprintf("items[%d].unit_price", i)] = "Unit price must be greater than 0"
				itemsValid = false
			}
		}
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		errs["customer.name"] = "Customer name is required"
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		errs["customer.phone"] = "Customer phone is required"
	}

	if req.Invoice.TotalAmount == nil {
		errs["total_amount"] = "Total amount is required"
	} else if itemsValid {
		sum := decimal.Zero
		for _, item := range req.Items {
			sum = sum.Add(computeLineTotal(item))
		}
		if req.Invoice.TotalAmount.Sub(sum).Abs().GreaterThan(totalTolerance) {
			errs["total_amount"] = fmt.Sprintf(
				"Total amount %s does not match line item sum %s",
				req.Invoice.TotalAmount.StringFixed(2), sum.StringFixed(2),
			)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// computeLineTotal trusts quantity × unit price over the extracted line
// total.
func computeLineTotal(item stagingdomain.ItemData) decimal.Decimal {
	if item.Quantity != nil && item.UnitPrice != nil {
		return item.Quantity.Mul(*item.UnitPrice).Round(2)
	}
	if item.LineTotal != nil {
		return *item.LineTotal
	}
	return decimal.Zero
}

func (s *service) Reject(ctx context.Context, id string, reason string) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	if !actor.CanApprove() {
		return domain.ErrForbidden
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return domain.ErrReasonRequired
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	if invoice.Status != domain.StatusPendingApproval {
		return domain.ErrNotPendingApproval
	}

	// rejection routes back to review; REJECTED never rests as a status
	invoice.Status = domain.StatusPendingReview
	invoice.RejectionReason = strings.TrimSpace(reason)
	if err := s.repo.Save(ctx, s.db, invoice); err != nil {
		s.log.Error("failed to reject invoice", zap.Int64("invoice_id", invoiceID.Int64()), zap.Error(err))
		return err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: &invoiceID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionInvoiceRejected,
		Details:   map[string]any{"reason": invoice.RejectionReason},
	})
	s.analytics.InvalidateAll(ctx)
	return nil
}

// Delete removes the invoice and everything tied to it except the audit
// trail, whose invoice references are nulled instead.
func (s *service) Delete(ctx context.Context, id string) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	switch actor.Role {
	case actorcontext.RoleOwner:
		// owners may delete from any state
	case actorcontext.RoleStaff:
		if invoice.CreatedBy != actor.UserID || invoice.Status != domain.StatusPendingReview {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteItems(ctx, tx, invoiceID); err != nil {
			return err
		}
		if err := s.stagingRepo.DeleteByInvoice(ctx, tx, invoiceID); err != nil {
			return err
		}
		if err := s.auditRepo.DetachInvoice(ctx, tx, invoiceID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, invoiceID)
	})
	if err != nil {
		s.log.Error("failed to delete invoice", zap.Int64("invoice_id", invoiceID.Int64()), zap.Error(err))
		return err
	}

	if err := s.documents.DeleteByInvoice(ctx, invoiceID); err != nil {
		s.log.Warn("failed to delete invoice documents",
			zap.Int64("invoice_id", invoiceID.Int64()),
			zap.Error(err),
		)
	}

	// no invoice reference: the row is gone, only the trail remains
	s.audit.Record(ctx, auditdomain.Entry{
		UserID: actor.UserID,
		Action: auditdomain.ActionInvoiceDeleted,
		Details: map[string]any{
			"deleted_invoice_id": invoiceID.Int64(),
			"invoice_number":     invoice.InvoiceNumber,
			"status":             string(invoice.Status),
		},
	})
	s.analytics.InvalidateAll(ctx)
	return nil
}
