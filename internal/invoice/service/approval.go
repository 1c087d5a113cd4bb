package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	"github.com/saralbooks/saralbooks/internal/invoice/domain"
	productdomain "github.com/saralbooks/saralbooks/internal/product/domain"
	stagingdomain "github.com/saralbooks/saralbooks/internal/staging/domain"
	"github.com/saralbooks/saralbooks/pkg/db"
	"github.com/saralbooks/saralbooks/pkg/phone"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Approve finalizes an invoice in a single transaction: re-check status,
// resolve-or-create the customer, resolve-or-create each product, replace
// the line items and flip the row to APPROVED. All-or-nothing; the audit
// event and cache sweep happen after commit and are best-effort.
func (s *service) Approve(ctx context.Context, id string, req domain.ApproveRequest) error {
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

	// the draft carries the reviewed payload and the pinned customer; the
	// request may override customer/items but the pin always comes from
	// submit time
	customer := req.Customer
	items := req.Items
	var pinned *snowflake.ID
	if doc, err := s.stagingRepo.FindByInvoice(ctx, s.db, invoiceID); err == nil && doc != nil {
		pinned = doc.LinkedCustomerID
		if customer == nil || len(items) == 0 {
			if payload, err := doc.DecodePayload(); err == nil {
				if customer == nil && !payload.Customer.Empty() {
					customer = &payload.Customer
				}
				if len(items) == 0 {
					items = payload.Items
				}
			}
		}
	}
	if customer == nil || len(items) == 0 {
		return domain.ErrDataRequired
	}

	var customerID snowflake.ID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// optimistic guard: the loser of a concurrent approval race fails
		// here instead of double-committing
		current, err := s.repo.FindByID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status != domain.StatusPendingApproval {
			return domain.ErrNotPendingApproval
		}

		customerID, err = s.resolveCustomer(ctx, tx, pinned, *customer)
		if err != nil {
			return err
		}

		if err := s.repo.DeleteItems(ctx, tx, invoiceID); err != nil {
			return err
		}
		lineItems := make([]domain.LineItem, 0, len(items))
		for i, item := range items {
			productID, err := s.resolveProduct(ctx, tx, item)
			if err != nil {
				return err
			}
			line := domain.LineItem{
				ID:          s.genID.Generate(),
				InvoiceID:   invoiceID,
				ProductID:   productID,
				Description: item.Description,
				LineTotal:   computeLineTotal(item),
				Position:    i + 1,
			}
			if line.Description == "" {
				line.Description = domain.ItemName(item)
			}
			if item.Quantity != nil {
				line.Quantity = *item.Quantity
			}
			if item.UnitPrice != nil {
				line.UnitPrice = *item.UnitPrice
			}
			if item.TaxPercentage != nil {
				line.TaxPercentage = *item.TaxPercentage
			}
			lineItems = append(lineItems, line)
		}
		if err := s.repo.InsertItems(ctx, tx, lineItems); err != nil {
			return err
		}

		now := time.Now().UTC()
		current.Status = domain.StatusApproved
		current.CustomerID = &customerID
		current.ApprovedBy = &actor.UserID
		current.ApprovedAt = &now
		current.RejectionReason = ""
		return s.repo.Save(ctx, tx, current)
	})
	if err != nil {
		s.log.Error("approval transaction failed",
			zap.Int64("invoice_id", invoiceID.Int64()),
			zap.Error(err),
		)
		return err
	}

	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: &invoiceID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionInvoiceApproved,
		Details:   map[string]any{"customer_id": customerID.Int64()},
	})
	s.analytics.InvalidateAll(ctx)
	return nil
}

// resolveCustomer honors the pinned id from submit time; otherwise it
// dedups by canonical phone, creating the customer when no row matches.
// A unique-phone violation from a concurrent approval is re-resolved once.
func (s *service) resolveCustomer(ctx context.Context, tx *gorm.DB, pinned *snowflake.ID, data stagingdomain.CustomerData) (snowflake.ID, error) {
	if pinned != nil {
		existing, err := s.customerRepo.FindByID(ctx, tx, *pinned)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.ID, nil
		}
		// pinned customer vanished between submit and approve; fall
		// through to phone resolution
	}

	lookup := strings.TrimSpace(data.Phone)
	if canonical, ok := phone.Normalize(data.Phone); ok {
		lookup = canonical
	}
	existing, err := s.customerRepo.FindByPhone(ctx, tx, lookup)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	customer := &customerdomain.Customer{
		ID:        s.genID.Generate(),
		Name:      data.Name,
		Phone:     lookup,
		Email:     data.Email,
		GSTIN:     data.GSTIN,
		Address:   data.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.customerRepo.Insert(ctx, tx, customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			winner, ferr := s.customerRepo.FindByPhone(ctx, tx, lookup)
			if ferr == nil && winner != nil {
				return winner.ID, nil
			}
			return 0, domain.ErrCustomerConflict
		}
		return 0, err
	}
	return customer.ID, nil
}

// resolveProduct is the approval-time lookup: exact case-sensitive name
// match, deliberately stricter than the fuzzy pre-submission suggestions.
// The first-seen unit price seeds the standard price.
func (s *service) resolveProduct(ctx context.Context, tx *gorm.DB, item stagingdomain.ItemData) (*snowflake.ID, error) {
	name := domain.ItemName(item)
	if name == "" {
		return nil, nil
	}
	existing, err := s.productRepo.FindByExactName(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.ID, nil
	}

	product := &productdomain.Product{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if item.UnitPrice != nil {
		product.StandardPrice = *item.UnitPrice
	}
	if err := s.productRepo.Insert(ctx, tx, product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			winner, ferr := s.productRepo.FindByExactName(ctx, tx, name)
			if ferr == nil && winner != nil {
				return &winner.ID, nil
			}
		}
		return nil, err
	}
	return &product.ID, nil
}
