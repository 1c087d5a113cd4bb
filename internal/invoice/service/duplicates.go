package service

import (
	"context"

	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	"github.com/saralbooks/saralbooks/internal/invoice/domain"
	"github.com/saralbooks/saralbooks/pkg/dates"
)

// CheckDuplicates is advisory: it flags likely re-uploads but never blocks
// the caller. Matching needs either the customer/amount/date triple or a
// non-empty invoice number; an unmatchable request returns no duplicates.
func (s *service) CheckDuplicates(ctx context.Context, req domain.CheckDuplicatesRequest) (*domain.DuplicateResult, error) {
	if _, err := s.actor(ctx); err != nil {
		return nil, err
	}

	query := domain.DuplicateQuery{
		CustomerID:    req.CustomerID,
		TotalAmount:   req.TotalAmount,
		InvoiceNumber: req.InvoiceNumber,
	}
	var candidateDate *int64
	if parsed, ok := dates.Normalize(req.InvoiceDate); ok {
		query.InvoiceDate = &parsed
		unix := parsed.Unix()
		candidateDate = &unix
	}
	if req.InvoiceID != nil {
		query.ExcludeID = *req.InvoiceID
	}

	duplicates, err := s.repo.FindDuplicates(ctx, s.db, query)
	if err != nil {
		return nil, err
	}
	for i := range duplicates {
		if candidateDate == nil || duplicates[i].InvoiceDate == nil {
			continue
		}
		delta := *candidateDate - duplicates[i].InvoiceDate.Unix()
		if delta < 0 {
			delta = -delta
		}
		duplicates[i].DaysAgo = int(delta / 86400)
	}

	return &domain.DuplicateResult{
		HasDuplicates: len(duplicates) > 0,
		Duplicates:    duplicates,
	}, nil
}

// LogDuplicateIgnored records that a human saw the duplicate warning and
// chose to proceed, keeping which historical invoice it was compared to.
func (s *service) LogDuplicateIgnored(ctx context.Context, req domain.DuplicateIgnoredRequest) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	if req.ComparedInvoiceID == 0 {
		return domain.ErrInvalidID
	}

	details := map[string]any{
		"compared_invoice_id": req.ComparedInvoiceID.Int64(),
	}
	if req.ComparedInvoiceNum != "" {
		details["compared_invoice_number"] = req.ComparedInvoiceNum
	}
	if req.TotalAmount != nil {
		details["total_amount"] = req.TotalAmount.String()
	}

	s.audit.Record(ctx, auditdomain.Entry{
		InvoiceID: req.InvoiceID,
		UserID:    actor.UserID,
		Action:    auditdomain.ActionDuplicateIgnored,
		Details:   details,
	})
	return nil
}
