package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/document/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  repository.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("document.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Store(ctx context.Context, req domain.StoreRequest) (string, error) {
	doc := domain.Document{
		ID:           s.genID.Generate(),
		DocumentID:   uuid.NewString(),
		InvoiceID:    req.InvoiceID,
		DocumentType: req.DocumentType,
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		FileData:     req.FileData,
		Position:     req.Position,
		UploadedBy:   req.UploadedBy,
	}
	if err := s.repo.Insert(ctx, s.db, &doc); err != nil {
		return "", err
	}
	return doc.DocumentID, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]domain.Meta, error) {
	return s.repo.ListByInvoice(ctx, s.db, invoiceID)
}

func (s *Service) Fetch(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.repo.FindByDocumentID(ctx, s.db, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (s *Service) DeleteByInvoice(ctx context.Context, invoiceID snowflake.ID) error {
	return s.repo.DeleteByInvoice(ctx, s.db, invoiceID)
}
