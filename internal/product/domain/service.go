package domain

import (
	"context"
	"errors"
)

type SuggestRequest struct {
	Name string
}

type GetProductRequest struct {
	ID string
}

type Service interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]ScoredProduct, error)
	List(ctx context.Context) ([]ProductWithStats, error)
	GetByID(ctx context.Context, req GetProductRequest) (ProductWithStats, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
