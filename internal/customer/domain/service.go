package domain

import (
	"context"
	"errors"
)

// MatchType classifies the matcher outcome.
type MatchType string

const (
	MatchTypeExact MatchType = "exact"
	MatchTypeFuzzy MatchType = "fuzzy"
	MatchTypeNone  MatchType = "none"
)

// Confidence grades how strongly the matcher believes the result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

type MatchRequest struct {
	Name  string
	Phone string
}

// MatchResult carries either an authoritative phone match, advisory name
// suggestions, or nothing. Fuzzy matches never auto-merge.
type MatchResult struct {
	MatchType   MatchType          `json:"matchType"`
	Customer    *CustomerWithStats `json:"customer"`
	Suggestions []ScoredCustomer   `json:"suggestions"`
	Confidence  Confidence         `json:"confidence"`
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Match(ctx context.Context, req MatchRequest) (MatchResult, error)
	List(ctx context.Context) ([]CustomerWithStats, error)
	GetByID(ctx context.Context, req GetCustomerRequest) (CustomerWithStats, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
)
