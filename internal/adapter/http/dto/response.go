package dto

import (
	"time"

	"github.com/iho/timelimit/internal/domain"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BoundResponse represents the effective bound of a category.
type BoundResponse struct {
	Category  string `json:"category"`
	LowerMs   int64  `json:"lower_ms"`
	UpperMs   *int64 `json:"upper_ms"`
	Bound     string `json:"bound"`
	Unbounded bool   `json:"unbounded"`
}

// CategoriesResponse lists the default bound table.
type CategoriesResponse struct {
	Categories []BoundResponse `json:"categories"`
}

// SuggestResponse represents the best fitting default category for a runtime.
type SuggestResponse struct {
	DurationMs int64  `json:"duration_ms"`
	Category   string `json:"category,omitempty"`
	Found      bool   `json:"found"`
}

// ValidateResponse represents the outcome of a runtime validation.
type ValidateResponse struct {
	Category    string `json:"category"`
	ObservedMs  int64  `json:"observed_ms"`
	WithinBound bool   `json:"within_bound"`
	Bound       string `json:"bound"`
	Suggested   string `json:"suggested,omitempty"`
	Message     string `json:"message,omitempty"`
}

// BoundFromDomain converts a category name and bound to a response.
// The upper edge is null when the bound is unbounded.
func BoundFromDomain(category string, b domain.Bound) BoundResponse {
	resp := BoundResponse{
		Category:  category,
		LowerMs:   b.LowerMillis(),
		Bound:     b.String(),
		Unbounded: b.IsUnbounded(),
	}
	if !b.IsUnbounded() {
		upper := b.UpperMillis()
		resp.UpperMs = &upper
	}
	return resp
}

// CategoriesFromDomain converts the default table to a response.
func CategoriesFromDomain(categories []domain.Category) CategoriesResponse {
	resp := CategoriesResponse{Categories: make([]BoundResponse, len(categories))}
	for i, c := range categories {
		resp.Categories[i] = BoundFromDomain(c.Name, c.Bound)
	}
	return resp
}

// ValidateFromDomain converts a validation result to a response.
func ValidateFromDomain(category string, observed time.Duration, bound domain.Bound, v *domain.Violation) ValidateResponse {
	resp := ValidateResponse{
		Category:    category,
		ObservedMs:  observed.Milliseconds(),
		WithinBound: v == nil,
		Bound:       bound.String(),
	}
	if v != nil {
		resp.Suggested = v.Suggested
		resp.Message = v.String()
	}
	return resp
}
