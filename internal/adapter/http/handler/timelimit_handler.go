package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/timelimit/internal/adapter/http/dto"
	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/usecase"
)

// TimeLimitService defines the interface for bound resolution and validation.
type TimeLimitService interface {
	Defaults() []domain.Category
	ResolveBound(category string) (domain.Bound, error)
	SuggestCategory(d time.Duration) (string, bool)
	ValidateRuntime(observed time.Duration, category string) (*domain.Violation, error)
}

// TimeLimitHandler handles category and validation requests.
type TimeLimitHandler struct {
	timeLimits TimeLimitService
	recorder   usecase.Recorder
}

// NewTimeLimitHandler creates a new TimeLimitHandler. recorder may be nil.
func NewTimeLimitHandler(timeLimits TimeLimitService, recorder usecase.Recorder) *TimeLimitHandler {
	return &TimeLimitHandler{
		timeLimits: timeLimits,
		recorder:   recorder,
	}
}

// Categories handles GET /categories.
func (h *TimeLimitHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(h.timeLimits.Defaults()))
}

// Bound handles GET /bounds/{category}.
func (h *TimeLimitHandler) Bound(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if err := domain.ValidateCategoryName(category); err != nil {
		writeError(w, mapDomainError(err), "invalid category", err.Error())
		return
	}

	bound, err := h.timeLimits.ResolveBound(category)
	if err != nil {
		writeError(w, mapDomainError(err), "cannot resolve bound", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BoundFromDomain(category, bound))
}

// Suggest handles GET /suggest?duration=.
func (h *TimeLimitHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseDuration(r.URL.Query().Get("duration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid duration", err.Error())
		return
	}

	category, found := h.timeLimits.SuggestCategory(d)
	writeJSON(w, http.StatusOK, dto.SuggestResponse{
		DurationMs: d.Milliseconds(),
		Category:   category,
		Found:      found,
	})
}

// Validate handles POST /validate.
func (h *TimeLimitHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := domain.ValidateCategoryName(req.Category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid category", err.Error())
		return
	}

	observed, err := req.Observed()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid duration", err.Error())
		return
	}

	violation, err := h.timeLimits.ValidateRuntime(observed, req.Category)
	h.record(req.Category, observed, usecase.OutcomeOf(violation, err))
	if err != nil {
		writeError(w, mapDomainError(err), "cannot resolve bound", err.Error())
		return
	}

	bound := domain.Bound{}
	if violation != nil {
		bound = violation.Bound
	} else if bound, err = h.timeLimits.ResolveBound(req.Category); err != nil {
		writeError(w, mapDomainError(err), "cannot resolve bound", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidateFromDomain(req.Category, observed, bound, violation))
}

func (h *TimeLimitHandler) record(category string, observed time.Duration, outcome usecase.Outcome) {
	if h.recorder != nil {
		h.recorder.RecordValidation(category, observed, outcome)
	}
}
