package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/portfolio"
	"github.com/khanhng/coinfolio/internal/services"
)

type PortfolioHandler struct {
	service services.PortfolioService
}

func NewPortfolioHandler(service services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

type holdingsResponse struct {
	Holdings []models.HoldingView   `json:"holdings"`
	Totals   models.PortfolioTotals `json:"totals"`
}

// HandleHoldings handles GET /api/portfolio/holdings
// @Summary Portfolio holdings
// @Description Aggregate the caller's transactions into per-asset holdings valued at the latest quotes
// @Tags portfolio
// @Produce json
// @Param sort query string false "Sort field" Enums(symbol, value, quantity, profit)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} holdingsResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Security BearerAuth
// @Router /portfolio/holdings [get]
func (h *PortfolioHandler) HandleHoldings(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}

	sortBy := portfolio.SortBySymbol
	if raw := r.URL.Query().Get("sort"); raw != "" {
		parsed, err := portfolio.ParseSortField(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		sortBy = parsed
	}
	descending := strings.EqualFold(r.URL.Query().Get("order"), "desc")

	holdings, totals, err := h.service.Holdings(r.Context(), user.ID, sortBy, descending)
	if err != nil {
		respondError(w, err)
		return
	}
	if holdings == nil {
		holdings = []models.HoldingView{}
	}
	respondJSON(w, http.StatusOK, holdingsResponse{Holdings: holdings, Totals: totals})
}

// HandleHistory handles GET /api/portfolio/history
// @Summary Portfolio value history
// @Description Return the sampled total-value series for the caller, filtered to a time window
// @Tags portfolio
// @Produce json
// @Param window query string false "Window" Enums(30s, 1m, 1h, 1d, 7d, 30d, 1y, all)
// @Success 200 {array} models.ValueSample
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Security BearerAuth
// @Router /portfolio/history [get]
func (h *PortfolioHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}

	window, err := parseWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, err)
		return
	}

	samples, err := h.service.History(r.Context(), user.ID, window)
	if err != nil {
		respondError(w, err)
		return
	}
	if samples == nil {
		samples = []models.ValueSample{}
	}
	respondJSON(w, http.StatusOK, samples)
}

// parseWindow turns a window query value into a duration. "all" (or an empty
// value) means no cutoff and maps to zero. Day and year suffixes are accepted
// on top of the units time.ParseDuration knows.
func parseWindow(raw string) (time.Duration, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return 0, nil
	}

	if n, ok := strings.CutSuffix(raw, "d"); ok {
		days, err := strconv.Atoi(n)
		if err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	if n, ok := strings.CutSuffix(raw, "y"); ok {
		years, err := strconv.Atoi(n)
		if err == nil && years > 0 {
			return time.Duration(years) * 365 * 24 * time.Hour, nil
		}
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, nil
	}
	return 0, apperrors.NewValidation("window", "must be one of 30s, 1m, 1h, 1d, 7d, 30d, 1y, all")
}
