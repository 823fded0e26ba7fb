package handlers

import (
	"net/http"
	"strconv"

	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/services"
)

type MarketsHandler struct {
	quotes services.QuoteService
}

func NewMarketsHandler(quotes services.QuoteService) *MarketsHandler {
	return &MarketsHandler{quotes: quotes}
}

// HandleMarkets handles GET /api/markets
// @Summary Market overview
// @Description List coins ordered by market cap, with 7d sparklines
// @Tags markets
// @Produce json
// @Param per_page query int false "Page size (max 250)"
// @Param page query int false "Page number"
// @Success 200 {array} models.AssetQuote
// @Failure 502 {object} errorResponse
// @Router /markets [get]
func (h *MarketsHandler) HandleMarkets(w http.ResponseWriter, r *http.Request) {
	perPage := intQuery(r, "per_page")
	page := intQuery(r, "page")

	quotes, err := h.quotes.Markets(r.Context(), perPage, page)
	if err != nil {
		respondError(w, err)
		return
	}
	if quotes == nil {
		quotes = []models.AssetQuote{}
	}
	respondJSON(w, http.StatusOK, quotes)
}

func intQuery(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
