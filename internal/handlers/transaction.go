package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/services"
)

type TransactionHandler struct {
	service services.TransactionService
}

func NewTransactionHandler(service services.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type transactionRequest struct {
	AssetID       string           `json:"asset_id"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Date          string           `json:"date"`
	Notes         *string          `json:"notes"`
	Version       int              `json:"version"`
}

func (req *transactionRequest) toModel(userID string) (*models.Transaction, error) {
	if req.AssetID == "" {
		return nil, apperrors.NewValidation("asset_id", "is required")
	}
	if req.Quantity == nil {
		return nil, apperrors.NewValidation("quantity", "is required")
	}
	if req.PurchasePrice == nil {
		return nil, apperrors.NewValidation("purchase_price", "is required")
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			return nil, apperrors.NewValidation("date", "must be YYYY-MM-DD or RFC 3339")
		}
		date = parsed
	}

	return &models.Transaction{
		UserID:        userID,
		AssetID:       req.AssetID,
		Quantity:      *req.Quantity,
		PurchasePrice: *req.PurchasePrice,
		PurchaseDate:  date,
		Notes:         req.Notes,
		Version:       req.Version,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// HandleList handles GET /api/portfolio
// @Summary List transactions
// @Description List the caller's portfolio transactions
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.Transaction
// @Failure 401 {object} errorResponse
// @Security BearerAuth
// @Router /portfolio [get]
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}

	txs, err := h.service.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

// HandleCreate handles POST /api/portfolio/add
// @Summary Record a buy
// @Description Create a transaction for the caller
// @Tags portfolio
// @Accept json
// @Produce json
// @Param body body transactionRequest true "Transaction payload"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Security BearerAuth
// @Router /portfolio/add [post]
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.NewValidation("body", "is not valid JSON"))
		return
	}

	tx, err := req.toModel(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.Create(r.Context(), tx); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// HandleUpdate handles PUT /api/portfolio/{id}
// @Summary Edit a transaction
// @Description Update an owned transaction; the payload version must match the stored one
// @Tags portfolio
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param body body transactionRequest true "Transaction payload"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Security BearerAuth
// @Router /portfolio/{id} [put]
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}
	id := mux.Vars(r)["id"]

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.NewValidation("body", "is not valid JSON"))
		return
	}

	tx, err := req.toModel(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	tx.ID = id
	if tx.Version == 0 {
		// No version supplied: take the current one (last write wins).
		current, err := h.service.Get(r.Context(), user.ID, id)
		if err != nil {
			respondError(w, err)
			return
		}
		tx.Version = current.Version
	}

	if err := h.service.Update(r.Context(), tx); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

// HandleDelete handles DELETE /api/portfolio/{id}
// @Summary Delete a transaction
// @Description Delete an owned transaction
// @Tags portfolio
// @Param id path string true "Transaction ID"
// @Success 204 {string} string ""
// @Failure 404 {object} errorResponse
// @Security BearerAuth
// @Router /portfolio/{id} [delete]
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
