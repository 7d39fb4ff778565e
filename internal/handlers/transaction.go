// internal/handlers/transaction.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// TransactionHandler serves /transactions.
type TransactionHandler struct {
	service ports.TransactionService
	logger  *slog.Logger
}

func NewTransactionHandler(service ports.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "transaction")),
	}
}

// RecordTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	typ, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	tx, err := h.service.Record(r.Context(), typ, *req.Amount, req.Note)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "transaction recorded",
		slog.String("reference", tx.ReferenceNumber),
		slog.String("amount", tx.Amount.StringFixed(2)))
	respondJSON(w, http.StatusCreated, tx)
}

// ListTransactions handles GET /api/v1/transactions?type=&sale_id=&start_date=&end_date=&page=&limit=
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	saleID, err := queryInt64(r, "sale_id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.list(w, r, saleID)
}

// ListSaleTransactions handles GET /api/v1/transactions/sale/{saleId}
func (h *TransactionHandler) ListSaleTransactions(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathID(r, "saleId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.list(w, r, saleID)
}

func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request, saleID int64) {
	var (
		filter = domain.TransactionFilter{SaleID: saleID}
		err    error
	)
	if t := r.URL.Query().Get("type"); t != "" {
		if filter.Type, err = domain.ParseTransactionType(t); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
	}
	if filter.StartDate, filter.EndDate, err = dateRange(r); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if filter.Page, err = queryInt(r, "page"); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}
