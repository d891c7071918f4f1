// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"centledger/internal/api/types"
	"centledger/internal/auth"
	"centledger/internal/domain"
	"centledger/internal/service"
	"centledger/internal/util"
)

// LedgerHandler handles HTTP requests for transfers, reversals and the
// transaction read side.
type LedgerHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateTransferRequest represents the request body for a transfer. The
// sender is always the authenticated account, never a request field.
type CreateTransferRequest struct {
	ReceiverID  uuid.UUID `json:"receiver_id"`
	AmountCents int64     `json:"amount_cents"`
	Description *string   `json:"description,omitempty"`
}

// CreateTransfer handles the transfer creation request.
// POST /transactions
func (h *LedgerHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	senderID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(h.logger, w, http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ReceiverID == uuid.Nil || req.AmountCents <= 0 {
		respondWithError(h.logger, w, util.ErrInvalidAmount)
		return
	}

	transaction, err := h.service.CreateTransfer(r.Context(), senderID, req.ReceiverID, req.AmountCents, req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, transaction)
}

// ReverseTransactionRequest represents the request body for a reversal.
type ReverseTransactionRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ReverseTransaction handles the reversal request.
// POST /transactions/{transactionID}/reverse
func (h *LedgerHandler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondWithError(h.logger, w, util.ErrTransactionNotFound)
		return
	}

	var req ReverseTransactionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithJSON(h.logger, w, http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	transaction, err := h.service.ReverseTransaction(r.Context(), transactionID, accountID, req.Reason)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, transaction)
}

// GetTransaction handles the single-transaction read request.
// GET /transactions/{transactionID}
func (h *LedgerHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondWithError(h.logger, w, util.ErrTransactionNotFound)
		return
	}

	detail, err := h.service.GetTransaction(r.Context(), transactionID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, detail)
}

// ListTransactions handles the transaction history request for the
// authenticated account.
// GET /transactions
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	details, err := h.service.ListTransactionsForAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.ListResponse[domain.TransactionDetail]{
		Data:  details,
		Count: len(details),
	})
}

// GetBalance handles the balance read request for the authenticated account.
// GET /accounts/me/balance
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"account_id":    account.ID,
		"balance_cents": account.BalanceCents,
	})
}
