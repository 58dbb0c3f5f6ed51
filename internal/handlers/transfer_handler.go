package handlers

import (
	"net/http"
	"strconv"

	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/services"
	"github.com/shopspring/decimal"
)

// TransferRequest represents a payment to a relation
// @Description Transfer request structure
type TransferRequest struct {
	Receiver    string           `json:"receiver" validate:"required,max=100" example:"bob"`                 // Username, or email depending on TRANSFER_RECEIVER_LOOKUP
	Amount      *decimal.Decimal `json:"amount" validate:"required" swaggertype:"string" example:"500.00"` // Positive, at most 2 decimal places
	Description string           `json:"description" example:"rent"`                                        // Optional, at most 255 characters
}

// HistoryResponse is one page of the caller's transactions
// @Description Transaction history page
type HistoryResponse struct {
	Entries    []models.HistoryEntry `json:"entries"`
	Page       int                   `json:"page" example:"0"`
	Size       int                   `json:"size" example:"5"`
	TotalCount int                   `json:"totalCount" example:"12"`
	TotalPages int                   `json:"totalPages" example:"3"`
}

type TransferHandler struct {
	transfers       *services.TransferService
	ledger          *services.LedgerService
	validator       *services.ValidationHelper
	defaultPageSize int
}

func NewTransferHandler(transfers *services.TransferService, ledger *services.LedgerService, defaultPageSize int) *TransferHandler {
	return &TransferHandler{
		transfers:       transfers,
		ledger:          ledger,
		validator:       services.NewValidationHelper(),
		defaultPageSize: defaultPageSize,
	}
}

// Transfer sends money to a relation
// @Summary Send money
// @Description Debit the caller and credit a relation atomically. Supports an Idempotency-Key header.
// @Tags transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body TransferRequest true "Transfer request"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} services.ErrorResponse "Invalid amount, description, self transfer or missing relation"
// @Failure 404 {object} services.ErrorResponse "Receiver not found"
// @Failure 409 {object} services.ErrorResponse "Duplicate request in progress"
// @Failure 422 {object} services.ErrorResponse "Insufficient funds"
// @Failure 500 {object} services.ErrorResponse
// @Router /transfers [post]
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	tx, err := h.transfers.Transfer(r.Context(), userID, req.Receiver, *req.Amount, req.Description)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// History returns one page of the caller's transactions
// @Summary Transaction history
// @Description Sent and received transactions, newest first. Sent amounts are negative.
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param page query int false "0-indexed page" default(0)
// @Param size query int false "Page size" default(5)
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /transfers/history [get]
func (h *TransferHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 0)
	if err != nil {
		services.SendErrorResponse(w, "page must be an integer", http.StatusBadRequest, nil)
		return
	}
	size, err := queryInt(r, "size", h.defaultPageSize)
	if err != nil {
		services.SendErrorResponse(w, "size must be an integer", http.StatusBadRequest, nil)
		return
	}

	entries, err := h.ledger.History(r.Context(), userID, page, size)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	count, err := h.ledger.Count(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	size = h.ledger.ClampPageSize(size)
	writeJSON(w, http.StatusOK, HistoryResponse{
		Entries:    entries,
		Page:       page,
		Size:       size,
		TotalCount: count,
		TotalPages: services.TotalPages(count, size),
	})
}

func queryInt(r *http.Request, name string, defaultVal int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
