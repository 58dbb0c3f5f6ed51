package services

import (
	"context"
	"math"

	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/repository"
)

// LedgerService reads the transaction ledger from one user's point of view
type LedgerService struct {
	store       repository.Store
	audit       *audit.Logger
	maxPageSize int
}

func NewLedgerService(store repository.Store, cfg *config.PaymentConfig, auditLogger *audit.Logger) *LedgerService {
	return &LedgerService{
		store:       store,
		audit:       auditLogger,
		maxPageSize: cfg.HistoryMaxPageSize,
	}
}

// History returns page (0-indexed) of userID's transactions, newest first.
// Sent amounts are negative, received amounts positive. A page past the end
// is empty rather than an error.
func (s *LedgerService) History(ctx context.Context, userID int64, page, pageSize int) ([]models.HistoryEntry, error) {
	if page < 0 {
		return nil, report(s.audit, "history", userID, invalidArgument("page must not be negative"))
	}
	if pageSize <= 0 {
		return nil, report(s.audit, "history", userID, invalidArgument("page size must be positive"))
	}
	pageSize = s.ClampPageSize(pageSize)
	// an offset that overflows int is necessarily past the end
	if page > (math.MaxInt-pageSize)/pageSize {
		return []models.HistoryEntry{}, nil
	}

	txs, err := s.store.Transactions().FindRelevant(ctx, userID, page*pageSize, pageSize)
	if err != nil {
		return nil, report(s.audit, "history", userID, storageFailure("failed to load transactions", err))
	}

	entries := make([]models.HistoryEntry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, project(userID, tx))
	}
	return entries, nil
}

// Count returns how many transactions userID sent or received
func (s *LedgerService) Count(ctx context.Context, userID int64) (int, error) {
	count, err := s.store.Transactions().CountRelevant(ctx, userID)
	if err != nil {
		return 0, report(s.audit, "history", userID, storageFailure("failed to count transactions", err))
	}
	return count, nil
}

// ClampPageSize applies the configured maximum page size
func (s *LedgerService) ClampPageSize(pageSize int) int {
	if s.maxPageSize > 0 && pageSize > s.maxPageSize {
		return s.maxPageSize
	}
	return pageSize
}

// TotalPages is ceil(count / pageSize)
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

func project(userID int64, tx models.Transaction) models.HistoryEntry {
	entry := models.HistoryEntry{
		TransactionID: tx.ID,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	}
	if tx.SenderID == userID {
		entry.Counterparty = tx.ReceiverName
		entry.SignedAmount = tx.Amount.Neg()
	} else {
		entry.Counterparty = tx.SenderName
		entry.SignedAmount = tx.Amount
	}
	return entry
}
