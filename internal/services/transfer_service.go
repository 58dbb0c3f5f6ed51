package services

import (
	"context"
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// TransferService moves money between two accounts and records the ledger entry
type TransferService struct {
	store     repository.Store
	relations *RelationshipService
	audit     *audit.Logger
	lookup    config.LookupField
	now       func() time.Time
}

func NewTransferService(store repository.Store, relations *RelationshipService, cfg *config.PaymentConfig, auditLogger *audit.Logger) *TransferService {
	return &TransferService{
		store:     store,
		relations: relations,
		audit:     auditLogger,
		lookup:    cfg.ReceiverLookup,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Transfer debits senderID and credits the account matching receiverIdentifier.
// Checks run in order and stop at the first failure; nothing is written unless
// all of them pass, and the two balance updates and the ledger row are
// committed together.
func (s *TransferService) Transfer(ctx context.Context, senderID int64, receiverIdentifier string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	receiver, err := findAccount(ctx, s.store.Accounts(), s.lookup, receiverIdentifier)
	if err != nil {
		return nil, report(s.audit, "transfer", senderID, err)
	}

	if receiver.ID == senderID {
		return nil, report(s.audit, "transfer", senderID, invalidArgument("you cannot pay yourself"))
	}

	authorized, err := s.relations.IsAuthorized(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, report(s.audit, "transfer", senderID, err)
	}
	if !authorized {
		return nil, report(s.audit, "transfer", senderID, invalidArgument("receiver is not an authorized relation"))
	}

	if err := validateAmount(amount); err != nil {
		return nil, report(s.audit, "transfer", senderID, err)
	}

	if utf8.RuneCountInString(description) > models.MaxDescriptionLength {
		return nil, report(s.audit, "transfer", senderID, invalidArgument("description must be at most 255 characters"))
	}

	var ledgerEntry *models.Transaction
	var senderName string
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Accounts().LockByIDs(ctx, senderID, receiver.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("account not found")
		}
		if err != nil {
			return storageFailure("failed to lock accounts", err)
		}

		sender, recipient := locked[senderID], locked[receiver.ID]
		senderName = sender.Username
		// equality is allowed: a transfer may empty the balance
		if sender.Balance.LessThan(amount) {
			return insufficientFunds("insufficient balance")
		}

		sender.Balance = sender.Balance.Sub(amount)
		recipient.Balance = recipient.Balance.Add(amount)

		if err := tx.Accounts().Save(ctx, sender); err != nil {
			return storageFailure("failed to debit sender", err)
		}
		if err := tx.Accounts().Save(ctx, recipient); err != nil {
			return storageFailure("failed to credit receiver", err)
		}

		ledgerEntry = &models.Transaction{
			SenderID:    senderID,
			ReceiverID:  receiver.ID,
			Description: description,
			Amount:      amount,
			CreatedAt:   s.now(),
		}
		if err := tx.Transactions().Save(ctx, ledgerEntry); err != nil {
			return storageFailure("failed to record transaction", err)
		}
		return nil
	})
	if err != nil {
		var svcErr *Error
		if !errors.As(err, &svcErr) {
			err = storageFailure("failed to commit transfer", err)
		}
		return nil, report(s.audit, "transfer", senderID, err)
	}

	ledgerEntry.SenderName = senderName
	ledgerEntry.ReceiverName = receiver.Username

	log.Printf("[TRANSFER] Transaction %d: account %d paid %s to account %d", ledgerEntry.ID, senderID, amount.StringFixed(2), receiver.ID)
	s.audit.LogTransfer(ledgerEntry.ID, senderID, receiver.ID, amount)
	return ledgerEntry, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidArgument("amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return invalidArgument("amount must have at most 2 decimal places")
	}
	return nil
}
