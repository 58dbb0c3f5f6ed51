package services

import (
	"context"
	"errors"
	"strings"

	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/repository"
)

// findAccount resolves a user-supplied identifier to an account
func findAccount(ctx context.Context, accounts repository.AccountRepository, field config.LookupField, identifier string) (*models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, invalidArgument("an account identifier is required")
	}

	var (
		account *models.Account
		err     error
	)
	switch field {
	case config.LookupByEmail:
		account, err = accounts.FindByEmail(ctx, identifier)
	default:
		account, err = accounts.FindByUsername(ctx, identifier)
	}

	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("no account found for " + string(field) + " " + identifier)
	}
	if err != nil {
		return nil, storageFailure("failed to look up account", err)
	}
	return account, nil
}
