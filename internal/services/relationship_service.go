package services

import (
	"context"
	"errors"
	"log"

	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/repository"
)

// RelationshipService owns the directed "can pay" relation between accounts
type RelationshipService struct {
	store  repository.Store
	audit  *audit.Logger
	lookup config.LookupField
}

func NewRelationshipService(store repository.Store, cfg *config.PaymentConfig, auditLogger *audit.Logger) *RelationshipService {
	return &RelationshipService{
		store:  store,
		audit:  auditLogger,
		lookup: cfg.FriendLookup,
	}
}

// AddRelation lets ownerID pay the account matching friendIdentifier
func (s *RelationshipService) AddRelation(ctx context.Context, ownerID int64, friendIdentifier string) (*models.Account, error) {
	friend, err := findAccount(ctx, s.store.Accounts(), s.lookup, friendIdentifier)
	if err != nil {
		return nil, report(s.audit, "relation", ownerID, err)
	}

	if err := s.addResolved(ctx, ownerID, friend); err != nil {
		return nil, report(s.audit, "relation", ownerID, err)
	}
	return friend, nil
}

// AddRelationByID is AddRelation for a friend already known by id
func (s *RelationshipService) AddRelationByID(ctx context.Context, ownerID, friendID int64) (*models.Account, error) {
	friend, err := s.store.Accounts().FindByID(ctx, friendID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, report(s.audit, "relation", ownerID, notFound("account not found"))
	}
	if err != nil {
		return nil, report(s.audit, "relation", ownerID, storageFailure("failed to look up account", err))
	}

	if err := s.addResolved(ctx, ownerID, friend); err != nil {
		return nil, report(s.audit, "relation", ownerID, err)
	}
	return friend, nil
}

func (s *RelationshipService) addResolved(ctx context.Context, ownerID int64, friend *models.Account) error {
	if friend.ID == ownerID {
		return invalidArgument("you cannot add yourself as a relation")
	}

	exists, err := s.store.Relations().Exists(ctx, ownerID, friend.ID)
	if err != nil {
		return storageFailure("failed to check relation", err)
	}
	if exists {
		return alreadyExists(friend.Username + " is already in your relations")
	}

	// The unique constraint still guards concurrent inserts of the same pair
	err = s.store.Relations().Insert(ctx, ownerID, friend.ID)
	if errors.Is(err, repository.ErrDuplicate) {
		return alreadyExists(friend.Username + " is already in your relations")
	}
	if err != nil {
		return storageFailure("failed to add relation", err)
	}

	log.Printf("[RELATION] Account %d can now pay account %d", ownerID, friend.ID)
	return nil
}

// IsAuthorized reports whether ownerID may pay friendID. It always reads the store.
func (s *RelationshipService) IsAuthorized(ctx context.Context, ownerID, friendID int64) (bool, error) {
	ok, err := s.store.Relations().Exists(ctx, ownerID, friendID)
	if err != nil {
		return false, storageFailure("failed to check relation", err)
	}
	return ok, nil
}

func (s *RelationshipService) ListFriends(ctx context.Context, ownerID int64) ([]models.Account, error) {
	friends, err := s.store.Relations().ListFriends(ctx, ownerID)
	if err != nil {
		return nil, report(s.audit, "relation", ownerID, storageFailure("failed to list relations", err))
	}
	return friends, nil
}
