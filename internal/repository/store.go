package repository

import (
	"context"
	"errors"

	"github.com/paymybuddy/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AccountRepository looks up and persists user accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// LockByIDs loads the given accounts and holds them until the enclosing
	// transaction ends. Rows are locked in ascending id order.
	LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Save(ctx context.Context, account *models.Account) error
}

// TransactionRepository stores ledger entries. Entries are never updated.
type TransactionRepository interface {
	Save(ctx context.Context, tx *models.Transaction) error
	// FindRelevant returns transactions where userID is sender or receiver,
	// newest first (created_at DESC, id DESC).
	FindRelevant(ctx context.Context, userID int64, offset, limit int) ([]models.Transaction, error)
	CountRelevant(ctx context.Context, userID int64) (int, error)
}

// RelationRepository stores the directed "can pay" relation
type RelationRepository interface {
	Exists(ctx context.Context, ownerID, friendID int64) (bool, error)
	// Insert fails with ErrDuplicate if the pair is already present
	Insert(ctx context.Context, ownerID, friendID int64) error
	ListFriends(ctx context.Context, ownerID int64) ([]models.Account, error)
}

// Store groups the repositories and provides the atomic boundary used by transfers
type Store interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Relations() RelationRepository
	// WithTx runs fn against a store bound to a single transaction. If fn returns
	// an error nothing it wrote is kept.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
