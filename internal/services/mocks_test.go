package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/paymybuddy/backend/internal/audit"
	"github.com/paymybuddy/backend/internal/config"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore hands out the mocked repositories. WithTx runs fn against the
// same mocks unless an error is programmed for it.
type MockStore struct {
	mock.Mock
	AccountRepo     *MockAccountRepository
	TransactionRepo *MockTransactionRepository
	RelationRepo    *MockRelationRepository
}

func NewMockStore() *MockStore {
	return &MockStore{
		AccountRepo:     &MockAccountRepository{},
		TransactionRepo: &MockTransactionRepository{},
		RelationRepo:    &MockRelationRepository{},
	}
}

func (m *MockStore) Accounts() repository.AccountRepository         { return m.AccountRepo }
func (m *MockStore) Transactions() repository.TransactionRepository { return m.TransactionRepo }
func (m *MockStore) Relations() repository.RelationRepository       { return m.RelationRepo }

func (m *MockStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) account(args mock.Arguments) (*models.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return m.account(m.Called(ctx, id))
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return m.account(m.Called(ctx, username))
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.account(m.Called(ctx, email))
}

func (m *MockAccountRepository) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *models.Account) error {
	return m.Called(ctx, account).Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) FindRelevant(ctx context.Context, userID int64, offset, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountRelevant(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockRelationRepository struct {
	mock.Mock
}

func (m *MockRelationRepository) Exists(ctx context.Context, ownerID, friendID int64) (bool, error) {
	args := m.Called(ctx, ownerID, friendID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationRepository) Insert(ctx context.Context, ownerID, friendID int64) error {
	return m.Called(ctx, ownerID, friendID).Error(0)
}

func (m *MockRelationRepository) ListFriends(ctx context.Context, ownerID int64) ([]models.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

// auditRecorder captures audit lines so tests can assert on them
type auditRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *auditRecorder) printf(format string, v ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := format
	if len(v) > 0 {
		line = strings.Replace(format, "%s", v[0].(string), 1)
	}
	r.lines = append(r.lines, line)
}

func (r *auditRecorder) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func newAuditRecorder() (*auditRecorder, *audit.Logger) {
	r := &auditRecorder{}
	return r, audit.NewLoggerWithOutput(r.printf)
}

func testPaymentConfig() *config.PaymentConfig {
	return &config.PaymentConfig{
		HistoryPageSize:    5,
		HistoryMaxPageSize: 100,
		ReceiverLookup:     config.LookupByUsername,
		FriendLookup:       config.LookupByEmail,
	}
}

func seedAccount(t *testing.T, store repository.Store, username, balance string) *models.Account {
	t.Helper()
	a := &models.Account{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Balance:  decimal.RequireFromString(balance),
	}
	require.NoError(t, store.Accounts().Create(context.Background(), a))
	return a
}

func balanceOf(t *testing.T, store repository.Store, id int64) decimal.Decimal {
	t.Helper()
	a, err := store.Accounts().FindByID(context.Background(), id)
	require.NoError(t, err)
	return a.Balance
}
