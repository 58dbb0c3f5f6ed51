package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paymybuddy/backend/internal/models"
)

// MemoryStore is an in-process Store. A single mutex serialises every call,
// and WithTx holds it for the whole callback, restoring a snapshot on error.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memState
	inTx  bool
}

type memState struct {
	accounts      map[int64]*models.Account
	relations     map[int64]map[int64]time.Time
	transactions  []models.Transaction
	nextAccountID int64
	nextTxID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		state: &memState{
			accounts:  make(map[int64]*models.Account),
			relations: make(map[int64]map[int64]time.Time),
		},
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		accounts:      make(map[int64]*models.Account, len(s.accounts)),
		relations:     make(map[int64]map[int64]time.Time, len(s.relations)),
		transactions:  append([]models.Transaction(nil), s.transactions...),
		nextAccountID: s.nextAccountID,
		nextTxID:      s.nextTxID,
	}
	for id, a := range s.accounts {
		c.accounts[id] = a.Clone()
	}
	for owner, friends := range s.relations {
		m := make(map[int64]time.Time, len(friends))
		for f, at := range friends {
			m[f] = at
		}
		c.relations[owner] = m
	}
	return c
}

func (s *MemoryStore) guard() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Accounts() AccountRepository         { return &memAccounts{s: s} }
func (s *MemoryStore) Transactions() TransactionRepository { return &memTransactions{s: s} }
func (s *MemoryStore) Relations() RelationRepository       { return &memRelations{s: s} }

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&MemoryStore{mu: s.mu, state: s.state, inTx: true}); err != nil {
		*s.state = *snapshot
		return err
	}
	return nil
}

type memAccounts struct {
	s *MemoryStore
}

func (r *memAccounts) find(match func(a *models.Account) bool) (*models.Account, error) {
	for _, a := range r.s.state.accounts {
		if match(a) {
			return a.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memAccounts) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	defer r.s.guard()()
	a, ok := r.s.state.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

func (r *memAccounts) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	defer r.s.guard()()
	return r.find(func(a *models.Account) bool { return a.Username == username })
}

func (r *memAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	defer r.s.guard()()
	email = strings.ToLower(email)
	return r.find(func(a *models.Account) bool { return a.Email == email })
}

func (r *memAccounts) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	defer r.s.guard()()
	locked := make(map[int64]*models.Account, len(ids))
	for _, id := range ids {
		a, ok := r.s.state.accounts[id]
		if !ok {
			return nil, ErrNotFound
		}
		locked[id] = a.Clone()
	}
	return locked, nil
}

func (r *memAccounts) conflicts(account *models.Account) bool {
	email := strings.ToLower(account.Email)
	for id, a := range r.s.state.accounts {
		if id == account.ID {
			continue
		}
		if a.Username == account.Username || a.Email == email {
			return true
		}
	}
	return false
}

func (r *memAccounts) Create(ctx context.Context, account *models.Account) error {
	defer r.s.guard()()
	if r.conflicts(account) {
		return ErrDuplicate
	}

	r.s.state.nextAccountID++
	account.ID = r.s.state.nextAccountID
	account.Email = strings.ToLower(account.Email)
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	r.s.state.accounts[account.ID] = account.Clone()
	return nil
}

func (r *memAccounts) Save(ctx context.Context, account *models.Account) error {
	defer r.s.guard()()
	existing, ok := r.s.state.accounts[account.ID]
	if !ok {
		return ErrNotFound
	}
	if r.conflicts(account) {
		return ErrDuplicate
	}

	saved := account.Clone()
	saved.Email = strings.ToLower(saved.Email)
	saved.CreatedAt = existing.CreatedAt
	r.s.state.accounts[account.ID] = saved
	return nil
}

type memTransactions struct {
	s *MemoryStore
}

func (r *memTransactions) Save(ctx context.Context, tx *models.Transaction) error {
	defer r.s.guard()()
	r.s.state.nextTxID++
	tx.ID = r.s.state.nextTxID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	stored := *tx
	stored.SenderName, stored.ReceiverName = "", ""
	r.s.state.transactions = append(r.s.state.transactions, stored)
	return nil
}

func (r *memTransactions) relevant(userID int64) []models.Transaction {
	var out []models.Transaction
	for _, t := range r.s.state.transactions {
		if t.SenderID == userID || t.ReceiverID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (r *memTransactions) FindRelevant(ctx context.Context, userID int64, offset, limit int) ([]models.Transaction, error) {
	defer r.s.guard()()
	txs := r.relevant(userID)
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.After(txs[j].CreatedAt)
		}
		return txs[i].ID > txs[j].ID
	})

	if offset < 0 || offset >= len(txs) || limit <= 0 {
		return nil, nil
	}
	end := offset + limit
	if end > len(txs) {
		end = len(txs)
	}

	page := append([]models.Transaction(nil), txs[offset:end]...)
	for i := range page {
		if a, ok := r.s.state.accounts[page[i].SenderID]; ok {
			page[i].SenderName = a.Username
		}
		if a, ok := r.s.state.accounts[page[i].ReceiverID]; ok {
			page[i].ReceiverName = a.Username
		}
	}
	return page, nil
}

func (r *memTransactions) CountRelevant(ctx context.Context, userID int64) (int, error) {
	defer r.s.guard()()
	return len(r.relevant(userID)), nil
}

type memRelations struct {
	s *MemoryStore
}

func (r *memRelations) Exists(ctx context.Context, ownerID, friendID int64) (bool, error) {
	defer r.s.guard()()
	_, ok := r.s.state.relations[ownerID][friendID]
	return ok, nil
}

func (r *memRelations) Insert(ctx context.Context, ownerID, friendID int64) error {
	defer r.s.guard()()
	friends, ok := r.s.state.relations[ownerID]
	if !ok {
		friends = make(map[int64]time.Time)
		r.s.state.relations[ownerID] = friends
	}
	if _, exists := friends[friendID]; exists {
		return ErrDuplicate
	}
	friends[friendID] = time.Now().UTC()
	return nil
}

func (r *memRelations) ListFriends(ctx context.Context, ownerID int64) ([]models.Account, error) {
	defer r.s.guard()()
	var friends []models.Account
	for id := range r.s.state.relations[ownerID] {
		if a, ok := r.s.state.accounts[id]; ok {
			friends = append(friends, *a)
		}
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].Username < friends[j].Username })
	return friends, nil
}
