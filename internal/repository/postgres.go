package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/paymybuddy/backend/internal/models"
)

const uniqueViolation = "23505"

const accountColumns = `id, username, email, password, balance, created_at`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements Store on top of database/sql with the lib/pq driver
type PostgresStore struct {
	db *sql.DB
	q  querier
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Accounts() AccountRepository         { return &pgAccounts{q: s.q} }
func (s *PostgresStore) Transactions() TransactionRepository { return &pgTransactions{q: s.q} }
func (s *PostgresStore) Relations() RelationRepository       { return &pgRelations{q: s.q} }

func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	// already inside a transaction
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&PostgresStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.Balance, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

type pgAccounts struct {
	q querier
}

func (r *pgAccounts) findOne(ctx context.Context, where string, arg any) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE `+where, arg)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return a, nil
}

func (r *pgAccounts) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *pgAccounts) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *pgAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, "email = $1", strings.ToLower(email))
}

func (r *pgAccounts) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	// Lock accounts in consistent order to prevent deadlocks
	ordered := append([]int64(nil), ids...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	locked := make(map[int64]*models.Account, len(ordered))
	for _, id := range ordered {
		if _, ok := locked[id]; ok {
			continue
		}
		a, err := r.findOne(ctx, "id = $1 FOR UPDATE", id)
		if err != nil {
			return nil, err
		}
		locked[id] = a
	}
	return locked, nil
}

func (r *pgAccounts) Create(ctx context.Context, account *models.Account) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		account.Username, strings.ToLower(account.Email), account.Password, account.Balance,
	).Scan(&account.ID, &account.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *pgAccounts) Save(ctx context.Context, account *models.Account) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET username = $1, email = $2, password = $3, balance = $4
		WHERE id = $5`,
		account.Username, strings.ToLower(account.Email), account.Password, account.Balance, account.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type pgTransactions struct {
	q querier
}

func (r *pgTransactions) Save(ctx context.Context, tx *models.Transaction) error {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO transactions (sender_id, receiver_id, description, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		tx.SenderID, tx.ReceiverID, tx.Description, tx.Amount, tx.CreatedAt,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *pgTransactions) FindRelevant(ctx context.Context, userID int64, offset, limit int) ([]models.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT t.id, t.sender_id, t.receiver_id, t.description, t.amount, t.created_at,
			s.username, r.username
		FROM transactions t
		JOIN users s ON s.id = t.sender_id
		JOIN users r ON r.id = t.receiver_id
		WHERE t.sender_id = $1 OR t.receiver_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Description, &t.Amount, &t.CreatedAt,
			&t.SenderName, &t.ReceiverName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *pgTransactions) CountRelevant(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE sender_id = $1 OR receiver_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

type pgRelations struct {
	q querier
}

func (r *pgRelations) Exists(ctx context.Context, ownerID, friendID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_relations WHERE owner_id = $1 AND friend_id = $2)`,
		ownerID, friendID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query relation: %w", err)
	}
	return exists, nil
}

func (r *pgRelations) Insert(ctx context.Context, ownerID, friendID int64) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO user_relations (owner_id, friend_id) VALUES ($1, $2)`, ownerID, friendID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert relation: %w", err)
	}
	return nil
}

func (r *pgRelations) ListFriends(ctx context.Context, ownerID int64) ([]models.Account, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.password, u.balance, u.created_at
		FROM user_relations ur
		JOIN users u ON u.id = ur.friend_id
		WHERE ur.owner_id = $1
		ORDER BY u.username`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, *a)
	}
	return friends, rows.Err()
}
