package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/paymybuddy/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountCols = []string{"id", "username", "email", "password", "balance", "created_at"}

func TestPostgresStore_Accounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("find by username", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = \\$1").
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(2, "bob", "bob@example.com", "hash", "10.50", now))

		a, err := store.Accounts().FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(2), a.ID)
		assert.True(t, decimal.RequireFromString("10.50").Equal(a.Balance))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find by email lower-cases input", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
			WithArgs("bob@example.com").
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(2, "bob", "bob@example.com", "hash", "0", now))

		a, err := store.Accounts().FindByEmail(ctx, "Bob@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "bob", a.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(accountCols))

		_, err := store.Accounts().FindByID(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create maps unique violation", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("bob", "bob@example.com", "hash", sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.Accounts().Create(ctx, &models.Account{Username: "bob", Email: "Bob@example.com", Password: "hash", Balance: decimal.Zero})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create returns id", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("carol", "carol@example.com", "hash", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now))

		a := &models.Account{Username: "carol", Email: "carol@example.com", Password: "hash", Balance: decimal.Zero}
		require.NoError(t, store.Accounts().Create(ctx, a))
		assert.Equal(t, int64(3), a.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save missing account", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET username = \\$1, email = \\$2, password = \\$3, balance = \\$4 WHERE id = \\$5").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Accounts().Save(ctx, &models.Account{ID: 42, Username: "x", Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_LockByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	now := time.Now()

	mock.ExpectBegin()
	// Locks are taken in ascending id order regardless of argument order
	mock.ExpectQuery("FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, "alice", "alice@example.com", "h", "2000.00", now))
	mock.ExpectQuery("FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(2, "bob", "bob@example.com", "h", "0.00", now))
	mock.ExpectCommit()

	var locked map[int64]*models.Account
	err = store.WithTx(context.Background(), func(tx Store) error {
		var err error
		locked, err = tx.Accounts().LockByIDs(context.Background(), 2, 1)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, locked, 2)
	assert.Equal(t, "alice", locked[1].Username)
	assert.Equal(t, "bob", locked[2].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	t.Run("rolls back on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithTx(context.Background(), func(tx Store) error {
			if err := tx.Accounts().Save(context.Background(), &models.Account{ID: 1, Username: "a", Email: "a@example.com"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := store.WithTx(context.Background(), func(tx Store) error { return nil })
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := store.WithTx(context.Background(), func(tx Store) error { return nil })
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Transactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("save assigns id", func(t *testing.T) {
		tx := &models.Transaction{SenderID: 1, ReceiverID: 2, Description: "rent", Amount: decimal.RequireFromString("500.00"), CreatedAt: now}

		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(1), int64(2), "rent", tx.Amount, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		require.NoError(t, store.Transactions().Save(ctx, tx))
		assert.Equal(t, int64(7), tx.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find relevant", func(t *testing.T) {
		cols := []string{"id", "sender_id", "receiver_id", "description", "amount", "created_at", "username", "username"}
		mock.ExpectQuery("WHERE t.sender_id = \\$1 OR t.receiver_id = \\$1 ORDER BY t.created_at DESC, t.id DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs(int64(1), 10, 0).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(2, 3, 1, "lunch", "20.00", now, "carol", "alice").
				AddRow(1, 1, 2, "rent", "15.00", now.Add(-time.Minute), "alice", "bob"))

		txs, err := store.Transactions().FindRelevant(ctx, 1, 0, 10)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "carol", txs[0].SenderName)
		assert.Equal(t, "bob", txs[1].ReceiverName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count relevant", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions WHERE sender_id = \\$1 OR receiver_id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := store.Transactions().CountRelevant(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Relations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(1), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := store.Relations().Exists(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert duplicate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO user_relations").
			WithArgs(int64(1), int64(2)).
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.Relations().Insert(ctx, 1, 2)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list friends", func(t *testing.T) {
		mock.ExpectQuery("FROM user_relations ur JOIN users u ON u.id = ur.friend_id WHERE ur.owner_id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(accountCols).
				AddRow(2, "bob", "bob@example.com", "h", "0", time.Now()))

		friends, err := store.Relations().ListFriends(ctx, 1)
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, "bob", friends[0].Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
