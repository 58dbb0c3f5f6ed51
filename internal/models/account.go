package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a registered user and the balance they can pay from
type Account struct {
	ID        int64           `json:"id" db:"id" example:"1"`
	Username  string          `json:"username" db:"username" example:"alice"`
	Email     string          `json:"email" db:"email" example:"alice@example.com"`
	Password  string          `json:"-" db:"password"`
	Balance   decimal.Decimal `json:"balance" db:"balance" swaggertype:"string" example:"2000.00"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Clone returns a copy safe to mutate without touching the original
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// AccountSummary is the public view of an account shown to other users
type AccountSummary struct {
	ID       int64  `json:"id" example:"2"`
	Username string `json:"username" example:"bob"`
	Email    string `json:"email" example:"bob@example.com"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Username: a.Username, Email: a.Email}
}
