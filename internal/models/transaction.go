package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const MaxDescriptionLength = 255

// Transaction is an immutable ledger entry written once per successful transfer
type Transaction struct {
	ID          int64           `json:"id" db:"id"`
	SenderID    int64           `json:"sender_id" db:"sender_id"`
	ReceiverID  int64           `json:"receiver_id" db:"receiver_id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount" swaggertype:"string"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`

	// Populated on reads that join the users table
	SenderName   string `json:"sender_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
}

// HistoryEntry is one transaction projected for the viewing user:
// sent transactions carry a negative amount, received ones a positive amount.
type HistoryEntry struct {
	TransactionID int64           `json:"transaction_id"`
	Counterparty  string          `json:"counterparty" example:"bob"`
	Description   string          `json:"description" example:"rent"`
	SignedAmount  decimal.Decimal `json:"amount" swaggertype:"string" example:"-500.00"`
	CreatedAt     time.Time       `json:"created_at"`
}
