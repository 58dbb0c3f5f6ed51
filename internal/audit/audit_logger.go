package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityError = "ERROR"
)

type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	Severity      string    `json:"severity"`
	EventType     string    `json:"event_type"`
	Operation     string    `json:"operation,omitempty"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	AccountID     int64     `json:"account_id,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Status        string    `json:"status"`
	Details       any       `json:"details,omitempty"`
}

// Logger writes one JSON line per audited event
type Logger struct {
	printf func(format string, v ...any)
}

func NewLogger() *Logger {
	return &Logger{printf: log.Printf}
}

// NewLoggerWithOutput is used by tests to capture events
func NewLoggerWithOutput(printf func(format string, v ...any)) *Logger {
	return &Logger{printf: printf}
}

func (a *Logger) LogTransfer(transactionID, fromAccount, toAccount int64, amount decimal.Decimal) {
	a.log(Event{
		Severity:      SeverityInfo,
		EventType:     "TRANSFER",
		Operation:     "transfer",
		TransactionID: transactionID,
		AccountID:     fromAccount,
		Amount:        amount.StringFixed(2),
		Status:        "SUCCESS",
		Details: map[string]int64{
			"from_account": fromAccount,
			"to_account":   toAccount,
		},
	})
}

// LogRejection records a business-rule rejection
func (a *Logger) LogRejection(operation string, accountID int64, kind, reason string) {
	a.log(Event{
		Severity:  SeverityWarn,
		EventType: "REJECTED",
		Operation: operation,
		AccountID: accountID,
		Status:    kind,
		Details:   map[string]string{"reason": reason},
	})
}

func (a *Logger) LogError(operation string, accountID int64, err error) {
	a.log(Event{
		Severity:  SeverityError,
		EventType: "ERROR",
		Operation: operation,
		AccountID: accountID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	event.Timestamp = time.Now()
	data, _ := json.Marshal(event)
	a.printf("AUDIT: %s", string(data))
}
