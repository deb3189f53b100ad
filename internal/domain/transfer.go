package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferProcessing TransferStatus = "processing"
	TransferCompleted  TransferStatus = "completed"
	TransferFailed     TransferStatus = "failed"
)

// BankAccount is the payout destination snapshot kept on a transfer.
// It is copied at request time so later edits to the organizer's
// account details do not rewrite payout history.
type BankAccount struct {
	AccountName   string
	AccountNumber string
	BankCode      string
}

// Transfer is one payout batch: the accumulated organizer net of a set
// of completed orders for one event, paid out in a single gateway call.
type Transfer struct {
	ID          uint
	EventID     uint
	OrganizerID uint

	Amount    decimal.Decimal
	Reference string
	Status    TransferStatus
	Account   BankAccount

	CreatedAt time.Time
	UpdatedAt time.Time
}
