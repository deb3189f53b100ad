// Package payment defines the contract this service needs from an
// external payment provider: initialize a hosted checkout for a paid
// order, and initiate a payout transfer to an organizer's bank account.
// Webhook delivery is provider-specific and lives with the provider
// implementation.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrGateway marks provider-side failures. Callers treat anything
// wrapping it as retryable.
var ErrGateway = errors.New("payment gateway error")

type InitializeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Reference   string
	Email       string
	CallbackURL string
}

type InitializeResult struct {
	CheckoutURL string
	AccessCode  string
	Reference   string
}

type TransferRequest struct {
	Amount        decimal.Decimal
	Currency      string
	Reference     string
	Reason        string
	AccountName   string
	AccountNumber string
	BankCode      string
}

type TransferResult struct {
	TransferCode string
	Status       string
}

type Gateway interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (TransferResult, error)
}

// CallbackStatus is the provider-neutral meaning of a webhook delivery.
type CallbackStatus string

const (
	CallbackSuccess CallbackStatus = "success"
	CallbackFailed  CallbackStatus = "failed"
	CallbackPending CallbackStatus = "pending"
)
