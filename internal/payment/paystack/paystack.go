// Package paystack implements payment.Gateway against the Paystack
// REST API: hosted checkout initialization for orders and recipient +
// transfer creation for organizer payouts.
package paystack

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/eventhive/ticketing-api/internal/payment"
)

var minorUnits = decimal.NewFromInt(100)

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

func (c *Client) InitializeTransaction(ctx context.Context, req payment.InitializeRequest) (payment.InitializeResult, error) {
	body := initializeRequest{
		Email:       req.Email,
		Amount:      req.Amount.Mul(minorUnits).IntPart(),
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	}

	var data initializeData
	if err := c.post(ctx, "/transaction/initialize", body, &data); err != nil {
		return payment.InitializeResult{}, err
	}

	return payment.InitializeResult{
		CheckoutURL: data.AuthorizationURL,
		AccessCode:  data.AccessCode,
		Reference:   data.Reference,
	}, nil
}

type recipientRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency,omitempty"`
}

type recipientData struct {
	RecipientCode string `json:"recipient_code"`
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

type transferData struct {
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
}

// InitiateTransfer creates a transfer recipient for the organizer's
// account snapshot and pushes the payout from the platform balance.
// Paystack settles transfers asynchronously; the returned status is
// the initial one ("pending" or "success").
func (c *Client) InitiateTransfer(ctx context.Context, req payment.TransferRequest) (payment.TransferResult, error) {
	var recipient recipientData
	err := c.post(ctx, "/transferrecipient", recipientRequest{
		Type:          "nuban",
		Name:          req.AccountName,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
		Currency:      req.Currency,
	}, &recipient)
	if err != nil {
		return payment.TransferResult{}, err
	}

	var data transferData
	err = c.post(ctx, "/transfer", transferRequest{
		Source:    "balance",
		Amount:    req.Amount.Mul(minorUnits).IntPart(),
		Recipient: recipient.RecipientCode,
		Reference: req.Reference,
		Reason:    req.Reason,
		Currency:  req.Currency,
	}, &data)
	if err != nil {
		return payment.TransferResult{}, err
	}

	return payment.TransferResult{
		TransferCode: data.TransferCode,
		Status:       data.Status,
	}, nil
}
