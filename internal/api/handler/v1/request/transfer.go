package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateTransferRequest struct {
	EventID       uint   `json:"event_id" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	BankCode      string `json:"bank_code" binding:"required"`
}

func (req *CreateTransferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.AccountName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.AccountNumber, validation.Required, validation.Length(6, 20)),
		validation.Field(&req.BankCode, validation.Required, validation.Length(2, 10)),
	)
}
