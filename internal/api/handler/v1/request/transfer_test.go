package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTransferRequest_Validate(t *testing.T) {
	valid := CreateTransferRequest{
		EventID:       10,
		AccountName:   "Ada Organizer",
		AccountNumber: "0123456789",
		BankCode:      "058",
	}

	assert.NoError(t, valid.Validate())

	missingEvent := valid
	missingEvent.EventID = 0
	assert.Error(t, missingEvent.Validate())

	shortAccount := valid
	shortAccount.AccountNumber = "12"
	assert.Error(t, shortAccount.Validate())

	noBank := valid
	noBank.BankCode = ""
	assert.Error(t, noBank.Validate())
}
