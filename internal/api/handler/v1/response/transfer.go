package response

import (
	"time"

	"github.com/eventhive/ticketing-api/internal/domain"
)

type Transfer struct {
	ID        uint   `json:"id"`
	EventID   uint   `json:"event_id"`
	Amount    string `json:"amount"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type Balance struct {
	EventID uint   `json:"event_id"`
	Amount  string `json:"amount"`
}

func NewTransfer(t domain.Transfer) Transfer {
	return Transfer{
		ID:        t.ID,
		EventID:   t.EventID,
		Amount:    t.Amount.StringFixed(2),
		Reference: t.Reference,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func NewTransfers(transfers []domain.Transfer) []Transfer {
	result := make([]Transfer, len(transfers))
	for i, t := range transfers {
		result[i] = NewTransfer(t)
	}

	return result
}
