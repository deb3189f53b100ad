package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PayoutStatus tracks whether an order's organizer share has been
// swept into a transfer. Only meaningful once payment is completed.
type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutCompleted PayoutStatus = "completed"
)

type Order struct {
	ID           uint
	TicketTypeID uint
	EventID      uint
	BuyerID      uint

	Quantity        int
	TotalAmount     decimal.Decimal
	Commission      decimal.Decimal
	OrganizerAmount decimal.Decimal

	PaymentStatus     PaymentStatus
	ProviderReference string
	PayoutStatus      PayoutStatus
	TransferID        *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the order's payment status can no longer
// change. Terminal orders treat repeated gateway callbacks as no-ops.
func (o *Order) IsTerminal() bool {
	return o.PaymentStatus == PaymentCompleted || o.PaymentStatus == PaymentFailed
}

func (o *Order) IsFree() bool {
	return o.TotalAmount.IsZero()
}

// SplitAmount divides an order total between platform commission and
// organizer net. The commission is rounded to two decimal places and
// absorbs the rounding remainder, so commission + organizer == total
// holds exactly.
func SplitAmount(total, commissionRate decimal.Decimal) (commission, organizer decimal.Decimal) {
	commission = total.Mul(commissionRate).Round(2)
	organizer = total.Sub(commission)

	return commission, organizer
}
