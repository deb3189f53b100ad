package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketKind string

const (
	TicketKindFree TicketKind = "free"
	TicketKindPaid TicketKind = "paid"
)

const (
	// FreeOrderLimit caps free ticket types at one ticket per order.
	FreeOrderLimit = 1

	// DefaultPaidOrderLimit applies when a paid ticket type has no
	// configured per-order limit, or one above the platform ceiling.
	DefaultPaidOrderLimit = 15
)

type TicketType struct {
	ID          uint
	EventID     uint
	OrganizerID uint

	Name      string
	Kind      TicketKind
	UnitPrice decimal.Decimal

	TotalQuantity     int
	RemainingQuantity int
	MaxPerOrder       int

	// Retired ticket types stay in place for the orders that reference
	// them but can no longer be purchased.
	Retired bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *TicketType) IsFree() bool {
	return t.Kind == TicketKindFree
}

func (t *TicketType) IsAvailable() bool {
	return !t.Retired && t.RemainingQuantity > 0
}

// EffectiveMaxPerOrder resolves the quantity cap for one order of this
// ticket type. Free types are always capped at one; paid types honour
// their configured limit up to the platform ceiling.
func (t *TicketType) EffectiveMaxPerOrder() int {
	if t.Kind == TicketKindFree {
		return FreeOrderLimit
	}

	if t.MaxPerOrder > 0 && t.MaxPerOrder < DefaultPaidOrderLimit {
		return t.MaxPerOrder
	}

	return DefaultPaidOrderLimit
}
