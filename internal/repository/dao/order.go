package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not pending")
)

type Order struct {
	ID           uint `gorm:"primaryKey"`
	TicketTypeID uint `gorm:"index;not null"`
	EventID      uint `gorm:"index;not null"`
	BuyerID      uint `gorm:"index;not null"`

	Quantity        int             `gorm:"not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Commission      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	OrganizerAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	PaymentStatus     string `gorm:"not null;default:pending"`
	ProviderReference string `gorm:"index"`

	OrganizerTransferStatus string `gorm:"not null;default:pending"`
	TransferID              *uint  `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

// Insert persists a paid order in pending state. No inventory is held;
// the decrement happens at settlement.
func (d *OrderDAO) Insert(ctx context.Context, order Order) (Order, error) {
	result := d.db.WithContext(ctx).Create(&order)
	if result.Error != nil {
		return Order{}, result.Error
	}

	return order, nil
}

// InsertFree persists a free order already completed, decrementing the
// ticket type's remaining count in the same transaction. Both succeed
// or both fail.
func (d *OrderDAO) InsertFree(ctx context.Context, order Order) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decrementRemaining(tx, order.TicketTypeID, order.Quantity); err != nil {
			return err
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) GetByID(ctx context.Context, id uint) (Order, error) {
	var order Order
	result := d.db.WithContext(ctx).First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) GetByReference(ctx context.Context, reference string) (Order, error) {
	var order Order
	result := d.db.WithContext(ctx).
		Where("provider_reference = ?", reference).
		First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) SetProviderReference(ctx context.Context, id uint, reference string) error {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", id).
		Update("provider_reference", reference)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Settle flips a pending order to completed and decrements inventory in
// one transaction. The status flip is conditional on the order still
// being pending, which makes concurrent duplicate callbacks lose the
// race cleanly instead of decrementing twice.
//
// When inventory is already exhausted the order is still completed and
// decremented reports false: the payment has been taken externally, so
// the oversold condition is the caller's to alert on, not to reject.
func (d *OrderDAO) Settle(ctx context.Context, id uint) (decremented bool, err error) {
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return err
		}

		result := tx.Model(&Order{}).
			Where("id = ? AND payment_status = ?", id, "pending").
			Update("payment_status", "completed")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotPending
		}

		decErr := decrementRemaining(tx, order.TicketTypeID, order.Quantity)
		if decErr == nil {
			decremented = true
			return nil
		}
		if errors.Is(decErr, ErrInsufficientInventory) {
			decremented = false
			return nil
		}

		return decErr
	})
	if err != nil {
		return false, err
	}

	return decremented, nil
}

// Fail flips a pending order to failed. No inventory action: paid
// orders never hold inventory before settlement.
func (d *OrderDAO) Fail(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND payment_status = ?", id, "pending").
		Update("payment_status", "failed")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotPending
	}

	return nil
}

// FailStale fails paid orders that have sat pending since before the
// cutoff, i.e. checkouts the buyer abandoned. The conditional update
// means a webhook racing the sweep still wins: terminal states are
// never overwritten.
func (d *OrderDAO) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("payment_status = ? AND created_at < ?", "pending", cutoff).
		Update("payment_status", "failed")
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// ListUntransferred returns the organizer's completed orders whose net
// share has not been swept into a payout yet, scoped to one event.
func (d *OrderDAO) ListUntransferred(ctx context.Context, organizerID, eventID uint) ([]Order, error) {
	var orders []Order
	result := d.db.WithContext(ctx).
		Joins("JOIN ticket_types ON ticket_types.id = orders.ticket_type_id").
		Where("ticket_types.organizer_id = ?", organizerID).
		Where("orders.event_id = ?", eventID).
		Where("orders.payment_status = ?", "completed").
		Where("orders.organizer_transfer_status = ?", "pending").
		Where("orders.organizer_amount > 0").
		Order("orders.id").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

func (d *OrderDAO) ListByBuyer(ctx context.Context, buyerID uint) ([]Order, error) {
	var orders []Order
	result := d.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}
