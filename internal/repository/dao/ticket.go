package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTicketTypeNotFound    = errors.New("ticket type not found")
	ErrInsufficientInventory = errors.New("insufficient ticket inventory")
)

type TicketType struct {
	ID          uint `gorm:"primaryKey"`
	EventID     uint `gorm:"index;not null"`
	OrganizerID uint `gorm:"index;not null"`

	Name      string          `gorm:"not null"`
	Kind      string          `gorm:"not null"` // "free" or "paid"
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	TotalQuantity     int `gorm:"not null"`
	RemainingQuantity int `gorm:"not null"`
	MaxPerOrder       int `gorm:"not null;default:0"`

	Retired bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TicketTypeDAO struct {
	db *gorm.DB
}

func NewTicketTypeDAO(db *gorm.DB) *TicketTypeDAO {
	return &TicketTypeDAO{
		db: db,
	}
}

func (d *TicketTypeDAO) Insert(ctx context.Context, tt TicketType) (TicketType, error) {
	result := d.db.WithContext(ctx).Create(&tt)
	if result.Error != nil {
		return TicketType{}, result.Error
	}

	return tt, nil
}

func (d *TicketTypeDAO) GetByID(ctx context.Context, id uint) (TicketType, error) {
	var tt TicketType
	result := d.db.WithContext(ctx).First(&tt, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketType{}, ErrTicketTypeNotFound
		}

		return TicketType{}, result.Error
	}

	return tt, nil
}

func (d *TicketTypeDAO) ListByEvent(ctx context.Context, eventID uint) ([]TicketType, error) {
	var tts []TicketType
	result := d.db.WithContext(ctx).
		Where("event_id = ? AND retired = false", eventID).
		Order("id").
		Find(&tts)
	if result.Error != nil {
		return nil, result.Error
	}

	return tts, nil
}

// Retire soft-retires a ticket type so open orders can still reference it.
func (d *TicketTypeDAO) Retire(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&TicketType{}).
		Where("id = ?", id).
		Update("retired", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketTypeNotFound
	}

	return nil
}

func (d *TicketTypeDAO) DecrementRemaining(ctx context.Context, id uint, quantity int) error {
	return decrementRemaining(d.db.WithContext(ctx), id, quantity)
}

func (d *TicketTypeDAO) IncrementRemaining(ctx context.Context, id uint, quantity int) error {
	return incrementRemaining(d.db.WithContext(ctx), id, quantity)
}

// decrementRemaining is the single oversell guard: a conditional update
// that only succeeds while enough inventory remains. Zero rows affected
// means a concurrent buyer got there first, never a negative count.
func decrementRemaining(tx *gorm.DB, ticketTypeID uint, quantity int) error {
	result := tx.Model(&TicketType{}).
		Where("id = ? AND remaining_quantity >= ?", ticketTypeID, quantity).
		UpdateColumn("remaining_quantity", gorm.Expr("remaining_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientInventory
	}

	return nil
}

func incrementRemaining(tx *gorm.DB, ticketTypeID uint, quantity int) error {
	result := tx.Model(&TicketType{}).
		Where("id = ? AND remaining_quantity + ? <= total_quantity", ticketTypeID, quantity).
		UpdateColumn("remaining_quantity", gorm.Expr("remaining_quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketTypeNotFound
	}

	return nil
}
