package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrTransferConflict means some of the orders selected for this
	// payout were claimed by a concurrent transfer before we could.
	ErrTransferConflict = errors.New("orders already claimed by another transfer")

	ErrTransferReferenceExists = errors.New("transfer reference already exists")
)

type Transfer struct {
	ID          uint `gorm:"primaryKey"`
	EventID     uint `gorm:"index;not null"`
	OrganizerID uint `gorm:"index;not null"`

	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reference string          `gorm:"unique;not null"`
	Status    string          `gorm:"not null"`

	AccountName   string `gorm:"not null"`
	AccountNumber string `gorm:"not null"`
	BankCode      string `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TransferDAO struct {
	db *gorm.DB
}

func NewTransferDAO(db *gorm.DB) *TransferDAO {
	return &TransferDAO{
		db: db,
	}
}

// InsertWithClaims creates the transfer row and marks every constituent
// order as transferred in one transaction. The claim is a conditional
// update over exactly the selected ids: if any of them was settled into
// another transfer in the meantime the row count comes up short and the
// whole payout rolls back, so no order balance is ever paid out twice.
func (d *TransferDAO) InsertWithClaims(ctx context.Context, transfer Transfer, orderIDs []uint) (Transfer, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transfer).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrTransferReferenceExists
			}

			return err
		}

		result := tx.Model(&Order{}).
			Where("id IN ?", orderIDs).
			Where("payment_status = ?", "completed").
			Where("organizer_transfer_status = ?", "pending").
			Updates(map[string]any{
				"organizer_transfer_status": "completed",
				"transfer_id":               transfer.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(orderIDs)) {
			return ErrTransferConflict
		}

		return nil
	})
	if err != nil {
		return Transfer{}, err
	}

	return transfer, nil
}

func (d *TransferDAO) GetByID(ctx context.Context, id uint) (Transfer, error) {
	var transfer Transfer
	result := d.db.WithContext(ctx).First(&transfer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Transfer{}, ErrTransferNotFound
		}

		return Transfer{}, result.Error
	}

	return transfer, nil
}

func (d *TransferDAO) ListByOrganizer(ctx context.Context, organizerID uint) ([]Transfer, error) {
	var transfers []Transfer
	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&transfers)
	if result.Error != nil {
		return nil, result.Error
	}

	return transfers, nil
}
