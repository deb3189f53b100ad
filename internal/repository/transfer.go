package repository

import (
	"context"

	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/repository/dao"
)

var (
	ErrTransferNotFound        = dao.ErrTransferNotFound
	ErrTransferConflict        = dao.ErrTransferConflict
	ErrTransferReferenceExists = dao.ErrTransferReferenceExists
)

type TransferDAO interface {
	InsertWithClaims(ctx context.Context, transfer dao.Transfer, orderIDs []uint) (dao.Transfer, error)
	GetByID(ctx context.Context, id uint) (dao.Transfer, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]dao.Transfer, error)
}

type TransferRepository struct {
	dao TransferDAO
}

func NewTransferRepository(dao TransferDAO) *TransferRepository {
	return &TransferRepository{
		dao: dao,
	}
}

func transferDomainToDao(t domain.Transfer) dao.Transfer {
	return dao.Transfer{
		ID:            t.ID,
		EventID:       t.EventID,
		OrganizerID:   t.OrganizerID,
		Amount:        t.Amount,
		Reference:     t.Reference,
		Status:        string(t.Status),
		AccountName:   t.Account.AccountName,
		AccountNumber: t.Account.AccountNumber,
		BankCode:      t.Account.BankCode,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func transferDaoToDomain(t dao.Transfer) domain.Transfer {
	return domain.Transfer{
		ID:          t.ID,
		EventID:     t.EventID,
		OrganizerID: t.OrganizerID,
		Amount:      t.Amount,
		Reference:   t.Reference,
		Status:      domain.TransferStatus(t.Status),
		Account: domain.BankAccount{
			AccountName:   t.AccountName,
			AccountNumber: t.AccountNumber,
			BankCode:      t.BankCode,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// CreateWithClaims inserts the transfer and claims its constituent
// orders atomically; see dao.TransferDAO.InsertWithClaims.
func (r *TransferRepository) CreateWithClaims(ctx context.Context, transfer domain.Transfer, orderIDs []uint) (domain.Transfer, error) {
	created, err := r.dao.InsertWithClaims(ctx, transferDomainToDao(transfer), orderIDs)
	if err != nil {
		return domain.Transfer{}, err
	}

	return transferDaoToDomain(created), nil
}

func (r *TransferRepository) FindByID(ctx context.Context, id uint) (domain.Transfer, error) {
	transfer, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Transfer{}, err
	}

	return transferDaoToDomain(transfer), nil
}

func (r *TransferRepository) FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Transfer, error) {
	transfers, err := r.dao.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Transfer, len(transfers))
	for i, t := range transfers {
		result[i] = transferDaoToDomain(t)
	}

	return result, nil
}
