package repository

import (
	"context"
	"time"

	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/repository/dao"
)

var (
	ErrOrderNotFound   = dao.ErrOrderNotFound
	ErrOrderNotPending = dao.ErrOrderNotPending
)

type OrderDAO interface {
	Insert(ctx context.Context, order dao.Order) (dao.Order, error)
	InsertFree(ctx context.Context, order dao.Order) (dao.Order, error)
	GetByID(ctx context.Context, id uint) (dao.Order, error)
	GetByReference(ctx context.Context, reference string) (dao.Order, error)
	SetProviderReference(ctx context.Context, id uint, reference string) error
	Settle(ctx context.Context, id uint) (bool, error)
	Fail(ctx context.Context, id uint) error
	FailStale(ctx context.Context, cutoff time.Time) (int64, error)
	ListUntransferred(ctx context.Context, organizerID, eventID uint) ([]dao.Order, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]dao.Order, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func orderDomainToDao(o domain.Order) dao.Order {
	return dao.Order{
		ID:                      o.ID,
		TicketTypeID:            o.TicketTypeID,
		EventID:                 o.EventID,
		BuyerID:                 o.BuyerID,
		Quantity:                o.Quantity,
		TotalAmount:             o.TotalAmount,
		Commission:              o.Commission,
		OrganizerAmount:         o.OrganizerAmount,
		PaymentStatus:           string(o.PaymentStatus),
		ProviderReference:       o.ProviderReference,
		OrganizerTransferStatus: string(o.PayoutStatus),
		TransferID:              o.TransferID,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
	}
}

func orderDaoToDomain(o dao.Order) domain.Order {
	return domain.Order{
		ID:                o.ID,
		TicketTypeID:      o.TicketTypeID,
		EventID:           o.EventID,
		BuyerID:           o.BuyerID,
		Quantity:          o.Quantity,
		TotalAmount:       o.TotalAmount,
		Commission:        o.Commission,
		OrganizerAmount:   o.OrganizerAmount,
		PaymentStatus:     domain.PaymentStatus(o.PaymentStatus),
		ProviderReference: o.ProviderReference,
		PayoutStatus:      domain.PayoutStatus(o.OrganizerTransferStatus),
		TransferID:        o.TransferID,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.Insert(ctx, orderDomainToDao(order))
	if err != nil {
		return domain.Order{}, err
	}

	return orderDaoToDomain(created), nil
}

func (r *OrderRepository) CreateFree(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.InsertFree(ctx, orderDomainToDao(order))
	if err != nil {
		return domain.Order{}, err
	}

	return orderDaoToDomain(created), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	order, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	return orderDaoToDomain(order), nil
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (domain.Order, error) {
	order, err := r.dao.GetByReference(ctx, reference)
	if err != nil {
		return domain.Order{}, err
	}

	return orderDaoToDomain(order), nil
}

func (r *OrderRepository) SetProviderReference(ctx context.Context, id uint, reference string) error {
	return r.dao.SetProviderReference(ctx, id, reference)
}

func (r *OrderRepository) Settle(ctx context.Context, id uint) (bool, error) {
	return r.dao.Settle(ctx, id)
}

func (r *OrderRepository) Fail(ctx context.Context, id uint) error {
	return r.dao.Fail(ctx, id)
}

func (r *OrderRepository) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.dao.FailStale(ctx, cutoff)
}

func (r *OrderRepository) FindUntransferred(ctx context.Context, organizerID, eventID uint) ([]domain.Order, error) {
	orders, err := r.dao.ListUntransferred(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, len(orders))
	for i, o := range orders {
		result[i] = orderDaoToDomain(o)
	}

	return result, nil
}

func (r *OrderRepository) FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Order, error) {
	orders, err := r.dao.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, len(orders))
	for i, o := range orders {
		result[i] = orderDaoToDomain(o)
	}

	return result, nil
}
