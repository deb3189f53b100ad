package repository

import (
	"context"

	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/repository/dao"
)

var (
	ErrTicketTypeNotFound    = dao.ErrTicketTypeNotFound
	ErrInsufficientInventory = dao.ErrInsufficientInventory
)

type TicketTypeDAO interface {
	Insert(ctx context.Context, tt dao.TicketType) (dao.TicketType, error)
	GetByID(ctx context.Context, id uint) (dao.TicketType, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.TicketType, error)
	Retire(ctx context.Context, id uint) error
	DecrementRemaining(ctx context.Context, id uint, quantity int) error
	IncrementRemaining(ctx context.Context, id uint, quantity int) error
}

type TicketTypeRepository struct {
	dao TicketTypeDAO
}

func NewTicketTypeRepository(dao TicketTypeDAO) *TicketTypeRepository {
	return &TicketTypeRepository{
		dao: dao,
	}
}

func (r *TicketTypeRepository) domainToDao(tt domain.TicketType) dao.TicketType {
	return dao.TicketType{
		ID:                tt.ID,
		EventID:           tt.EventID,
		OrganizerID:       tt.OrganizerID,
		Name:              tt.Name,
		Kind:              string(tt.Kind),
		UnitPrice:         tt.UnitPrice,
		TotalQuantity:     tt.TotalQuantity,
		RemainingQuantity: tt.RemainingQuantity,
		MaxPerOrder:       tt.MaxPerOrder,
		Retired:           tt.Retired,
		CreatedAt:         tt.CreatedAt,
		UpdatedAt:         tt.UpdatedAt,
	}
}

func (r *TicketTypeRepository) daoToDomain(tt dao.TicketType) domain.TicketType {
	return domain.TicketType{
		ID:                tt.ID,
		EventID:           tt.EventID,
		OrganizerID:       tt.OrganizerID,
		Name:              tt.Name,
		Kind:              domain.TicketKind(tt.Kind),
		UnitPrice:         tt.UnitPrice,
		TotalQuantity:     tt.TotalQuantity,
		RemainingQuantity: tt.RemainingQuantity,
		MaxPerOrder:       tt.MaxPerOrder,
		Retired:           tt.Retired,
		CreatedAt:         tt.CreatedAt,
		UpdatedAt:         tt.UpdatedAt,
	}
}

func (r *TicketTypeRepository) Create(ctx context.Context, tt domain.TicketType) (domain.TicketType, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(tt))
	if err != nil {
		return domain.TicketType{}, err
	}

	return r.daoToDomain(created), nil
}

func (r *TicketTypeRepository) FindByID(ctx context.Context, id uint) (domain.TicketType, error) {
	tt, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.TicketType{}, err
	}

	return r.daoToDomain(tt), nil
}

func (r *TicketTypeRepository) FindByEvent(ctx context.Context, eventID uint) ([]domain.TicketType, error) {
	tts, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TicketType, len(tts))
	for i, tt := range tts {
		result[i] = r.daoToDomain(tt)
	}

	return result, nil
}

func (r *TicketTypeRepository) Retire(ctx context.Context, id uint) error {
	return r.dao.Retire(ctx, id)
}

func (r *TicketTypeRepository) DecrementRemaining(ctx context.Context, id uint, quantity int) error {
	return r.dao.DecrementRemaining(ctx, id, quantity)
}

func (r *TicketTypeRepository) IncrementRemaining(ctx context.Context, id uint, quantity int) error {
	return r.dao.IncrementRemaining(ctx, id, quantity)
}
