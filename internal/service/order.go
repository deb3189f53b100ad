package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eventhive/ticketing-api/internal/config"
	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/metrics"
	"github.com/eventhive/ticketing-api/internal/payment"
	"github.com/eventhive/ticketing-api/internal/repository"
)

var (
	ErrTicketTypeNotFound    = repository.ErrTicketTypeNotFound
	ErrInsufficientInventory = repository.ErrInsufficientInventory
	ErrOrderNotFound         = repository.ErrOrderNotFound
	ErrTicketTypeRetired     = errors.New("ticket type is no longer on sale")
	ErrInvalidQuantity       = errors.New("invalid order quantity")
	ErrPaymentInitFailed     = errors.New("payment initialization failed")
)

type OrderTicketTypeRepository interface {
	FindByID(ctx context.Context, id uint) (domain.TicketType, error)
	FindByEvent(ctx context.Context, eventID uint) ([]domain.TicketType, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	CreateFree(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Order, error)
	SetProviderReference(ctx context.Context, id uint, reference string) error
	Fail(ctx context.Context, id uint) error
}

type OrderService struct {
	repo       OrderRepository
	ticketRepo OrderTicketTypeRepository
	gateway    payment.Gateway
	notifier   Notifier
	conf       *config.SettlementConfig

	commissionRate decimal.Decimal
}

func NewOrderService(repo OrderRepository, ticketRepo OrderTicketTypeRepository, gateway payment.Gateway, notifier Notifier, conf *config.SettlementConfig) *OrderService {
	return &OrderService{
		repo:           repo,
		ticketRepo:     ticketRepo,
		gateway:        gateway,
		notifier:       notifier,
		conf:           conf,
		commissionRate: decimal.NewFromFloat(conf.CommissionRate),
	}
}

// CreateOrderResult carries the created order and, for paid orders,
// the hosted checkout URL the buyer is redirected to.
type CreateOrderResult struct {
	Order       domain.Order
	CheckoutURL string
}

// CreateOrder validates a purchase request and creates the order.
//
// Free ticket types settle immediately: the order is inserted already
// completed, with the inventory decrement in the same transaction.
// Paid ticket types create a pending order with no inventory held,
// persist the provider reference, and initialize the gateway checkout;
// the decrement is deferred to settlement so an abandoned checkout
// cannot lock inventory.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID uint, buyerEmail string, ticketTypeID uint, quantity int) (CreateOrderResult, error) {
	tt, err := s.ticketRepo.FindByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return CreateOrderResult{}, ErrTicketTypeNotFound
		}

		return CreateOrderResult{}, fmt.Errorf("s.ticketRepo.FindByID -> %w", err)
	}

	if tt.Retired {
		return CreateOrderResult{}, ErrTicketTypeRetired
	}

	if quantity < 1 || quantity > tt.EffectiveMaxPerOrder() {
		return CreateOrderResult{}, ErrInvalidQuantity
	}

	if tt.IsFree() {
		return s.createFreeOrder(ctx, buyerID, tt, quantity)
	}

	return s.createPaidOrder(ctx, buyerID, buyerEmail, tt, quantity)
}

func (s *OrderService) createFreeOrder(ctx context.Context, buyerID uint, tt domain.TicketType, quantity int) (CreateOrderResult, error) {
	order := domain.Order{
		TicketTypeID:    tt.ID,
		EventID:         tt.EventID,
		BuyerID:         buyerID,
		Quantity:        quantity,
		TotalAmount:     decimal.Zero,
		Commission:      decimal.Zero,
		OrganizerAmount: decimal.Zero,
		PaymentStatus:   domain.PaymentCompleted,
		PayoutStatus:    domain.PayoutPending,
	}

	created, err := s.repo.CreateFree(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientInventory) {
			metrics.OrdersCreated.WithLabelValues("free", "sold_out").Inc()
			return CreateOrderResult{}, ErrInsufficientInventory
		}

		return CreateOrderResult{}, fmt.Errorf("s.repo.CreateFree -> %w", err)
	}

	metrics.OrdersCreated.WithLabelValues("free", "completed").Inc()
	notifyCompleted(s.notifier, created)

	return CreateOrderResult{Order: created}, nil
}

func (s *OrderService) createPaidOrder(ctx context.Context, buyerID uint, buyerEmail string, tt domain.TicketType, quantity int) (CreateOrderResult, error) {
	total := tt.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	commission, organizer := domain.SplitAmount(total, s.commissionRate)

	order := domain.Order{
		TicketTypeID:    tt.ID,
		EventID:         tt.EventID,
		BuyerID:         buyerID,
		Quantity:        quantity,
		TotalAmount:     total,
		Commission:      commission,
		OrganizerAmount: organizer,
		PaymentStatus:   domain.PaymentPending,
		PayoutStatus:    domain.PayoutPending,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	// The reference is derived from the order id and stored before the
	// gateway call, so a webhook can always be correlated back even if
	// it races the checkout response.
	reference := fmt.Sprintf("ORD-%d", created.ID)
	if err = s.repo.SetProviderReference(ctx, created.ID, reference); err != nil {
		return CreateOrderResult{}, fmt.Errorf("s.repo.SetProviderReference -> %w", err)
	}
	created.ProviderReference = reference

	result, err := s.gateway.InitializeTransaction(ctx, payment.InitializeRequest{
		Amount:      total,
		Currency:    s.conf.Currency,
		Reference:   reference,
		Email:       buyerEmail,
		CallbackURL: s.conf.CallbackURL,
	})
	if err != nil {
		zap.L().Error("payment initialization failed",
			zap.Uint("orderID", created.ID),
			zap.String("reference", reference),
			zap.Error(err),
		)

		if failErr := s.repo.Fail(ctx, created.ID); failErr != nil {
			zap.L().Error("failed to mark order failed after gateway rejection",
				zap.Uint("orderID", created.ID),
				zap.Error(failErr),
			)
		}

		metrics.OrdersCreated.WithLabelValues("paid", "init_failed").Inc()

		return CreateOrderResult{}, ErrPaymentInitFailed
	}

	metrics.OrdersCreated.WithLabelValues("paid", "pending").Inc()

	return CreateOrderResult{
		Order:       created,
		CheckoutURL: result.CheckoutURL,
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}

		return domain.Order{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return order, nil
}

func (s *OrderService) GetBuyerOrders(ctx context.Context, buyerID uint) ([]domain.Order, error) {
	orders, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByBuyer -> %w", err)
	}

	return orders, nil
}

func (s *OrderService) GetEventTicketTypes(ctx context.Context, eventID uint) ([]domain.TicketType, error) {
	tts, err := s.ticketRepo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.ticketRepo.FindByEvent -> %w", err)
	}

	return tts, nil
}
