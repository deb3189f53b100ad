package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhive/ticketing-api/internal/config"
	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/payment"
)

func testSettlementConfig() *config.SettlementConfig {
	return &config.SettlementConfig{
		CommissionRate: 0.05,
		Currency:       "NGN",
		CallbackURL:    "https://example.com/checkout/complete",
	}
}

func freeTicketType() domain.TicketType {
	return domain.TicketType{
		ID:                1,
		EventID:           10,
		OrganizerID:       100,
		Name:              "General Admission",
		Kind:              domain.TicketKindFree,
		UnitPrice:         decimal.Zero,
		TotalQuantity:     50,
		RemainingQuantity: 50,
	}
}

func paidTicketType() domain.TicketType {
	return domain.TicketType{
		ID:                2,
		EventID:           10,
		OrganizerID:       100,
		Name:              "VIP",
		Kind:              domain.TicketKindPaid,
		UnitPrice:         decimal.RequireFromString("100.00"),
		TotalQuantity:     20,
		RemainingQuantity: 20,
	}
}

func TestCreateOrder_Free(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.remaining[1] = 50
	ticketRepo := newFakeTicketRepo(freeTicketType())
	gateway := &fakeGateway{}
	notifier := newFakeNotifier()

	svc := NewOrderService(orderRepo, ticketRepo, gateway, notifier, testSettlementConfig())

	result, err := svc.CreateOrder(context.Background(), 7, "buyer@example.com", 1, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, result.Order.PaymentStatus)
	assert.True(t, result.Order.TotalAmount.IsZero())
	assert.True(t, result.Order.Commission.IsZero())
	assert.Empty(t, result.CheckoutURL)
	assert.Empty(t, gateway.initCalls, "free orders must not touch the gateway")
	assert.Equal(t, 49, orderRepo.remaining[1], "inventory decremented at creation")
	assert.True(t, notifier.wait(time.Second), "buyer should be notified")
}

func TestCreateOrder_FreeCappedAtOne(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.remaining[1] = 50
	ticketRepo := newFakeTicketRepo(freeTicketType())

	svc := NewOrderService(orderRepo, ticketRepo, &fakeGateway{}, nil, testSettlementConfig())

	_, err := svc.CreateOrder(context.Background(), 7, "buyer@example.com", 1, 2)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateOrder_FreeSoldOut(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.remaining[1] = 0
	ticketRepo := newFakeTicketRepo(freeTicketType())

	svc := NewOrderService(orderRepo, ticketRepo, &fakeGateway{}, nil, testSettlementConfig())

	_, err := svc.CreateOrder(context.Background(), 7, "buyer@example.com", 1, 1)

	assert.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestCreateOrder_FreeConcurrentLastTicket(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.remaining[1] = 1
	ticketRepo := newFakeTicketRepo(freeTicketType())

	svc := NewOrderService(orderRepo, ticketRepo, &fakeGateway{}, nil, testSettlementConfig())

	const buyers = 10
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), uint(i+1), fmt.Sprintf("b%d@example.com", i), 1, 1)
		}(i)
	}
	wg.Wait()

	var won, soldOut int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrInsufficientInventory):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won, "exactly one buyer gets the last ticket")
	assert.Equal(t, buyers-1, soldOut)
	assert.Equal(t, 0, orderRepo.remaining[1])
}

func TestCreateOrder_Paid(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.remaining[2] = 20
	ticketRepo := newFakeTicketRepo(paidTicketType())
	gateway := &fakeGateway{
		initResult: payment.InitializeResult{CheckoutURL: "https://checkout.example.com/abc"},
	}

	svc := NewOrderService(orderRepo, ticketRepo, gateway, nil, testSettlementConfig())

	result, err := svc.CreateOrder(context.Background(), 7, "buyer@example.com", 2, 2)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, result.Order.PaymentStatus)
	assert.Equal(t, "https://checkout.example.com/abc", result.CheckoutURL)
	assert.Equal(t, "200.00", result.Order.TotalAmount.StringFixed(2))
	assert.Equal(t, "10.00", result.Order.Commission.StringFixed(2))
	assert.Equal(t, "190.00", result.Order.OrganizerAmount.StringFixed(2))

	// No inventory is held while payment is pending.
	assert.Equal(t, 20, orderRepo.remaining[2])

	require.Len(t, gateway.initCalls, 1)
	call := gateway.initCalls[0]
	assert.Equal(t, fmt.Sprintf("ORD-%d", result.Order.ID), call.Reference)
	assert.Equal(t, "buyer@example.com", call.Email)
	assert.Equal(t, "NGN", call.Currency)
	assert.True(t, call.Amount.Equal(decimal.RequireFromString("200.00")))

	// Reference must be stored before any callback can arrive.
	stored, err := orderRepo.FindByReference(context.Background(), call.Reference)
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, stored.ID)
}

func TestCreateOrder_PaidGatewayRejects(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	ticketRepo := newFakeTicketRepo(paidTicketType())
	gateway := &fakeGateway{initErr: fmt.Errorf("%w: provider down", payment.ErrGateway)}

	svc := NewOrderService(orderRepo, ticketRepo, gateway, nil, testSettlementConfig())

	_, err := svc.CreateOrder(context.Background(), 7, "buyer@example.com", 2, 1)

	assert.ErrorIs(t, err, ErrPaymentInitFailed)

	// The order is failed, not left pending, so it can never settle.
	order, findErr := orderRepo.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, domain.PaymentFailed, order.PaymentStatus)
}

func TestCreateOrder_QuantityBounds(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	ticketRepo := newFakeTicketRepo(paidTicketType())

	svc := NewOrderService(orderRepo, ticketRepo, &fakeGateway{}, nil, testSettlementConfig())

	_, err := svc.CreateOrder(context.Background(), 7, "b@example.com", 2, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateOrder(context.Background(), 7, "b@example.com", 2, domain.DefaultPaidOrderLimit+1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateOrder_RetiredTicketType(t *testing.T) {
	tt := paidTicketType()
	tt.Retired = true
	svc := NewOrderService(newFakeOrderRepo(), newFakeTicketRepo(tt), &fakeGateway{}, nil, testSettlementConfig())

	_, err := svc.CreateOrder(context.Background(), 7, "b@example.com", 2, 1)

	assert.ErrorIs(t, err, ErrTicketTypeRetired)
}

func TestCreateOrder_UnknownTicketType(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), newFakeTicketRepo(), &fakeGateway{}, nil, testSettlementConfig())

	_, err := svc.CreateOrder(context.Background(), 7, "b@example.com", 99, 1)

	assert.ErrorIs(t, err, ErrTicketTypeNotFound)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), newFakeTicketRepo(), &fakeGateway{}, nil, testSettlementConfig())

	_, err := svc.GetOrder(context.Background(), 42)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
