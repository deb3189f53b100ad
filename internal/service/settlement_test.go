package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/payment"
)

func seedPendingOrder(t *testing.T, repo *fakeOrderRepo, remaining int) domain.Order {
	t.Helper()

	repo.remaining[2] = remaining
	order, err := repo.Create(context.Background(), domain.Order{
		TicketTypeID:    2,
		EventID:         10,
		BuyerID:         7,
		Quantity:        2,
		TotalAmount:     decimal.RequireFromString("200.00"),
		Commission:      decimal.RequireFromString("10.00"),
		OrganizerAmount: decimal.RequireFromString("190.00"),
		PaymentStatus:   domain.PaymentPending,
		PayoutStatus:    domain.PayoutPending,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetProviderReference(context.Background(), order.ID, "ORD-1"))

	return order
}

func TestHandleCallback_Success(t *testing.T) {
	repo := newFakeOrderRepo()
	seedPendingOrder(t, repo, 20)
	notifier := newFakeNotifier()
	svc := NewSettlementService(repo, notifier)

	err := svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackSuccess)

	require.NoError(t, err)
	order, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, 18, repo.remaining[2], "inventory decremented at settlement")
	assert.True(t, notifier.wait(time.Second))
}

func TestHandleCallback_DuplicateDelivery(t *testing.T) {
	repo := newFakeOrderRepo()
	seedPendingOrder(t, repo, 20)
	svc := NewSettlementService(repo, newFakeNotifier())

	require.NoError(t, svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackSuccess))
	require.NoError(t, svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackSuccess))

	// The second delivery is a no-op: decremented once only.
	assert.Equal(t, 18, repo.remaining[2])
}

func TestHandleCallback_UnknownReference(t *testing.T) {
	svc := NewSettlementService(newFakeOrderRepo(), nil)

	// Unknown references are discarded without error so the provider
	// does not redeliver forever.
	assert.NoError(t, svc.HandleCallback(context.Background(), "ORD-999", payment.CallbackSuccess))
}

func TestHandleCallback_Failed(t *testing.T) {
	repo := newFakeOrderRepo()
	seedPendingOrder(t, repo, 20)
	svc := NewSettlementService(repo, nil)

	err := svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackFailed)

	require.NoError(t, err)
	order, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, domain.PaymentFailed, order.PaymentStatus)
	assert.Equal(t, 20, repo.remaining[2], "failed payments never touch inventory")
}

func TestHandleCallback_FailureAfterCompletionIsIgnored(t *testing.T) {
	repo := newFakeOrderRepo()
	seedPendingOrder(t, repo, 20)
	svc := NewSettlementService(repo, newFakeNotifier())

	require.NoError(t, svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackSuccess))
	require.NoError(t, svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackFailed))

	order, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus, "terminal status never regresses")
}

func TestHandleCallback_PendingStatusIsNoOp(t *testing.T) {
	repo := newFakeOrderRepo()
	seedPendingOrder(t, repo, 20)
	svc := NewSettlementService(repo, nil)

	require.NoError(t, svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackPending))

	order, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
}

func TestHandleCallback_SettlesAgainstExhaustedInventory(t *testing.T) {
	repo := newFakeOrderRepo()
	seedPendingOrder(t, repo, 1) // fewer tickets left than the order holds
	notifier := newFakeNotifier()
	svc := NewSettlementService(repo, notifier)

	err := svc.HandleCallback(context.Background(), "ORD-1", payment.CallbackSuccess)

	// Money was received, so the order completes regardless and the
	// oversell surfaces as an alert, not a failure.
	require.NoError(t, err)
	order, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, 1, repo.remaining[2], "exhausted inventory is left untouched")
	assert.True(t, notifier.wait(time.Second))
}

func TestExpirePending(t *testing.T) {
	repo := newFakeOrderRepo()
	stale := seedPendingOrder(t, repo, 20)

	// Backdate the stale order past the cutoff.
	repo.mu.Lock()
	o := repo.orders[stale.ID]
	o.CreatedAt = time.Now().Add(-48 * time.Hour)
	repo.orders[stale.ID] = o
	repo.mu.Unlock()

	fresh, err := repo.Create(context.Background(), domain.Order{
		TicketTypeID:  2,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)

	svc := NewSettlementService(repo, nil)

	expired, err := svc.ExpirePending(context.Background(), 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	staleAfter, _ := repo.FindByID(context.Background(), stale.ID)
	assert.Equal(t, domain.PaymentFailed, staleAfter.PaymentStatus)

	freshAfter, _ := repo.FindByID(context.Background(), fresh.ID)
	assert.Equal(t, domain.PaymentPending, freshAfter.PaymentStatus)
}
