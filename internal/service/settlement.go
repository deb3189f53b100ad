package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/metrics"
	"github.com/eventhive/ticketing-api/internal/payment"
	"github.com/eventhive/ticketing-api/internal/repository"
)

type SettlementOrderRepository interface {
	FindByReference(ctx context.Context, reference string) (domain.Order, error)
	Settle(ctx context.Context, id uint) (bool, error)
	Fail(ctx context.Context, id uint) error
	FailStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// SettlementService consumes asynchronous payment callbacks and drives
// each paid order's one-way transition out of pending.
type SettlementService struct {
	repo     SettlementOrderRepository
	notifier Notifier
}

func NewSettlementService(repo SettlementOrderRepository, notifier Notifier) *SettlementService {
	return &SettlementService{
		repo:     repo,
		notifier: notifier,
	}
}

// HandleCallback reconciles one webhook delivery. It never returns an
// error for unknown references or duplicate deliveries: the provider
// retries on non-2xx responses, and neither condition improves with a
// retry.
func (s *SettlementService) HandleCallback(ctx context.Context, reference string, status payment.CallbackStatus) error {
	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			zap.L().Warn("callback for unknown reference, discarding",
				zap.String("reference", reference),
			)
			metrics.Settlements.WithLabelValues("unknown").Inc()

			return nil
		}

		return fmt.Errorf("s.repo.FindByReference -> %w", err)
	}

	if order.IsTerminal() {
		metrics.Settlements.WithLabelValues("duplicate").Inc()

		return nil
	}

	switch status {
	case payment.CallbackSuccess:
		return s.settle(ctx, order)

	case payment.CallbackFailed:
		err = s.repo.Fail(ctx, order.ID)
		if errors.Is(err, repository.ErrOrderNotPending) {
			// A concurrent delivery already finished the order.
			metrics.Settlements.WithLabelValues("duplicate").Inc()
			return nil
		}
		if err != nil {
			return fmt.Errorf("s.repo.Fail -> %w", err)
		}

		metrics.Settlements.WithLabelValues("failed").Inc()

		return nil

	default:
		// Still pending at the provider, no transition.
		return nil
	}
}

func (s *SettlementService) settle(ctx context.Context, order domain.Order) error {
	decremented, err := s.repo.Settle(ctx, order.ID)
	if errors.Is(err, repository.ErrOrderNotPending) {
		metrics.Settlements.WithLabelValues("duplicate").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("s.repo.Settle -> %w", err)
	}

	if !decremented {
		// The payment already went through externally, so the order is
		// completed regardless and the oversold condition becomes an
		// operational alert for the organizer.
		zap.L().Error("order settled against exhausted inventory",
			zap.Uint("orderID", order.ID),
			zap.Uint("ticketTypeID", order.TicketTypeID),
			zap.Int("quantity", order.Quantity),
		)
		metrics.OversellAlerts.Inc()
	}

	metrics.Settlements.WithLabelValues("completed").Inc()
	notifyCompleted(s.notifier, order)

	return nil
}

// ExpirePending fails paid orders that have been pending longer than
// maxAge, i.e. checkouts that never produced a callback. Meant to be
// invoked from an operational job, not a request path.
func (s *SettlementService) ExpirePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	expired, err := s.repo.FailStale(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("s.repo.FailStale -> %w", err)
	}

	if expired > 0 {
		zap.L().Info("expired stale pending orders", zap.Int64("count", expired))
	}

	return expired, nil
}
