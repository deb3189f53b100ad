package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eventhive/ticketing-api/internal/domain"
)

// Notifier is the outbound notification sink (email with the ticket
// PDF, in production an external collaborator). It is strictly
// fire-and-forget: a notification failure never affects the order.
type Notifier interface {
	NotifyOrderCompleted(ctx context.Context, order domain.Order) error
}

// notifyCompleted hands the order to the sink on a detached goroutine.
// Errors and panics are logged and swallowed so they cannot propagate
// into the settlement result.
func notifyCompleted(n Notifier, order domain.Order) {
	if n == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("notifier panicked", zap.Uint("orderID", order.ID), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := n.NotifyOrderCompleted(ctx, order); err != nil {
			zap.L().Warn("buyer notification failed", zap.Uint("orderID", order.ID), zap.Error(err))
		}
	}()
}

// LogNotifier is the default sink: it records that a notification
// would have been sent. The ticket email/PDF pipeline consumes the
// same interface out of process.
type LogNotifier struct{}

func (LogNotifier) NotifyOrderCompleted(_ context.Context, order domain.Order) error {
	zap.L().Info("order completed, notifying buyer",
		zap.Uint("orderID", order.ID),
		zap.Uint("buyerID", order.BuyerID),
		zap.Int("quantity", order.Quantity),
	)

	return nil
}
