package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eventhive/ticketing-api/internal/config"
	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/metrics"
	"github.com/eventhive/ticketing-api/internal/payment"
	"github.com/eventhive/ticketing-api/internal/repository"
)

var (
	ErrNoFundsAvailable = errors.New("no funds available for transfer")
	ErrTransferConflict = repository.ErrTransferConflict
	ErrTransferNotFound = repository.ErrTransferNotFound
	ErrTransferFailed   = errors.New("transfer failed")
)

type TransferOrderRepository interface {
	FindUntransferred(ctx context.Context, organizerID, eventID uint) ([]domain.Order, error)
}

type TransferRepository interface {
	CreateWithClaims(ctx context.Context, transfer domain.Transfer, orderIDs []uint) (domain.Transfer, error)
	FindByID(ctx context.Context, id uint) (domain.Transfer, error)
	FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Transfer, error)
}

// TransferService sweeps an organizer's settled, untransferred order
// balances into payout batches.
type TransferService struct {
	repo      TransferRepository
	orderRepo TransferOrderRepository
	gateway   payment.Gateway
	conf      *config.SettlementConfig
}

func NewTransferService(repo TransferRepository, orderRepo TransferOrderRepository, gateway payment.Gateway, conf *config.SettlementConfig) *TransferService {
	return &TransferService{
		repo:      repo,
		orderRepo: orderRepo,
		gateway:   gateway,
		conf:      conf,
	}
}

// PendingBalance sums the organizer net of completed orders that no
// transfer has claimed yet, scoped to one event. A caller who is not
// the event's organizer matches no orders and sees a zero balance.
func (s *TransferService) PendingBalance(ctx context.Context, organizerID, eventID uint) (decimal.Decimal, error) {
	orders, err := s.orderRepo.FindUntransferred(ctx, organizerID, eventID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("s.orderRepo.FindUntransferred -> %w", err)
	}

	balance := decimal.Zero
	for _, o := range orders {
		balance = balance.Add(o.OrganizerAmount)
	}

	return balance, nil
}

// RequestTransfer pays out the organizer's pending balance for one
// event. The gateway transfer is initiated first; only on gateway
// success are the transfer row and the order claims written, in a
// single conditional transaction, so no order balance can end up in
// two transfers. On gateway failure nothing is written and the caller
// may retry.
func (s *TransferService) RequestTransfer(ctx context.Context, organizerID, eventID uint, account domain.BankAccount) (domain.Transfer, error) {
	orders, err := s.orderRepo.FindUntransferred(ctx, organizerID, eventID)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("s.orderRepo.FindUntransferred -> %w", err)
	}

	amount := decimal.Zero
	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		amount = amount.Add(o.OrganizerAmount)
		orderIDs = append(orderIDs, o.ID)
	}

	if len(orderIDs) == 0 || !amount.IsPositive() {
		return domain.Transfer{}, ErrNoFundsAvailable
	}

	reference := fmt.Sprintf("TRF-%d-%d", eventID, time.Now().Unix())

	result, err := s.gateway.InitiateTransfer(ctx, payment.TransferRequest{
		Amount:        amount,
		Currency:      s.conf.Currency,
		Reference:     reference,
		Reason:        fmt.Sprintf("Ticket sales payout for event %d", eventID),
		AccountName:   account.AccountName,
		AccountNumber: account.AccountNumber,
		BankCode:      account.BankCode,
	})
	if err != nil {
		zap.L().Error("payout transfer rejected by gateway",
			zap.Uint("organizerID", organizerID),
			zap.Uint("eventID", eventID),
			zap.String("reference", reference),
			zap.Error(err),
		)
		metrics.Transfers.WithLabelValues("gateway_failed").Inc()

		return domain.Transfer{}, ErrTransferFailed
	}

	status := domain.TransferProcessing
	if result.Status == "success" {
		status = domain.TransferCompleted
	}

	transfer := domain.Transfer{
		EventID:     eventID,
		OrganizerID: organizerID,
		Amount:      amount,
		Reference:   reference,
		Status:      status,
		Account:     account,
	}

	created, err := s.repo.CreateWithClaims(ctx, transfer, orderIDs)
	if err != nil {
		if errors.Is(err, repository.ErrTransferConflict) {
			// Another transfer claimed part of this balance between our
			// read and the claim. The gateway payout has gone out, so
			// this needs manual reconciliation, loudly.
			zap.L().Error("transfer claim conflict after gateway payout",
				zap.Uint("organizerID", organizerID),
				zap.Uint("eventID", eventID),
				zap.String("reference", reference),
				zap.String("transferCode", result.TransferCode),
			)
			metrics.Transfers.WithLabelValues("conflict").Inc()

			return domain.Transfer{}, ErrTransferConflict
		}

		return domain.Transfer{}, fmt.Errorf("s.repo.CreateWithClaims -> %w", err)
	}

	metrics.Transfers.WithLabelValues(string(status)).Inc()

	return created, nil
}

func (s *TransferService) GetTransfer(ctx context.Context, id uint) (domain.Transfer, error) {
	transfer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransferNotFound) {
			return domain.Transfer{}, ErrTransferNotFound
		}

		return domain.Transfer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return transfer, nil
}

func (s *TransferService) GetOrganizerTransfers(ctx context.Context, organizerID uint) ([]domain.Transfer, error) {
	transfers, err := s.repo.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizer -> %w", err)
	}

	return transfers, nil
}
