package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/eventhive/ticketing-api/internal/api/handler/v1/request"
	"github.com/eventhive/ticketing-api/internal/api/handler/v1/response"
	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/service"
)

type TransferService interface {
	PendingBalance(ctx context.Context, organizerID, eventID uint) (decimal.Decimal, error)
	RequestTransfer(ctx context.Context, organizerID, eventID uint, account domain.BankAccount) (domain.Transfer, error)
	GetOrganizerTransfers(ctx context.Context, organizerID uint) ([]domain.Transfer, error)
}

type TransferHandler struct {
	svc TransferService
}

func NewTransferHandler(svc TransferService) *TransferHandler {
	return &TransferHandler{
		svc: svc,
	}
}

// HandleGetBalance godoc
// @Summary      Get payout balance
// @Description  Returns the organizer's settled, untransferred balance for one event
// @Tags         transfers
// @Produce      json
// @Param        event_id  query     int  true  "Event ID"
// @Success      200       {object}  response.Balance
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /transfers/balance [get]
// @Security BearerAuth
func (h *TransferHandler) HandleGetBalance(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := strconv.ParseUint(ctx.Query("event_id"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event_id: %v", err)))
		return
	}

	balance, err := h.svc.PendingBalance(ctx.Request.Context(), userID, uint(eventID))
	if err != nil {
		err = fmt.Errorf("HandleGetBalance -> h.svc.PendingBalance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Balance{
		EventID: uint(eventID),
		Amount:  balance.StringFixed(2),
	})
}

// HandleCreateTransfer godoc
// @Summary      Request a payout transfer
// @Description  Sweeps the organizer's settled, untransferred order balances for an event into one payout
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateTransferRequest  true  "Transfer details"
// @Success      201    {object}  response.Transfer
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      502    {object}  response.Err
// @Router       /transfers [post]
// @Security BearerAuth
func (h *TransferHandler) HandleCreateTransfer(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateTransferRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	account := domain.BankAccount{
		AccountName:   input.AccountName,
		AccountNumber: input.AccountNumber,
		BankCode:      input.BankCode,
	}

	transfer, err := h.svc.RequestTransfer(ctx.Request.Context(), userID, input.EventID, account)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFundsAvailable):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrTransferConflict):
			response.RenderErr(ctx, response.ErrConflict("balance changed, please retry"))
		case errors.Is(err, service.ErrTransferFailed):
			response.RenderErr(ctx, response.ErrBadGateway("transfer failed, please retry"))
		default:
			err = fmt.Errorf("HandleCreateTransfer -> h.svc.RequestTransfer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewTransfer(transfer))
}

// HandleListMyTransfers godoc
// @Summary      List my transfers
// @Description  Retrieves the authenticated organizer's payout transfers
// @Tags         transfers
// @Produce      json
// @Success      200  {array}   response.Transfer
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /transfers [get]
// @Security BearerAuth
func (h *TransferHandler) HandleListMyTransfers(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	transfers, err := h.svc.GetOrganizerTransfers(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("HandleListMyTransfers -> h.svc.GetOrganizerTransfers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewTransfers(transfers))
}
