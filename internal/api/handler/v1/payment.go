package v1

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventhive/ticketing-api/internal/api/handler/v1/response"
	"github.com/eventhive/ticketing-api/internal/payment"
	"github.com/eventhive/ticketing-api/internal/payment/paystack"
)

type SettlementService interface {
	HandleCallback(ctx context.Context, reference string, status payment.CallbackStatus) error
}

type PaymentHandler struct {
	svc SettlementService

	// webhookSecret verifies the provider's signature header.
	webhookSecret string
}

func NewPaymentHandler(svc SettlementService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		svc:           svc,
		webhookSecret: webhookSecret,
	}
}

// HandleCallback godoc
// @Summary      Payment provider webhook
// @Description  Consumes payment status callbacks. Unknown and duplicate deliveries are acknowledged with 200 to stop provider retries.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /payments/callback [post]
func (h *PaymentHandler) HandleCallback(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("reading webhook body: %v", err)))
		return
	}

	signature := ctx.GetHeader(paystack.SignatureHeader)
	if !paystack.VerifySignature(h.webhookSecret, body, signature) {
		zap.L().Warn("webhook with invalid signature rejected")
		response.RenderErr(ctx, response.ErrUnauthorized("invalid signature"))
		return
	}

	event, err := paystack.ParseEvent(body)
	if err != nil {
		// Signed but unparseable: acknowledge, a retry will not parse
		// any better.
		zap.L().Error("discarding malformed webhook payload", zap.Error(err))
		ctx.JSON(http.StatusOK, gin.H{"status": "discarded"})
		return
	}

	err = h.svc.HandleCallback(ctx.Request.Context(), event.Data.Reference, event.CallbackStatus())
	if err != nil {
		// Internal failure: a 500 makes the provider redeliver, which
		// is safe because settlement is idempotent.
		err = fmt.Errorf("HandleCallback -> h.svc.HandleCallback -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
