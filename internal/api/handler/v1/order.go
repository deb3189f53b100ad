package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventhive/ticketing-api/internal/api/handler/v1/request"
	"github.com/eventhive/ticketing-api/internal/api/handler/v1/response"
	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/service"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID uint, buyerEmail string, ticketTypeID uint, quantity int) (service.CreateOrderResult, error)
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	GetBuyerOrders(ctx context.Context, buyerID uint) ([]domain.Order, error)
	GetEventTicketTypes(ctx context.Context, eventID uint) ([]domain.TicketType, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{
		svc: svc,
	}
}

// HandleCreateOrder godoc
// @Summary      Create an order
// @Description  Creates a ticket order. Free tickets settle immediately; paid tickets return a checkout URL.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateOrderRequest  true  "Order details"
// @Success      201    {object}  response.CreateOrder
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      502    {object}  response.Err
// @Router       /orders [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCreateOrder(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CreateOrder(ctx.Request.Context(), userID, getUserEmailFromContext(ctx), input.TicketTypeID, input.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket type", "ID", input.TicketTypeID))
		case errors.Is(err, service.ErrTicketTypeRetired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrInsufficientInventory):
			response.RenderErr(ctx, response.ErrConflict("sold out"))
		case errors.Is(err, service.ErrPaymentInitFailed):
			response.RenderErr(ctx, response.ErrBadGateway("payment failed, please retry"))
		default:
			err = fmt.Errorf("HandleCreateOrder -> h.svc.CreateOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.CreateOrder{
		Order:       response.NewOrder(result.Order),
		CheckoutURL: result.CheckoutURL,
	})
}

// HandleGetOrder godoc
// @Summary      Get an order
// @Description  Retrieves one of the authenticated buyer's orders
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  response.Order
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID} [get]
// @Security BearerAuth
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %v", err)))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	// Buyers only see their own orders.
	if order.BuyerID != userID {
		response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOrder(order))
}

// HandleListMyOrders godoc
// @Summary      List my orders
// @Description  Retrieves all orders of the authenticated buyer
// @Tags         orders
// @Produce      json
// @Success      200  {array}   response.Order
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders [get]
// @Security BearerAuth
func (h *OrderHandler) HandleListMyOrders(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orders, err := h.svc.GetBuyerOrders(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("HandleListMyOrders -> h.svc.GetBuyerOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOrders(orders))
}

// HandleListEventTickets godoc
// @Summary      List event ticket types
// @Description  Retrieves the purchasable ticket types of an event
// @Tags         tickets
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   response.TicketType
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/tickets [get]
func (h *OrderHandler) HandleListEventTickets(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %v", err)))
		return
	}

	tts, err := h.svc.GetEventTicketTypes(ctx.Request.Context(), uint(eventID))
	if err != nil {
		err = fmt.Errorf("HandleListEventTickets -> h.svc.GetEventTicketTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewTicketTypes(tts))
}
