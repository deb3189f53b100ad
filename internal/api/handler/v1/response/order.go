package response

import (
	"time"

	"github.com/eventhive/ticketing-api/internal/domain"
)

type Order struct {
	ID                uint   `json:"id"`
	TicketTypeID      uint   `json:"ticket_type_id"`
	EventID           uint   `json:"event_id"`
	Quantity          int    `json:"quantity"`
	TotalAmount       string `json:"total_amount"`
	Commission        string `json:"commission"`
	OrganizerAmount   string `json:"organizer_amount"`
	PaymentStatus     string `json:"payment_status"`
	ProviderReference string `json:"provider_reference,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// CreateOrder is the POST /orders response. CheckoutURL is present
// only for paid orders awaiting payment.
type CreateOrder struct {
	Order       Order  `json:"order"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type TicketType struct {
	ID                uint   `json:"id"`
	EventID           uint   `json:"event_id"`
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	UnitPrice         string `json:"unit_price"`
	RemainingQuantity int    `json:"remaining_quantity"`
	MaxPerOrder       int    `json:"max_per_order"`
}

func NewOrder(o domain.Order) Order {
	return Order{
		ID:                o.ID,
		TicketTypeID:      o.TicketTypeID,
		EventID:           o.EventID,
		Quantity:          o.Quantity,
		TotalAmount:       o.TotalAmount.StringFixed(2),
		Commission:        o.Commission.StringFixed(2),
		OrganizerAmount:   o.OrganizerAmount.StringFixed(2),
		PaymentStatus:     string(o.PaymentStatus),
		ProviderReference: o.ProviderReference,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
	}
}

func NewOrders(orders []domain.Order) []Order {
	result := make([]Order, len(orders))
	for i, o := range orders {
		result[i] = NewOrder(o)
	}

	return result
}

func NewTicketType(tt domain.TicketType) TicketType {
	return TicketType{
		ID:                tt.ID,
		EventID:           tt.EventID,
		Name:              tt.Name,
		Kind:              string(tt.Kind),
		UnitPrice:         tt.UnitPrice.StringFixed(2),
		RemainingQuantity: tt.RemainingQuantity,
		MaxPerOrder:       tt.EffectiveMaxPerOrder(),
	}
}

func NewTicketTypes(tts []domain.TicketType) []TicketType {
	result := make([]TicketType, len(tts))
	for i, tt := range tts {
		result[i] = NewTicketType(tt)
	}

	return result
}
