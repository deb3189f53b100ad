package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"

	"github.com/eventhive/ticketing-api/internal/payment"
)

// SignatureHeader carries the HMAC of the webhook body.
const SignatureHeader = "X-Paystack-Signature"

// VerifySignature reports whether signature matches the HMAC-SHA512 of
// body under the account's secret key.
func VerifySignature(secretKey string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

func ParseEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, err
	}

	return event, nil
}

// CallbackStatus maps the provider's event vocabulary onto the
// provider-neutral callback statuses the reconciler understands.
func (e *Event) CallbackStatus() payment.CallbackStatus {
	if e.Event == "charge.success" {
		return payment.CallbackSuccess
	}

	switch e.Data.Status {
	case "success":
		return payment.CallbackSuccess
	case "failed", "abandoned", "reversed":
		return payment.CallbackFailed
	default:
		return payment.CallbackPending
	}
}
