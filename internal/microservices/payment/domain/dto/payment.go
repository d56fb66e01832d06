package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"cantina/internal/microservices/payment/domain/dao"
)

const (
	EventBillingPaid    = "billing.paid"
	EventBillingExpired = "billing.expired"
)

type PaymentResponse struct {
	ID         uuid.UUID  `json:"id"`
	OrderID    uuid.UUID  `json:"order_id"`
	Amount     string     `json:"amount"`
	Status     string     `json:"status"`
	PixPayload string     `json:"pix_payload"`
	QRCodeURL  string     `json:"qr_code_url"`
	ExpiresAt  time.Time  `json:"expires_at"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// WebhookRequest is the provider notification body. Data stays raw until the event is known.
type WebhookRequest struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type WebhookBilling struct {
	ID string `json:"id"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

func ToPaymentResponse(p dao.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		OrderID:    p.OrderID,
		Amount:     p.Amount.StringFixed(2),
		Status:     string(p.Status),
		PixPayload: p.PixPayload,
		QRCodeURL:  p.QRCodeURL,
		ExpiresAt:  p.ExpiresAt,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}
