package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"fraudgate/internal/pkg/httpclient"
	"fraudgate/internal/service/fraud/domain"
)

const pspAuthorizePath = "/v1/authorizations"

type authorizeRequest struct {
	OrderNo   string `json:"orderNo"`
	PaymentID string `json:"paymentId"`
	Method    string `json:"method"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

type authorizeResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// PSPHTTPAdapter 是 port.PaymentGateway 接口的HTTP实现。
type PSPHTTPAdapter struct {
	client  *httpclient.Client
	service string
}

func NewPSPHTTPAdapter(client *httpclient.Client, service string) *PSPHTTPAdapter {
	return &PSPHTTPAdapter{client: client, service: service}
}

// Authorize 只有 PSP 返回 authorized 时才算成功。
func (a *PSPHTTPAdapter) Authorize(ctx context.Context, order *domain.Order, payment *domain.Payment) error {
	amount := order.GrandTotal
	if payment.AmountOrdered.Valid {
		amount = payment.AmountOrdered.Decimal
	}

	raw, err := a.client.PostJSON(ctx, a.service, pspAuthorizePath, authorizeRequest{
		OrderNo:   order.IncrementID,
		PaymentID: payment.ID,
		Method:    payment.Method,
		Amount:    amount.StringFixed(2),
		Currency:  order.CurrencyCode,
	}, nil)
	if err != nil {
		return errors.Wrap(err, "psp authorize")
	}

	var resp authorizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return errors.Wrap(err, "decode psp response")
	}
	if resp.Status != "authorized" {
		return errors.Wrapf(domain.ErrAuthorizationRefused, "status %q: %s", resp.Status, resp.Reason)
	}
	return nil
}
