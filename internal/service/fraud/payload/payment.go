package payload

import (
	"encoding/json"

	"github.com/pkg/errors"

	"fraudgate/internal/service/fraud/checkout"
	"fraudgate/internal/service/fraud/domain"
)

// PaymentBuilder 构建支付段，卡信息来自前端采集的数据。
type PaymentBuilder struct{}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{}
}

// PaymentData 在采集数据不是合法 JSON 时返回包装了 domain.ErrInvalidCollectedData 的错误。
func (b *PaymentBuilder) PaymentData(order *domain.Order, payment *domain.Payment, data *checkout.Data) (PaymentData, error) {
	card, err := cardDetails(data)
	if err != nil {
		return PaymentData{}, err
	}

	amount := order.GrandTotal
	if payment.AmountOrdered.Valid {
		amount = payment.AmountOrdered.Decimal
	}

	return PaymentData{
		PaymentMethod: payment.Method,
		Amount:        NewMoney(amount),
		Card:          card,
	}, nil
}

func cardDetails(data *checkout.Data) (Card, error) {
	var card Card
	collected, ok := data.CollectedData()
	if !ok {
		return card, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(collected), &parsed); err != nil {
		return card, errors.Wrapf(domain.ErrInvalidCollectedData, "error getting card details: %v", err)
	}
	if _, isObject := parsed.(map[string]any); !isObject {
		return card, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(collected), &fields); err != nil {
		return card, errors.Wrapf(domain.ErrInvalidCollectedData, "error getting card details: %v", err)
	}

	card.CardType = present(fields, checkout.CardBrandKey)
	card.CardBin = present(fields, checkout.CardBinKey)
	card.CardLastDigits = present(fields, checkout.CardLast4DigitsKey)
	card.CardHolder = present(fields, checkout.CardHolderNameKey)
	return card, nil
}

// present 把缺失和 null 都视为不存在。
func present(fields map[string]json.RawMessage, key string) json.RawMessage {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	return raw
}
