package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"fraudgate/internal/service/fraud/domain"
)

const paymentTTL = 24 * time.Hour

type storedPayment struct {
	ID                    string              `json:"id"`
	OrderNo               string              `json:"orderNo"`
	Method                string              `json:"method"`
	AmountOrdered         decimal.NullDecimal `json:"amountOrdered"`
	AdditionalInformation map[string]any      `json:"additionalInformation"`
}

// PaymentRedisStore 是 port.PaymentRepository 的 Redis 实现，保存结账会话中的支付。
type PaymentRedisStore struct {
	client redis.Cmdable
}

func NewPaymentRedisStore(client redis.Cmdable) *PaymentRedisStore {
	return &PaymentRedisStore{client: client}
}

func paymentKey(orderNo string) string {
	return fmt.Sprintf("checkout:payment:{%s}", orderNo)
}

func (s *PaymentRedisStore) FindByOrderNo(ctx context.Context, orderNo string) (*domain.Payment, error) {
	raw, err := s.client.Get(ctx, paymentKey(orderNo)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, errors.Wrap(err, "redis get payment")
	}

	var stored storedPayment
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, errors.Wrap(err, "decode stored payment")
	}
	return &domain.Payment{
		ID:                    stored.ID,
		OrderNo:               stored.OrderNo,
		Method:                stored.Method,
		AmountOrdered:         stored.AmountOrdered,
		AdditionalInformation: stored.AdditionalInformation,
	}, nil
}

func (s *PaymentRedisStore) Save(ctx context.Context, payment *domain.Payment) error {
	raw, err := json.Marshal(storedPayment{
		ID:                    payment.ID,
		OrderNo:               payment.OrderNo,
		Method:                payment.Method,
		AmountOrdered:         payment.AmountOrdered,
		AdditionalInformation: payment.AdditionalInformation,
	})
	if err != nil {
		return errors.Wrap(err, "encode payment")
	}
	return s.client.Set(ctx, paymentKey(payment.OrderNo), raw, paymentTTL).Err()
}
