package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"fraudgate/internal/service/fraud/domain"
)

type sessionCustomer struct {
	ID        string    `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionRedisResolver 是 port.CustomerSession 的 Redis 实现，会话 ID 来自上下文。
type SessionRedisResolver struct {
	client redis.Cmdable
}

func NewSessionRedisResolver(client redis.Cmdable) *SessionRedisResolver {
	return &SessionRedisResolver{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("checkout:session:{%s}:customer", id)
}

// CurrentCustomer 没有会话或会话中没有登录顾客时返回 (nil, nil)。
func (r *SessionRedisResolver) CurrentCustomer(ctx context.Context) (*domain.Customer, error) {
	id, ok := domain.SessionIDFrom(ctx)
	if !ok {
		return nil, nil
	}

	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "redis get session customer")
	}

	var c sessionCustomer
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "decode session customer")
	}
	return &domain.Customer{
		ID:        c.ID,
		Firstname: c.Firstname,
		Lastname:  c.Lastname,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}, nil
}
