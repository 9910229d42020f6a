package domain

import "context"

type sessionKey struct{}

// WithSessionID 把结账会话 ID 放入上下文，会话解析器据此找到登录顾客。
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func SessionIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}
