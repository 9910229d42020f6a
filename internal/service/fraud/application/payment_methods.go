package application

import "fraudgate/internal/service/fraud/domain/port"

// CompositePaymentMethodProvider 合并各 PSP 模块登记的支付方式。
type CompositePaymentMethodProvider struct {
	providers []port.PaymentMethodProvider
}

func NewCompositePaymentMethodProvider(providers ...port.PaymentMethodProvider) *CompositePaymentMethodProvider {
	return &CompositePaymentMethodProvider{providers: providers}
}

// PaymentMethods 返回去重后的支付方式，保留首次出现的顺序。
func (c *CompositePaymentMethodProvider) PaymentMethods() []string {
	var all []string
	for _, p := range c.providers {
		all = append(all, p.PaymentMethods()...)
	}

	seen := make(map[string]struct{}, len(all))
	methods := make([]string, 0, len(all))
	for _, m := range all {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		methods = append(methods, m)
	}
	return methods
}

// StaticPaymentMethods 是来自配置的固定登记表。
type StaticPaymentMethods []string

func (s StaticPaymentMethods) PaymentMethods() []string {
	return s
}
