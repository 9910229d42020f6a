package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/pkg/errors"

	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/payload"
)

// fixture 是一个订单快照文件，customer 存在时视为已登录顾客。
type fixture struct {
	Order    domain.Order     `json:"order"`
	Payment  domain.Payment   `json:"payment"`
	Customer *domain.Customer `json:"customer"`
	Request  struct {
		Headers    map[string]string `json:"headers"`
		RemoteAddr string            `json:"remoteAddr"`
	} `json:"request"`
}

func loadFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read fixture %s", path)
	}
	var f fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", path)
	}
	return &f, nil
}

func (f *fixture) requestContext() domain.RequestContext {
	headers := make(http.Header, len(f.Request.Headers))
	for k, v := range f.Request.Headers {
		headers.Set(k, v)
	}
	return domain.RequestContext{Headers: headers, RemoteAddr: f.Request.RemoteAddr}
}

// fixedSession 总是返回夹具中的顾客。
type fixedSession struct {
	customer *domain.Customer
}

func (s fixedSession) CurrentCustomer(context.Context) (*domain.Customer, error) {
	return s.customer, nil
}

func newAssembler(f *fixture) *payload.Assembler {
	return payload.NewAssembler(
		payload.NewBasicInfoBuilder(),
		payload.NewCartBuilder(),
		payload.NewCustomerBuilder(fixedSession{customer: f.Customer}, nil),
		payload.NewPaymentBuilder(),
	)
}
