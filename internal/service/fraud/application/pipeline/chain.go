package pipeline

import (
	"errors"

	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/domain/port"
	"fraudgate/internal/service/fraud/payload"
)

// Options 是构建处理链所需的配置和依赖。
type Options struct {
	CallerHeader string
	MetadataKey  string
	Assembler    *payload.Assembler
	Scoring      port.ScoringService
}

// NewPreAuthorizationChain 构建支付前的决策链：
// 调用方 -> 上下文 -> 组装 -> 提交 -> 校验 -> 映射 -> 持久化 -> 裁决。
func NewPreAuthorizationChain(opts Options) Handler {
	head := &CallerGateHandler{Header: opts.CallerHeader}
	head.SetNext(&ContextGateHandler{MetadataKey: opts.MetadataKey}).
		SetNext(&BuildHandler{Assembler: opts.Assembler}).
		SetNext(&SubmitHandler{Scoring: opts.Scoring}).
		SetNext(&ValidateHandler{}).
		SetNext(&MapDecisionHandler{}).
		SetNext(&PersistHandler{}).
		SetNext(&DecideHandler{})
	return head
}

// NewFailureReportChain 构建支付失败上报链，复用同样的入口门控，不解析响应。
func NewFailureReportChain(opts Options) Handler {
	head := &CallerGateHandler{Header: opts.CallerHeader}
	head.SetNext(&ContextGateHandler{MetadataKey: opts.MetadataKey}).
		SetNext(&BuildHandler{Assembler: opts.Assembler}).
		SetNext(&SubmitHandler{Scoring: opts.Scoring}).
		SetNext(&ReportedHandler{})
	return head
}

// 错误类别，用于日志和指标。
const (
	ErrorKindData       = "data"
	ErrorKindValidation = "validation"
	ErrorKindTransport  = "transport"
	ErrorKindPanic      = "panic"
)

// ErrorKind 对流程中被吞掉的错误分类。
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCollectedData):
		return ErrorKindData
	case errors.Is(err, domain.ErrInvalidResponse):
		return ErrorKindValidation
	default:
		return ErrorKindTransport
	}
}
