package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/service/fraud/domain"
)

// responseSchema 只要求 data 是对象且包含 forterDecision 键，其余字段可选，类型不做约束。
const responseSchema = `{
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "object",
      "required": ["forterDecision"]
    }
  }
}`

var compiledResponseSchema = mustCompileSchema(responseSchema)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// ScoringResponse 是评分服务的响应。
type ScoringResponse struct {
	Data ScoringResponseData
}

// ScoringResponseData 中缺失、null 或无法转成字符串的字段为 nil，由映射步骤取默认值。
type ScoringResponseData struct {
	Status                 *string
	ForterDecision         *string
	Recommendation         *string
	ThreeDsAuthOnExclusion *string
}

// ValidateResponse 校验响应结构，失败时返回包装了 domain.ErrInvalidResponse 的错误。
func ValidateResponse(raw []byte) (*ScoringResponse, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidResponse, "no response received from fraud detection service")
	}

	result, err := compiledResponseSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, errors.Wrapf(domain.ErrInvalidResponse, "invalid response type from fraud detection service: %v", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, errors.Wrapf(domain.ErrInvalidResponse, "unexpected response structure: %s", strings.Join(details, "; "))
	}

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, errors.Wrapf(domain.ErrInvalidResponse, "decode response: %v", err)
	}

	data := envelope.Data
	return &ScoringResponse{Data: ScoringResponseData{
		Status:                 scalarString(data["status"]),
		ForterDecision:         scalarString(data["forterDecision"]),
		Recommendation:         scalarString(data["recommendation"]),
		ThreeDsAuthOnExclusion: scalarString(data["threeDsAuthOnExclusion"]),
	}}, nil
}

// scalarString 把标量转成字符串：数字保留原文，true 为 "1"，false 为 ""。
// 数组、对象和 null 返回 nil。
func scalarString(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		if t {
			s = "1"
		}
	default:
		return nil
	}
	return &s
}

type ValidateHandler struct {
	NextHandler
}

func (h *ValidateHandler) Handle(dc *DecisionContext) error {
	resp, err := ValidateResponse(dc.Raw)
	if err != nil {
		return err
	}
	dc.Response = resp
	return h.executeNext(dc)
}

// MapDecisionHandler 把响应映射为 domain.Decision。
type MapDecisionHandler struct {
	NextHandler
}

func (h *MapDecisionHandler) Handle(dc *DecisionContext) error {
	data := dc.Response.Data
	recommendation := value(data.Recommendation)
	decision := domain.NewDecision(data.Status, value(data.ForterDecision), recommendation, value(data.ThreeDsAuthOnExclusion))
	dc.Decision = &decision

	logger.Ctx(dc.Ctx).Info().
		Str("orderId", dc.orderNo()).
		Str("stage", string(dc.Stage)).
		Interface("status", data.Status).
		Str("decision", decision.Decision).
		Str("recommendation", recommendation).
		Msg("fraud detection result")

	return h.executeNext(dc)
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
