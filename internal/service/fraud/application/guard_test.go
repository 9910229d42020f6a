package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"fraudgate/internal/service/fraud/application/pipeline"
	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/domain/port"
	"fraudgate/internal/service/fraud/payload"
)

type scoringCall struct {
	path string
	body *payload.Document
}

// fakeScoring 记录每次调用并返回预设响应。
type fakeScoring struct {
	response string
	err      error
	panics   bool
	calls    []scoringCall
}

func (f *fakeScoring) SendRequest(_ context.Context, path string, body any) ([]byte, error) {
	if f.panics {
		panic("scoring exploded")
	}
	doc, _ := body.(*payload.Document)
	f.calls = append(f.calls, scoringCall{path: path, body: doc})
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.response), nil
}

func newTestGuard(scoring port.ScoringService) *Guard {
	assembler := payload.NewAssembler(payload.NewBasicInfoBuilder(), payload.NewCartBuilder(), payload.NewCustomerBuilder(nil, nil), payload.NewPaymentBuilder())
	return NewGuard(pipeline.Options{
		Assembler: assembler,
		Scoring:   scoring,
	}, noop.NewTracerProvider().Tracer("test"))
}

func headlessRequest() domain.RequestContext {
	h := http.Header{}
	h.Set("X-Tapbuy-Call", "1")
	h.Set("User-Agent", "Mozilla/5.0")
	return domain.RequestContext{Headers: h, RemoteAddr: "198.51.100.1"}
}

func testOrder() *domain.Order {
	email := "a@b.com"
	return &domain.Order{
		IncrementID:   "100000123",
		CustomerEmail: &email,
		CurrencyCode:  "EUR",
		GrandTotal:    decimal.RequireFromString("100.00"),
		Items: []domain.Item{{
			ItemID: "1", ProductID: "42", Sku: "ABC", Name: "Shirt",
			Price: decimal.RequireFromString("40.00"), QtyOrdered: decimal.RequireFromString("2"),
		}},
	}
}

func testPayment(info string) *domain.Payment {
	p := &domain.Payment{ID: "pay_1", OrderNo: "100000123", Method: "adyen_cc"}
	if info != "" {
		p.AdditionalInformation = map[string]any{"tapbuy": info}
	}
	return p
}

const tokenInfo = `{"forter_token":"tok_abc"}`

func decisionResponse(decision, recommendation string) string {
	raw, _ := json.Marshal(map[string]any{"data": map[string]any{
		"status":         "success",
		"forterDecision": decision,
		"recommendation": recommendation,
	}})
	return string(raw)
}

func TestBeforePaymentActionWithoutTokenMakesNoCalls(t *testing.T) {
	for name, info := range map[string]string{
		"no metadata":    "",
		"empty token":    `{"forter_token":""}`,
		"malformed json": `{"forter_token"`,
	} {
		t.Run(name, func(t *testing.T) {
			scoring := &fakeScoring{response: decisionResponse("DECLINE", "")}
			payment := testPayment(info)
			before := len(payment.AdditionalInformation)

			outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
			require.NoError(t, err)
			assert.Equal(t, pipeline.OutcomeGatedOut, outcome)
			assert.Empty(t, scoring.calls)
			assert.Len(t, payment.AdditionalInformation, before)
			assert.NotContains(t, payment.AdditionalInformation, domain.PreDecisionKey)
		})
	}
}

func TestBeforePaymentActionWithoutCallerHeader(t *testing.T) {
	scoring := &fakeScoring{response: decisionResponse("DECLINE", "")}
	req := domain.RequestContext{Headers: http.Header{"User-Agent": {"Mozilla/5.0"}}}

	outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), req, testOrder(), testPayment(tokenInfo))
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutcomeGatedOut, outcome)
	assert.Empty(t, scoring.calls)
}

func TestBeforePaymentActionApproved(t *testing.T) {
	scoring := &fakeScoring{response: `{"data":{"status":"success","forterDecision":"APPROVE","threeDsAuthOnExclusion":"never"}}`}
	payment := testPayment(tokenInfo)

	outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutcomeApproved, outcome)

	require.Len(t, scoring.calls, 1)
	assert.Equal(t, port.FraudDetectionPath, scoring.calls[0].path)
	require.NotNil(t, scoring.calls[0].body)
	assert.Equal(t, "BEFORE_PAYMENT_ACTION", scoring.calls[0].body.AdditionalIdentifiers.MagentoAdditionalOrderData.MagentoOrderStage)

	assert.Equal(t, "approve", payment.AdditionalInformation[domain.PreDecisionKey])
	assert.Equal(t, []string{}, payment.AdditionalInformation[domain.PreRecommendationsKey])
	assert.Equal(t, "never", payment.AdditionalInformation[domain.ThreeDsAuthOnExclusionKey])
}

func TestBeforePaymentActionDeclined(t *testing.T) {
	scoring := &fakeScoring{response: decisionResponse("DECLINE", "")}
	payment := testPayment(tokenInfo)

	outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
	require.Error(t, err)
	assert.True(t, domain.IsPaymentDeclined(err))
	assert.Equal(t, "The order can't be placed.", err.Error())
	assert.Equal(t, pipeline.OutcomeDeclined, outcome)
	assert.Equal(t, "decline", payment.AdditionalInformation[domain.PreDecisionKey])
	assert.Equal(t, "always", payment.AdditionalInformation[domain.ThreeDsAuthOnExclusionKey])
}

func TestBeforePaymentActionChallengeDeferred(t *testing.T) {
	scoring := &fakeScoring{response: decisionResponse("DECLINE", domain.RecommendationChallenge3DS)}
	payment := testPayment(tokenInfo)

	outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutcomeChallengeDeferred, outcome)
	assert.Equal(t, "decline", payment.AdditionalInformation[domain.PreDecisionKey])
	assert.Equal(t, []string{domain.RecommendationChallenge3DS}, payment.AdditionalInformation[domain.PreRecommendationsKey])
}

func TestBeforePaymentActionFailsOpen(t *testing.T) {
	tests := map[string]struct {
		scoring *fakeScoring
		info    string
	}{
		"transport error":      {scoring: &fakeScoring{err: errors.New("connection refused")}, info: tokenInfo},
		"missing data":         {scoring: &fakeScoring{response: `{"success":false}`}, info: tokenInfo},
		"data not an object":   {scoring: &fakeScoring{response: `{"data":"DECLINE"}`}, info: tokenInfo},
		"missing decision":     {scoring: &fakeScoring{response: `{"data":{"status":"error"}}`}, info: tokenInfo},
		"malformed card data":  {scoring: &fakeScoring{response: decisionResponse("DECLINE", "")}, info: `{"forter_token":"tok","collected_forter_data":"{bad"}`},
		"panic during scoring": {scoring: &fakeScoring{panics: true}, info: tokenInfo},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			payment := testPayment(tt.info)

			outcome, err := newTestGuard(tt.scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
			require.NoError(t, err)
			assert.Equal(t, pipeline.OutcomeFailedOpen, outcome)
			assert.NotContains(t, payment.AdditionalInformation, domain.PreDecisionKey)
		})
	}
}

func TestBeforePaymentActionMalformedCardDataSkipsSubmit(t *testing.T) {
	scoring := &fakeScoring{response: decisionResponse("DECLINE", "")}
	payment := testPayment(`{"forter_token":"tok","collected_forter_data":"{bad"}`)

	_, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
	require.NoError(t, err)
	assert.Empty(t, scoring.calls)
}

func TestBeforePaymentActionScoresEveryPaymentMethod(t *testing.T) {
	scoring := &fakeScoring{response: decisionResponse("DECLINE", "")}
	payment := testPayment(tokenInfo)
	payment.Method = "paypal_express"

	outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
	assert.True(t, domain.IsPaymentDeclined(err))
	assert.Equal(t, pipeline.OutcomeDeclined, outcome)
	assert.Len(t, scoring.calls, 1)
	assert.Equal(t, "decline", payment.AdditionalInformation[domain.PreDecisionKey])
}

func TestBeforePaymentActionDeclineWithLooselyTypedFields(t *testing.T) {
	for name, response := range map[string]string{
		"numeric status":       `{"success":true,"data":{"status":200,"forterDecision":"DECLINE","recommendation":""}}`,
		"array recommendation": `{"success":true,"data":{"status":"success","forterDecision":"DECLINE","recommendation":["X"]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			scoring := &fakeScoring{response: response}
			payment := testPayment(tokenInfo)

			outcome, err := newTestGuard(scoring).BeforePaymentAction(context.Background(), headlessRequest(), testOrder(), payment)
			require.Error(t, err)
			assert.True(t, domain.IsPaymentDeclined(err))
			assert.Equal(t, pipeline.OutcomeDeclined, outcome)
			assert.Equal(t, "decline", payment.AdditionalInformation[domain.PreDecisionKey])
			assert.Equal(t, []string{}, payment.AdditionalInformation[domain.PreRecommendationsKey])
		})
	}
}

func TestAroundPlaceReportsFailure(t *testing.T) {
	scoring := &fakeScoring{response: `not even json`}
	placeErr := errors.New("psp timeout")

	err := newTestGuard(scoring).AroundPlace(context.Background(), headlessRequest(), testOrder(), testPayment(tokenInfo), func(context.Context) error {
		return placeErr
	})
	assert.Same(t, placeErr, err)

	require.Len(t, scoring.calls, 1)
	assert.Equal(t, port.FraudDetectionPath, scoring.calls[0].path)
	assert.Equal(t, "PAYMENT_ACTION_FAILURE", scoring.calls[0].body.AdditionalIdentifiers.MagentoAdditionalOrderData.MagentoOrderStage)
}

func TestAroundPlaceSuccessDoesNotReport(t *testing.T) {
	scoring := &fakeScoring{}

	err := newTestGuard(scoring).AroundPlace(context.Background(), headlessRequest(), testOrder(), testPayment(tokenInfo), func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
	assert.Empty(t, scoring.calls)
}

func TestAroundPlaceDoesNotReportDecline(t *testing.T) {
	scoring := &fakeScoring{}
	declined := domain.NewPaymentDeclinedError()

	err := newTestGuard(scoring).AroundPlace(context.Background(), headlessRequest(), testOrder(), testPayment(tokenInfo), func(context.Context) error {
		return declined
	})
	assert.Same(t, declined, err)
	assert.Empty(t, scoring.calls)
}

func TestAroundPlaceGates(t *testing.T) {
	placeErr := errors.New("psp timeout")

	scoring := &fakeScoring{}
	err := newTestGuard(scoring).AroundPlace(context.Background(), domain.RequestContext{}, testOrder(), testPayment(tokenInfo), func(context.Context) error {
		return placeErr
	})
	assert.Same(t, placeErr, err)
	assert.Empty(t, scoring.calls)

	err = newTestGuard(scoring).AroundPlace(context.Background(), headlessRequest(), testOrder(), testPayment(""), func(context.Context) error {
		return placeErr
	})
	assert.Same(t, placeErr, err)
	assert.Empty(t, scoring.calls)
}

func TestAroundPlaceReportingFailureNeverMasksError(t *testing.T) {
	placeErr := errors.New("psp timeout")

	for name, scoring := range map[string]*fakeScoring{
		"transport error": {err: errors.New("connection refused")},
		"panic":           {panics: true},
	} {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				err = newTestGuard(scoring).AroundPlace(context.Background(), headlessRequest(), testOrder(), testPayment(tokenInfo), func(context.Context) error {
					return placeErr
				})
			})
			assert.Same(t, placeErr, err)
		})
	}
}
