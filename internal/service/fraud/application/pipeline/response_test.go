package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/service/fraud/domain"
)

func TestValidateResponse(t *testing.T) {
	resp, err := ValidateResponse([]byte(`{"success":true,"data":{"status":"success","forterDecision":"DECLINE","recommendation":"VERIFICATION_REQUIRED_3DS_CHALLENGE","threeDsAuthOnExclusion":"never"}}`))
	require.NoError(t, err)
	require.NotNil(t, resp.Data.ForterDecision)
	assert.Equal(t, "DECLINE", *resp.Data.ForterDecision)
	assert.Equal(t, "never", *resp.Data.ThreeDsAuthOnExclusion)
}

func TestValidateResponseAcceptsNullOptionalFields(t *testing.T) {
	resp, err := ValidateResponse([]byte(`{"data":{"forterDecision":"APPROVE","recommendation":null,"status":null}}`))
	require.NoError(t, err)
	assert.Nil(t, resp.Data.Recommendation)
	assert.Nil(t, resp.Data.ThreeDsAuthOnExclusion)
}

func TestValidateResponseCoercesOptionalFields(t *testing.T) {
	resp, err := ValidateResponse([]byte(`{"success":true,"data":{"status":200,"forterDecision":"DECLINE","recommendation":["X"],"threeDsAuthOnExclusion":{"mode":"never"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "200", *resp.Data.Status)
	assert.Equal(t, "DECLINE", *resp.Data.ForterDecision)
	assert.Nil(t, resp.Data.Recommendation)
	assert.Nil(t, resp.Data.ThreeDsAuthOnExclusion)
}

func TestValidateResponseScalarDecision(t *testing.T) {
	resp, err := ValidateResponse([]byte(`{"data":{"forterDecision":1,"status":true,"recommendation":false}}`))
	require.NoError(t, err)
	assert.Equal(t, "1", *resp.Data.ForterDecision)
	assert.Equal(t, "1", *resp.Data.Status)
	assert.Equal(t, "", *resp.Data.Recommendation)
}

func TestValidateResponseNullDecisionIsPresent(t *testing.T) {
	resp, err := ValidateResponse([]byte(`{"data":{"forterDecision":null}}`))
	require.NoError(t, err)
	assert.Nil(t, resp.Data.ForterDecision)
}

func TestValidateResponseRejects(t *testing.T) {
	for name, body := range map[string]string{
		"empty body":             ``,
		"not json":               `<html>bad gateway</html>`,
		"null":                   `null`,
		"array":                  `[]`,
		"missing data":           `{"success":true}`,
		"data not object":        `{"data":"approve"}`,
		"data array":             `{"data":[]}`,
		"missing forterDecision": `{"data":{"status":"success"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateResponse([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidResponse))
		})
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, ErrorKindData, ErrorKind(domain.ErrInvalidCollectedData))
	assert.Equal(t, ErrorKindValidation, ErrorKind(domain.ErrInvalidResponse))
	assert.Equal(t, ErrorKindTransport, ErrorKind(errors.New("connection refused")))
}
