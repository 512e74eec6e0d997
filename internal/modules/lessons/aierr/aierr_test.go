package aierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
)

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil, Scope{}))
}

func TestClassifyProviderErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"status 429", &llm.ProviderError{Provider: "openrouter", StatusCode: 429}, KindQuotaExceeded},
		{"status 402", &llm.ProviderError{Provider: "openrouter", StatusCode: 402}, KindQuotaExceeded},
		{"gemini exhausted", &llm.ProviderError{Provider: "gemini", StatusCode: 503, Code: "RESOURCE_EXHAUSTED"}, KindQuotaExceeded},
		{"rate limit code", &llm.ProviderError{Code: "rate_limit_exceeded"}, KindQuotaExceeded},
		{"status 400", &llm.ProviderError{StatusCode: 400}, KindInvalidContent},
		{"invalid argument", &llm.ProviderError{StatusCode: 500, Code: "INVALID_ARGUMENT"}, KindInvalidContent},
		{"status 504", &llm.ProviderError{StatusCode: 504}, KindNetworkTimeout},
		{"deadline code", &llm.ProviderError{Code: "DEADLINE_EXCEEDED"}, KindNetworkTimeout},
		{"status 500", &llm.ProviderError{StatusCode: 500, Code: "INTERNAL"}, KindUnknown},
		{"wrapped", fmt.Errorf("section vocabulary: %w", &llm.ProviderError{StatusCode: 429}), KindQuotaExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ce := Classify(tc.err, Scope{Section: "vocabulary"})
			require.NotNil(t, ce)
			assert.Equal(t, tc.want, ce.Kind())
		})
	}
}

func TestClassifyTransportErrors(t *testing.T) {
	assert.Equal(t, KindNetworkTimeout, Classify(context.DeadlineExceeded, Scope{}).Kind())
	assert.Equal(t, KindNetworkTimeout, Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}, Scope{}).Kind())
	assert.Equal(t, KindUnknown, Classify(errors.New("boom"), Scope{}).Kind())
}

func TestClassifyAssignsIDs(t *testing.T) {
	a := Classify(errors.New("x"), Scope{})
	b := Classify(errors.New("x"), Scope{})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.WithinDuration(t, time.Now(), a.At(), time.Minute)
}

func TestClassifyKeepsExistingClassification(t *testing.T) {
	first := Classify(&llm.ProviderError{StatusCode: 429}, Scope{})
	again := Classify(fmt.Errorf("wrapped: %w", first), Scope{})
	assert.Equal(t, first.ID(), again.ID())
}

func TestUnwrapReachesCause(t *testing.T) {
	pe := &llm.ProviderError{StatusCode: 429}
	ce := Classify(pe, Scope{})
	var got *llm.ProviderError
	require.True(t, errors.As(ce, &got))
	assert.Same(t, pe, got)
}

func TestMessages(t *testing.T) {
	ce := Classify(&llm.ProviderError{Provider: "gemini", StatusCode: 429, Message: "slow down"},
		Scope{Operation: "section", Section: "grammar", Provider: "gemini"})
	assert.Contains(t, UserMessage(ce), "too many requests")

	sm := Support(ce)
	assert.Equal(t, ce.ID(), sm.ErrorID)
	assert.Equal(t, KindQuotaExceeded, sm.Type)
	assert.Contains(t, sm.TechnicalDetails, "slow down")
	assert.Contains(t, sm.TechnicalDetails, "section=grammar")
	assert.Equal(t, ce.At(), sm.Timestamp)

	unknown := Classify(errors.New("weird"), Scope{})
	assert.Contains(t, UserMessage(unknown), unknown.ID())
}

func TestKindCodes(t *testing.T) {
	assert.Equal(t, apierr.CodeQuotaExceeded, KindQuotaExceeded.Code())
	assert.Equal(t, apierr.CodeInvalidContent, KindInvalidContent.Code())
	assert.Equal(t, apierr.CodeNetworkTimeout, KindNetworkTimeout.Code())
	assert.Equal(t, apierr.CodeUnknown, KindUnknown.Code())
}

func TestSupportCarriesRequestIdentity(t *testing.T) {
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-7", TraceID: "trace-7"})
	scope := NewScope(ctx, "section")
	scope.Section = "vocabulary"
	ce := Classify(&llm.ProviderError{StatusCode: 504}, scope)

	sm := Support(ce)
	assert.Equal(t, "req-7", sm.RequestID)
	assert.Equal(t, "trace-7", sm.TraceID)
	assert.Contains(t, sm.TechnicalDetails, "section=vocabulary")

	fields := sm.LogFields()
	assert.Contains(t, fields, "request_id")
	assert.Contains(t, fields, "req-7")
	assert.Contains(t, fields, "trace-7")

	bare := Support(Classify(errors.New("x"), NewScope(context.Background(), "shared_context")))
	assert.Empty(t, bare.RequestID)
	assert.NotContains(t, bare.LogFields(), "request_id")
}
