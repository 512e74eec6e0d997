// Package aierr turns raw provider and network failures into a closed set of
// classified errors with user-facing and support-facing messages.
package aierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/httpx"
)

type Kind string

const (
	KindQuotaExceeded  Kind = "quota_exceeded"
	KindInvalidContent Kind = "invalid_content"
	KindNetworkTimeout Kind = "network_timeout"
	KindUnknown        Kind = "unknown"
)

// Code maps the kind onto the API error taxonomy.
func (k Kind) Code() string {
	switch k {
	case KindQuotaExceeded:
		return apierr.CodeQuotaExceeded
	case KindInvalidContent:
		return apierr.CodeInvalidContent
	case KindNetworkTimeout:
		return apierr.CodeNetworkTimeout
	default:
		return apierr.CodeUnknown
	}
}

// Scope describes what was being attempted when the error happened.
type Scope struct {
	Operation string
	Section   string
	Provider  string
	RequestID string
	TraceID   string
}

// NewScope starts a scope for operation, carrying the request and trace ids
// attached to ctx by the HTTP layer.
func NewScope(ctx context.Context, operation string) Scope {
	s := Scope{Operation: operation}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		s.RequestID = td.RequestID
		s.TraceID = td.TraceID
	}
	return s
}

// ClassifiedError is one of *QuotaExceeded, *InvalidContent,
// *NetworkTimeout or *Unknown.
type ClassifiedError interface {
	error
	Kind() Kind
	ID() string
	At() time.Time
	Scope() Scope
	isClassified()
}

type base struct {
	errorID string
	at      time.Time
	scope   Scope
	cause   error
}

func (b base) ID() string    { return b.errorID }
func (b base) At() time.Time { return b.at }
func (b base) Scope() Scope  { return b.scope }
func (b base) Unwrap() error { return b.cause }
func (base) isClassified()   {}

func (b base) causeText() string {
	if b.cause == nil {
		return ""
	}
	return b.cause.Error()
}

type QuotaExceeded struct {
	base
	StatusCode int
}

func (e *QuotaExceeded) Kind() Kind { return KindQuotaExceeded }
func (e *QuotaExceeded) Error() string {
	return fmt.Sprintf("quota exceeded (status %d): %s", e.StatusCode, e.causeText())
}

type InvalidContent struct {
	base
	ProviderCode string
}

func (e *InvalidContent) Kind() Kind { return KindInvalidContent }
func (e *InvalidContent) Error() string {
	return fmt.Sprintf("invalid content (%s): %s", e.ProviderCode, e.causeText())
}

type NetworkTimeout struct {
	base
}

func (e *NetworkTimeout) Kind() Kind    { return KindNetworkTimeout }
func (e *NetworkTimeout) Error() string { return "network timeout: " + e.causeText() }

type Unknown struct {
	base
}

func (e *Unknown) Kind() Kind    { return KindUnknown }
func (e *Unknown) Error() string { return "unknown ai error: " + e.causeText() }

type providerCoder interface {
	ProviderCode() string
}

var (
	now   = time.Now
	newID = uuid.NewString
)

// Classify maps err onto the taxonomy. Provider codes win over HTTP status,
// which wins over transport inspection. A nil err yields nil.
func Classify(err error, scope Scope) ClassifiedError {
	if err == nil {
		return nil
	}
	var already ClassifiedError
	if errors.As(err, &already) {
		return already
	}
	b := base{errorID: newID(), at: now().UTC(), scope: scope, cause: err}

	var pc providerCoder
	code := ""
	if errors.As(err, &pc) {
		code = strings.ToLower(strings.TrimSpace(pc.ProviderCode()))
	}
	status := 0
	var sc httpx.HTTPStatusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatusCode()
	}

	switch kindForCode(code) {
	case KindQuotaExceeded:
		return &QuotaExceeded{base: b, StatusCode: status}
	case KindInvalidContent:
		return &InvalidContent{base: b, ProviderCode: code}
	case KindNetworkTimeout:
		return &NetworkTimeout{base: b}
	}

	switch status {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return &QuotaExceeded{base: b, StatusCode: status}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &InvalidContent{base: b, ProviderCode: code}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return &NetworkTimeout{base: b}
	}

	if httpx.IsTimeout(err) {
		return &NetworkTimeout{base: b}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &NetworkTimeout{base: b}
	}
	return &Unknown{base: b}
}

func kindForCode(code string) Kind {
	if code == "" {
		return ""
	}
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(code, s) {
				return true
			}
		}
		return false
	}
	switch {
	case has("quota", "rate_limit", "rate limit", "resource_exhausted", "too_many_requests", "insufficient_credits"):
		return KindQuotaExceeded
	case has("deadline_exceeded", "timeout", "timed_out"):
		return KindNetworkTimeout
	case has("invalid_argument", "invalid_request", "invalid_prompt", "content_filter", "safety", "failed_precondition"):
		return KindInvalidContent
	}
	return ""
}

// UserMessage is safe to show to end users.
func UserMessage(ce ClassifiedError) string {
	switch ce.(type) {
	case *QuotaExceeded:
		return "The AI service is receiving too many requests right now. Please wait a minute and try again."
	case *InvalidContent:
		return "The AI service could not process this content. Try shortening or rephrasing the source text."
	case *NetworkTimeout:
		return "The AI service took too long to respond. Please check your connection and try again."
	default:
		return fmt.Sprintf("Something went wrong while generating your lesson. If it keeps happening, contact support with error ID %s.", ce.ID())
	}
}

type SupportMessage struct {
	ErrorID          string    `json:"errorId"`
	Type             Kind      `json:"type"`
	TechnicalDetails string    `json:"technicalDetails"`
	Timestamp        time.Time `json:"timestamp"`
	RequestID        string    `json:"requestId,omitempty"`
	TraceID          string    `json:"traceId,omitempty"`
}

// LogFields flattens the message into logger key/value pairs.
func (m SupportMessage) LogFields() []interface{} {
	fields := []interface{}{
		"error_id", m.ErrorID,
		"kind", string(m.Type),
		"details", m.TechnicalDetails,
	}
	if m.RequestID != "" {
		fields = append(fields, "request_id", m.RequestID)
	}
	if m.TraceID != "" {
		fields = append(fields, "trace_id", m.TraceID)
	}
	return fields
}

func Support(ce ClassifiedError) SupportMessage {
	details := ce.Error()
	s := ce.Scope()
	var ctx []string
	if s.Operation != "" {
		ctx = append(ctx, "operation="+s.Operation)
	}
	if s.Section != "" {
		ctx = append(ctx, "section="+s.Section)
	}
	if s.Provider != "" {
		ctx = append(ctx, "provider="+s.Provider)
	}
	if len(ctx) > 0 {
		details += " [" + strings.Join(ctx, " ") + "]"
	}
	return SupportMessage{
		ErrorID:          ce.ID(),
		Type:             ce.Kind(),
		TechnicalDetails: details,
		Timestamp:        ce.At(),
		RequestID:        s.RequestID,
		TraceID:          s.TraceID,
	}
}
