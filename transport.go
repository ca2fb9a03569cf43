package aetherlab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/aetherlab/go-sdk/internal/api"
)

// Doer executes a single HTTP request. *http.Client satisfies it; tests and
// callers with custom transport needs can supply their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBodySize bounds how much of an error response we read when the
// service returns something other than the expected envelope.
const maxErrorBodySize = 8 << 10

// transport performs one JSON POST exchange per call. It holds only
// immutable configuration, so it is safe for concurrent use.
type transport struct {
	client  Doer
	baseURL *url.URL
	apiKey  string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// post marshals in, sends it to path, and unmarshals the 2xx response into
// out. Failures are mapped onto the client error taxonomy: *TransportError
// for anything network-shaped, *ServiceError for a structured remote
// rejection.
func (t *transport) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		// Marshal failures are caller mistakes (e.g. an unmarshalable value
		// in the context map), caught before any round trip.
		return newValidationError("", err)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	endpoint := t.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	t.logger.Debug("sending request",
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	resp, err := t.execute(req)
	if err != nil {
		t.logger.Debug("request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	t.logger.Debug("received response",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return t.decodeServiceError(resp, requestID)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A 2xx with an undecodable body means the exchange was cut short
		// or corrupted in flight. Never surface a partial result.
		return &TransportError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// execute runs the request, through the circuit breaker when one is
// configured. An open breaker is reported like any other transport failure.
func (t *transport) execute(req *http.Request) (*http.Response, error) {
	if t.breaker == nil {
		return t.client.Do(req)
	}

	result, err := t.breaker.Execute(func() (any, error) {
		return t.client.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker: %w", err)
		}
		return nil, err
	}
	resp, ok := result.(*http.Response)
	if !ok {
		return nil, errors.New("circuit breaker returned unexpected result type")
	}
	return resp, nil
}

// decodeServiceError turns a non-2xx response into a *ServiceError. The
// gateway's envelope is used when present; otherwise the raw body stands in
// for the message so nothing is swallowed.
func (t *transport) decodeServiceError(resp *http.Response, requestID string) error {
	svcErr := &ServiceError{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("reading error response: %w", err)}
	}

	var envelope api.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		svcErr.Code = envelope.Error.Code
		svcErr.Message = envelope.Error.Message
		if envelope.Error.RequestID != "" {
			svcErr.RequestID = envelope.Error.RequestID
		}
	} else if len(body) > 0 {
		svcErr.Message = string(body)
	} else {
		svcErr.Message = http.StatusText(resp.StatusCode)
	}

	return svcErr
}
