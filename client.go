package aetherlab

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/aetherlab/go-sdk/internal/api"
)

const (
	defaultBaseURL = "https://api.aetherlab.ai"
	defaultTimeout = 30 * time.Second

	// EnvAPIKey is the environment variable New falls back to when no API
	// key option was given.
	EnvAPIKey = "AETHERLAB_API_KEY"

	sdkVersion = "0.3.0"
	userAgent  = "aetherlab-go-sdk/" + sdkVersion
)

// RetryConfig configures automatic retry of failed transport exchanges.
// Retries apply only to transport errors (connection failures, timeouts)
// and only for idempotent calls; service-side rejections such as rate
// limits are always surfaced to the caller to decide.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (0 means no retry)
	MaxRetries uint64
	// InitialInterval is the initial backoff interval
	InitialInterval time.Duration
	// MaxInterval is the maximum backoff interval between retries.
	MaxInterval time.Duration
	// Multiplier is the backoff multiplier (e.g., 2.0 for exponential backoff)
	Multiplier float64
	// RandomizationFactor adds jitter to prevent thundering herd
	RandomizationFactor float64
}

// DefaultRetryConfig returns our recommended retry configuration. Note that
// retries are off unless you pass a config to WithRetryConfig.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		// A high randomization factor is recommended to prevent thundering herd.
		RandomizationFactor: 0.65,
	}
}

// option is a function that configures the client
type option func(*cfg)

// WithAPIKey sets the API key for the client. If not set, the client falls
// back to the AETHERLAB_API_KEY environment variable. If you do not have an
// API key, visit https://aetherlab.ai to request one.
func WithAPIKey(apiKey string) option {
	return func(c *cfg) {
		c.apiKey = apiKey
	}
}

// WithBaseURL overrides the API endpoint. Unless you have been told to use
// a different endpoint, there's no need to set this.
func WithBaseURL(baseURL string) option {
	return func(c *cfg) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-call timeout. If not set, the default timeout is
// 30 seconds. Expiry is reported as a *TransportError.
func WithTimeout(timeout time.Duration) option {
	return func(c *cfg) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client used for requests. Useful for
// custom proxies, TLS settings, or injecting a fake in tests.
func WithHTTPClient(client Doer) option {
	return func(c *cfg) {
		c.httpClient = client
	}
}

// WithRetryConfig enables automatic retry of transport failures on
// idempotent calls with the given configuration.
func WithRetryConfig(retryConfig RetryConfig) option {
	return func(c *cfg) {
		c.retryConfig = retryConfig
	}
}

// WithDisableRetry disables automatic retry. This is the default; the
// option exists to override an earlier WithRetryConfig.
func WithDisableRetry() option {
	return func(c *cfg) {
		c.retryConfig.MaxRetries = 0
	}
}

// WithCircuitBreaker wraps the transport in a circuit breaker that opens
// after maxFailures consecutive failures and re-closes after timeout. While
// the breaker is open, calls fail fast with a *TransportError.
func WithCircuitBreaker(timeout time.Duration, maxFailures uint32) option {
	return func(c *cfg) {
		c.breakerSettings = &gobreaker.Settings{
			Name:        "aetherlab",
			MaxRequests: 5,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		}
	}
}

// WithLogger attaches a structured logger to the client. The client logs
// each exchange at debug level. If not set, logging is disabled.
func WithLogger(logger *zap.Logger) option {
	return func(c *cfg) {
		c.logger = logger
	}
}

// cfg holds configuration for the AetherLab client
type cfg struct {
	// apiKey is your AetherLab API key
	apiKey string
	// baseURL is the AetherLab API endpoint (default: "https://api.aetherlab.ai")
	baseURL string
	// timeout is the per-call timeout
	timeout time.Duration
	// httpClient executes the HTTP exchanges
	httpClient Doer
	// retryConfig configures automatic retry of transport failures
	retryConfig RetryConfig
	// breakerSettings, when set, enable the circuit breaker
	breakerSettings *gobreaker.Settings
	// logger receives per-exchange debug logs
	logger *zap.Logger
}

// Client is the AetherLab compliance validation client. It is a pure
// request/response façade over the remote service: it holds no state
// between calls beyond its immutable configuration, and is safe for
// concurrent use.
type Client struct {
	config    *cfg
	transport *transport
}

// New creates a new AetherLab client. Construction fails immediately if no
// API key is available or the base URL is malformed; misconfiguration is
// never deferred to the first call.
func New(options ...option) (*Client, error) {
	config := &cfg{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}

	for _, option := range options {
		option(config)
	}

	if config.apiKey == "" {
		config.apiKey = os.Getenv(EnvAPIKey)
	}
	if config.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	baseURL, err := url.Parse(config.baseURL)
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return nil, ErrInvalidBaseURL
	}

	if config.httpClient == nil {
		config.httpClient = &http.Client{}
	}
	if config.logger == nil {
		config.logger = zap.NewNop()
	}

	var breaker *gobreaker.CircuitBreaker
	if config.breakerSettings != nil {
		breaker = gobreaker.NewCircuitBreaker(*config.breakerSettings)
	}

	return &Client{
		config: config,
		transport: &transport{
			client:  config.httpClient,
			baseURL: baseURL,
			apiKey:  config.apiKey,
			timeout: config.timeout,
			breaker: breaker,
			logger:  config.logger,
		},
	}, nil
}

// Close releases idle connections held by the underlying HTTP client. Safe
// to call with defer; the client must not be used afterwards.
func (c *Client) Close() error {
	type idleCloser interface {
		CloseIdleConnections()
	}
	if closer, ok := c.transport.client.(idleCloser); ok {
		closer.CloseIdleConnections()
	}
	return nil
}

// isRetriableError checks if the error is retriable. Only transport
// failures qualify; service rejections (including rate limits) and local
// validation failures never do.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// createBackoff creates a configured exponential backoff
func createBackoff(config RetryConfig) backoff.BackOff {
	if config.MaxRetries == 0 {
		return &backoff.StopBackOff{}
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = config.InitialInterval
	expBackoff.MaxInterval = config.MaxInterval
	expBackoff.Multiplier = config.Multiplier
	expBackoff.RandomizationFactor = config.RandomizationFactor
	expBackoff.MaxElapsedTime = 0 // We control retries with WithMaxRetries

	return backoff.WithMaxRetries(expBackoff, config.MaxRetries)
}

// withRetry runs fn, retrying transport failures per the configured retry
// policy. Used only for idempotent calls.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	b := createBackoff(c.config.retryConfig)

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && isRetriableError(err) {
			// Return the error to trigger backoff
			return err
		}
		// For non-retriable errors or success, stop retrying
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(b, ctx))
}

// ValidateContent submits content for compliance evaluation and returns the
// structured verdict. The request must carry non-empty Content or an Image;
// otherwise a *ValidationError is returned without any network call.
func (c *Client) ValidateContent(ctx context.Context, req *ValidationRequest) (*ValidationResult, error) {
	wire, err := req.toWire()
	if err != nil {
		return nil, err
	}

	var verdict api.ValidationVerdict
	err = c.withRetry(ctx, func() error {
		return c.transport.post(ctx, api.PathValidateContent, wire, &verdict)
	})
	if err != nil {
		return nil, err
	}

	return new(ValidationResult).fromWire(&verdict), nil
}

// TestPrompt is the legacy, simplified variant of ValidateContent scoped to
// raw text with optional keyword hints. Pass nil opts for a plain check.
func (c *Client) TestPrompt(ctx context.Context, prompt string, opts *TestPromptOptions) (*ValidationResult, error) {
	if prompt == "" {
		return nil, newValidationError("prompt", ErrNoContent)
	}

	wire := &api.TestPromptRequest{Prompt: prompt}
	if opts != nil {
		wire.BlacklistedKeywords = opts.BlacklistedKeywords
		wire.WhitelistedKeywords = opts.WhitelistedKeywords
	}

	var verdict api.ValidationVerdict
	err := c.withRetry(ctx, func() error {
		return c.transport.post(ctx, api.PathTestPrompt, wire, &verdict)
	})
	if err != nil {
		return nil, err
	}

	return new(ValidationResult).fromWire(&verdict), nil
}

// TestImage submits an image for compliance evaluation. A mismatch between
// the declared input type and the actual value (for example a local path
// given to NewImageURL) is reported as a *ValidationError before any
// network call.
func (c *Client) TestImage(ctx context.Context, req *ImageRequest) (*ImageValidationResult, error) {
	wire, err := req.toWire()
	if err != nil {
		return nil, err
	}

	var resp api.TestImageResponse
	err = c.withRetry(ctx, func() error {
		return c.transport.post(ctx, api.PathTestImage, wire, &resp)
	})
	if err != nil {
		return nil, err
	}

	return new(ImageValidationResult).fromWire(&resp), nil
}

// AddWatermark embeds a provenance watermark into the image and returns a
// handle to the stamped output. The image must be bytes or a local file;
// URL inputs are rejected. AddWatermark is treated as non-idempotent and is
// never retried automatically, since a duplicate delivery could
// double-stamp the output.
func (c *Client) AddWatermark(ctx context.Context, image ImageInput, watermarkText string) (*WatermarkResult, error) {
	if image == nil {
		return nil, newValidationError("image", ErrImageRequired)
	}
	if image.Type() == ImageInputURL {
		return nil, newValidationError("image", ErrImageInputMismatch)
	}
	if watermarkText == "" {
		return nil, newValidationError("watermarkText", ErrEmptyWatermarkText)
	}
	if err := image.validate(); err != nil {
		return nil, err
	}
	data, _, err := image.resolve()
	if err != nil {
		return nil, err
	}

	wire := &api.AddWatermarkRequest{
		ImageData:     data,
		WatermarkText: watermarkText,
	}

	var resp api.AddWatermarkResponse
	if err := c.transport.post(ctx, api.PathAddWatermark, wire, &resp); err != nil {
		return nil, err
	}

	return new(WatermarkResult).fromWire(&resp), nil
}
