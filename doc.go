// Package aetherlab provides the official Go SDK for the AetherLab AI
// Content Compliance API.
//
// AetherLab evaluates AI-generated and user-generated content against
// configurable compliance guardrails: desired and prohibited attributes,
// regulatory constraints, and keyword rules. This SDK provides a simple and
// idiomatic Go interface for submitting content and receiving structured
// verdicts.
//
// # Quick Start
//
// You'll need an AetherLab API key. Set AETHERLAB_API_KEY or pass the key
// explicitly.
//
//	import aetherlab "github.com/aetherlab/go-sdk"
//
//	// Create a client
//	client, err := aetherlab.New(aetherlab.WithAPIKey("your-api-key"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Validate content
//	result, err := client.ValidateContent(context.Background(), &aetherlab.ValidationRequest{
//		Content:              "Guaranteed 10x returns, no risk!",
//		ContentType:          "financial_advice",
//		ProhibitedAttributes: []string{"guaranteed returns"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if !result.IsCompliant {
//		fmt.Println("Violations:", result.Violations)
//		fmt.Println("Suggested revision:", result.SuggestedRevision)
//	}
//
// # Operations
//
// The SDK exposes the full validation surface of the API:
//
//   - ValidateContent: evaluate text (optionally with an image) against
//     attributes, regulations, and keyword rules
//   - TestPrompt: legacy, simplified text check with keyword hints
//   - TestImage: evaluate an image, optionally receiving an annotated copy
//   - AddWatermark: embed a provenance watermark into an image
//
// Image inputs are built with NewImageBytes, NewImageFile, or NewImageURL.
// A value that doesn't match its declared form (say, a local path given to
// NewImageURL) is rejected locally before any network call.
//
// # Error Handling
//
// Every failure is one of four distinct kinds, so callers can decide
// between retrying, aborting, and inspecting without string matching:
//
//   - ErrAPIKeyRequired / ErrInvalidBaseURL: construction-time
//     misconfiguration, reported by New and never deferred
//   - *ValidationError: the request is malformed; no network call was made
//   - *TransportError: the exchange itself failed (connection, timeout);
//     potentially worth retrying
//   - *ServiceError: the service rejected the request; carries the HTTP
//     status and the service's error code and message
//
//	result, err := client.ValidateContent(ctx, req)
//	if err != nil {
//		var svcErr *aetherlab.ServiceError
//		switch {
//		case errors.Is(err, aetherlab.ErrNoContent):
//			// fix the request
//		case errors.As(err, &svcErr):
//			// inspect svcErr.StatusCode
//		default:
//			var transportErr *aetherlab.TransportError
//			if errors.As(err, &transportErr) {
//				// maybe retry
//			}
//		}
//	}
//
// The client never converts a failure into a default verdict.
//
// # Retries
//
// Automatic retries are off by default. When enabled, they apply only to
// transport failures and only to idempotent calls (ValidateContent,
// TestPrompt, TestImage); AddWatermark is never retried automatically.
//
//	client, err := aetherlab.New(
//		aetherlab.WithAPIKey("your-api-key"),
//		aetherlab.WithRetryConfig(aetherlab.DefaultRetryConfig()),
//	)
//
// # Timeouts
//
// Each call runs under a configurable timeout (default 30 seconds); expiry
// is reported as a *TransportError:
//
//	client, err := aetherlab.New(
//		aetherlab.WithAPIKey("your-api-key"),
//		aetherlab.WithTimeout(60 * time.Second),
//	)
//
// The client holds no state between calls and may be shared freely across
// goroutines.
//
// For more information and examples, visit: https://docs.aetherlab.ai
package aetherlab
