// Package api defines the JSON wire schema of the AetherLab gateway. The
// public SDK types in the root package convert to and from these; they are
// deliberately kept out of the public API surface so the wire layout can
// evolve without breaking callers.
package api

import "time"

// Endpoint paths, relative to the configured base URL. All endpoints accept
// a JSON POST body and respond with JSON.
const (
	PathValidateContent = "/v1/validate"
	PathTestPrompt      = "/v1/prompt/test"
	PathTestImage       = "/v1/image/test"
	PathAddWatermark    = "/v1/watermark"
)

// ValidateContentRequest is the payload for PathValidateContent.
type ValidateContentRequest struct {
	Content              string         `json:"content,omitempty"`
	ContentType          string         `json:"content_type,omitempty"`
	Context              map[string]any `json:"context,omitempty"`
	DesiredAttributes    []string       `json:"desired_attributes,omitempty"`
	ProhibitedAttributes []string       `json:"prohibited_attributes,omitempty"`
	Regulations          []string       `json:"regulations,omitempty"`
	BlacklistedKeywords  []string       `json:"blacklisted_keywords,omitempty"`
	WhitelistedKeywords  []string       `json:"whitelisted_keywords,omitempty"`

	// Exactly one of ImageData and ImageURL may be set, and only when the
	// caller supplied an image alongside (or instead of) text content.
	ImageData []byte `json:"image_data,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// ValidationVerdict is the response body shared by PathValidateContent and
// PathTestPrompt.
type ValidationVerdict struct {
	IsCompliant       bool      `json:"is_compliant"`
	AvgThreatLevel    float64   `json:"avg_threat_level"`
	ConfidenceScore   float64   `json:"confidence_score"`
	Violations        []string  `json:"violations"`
	RegulatoryRisks   []string  `json:"regulatory_risks,omitempty"`
	PrivacyRisks      []string  `json:"privacy_risks,omitempty"`
	SuggestedRevision string    `json:"suggested_revision,omitempty"`
	AuditID           string    `json:"audit_id"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeMs  int64     `json:"processing_time_ms"`
}

// TestPromptRequest is the payload for PathTestPrompt, the legacy
// keyword-hint variant of content validation.
type TestPromptRequest struct {
	Prompt              string   `json:"prompt"`
	BlacklistedKeywords []string `json:"blacklisted_keywords,omitempty"`
	WhitelistedKeywords []string `json:"whitelisted_keywords,omitempty"`
}

// TestImageRequest is the payload for PathTestImage. Exactly one of
// ImageData and ImageURL is set; local file paths are read client-side and
// submitted as ImageData.
type TestImageRequest struct {
	ImageData  []byte `json:"image_data,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	OutputType string `json:"output_type,omitempty"`
}

// DetectedObject is a single object found during image analysis.
type DetectedObject struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// TestImageResponse is the response body for PathTestImage. OutputImage is
// only populated when the request asked for an annotated image.
type TestImageResponse struct {
	IsCompliant      bool             `json:"is_compliant"`
	ConfidenceScore  float64          `json:"confidence_score"`
	DetectedObjects  []DetectedObject `json:"detected_objects,omitempty"`
	ContentWarnings  []string         `json:"content_warnings,omitempty"`
	OutputImage      []byte           `json:"output_image,omitempty"`
	AuditID          string           `json:"audit_id"`
	Timestamp        time.Time        `json:"timestamp"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
}

// AddWatermarkRequest is the payload for PathAddWatermark.
type AddWatermarkRequest struct {
	ImageData     []byte `json:"image_data"`
	WatermarkText string `json:"watermark_text"`
}

// AddWatermarkResponse is the response body for PathAddWatermark.
type AddWatermarkResponse struct {
	Success     bool   `json:"success"`
	WatermarkID string `json:"watermark_id,omitempty"`
	OutputImage []byte `json:"output_image,omitempty"`
}

// ErrorEnvelope is the body the gateway returns on any non-2xx status.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the structured service-side failure.
type ErrorDetail struct {
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
