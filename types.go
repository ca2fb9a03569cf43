package aetherlab

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aetherlab/go-sdk/internal/api"
)

// ImageInputType describes the form an image input takes.
type ImageInputType string

const (
	// ImageInputUnspecified is the zero value. Should not be used.
	ImageInputUnspecified ImageInputType = "UNSPECIFIED"
	// ImageInputBytes means the image is raw bytes already in memory.
	ImageInputBytes ImageInputType = "BYTES"
	// ImageInputPath means the image is a path on the local file system. The
	// file is read client-side and submitted as bytes.
	ImageInputPath ImageInputType = "PATH"
	// ImageInputURL means the image is an HTTP(S) URL the service fetches.
	ImageInputURL ImageInputType = "URL"
)

// String returns the string representation of the input type.
func (t ImageInputType) String() string {
	return string(t)
}

// ImageOutputType describes what the image endpoints return alongside the
// verdict.
type ImageOutputType string

const (
	// ImageOutputJSON returns only the structured verdict.
	ImageOutputJSON ImageOutputType = "json"
	// ImageOutputAnnotated additionally returns an annotated copy of the
	// input image, retrievable from the result's OutputImage handle.
	ImageOutputAnnotated ImageOutputType = "annotated_image"
)

// String returns the string representation of the output type.
func (t ImageOutputType) String() string {
	return string(t)
}

// ImageInput is an image to send to the API. Construct one with
// NewImageBytes, NewImageFile, or NewImageURL.
type ImageInput interface {
	// Type reports the declared form of the input.
	Type() ImageInputType
	// validate checks that the value actually matches the declared form.
	// It runs before any network call.
	validate() error
	// resolve produces the wire representation: raw bytes or a URL.
	resolve() (data []byte, imageURL string, err error)
}

// NewImageBytes creates an image input from raw bytes already in memory.
func NewImageBytes(data []byte) ImageInput {
	return &imageBytesInput{data: data}
}

type imageBytesInput struct {
	data []byte
}

func (i *imageBytesInput) Type() ImageInputType { return ImageInputBytes }

func (i *imageBytesInput) validate() error {
	if len(i.data) == 0 {
		return newValidationError("image", ErrImageRequired)
	}
	return nil
}

func (i *imageBytesInput) resolve() ([]byte, string, error) {
	return i.data, "", nil
}

// NewImageFile creates an image input from a file on the local file system.
// The file is read when the request is sent.
func NewImageFile(path string) ImageInput {
	return &imageFileInput{path: path}
}

type imageFileInput struct {
	path string
}

func (i *imageFileInput) Type() ImageInputType { return ImageInputPath }

func (i *imageFileInput) validate() error {
	if i.path == "" {
		return newValidationError("image", ErrImageRequired)
	}
	// A URL passed as a path would make us try to open "https://..." as a
	// local file. Catch the mismatch before wasting a round trip.
	if strings.Contains(i.path, "://") {
		return newValidationError("image", ErrImageInputMismatch)
	}
	return nil
}

func (i *imageFileInput) resolve() ([]byte, string, error) {
	data, err := os.ReadFile(i.path)
	if err != nil {
		return nil, "", newValidationError("image", err)
	}
	return data, "", nil
}

// NewImageURL creates an image input from an HTTP(S) URL. The service
// fetches the image itself.
func NewImageURL(imageURL string) ImageInput {
	return &imageURLInput{url: imageURL}
}

type imageURLInput struct {
	url string
}

func (i *imageURLInput) Type() ImageInputType { return ImageInputURL }

func (i *imageURLInput) validate() error {
	if i.url == "" {
		return newValidationError("image", ErrImageRequired)
	}
	u, err := url.Parse(i.url)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return newValidationError("image", ErrImageInputMismatch)
	}
	return nil
}

func (i *imageURLInput) resolve() ([]byte, string, error) {
	return nil, i.url, nil
}

// ValidationRequest describes a piece of content to evaluate for
// compliance. Content may be empty only when an Image is supplied instead.
type ValidationRequest struct {
	// Content is the text to evaluate.
	Content string
	// ContentType is a free-form tag guiding downstream evaluation, for
	// example "financial_advice". Defaults to "generic" when empty.
	ContentType string
	// Context supplies situational metadata, for example the regulatory
	// jurisdiction or whether the end user is authenticated. Values must be
	// JSON-marshalable.
	Context map[string]any
	// DesiredAttributes are qualities the content should exhibit.
	DesiredAttributes []string
	// ProhibitedAttributes are qualities the content must not exhibit.
	ProhibitedAttributes []string
	// Regulations are regulation identifiers to check against, for example
	// "SEC" or "HIPAA".
	Regulations []string
	// BlacklistedKeywords and WhitelistedKeywords are literal term hints,
	// kept for parity with TestPrompt.
	BlacklistedKeywords []string
	WhitelistedKeywords []string
	// Image is an optional image to evaluate alongside (or instead of) the
	// text content.
	Image ImageInput
}

const defaultContentType = "generic"

func (r *ValidationRequest) toWire() (*api.ValidateContentRequest, error) {
	if r == nil {
		return nil, newValidationError("", ErrNilRequest)
	}
	if r.Content == "" && r.Image == nil {
		return nil, newValidationError("content", ErrNoContent)
	}

	contentType := r.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	wire := &api.ValidateContentRequest{
		Content:              r.Content,
		ContentType:          contentType,
		Context:              r.Context,
		DesiredAttributes:    r.DesiredAttributes,
		ProhibitedAttributes: r.ProhibitedAttributes,
		Regulations:          r.Regulations,
		BlacklistedKeywords:  r.BlacklistedKeywords,
		WhitelistedKeywords:  r.WhitelistedKeywords,
	}

	if r.Image != nil {
		if err := r.Image.validate(); err != nil {
			return nil, err
		}
		data, imageURL, err := r.Image.resolve()
		if err != nil {
			return nil, err
		}
		wire.ImageData = data
		wire.ImageURL = imageURL
	}

	return wire, nil
}

// ValidationResult is the verdict for a single piece of content. Results
// are immutable value objects; construct them only by calling the client.
type ValidationResult struct {
	// IsCompliant is the overall verdict. It is false exactly when
	// Violations is non-empty.
	IsCompliant bool
	// AvgThreatLevel is the probability, in [0, 1], that the content is
	// non-compliant.
	AvgThreatLevel float64
	// ConfidenceScore is the probability, in [0, 1], that the verdict
	// itself is reliable.
	ConfidenceScore float64
	// Violations are human-readable descriptions of what went wrong. Empty
	// when the content is compliant.
	Violations []string
	// RegulatoryRisks and PrivacyRisks are domain-specific risk labels.
	// They may be populated regardless of the verdict.
	RegulatoryRisks []string
	PrivacyRisks    []string
	// SuggestedRevision is a safe replacement for the content. Only set
	// when the content is non-compliant and a revision could be derived.
	SuggestedRevision string
	// AuditID and Timestamp identify the evaluation in the service's audit
	// trail.
	AuditID   string
	Timestamp time.Time
	// ProcessingTime is how long the remote evaluation took.
	ProcessingTime time.Duration
}

func (v *ValidationResult) fromWire(wire *api.ValidationVerdict) *ValidationResult {
	v.IsCompliant = wire.IsCompliant
	v.AvgThreatLevel = clamp01(wire.AvgThreatLevel)
	v.ConfidenceScore = clamp01(wire.ConfidenceScore)
	v.Violations = wire.Violations
	v.RegulatoryRisks = wire.RegulatoryRisks
	v.PrivacyRisks = wire.PrivacyRisks
	v.SuggestedRevision = wire.SuggestedRevision
	v.AuditID = wire.AuditID
	v.Timestamp = wire.Timestamp
	v.ProcessingTime = time.Duration(wire.ProcessingTimeMs) * time.Millisecond

	// The verdict and the violations list must agree. The service upholds
	// this contract, but we enforce it here as well so callers can rely on
	// it unconditionally.
	if len(v.Violations) > 0 {
		v.IsCompliant = false
	}
	if !v.IsCompliant && len(v.Violations) == 0 {
		v.Violations = []string{"content flagged as non-compliant"}
	}
	if v.IsCompliant {
		v.SuggestedRevision = ""
	}
	return v
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DetectedObject is a single object found during image analysis.
type DetectedObject struct {
	// Label names the detected object.
	Label string
	// Confidence is the detection confidence, in [0, 1].
	Confidence float64
}

// ImageRequest describes an image to evaluate for compliance.
type ImageRequest struct {
	// Image is the image to evaluate.
	Image ImageInput
	// Output selects what the service returns alongside the verdict.
	// Defaults to ImageOutputJSON.
	Output ImageOutputType
}

func (r *ImageRequest) toWire() (*api.TestImageRequest, error) {
	if r == nil {
		return nil, newValidationError("", ErrNilRequest)
	}
	if r.Image == nil {
		return nil, newValidationError("image", ErrImageRequired)
	}
	if err := r.Image.validate(); err != nil {
		return nil, err
	}
	data, imageURL, err := r.Image.resolve()
	if err != nil {
		return nil, err
	}

	output := r.Output
	if output == "" {
		output = ImageOutputJSON
	}

	return &api.TestImageRequest{
		ImageData:  data,
		ImageURL:   imageURL,
		OutputType: output.String(),
	}, nil
}

// ImageValidationResult is the verdict for an image.
type ImageValidationResult struct {
	// IsCompliant is the overall verdict.
	IsCompliant bool
	// ConfidenceScore is the probability, in [0, 1], that the verdict is
	// reliable.
	ConfidenceScore float64
	// DetectedObjects are the objects found in the image.
	DetectedObjects []DetectedObject
	// ContentWarnings are human-readable warnings about the image content.
	ContentWarnings []string
	// OutputImage is the annotated copy of the input image. Only set when
	// the request asked for ImageOutputAnnotated.
	OutputImage *ImageHandle
	// AuditID and Timestamp identify the evaluation in the service's audit
	// trail.
	AuditID   string
	Timestamp time.Time
	// ProcessingTime is how long the remote evaluation took.
	ProcessingTime time.Duration
}

func (v *ImageValidationResult) fromWire(wire *api.TestImageResponse) *ImageValidationResult {
	v.IsCompliant = wire.IsCompliant
	v.ConfidenceScore = clamp01(wire.ConfidenceScore)
	v.ContentWarnings = wire.ContentWarnings
	v.AuditID = wire.AuditID
	v.Timestamp = wire.Timestamp
	v.ProcessingTime = time.Duration(wire.ProcessingTimeMs) * time.Millisecond

	v.DetectedObjects = make([]DetectedObject, len(wire.DetectedObjects))
	for i, obj := range wire.DetectedObjects {
		v.DetectedObjects[i] = DetectedObject{
			Label:      obj.Label,
			Confidence: clamp01(obj.Confidence),
		}
	}

	if len(wire.OutputImage) > 0 {
		v.OutputImage = &ImageHandle{data: wire.OutputImage}
	}
	return v
}

// WatermarkResult is the outcome of a watermark embedding call.
type WatermarkResult struct {
	// Success reports whether the watermark was embedded.
	Success bool
	// WatermarkID identifies the embedded watermark for later provenance
	// lookups, when the service assigned one.
	WatermarkID string
	// Output holds the watermarked image. Set only on success.
	Output *ImageHandle
}

func (w *WatermarkResult) fromWire(wire *api.AddWatermarkResponse) *WatermarkResult {
	w.Success = wire.Success
	w.WatermarkID = wire.WatermarkID
	if wire.Success && len(wire.OutputImage) > 0 {
		w.Output = &ImageHandle{data: wire.OutputImage}
	}
	return w
}

// ImageHandle is an immutable handle to an image returned by the service.
type ImageHandle struct {
	data []byte
}

// Bytes returns a copy of the image bytes.
func (h *ImageHandle) Bytes() []byte {
	out := make([]byte, len(h.data))
	copy(out, h.data)
	return out
}

// Save writes the image to the given path.
func (h *ImageHandle) Save(path string) error {
	return os.WriteFile(path, h.data, 0o644)
}

// TestPromptOptions carries the optional keyword hints for TestPrompt.
type TestPromptOptions struct {
	// BlacklistedKeywords are literal terms that must not appear.
	BlacklistedKeywords []string
	// WhitelistedKeywords are literal terms that are always acceptable.
	WhitelistedKeywords []string
}

// ValidationRequestBuilder simplifies the construction of a
// ValidationRequest.
// First, create the builder with `NewValidationRequestBuilder()`.
// Then, use the builder to set the content, content type, attributes,
// regulations, and context.
// Finally, call `Build()` to create the request.
//
// Example:
//
//	builder := NewValidationRequestBuilder()
//	req := builder.Content("Totally safe investment advice").
//		ContentType("financial_advice").
//		Prohibit("guaranteed returns").
//		Build()
//
// You can then use the request with the ValidateContent method.
type ValidationRequestBuilder struct {
	req ValidationRequest
}

// NewValidationRequestBuilder creates a new ValidationRequestBuilder.
func NewValidationRequestBuilder() *ValidationRequestBuilder {
	return &ValidationRequestBuilder{}
}

// Content sets the text content for the request.
func (b *ValidationRequestBuilder) Content(content string) *ValidationRequestBuilder {
	b.req.Content = content
	return b
}

// ContentType sets the content type tag for the request.
func (b *ValidationRequestBuilder) ContentType(contentType string) *ValidationRequestBuilder {
	b.req.ContentType = contentType
	return b
}

// Context sets a context metadata key for the request.
func (b *ValidationRequestBuilder) Context(key string, value any) *ValidationRequestBuilder {
	if b.req.Context == nil {
		b.req.Context = make(map[string]any)
	}
	b.req.Context[key] = value
	return b
}

// Desire adds desired attributes to the request.
func (b *ValidationRequestBuilder) Desire(attributes ...string) *ValidationRequestBuilder {
	b.req.DesiredAttributes = append(b.req.DesiredAttributes, attributes...)
	return b
}

// Prohibit adds prohibited attributes to the request.
func (b *ValidationRequestBuilder) Prohibit(attributes ...string) *ValidationRequestBuilder {
	b.req.ProhibitedAttributes = append(b.req.ProhibitedAttributes, attributes...)
	return b
}

// Regulations adds regulation identifiers to the request.
func (b *ValidationRequestBuilder) Regulations(regulations ...string) *ValidationRequestBuilder {
	b.req.Regulations = append(b.req.Regulations, regulations...)
	return b
}

// Blacklist adds blacklisted keywords to the request.
func (b *ValidationRequestBuilder) Blacklist(keywords ...string) *ValidationRequestBuilder {
	b.req.BlacklistedKeywords = append(b.req.BlacklistedKeywords, keywords...)
	return b
}

// Whitelist adds whitelisted keywords to the request.
func (b *ValidationRequestBuilder) Whitelist(keywords ...string) *ValidationRequestBuilder {
	b.req.WhitelistedKeywords = append(b.req.WhitelistedKeywords, keywords...)
	return b
}

// Image sets the image input for the request.
func (b *ValidationRequestBuilder) Image(image ImageInput) *ValidationRequestBuilder {
	b.req.Image = image
	return b
}

// Build creates a new ValidationRequest from the builder.
func (b *ValidationRequestBuilder) Build() *ValidationRequest {
	req := b.req
	return &req
}
