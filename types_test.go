package aetherlab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationRequestBuilder(t *testing.T) {
	req := NewValidationRequestBuilder().
		Content("Totally safe investment advice").
		ContentType("financial_advice").
		Context("authenticated", true).
		Context("jurisdiction", "US").
		Desire("professional", "includes disclaimers").
		Prohibit("guaranteed returns").
		Regulations("SEC", "FINRA").
		Blacklist("ponzi").
		Whitelist("diversified").
		Build()

	assert.Equal(t, "Totally safe investment advice", req.Content)
	assert.Equal(t, "financial_advice", req.ContentType)
	assert.Equal(t, true, req.Context["authenticated"])
	assert.Equal(t, "US", req.Context["jurisdiction"])
	assert.Equal(t, []string{"professional", "includes disclaimers"}, req.DesiredAttributes)
	assert.Equal(t, []string{"guaranteed returns"}, req.ProhibitedAttributes)
	assert.Equal(t, []string{"SEC", "FINRA"}, req.Regulations)
	assert.Equal(t, []string{"ponzi"}, req.BlacklistedKeywords)
	assert.Equal(t, []string{"diversified"}, req.WhitelistedKeywords)
}

func TestValidationRequestBuilderReuse(t *testing.T) {
	builder := NewValidationRequestBuilder().Content("first")
	first := builder.Build()
	second := builder.Content("second").Build()

	// Build returns independent requests.
	assert.Equal(t, "first", first.Content)
	assert.Equal(t, "second", second.Content)
}

func TestImageInputTypes(t *testing.T) {
	assert.Equal(t, ImageInputBytes, NewImageBytes([]byte{0x01}).Type())
	assert.Equal(t, ImageInputPath, NewImageFile("/tmp/a.png").Type())
	assert.Equal(t, ImageInputURL, NewImageURL("https://example.com/a.png").Type())
	assert.Equal(t, "URL", ImageInputURL.String())
	assert.Equal(t, "annotated_image", ImageOutputAnnotated.String())
}

func TestImageInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		image ImageInput
		want  error
	}{
		{
			name:  "valid bytes",
			image: NewImageBytes([]byte{0x01}),
		},
		{
			name:  "empty bytes",
			image: NewImageBytes(nil),
			want:  ErrImageRequired,
		},
		{
			name:  "valid path",
			image: NewImageFile("photos/cat.jpg"),
		},
		{
			name:  "empty path",
			image: NewImageFile(""),
			want:  ErrImageRequired,
		},
		{
			name:  "url given as path",
			image: NewImageFile("https://example.com/cat.jpg"),
			want:  ErrImageInputMismatch,
		},
		{
			name:  "valid url",
			image: NewImageURL("https://example.com/cat.jpg"),
		},
		{
			name:  "plain http url",
			image: NewImageURL("http://example.com/cat.jpg"),
		},
		{
			name:  "empty url",
			image: NewImageURL(""),
			want:  ErrImageRequired,
		},
		{
			name:  "path given as url",
			image: NewImageURL("/tmp/photos/cat.jpg"),
			want:  ErrImageInputMismatch,
		},
		{
			name:  "unsupported scheme",
			image: NewImageURL("ftp://example.com/cat.jpg"),
			want:  ErrImageInputMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.image.validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestImageFileResolveMissing(t *testing.T) {
	image := NewImageFile(filepath.Join(t.TempDir(), "does-not-exist.png"))

	_, _, err := image.resolve()
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestImageHandleBytesIsACopy(t *testing.T) {
	handle := &ImageHandle{data: []byte{1, 2, 3}}

	out := handle.Bytes()
	out[0] = 99

	assert.Equal(t, []byte{1, 2, 3}, handle.Bytes())
}

func TestImageHandleSave(t *testing.T) {
	handle := &ImageHandle{data: []byte("image-bytes")}
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, handle.Save(path))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), saved)
}

func TestValidationRequestToWireDefaults(t *testing.T) {
	wire, err := (&ValidationRequest{Content: "hello"}).toWire()
	require.NoError(t, err)

	assert.Equal(t, "hello", wire.Content)
	assert.Equal(t, "generic", wire.ContentType)
	assert.Empty(t, wire.ImageData)
	assert.Empty(t, wire.ImageURL)
}

func TestImageRequestToWireDefaultsOutput(t *testing.T) {
	wire, err := (&ImageRequest{Image: NewImageBytes([]byte{0x01})}).toWire()
	require.NoError(t, err)
	assert.Equal(t, ImageOutputJSON.String(), wire.OutputType)

	wire, err = (&ImageRequest{
		Image:  NewImageURL("https://example.com/a.png"),
		Output: ImageOutputAnnotated,
	}).toWire()
	require.NoError(t, err)
	assert.Equal(t, ImageOutputAnnotated.String(), wire.OutputType)
	assert.Equal(t, "https://example.com/a.png", wire.ImageURL)
	assert.Empty(t, wire.ImageData)
}
