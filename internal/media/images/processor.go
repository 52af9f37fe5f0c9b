package images

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP decoder

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
)

// contentTypes maps image.Decode format names to MIME types.
var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Processed is an uploaded image after sniffing and decoding.
type Processed struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	BlurHash    string
}

// Processor validates uploaded image bytes and derives their metadata.
type Processor struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewProcessor creates a Processor rejecting uploads larger than maxBytes.
func NewProcessor(maxBytes int64, logger *slog.Logger) *Processor {
	return &Processor{
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Process sniffs the real format of data, ignoring whatever the client claimed,
// and computes its dimensions and BlurHash. A failing BlurHash is logged and left empty.
func (p *Processor) Process(data []byte) (*Processed, error) {
	if len(data) == 0 {
		return nil, domainerrors.ValidationField("data", "is required")
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return nil, domainerrors.ValidationField("data", "is too large")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.ValidationField("data", "is not a supported image")
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, domainerrors.ValidationField("data", "is not a supported image")
	}

	bounds := img.Bounds()
	out := &Processed{
		Data:        data,
		ContentType: contentType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		p.logger.Warn("failed to compute blurhash",
			"content_type", contentType,
			"error", err,
		)
	} else {
		out.BlurHash = hash
	}

	p.logger.Debug("processed image",
		"content_type", contentType,
		"size", len(data),
		"width", out.Width,
		"height", out.Height,
	)

	return out, nil
}

// DecodeDataURL decodes a base64 data URL such as "data:image/png;base64,iVBOR...".
// Raw base64 without the data: header is accepted too.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, domainerrors.ValidationField("data", "must be a base64 data URL")
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, domainerrors.ValidationField("data", "is not valid base64")
	}
	return data, nil
}
