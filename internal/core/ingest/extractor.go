package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// Extractor turns a raw document into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}

// DocconvExtractor implements Extractor using sajari/docconv, which handles
// the whole upload allow-list (PDF, DOCX, HTML).
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	mimeType := docconv.MimeTypeByExtension(filename)

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv %s (%s): %w", filename, mimeType, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		return "", fmt.Errorf("docconv %s: extracted empty text", filename)
	}
	return text, nil
}

var _ Extractor = (*DocconvExtractor)(nil)
