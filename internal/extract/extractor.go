package extract

import (
	"fmt"
	"strings"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/common"
)

// Extractor converts a downloaded document plus its declared content type into
// plain text. It is stateless and safe for concurrent use; retries, if any,
// belong to the caller.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract decodes content according to contentType and returns the document
// text trimmed of leading/trailing whitespace. Content types outside the
// allow-list fail with ErrUnsupportedFormat; undecodable bytes fail with
// ErrExtractionFailed.
func (e *Extractor) Extract(content []byte, contentType string) (string, error) {
	if _, ok := constants.AllowedContentTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, contentType)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty document stream", common.ErrExtractionFailed)
	}

	var (
		text string
		err  error
	)
	switch contentType {
	case constants.ContentTypePDF:
		text, err = extractPDF(content)
	case constants.ContentTypeDOCX:
		text, err = extractDOCX(content)
	case constants.ContentTypeDOC:
		text, err = extractDOC(content)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
