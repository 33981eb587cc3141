package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cvpilot/cv-analyzer/internal/common"
)

// extractPDF pulls plain text out of every page of a PDF document.
// The pdf package panics on some malformed inputs, so corrupt files are
// converted to ErrExtractionFailed via recover.
func extractPDF(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", common.ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", common.ErrExtractionFailed, err)
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text content found in pdf", common.ErrExtractionFailed)
	}
	return b.String(), nil
}
