package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/common"
)

// buildDOCX assembles a minimal but structurally valid .docx archive around
// the given document.xml body.
func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   documentXML,
	}
	for name, body := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func docxBody(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + inner + `</w:body></w:document>`
}

func TestExtractRejectsUnsupportedContentType(t *testing.T) {
	e := NewExtractor()
	for _, ct := range []string{"text/plain", "image/png", "application/json", ""} {
		_, err := e.Extract([]byte("anything"), ct)
		require.Error(t, err, "content type %q", ct)
		assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	}
}

func TestExtractRejectsEmptyContent(t *testing.T) {
	e := NewExtractor()
	for _, ct := range []string{constants.ContentTypePDF, constants.ContentTypeDOC, constants.ContentTypeDOCX} {
		_, err := e.Extract(nil, ct)
		require.Error(t, err, "content type %q", ct)
		assert.ErrorIs(t, err, common.ErrExtractionFailed)
	}
}

func TestExtractCorruptDocuments(t *testing.T) {
	e := NewExtractor()
	garbage := []byte("this is not a real document, just bytes")

	for _, ct := range []string{constants.ContentTypePDF, constants.ContentTypeDOC, constants.ContentTypeDOCX} {
		_, err := e.Extract(garbage, ct)
		require.Error(t, err, "content type %q", ct)
		assert.ErrorIs(t, err, common.ErrExtractionFailed)
	}
}

func TestExtractDOCX(t *testing.T) {
	e := NewExtractor()

	t.Run("paragraphs and runs", func(t *testing.T) {
		content := buildDOCX(t, docxBody(
			`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
				`<w:p><w:r><w:t>Senior Software</w:t></w:r><w:r><w:t xml:space="preserve"> Engineer</w:t></w:r></w:p>`,
		))
		text, err := e.Extract(content, constants.ContentTypeDOCX)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\nSenior Software Engineer", text)
	})

	t.Run("tabs and breaks", func(t *testing.T) {
		content := buildDOCX(t, docxBody(
			`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Postgres</w:t><w:br/><w:t>Kubernetes</w:t></w:r></w:p>`,
		))
		text, err := e.Extract(content, constants.ContentTypeDOCX)
		require.NoError(t, err)
		assert.Equal(t, "Go\tPostgres\nKubernetes", text)
	})

	t.Run("output is trimmed", func(t *testing.T) {
		content := buildDOCX(t, docxBody(
			`<w:p><w:r><w:t xml:space="preserve">   padded   </w:t></w:r></w:p>`,
		))
		text, err := e.Extract(content, constants.ContentTypeDOCX)
		require.NoError(t, err)
		assert.Equal(t, "padded", text)
	})

	t.Run("archive without document part", func(t *testing.T) {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		f, err := w.Create("word/styles.xml")
		require.NoError(t, err)
		_, err = f.Write([]byte(`<?xml version="1.0"?><styles/>`))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = e.Extract(buf.Bytes(), constants.ContentTypeDOCX)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrExtractionFailed)
	})
}

func TestExtractPDFDoesNotPanicOnMalformedInput(t *testing.T) {
	e := NewExtractor()

	// Looks enough like a PDF to get past cheap header checks.
	malformed := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\ntrailer garbage")
	_, err := e.Extract(malformed, constants.ContentTypePDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
}
