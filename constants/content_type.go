package constants

// Declared content types the extractor accepts.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOC  = "application/msword"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedContentTypes is the extraction allow-list.
var AllowedContentTypes = map[string]struct{}{
	ContentTypePDF:  {},
	ContentTypeDOC:  {},
	ContentTypeDOCX: {},
}

// MinTextLength is the minimum number of characters of extracted text a
// document must yield before it is worth an inference call.
const MinTextLength = 50
