package port

// TextExtractor abstracts document text extraction (pdf/docx/txt parsing).
type TextExtractor interface {
	ExtractText(path string) (string, error)
}
