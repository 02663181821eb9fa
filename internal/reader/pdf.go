package reader

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from a document. Extraction is best-effort:
// the result is one string with page texts separated by newlines, no
// layout or table structure. PDFs are not a row source.
type PDF struct{}

// Extensions implements Reader.
func (p *PDF) Extensions() []string {
	return []string{".pdf"}
}

// ReadText concatenates the text of every page.
func (p *PDF) ReadText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ReadError{Path: path, Err: err}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
