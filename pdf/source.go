// Package pdf provides a backstage.DocumentSource that extracts per-page
// text from PDF documents.
package pdf

import (
	"context"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/mwalczyk/backstage"
)

// Ensure Source implements backstage.DocumentSource at compile time.
var _ backstage.DocumentSource = (*Source)(nil)

// Source extracts page texts from a PDF file.
type Source struct{}

// NewSource creates a new Source.
func NewSource() *Source {
	return &Source{}
}

// Pages returns the document's page texts in order. Pages that cannot be
// read yield an empty string rather than failing the document, so page
// numbering stays aligned with the original.
func (s *Source) Pages(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, backstage.Errorf(backstage.EUNAVAILABLE, "cannot open document %q: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, backstage.Errorf(backstage.EUNAVAILABLE, "cannot stat document %q: %v", path, err)
	}

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, backstage.Errorf(backstage.EINVALID, "cannot read PDF %q: %v", path, err)
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
