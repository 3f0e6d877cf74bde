package normalize

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls the text layer out of a PDF byte stream. A PDF with
// no text layer (scanned image pages) yields an empty string, not an error.
func ExtractPDFText(data []byte) (_ string, err error) {
	// The pdf package panics on some malformed inputs; contain it.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}
	return buf.String(), nil
}
