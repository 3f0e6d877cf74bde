package normalize

import (
	"context"
	"log/slog"
	"strings"
)

// PDFTextFunc extracts the text layer of a PDF byte stream. An error or an
// empty string both mean "no text layer"; the caller degrades to the scan
// fallback.
type PDFTextFunc func(data []byte) (string, error)

// Scanner is the lower-fidelity scan-to-text fallback for PDFs without a
// usable text layer. Implementations never fail: a conversion problem
// degrades to the empty string.
type Scanner interface {
	ScanToText(ctx context.Context, data []byte) string
}

// Normalizer turns RawInput into a single plain-text string.
type Normalizer struct {
	pdfText PDFTextFunc
	scanner Scanner
	logger  *slog.Logger
}

func New(scanner Scanner, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if scanner == nil {
		scanner = noScanner{}
	}
	return &Normalizer{pdfText: ExtractPDFText, scanner: scanner, logger: logger}
}

// Normalize resolves the input union into plain text. It never fails:
// malformed attachment bytes degrade to whatever text could be recovered,
// possibly none.
func (n *Normalizer) Normalize(ctx context.Context, in RawInput) string {
	switch in.Kind() {
	case KindText:
		return in.text
	case KindDocument:
		extracted := n.attachmentText(ctx, in.attachment)
		if extracted == "" {
			return in.body
		}
		return in.body + "\n" + extracted
	case KindBytes:
		if looksLikePDF(in.data) {
			return n.attachmentText(ctx, in.data)
		}
		return strings.ToValidUTF8(string(in.data), "�")
	}
	return ""
}

// attachmentText tries the PDF text layer first, then the scan fallback.
func (n *Normalizer) attachmentText(ctx context.Context, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	text, err := n.pdfText(data)
	if err != nil {
		n.logger.Debug("normalize.pdf.text_layer_failed", "error", err, "bytes", len(data))
	}
	if strings.TrimSpace(text) != "" {
		return text
	}
	scanned := n.scanner.ScanToText(ctx, data)
	if scanned == "" {
		n.logger.Debug("normalize.pdf.empty_after_fallback", "bytes", len(data))
	}
	return scanned
}

type noScanner struct{}

func (noScanner) ScanToText(context.Context, []byte) string { return "" }
