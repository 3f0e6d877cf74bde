package normalize

import "bytes"

// Kind discriminates the RawInput union.
type Kind int

const (
	// KindText is plain text, already readable.
	KindText Kind = iota
	// KindBytes is an undifferentiated byte payload (may be a PDF).
	KindBytes
	// KindDocument is a mail body paired with an attachment payload.
	KindDocument
)

var pdfSignature = []byte("%PDF")

// RawInput is the unit of work handed to the pipeline: plain text, raw
// bytes, or a (body, attachment) pair captured from the mail transport.
// Immutable once constructed.
type RawInput struct {
	kind       Kind
	text       string
	data       []byte
	body       string
	attachment []byte
}

func TextInput(s string) RawInput {
	return RawInput{kind: KindText, text: s}
}

func BytesInput(b []byte) RawInput {
	return RawInput{kind: KindBytes, data: b}
}

func DocumentInput(body string, attachment []byte) RawInput {
	return RawInput{kind: KindDocument, body: body, attachment: attachment}
}

func (in RawInput) Kind() Kind { return in.kind }

// PDFBytes returns the attachment payload for document inputs, or the raw
// bytes when they carry a PDF signature. Nil means there is nothing for the
// table extractor to work on.
func (in RawInput) PDFBytes() []byte {
	switch in.kind {
	case KindDocument:
		return in.attachment
	case KindBytes:
		if looksLikePDF(in.data) {
			return in.data
		}
	}
	return nil
}

func looksLikePDF(b []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(b, " \t\r\n"), pdfSignature)
}
