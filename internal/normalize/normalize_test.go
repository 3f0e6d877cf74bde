package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	text  string
	calls int
}

func (s *stubScanner) ScanToText(context.Context, []byte) string {
	s.calls++
	return s.text
}

func TestNormalizeTextPassthrough(t *testing.T) {
	n := New(nil, nil)
	got := n.Normalize(context.Background(), TextInput("顧客名: 山田商事\n納品希望日: 2025-08-01"))
	assert.Equal(t, "顧客名: 山田商事\n納品希望日: 2025-08-01", got)
}

func TestNormalizeBytesInvalidUTF8Replaced(t *testing.T) {
	n := New(nil, nil)
	got := n.Normalize(context.Background(), BytesInput([]byte{'a', 0xff, 'b'}))
	assert.Equal(t, "a�b", got)
}

func TestNormalizeBytesWithPDFSignatureUsesTextLayer(t *testing.T) {
	n := New(nil, nil)
	n.pdfText = func(data []byte) (string, error) {
		return "商品A 3個", nil
	}
	got := n.Normalize(context.Background(), BytesInput([]byte("%PDF-1.7 fake")))
	assert.Equal(t, "商品A 3個", got)
}

func TestNormalizeBytesLeadingWhitespaceStillPDF(t *testing.T) {
	n := New(nil, nil)
	n.pdfText = func([]byte) (string, error) { return "text layer", nil }
	got := n.Normalize(context.Background(), BytesInput([]byte("\r\n  %PDF-1.4")))
	assert.Equal(t, "text layer", got)
}

func TestNormalizeDocumentAppendsAttachmentText(t *testing.T) {
	n := New(nil, nil)
	n.pdfText = func([]byte) (string, error) { return "添付の内容", nil }
	got := n.Normalize(context.Background(), DocumentInput("本文です", []byte("%PDF-1.7")))
	assert.Equal(t, "本文です\n添付の内容", got)
}

func TestNormalizeDocumentEmptyAttachmentKeepsBody(t *testing.T) {
	n := New(nil, nil)
	got := n.Normalize(context.Background(), DocumentInput("本文のみ", nil))
	assert.Equal(t, "本文のみ", got)
}

func TestNormalizeFallsBackToScannerWhenTextLayerEmpty(t *testing.T) {
	sc := &stubScanner{text: "スキャン結果"}
	n := New(sc, nil)
	n.pdfText = func([]byte) (string, error) { return "   \n", nil }
	got := n.Normalize(context.Background(), DocumentInput("body", []byte("%PDF-1.7")))
	assert.Equal(t, "body\nスキャン結果", got)
	assert.Equal(t, 1, sc.calls)
}

func TestNormalizeFallsBackToScannerOnTextLayerError(t *testing.T) {
	sc := &stubScanner{text: "recovered"}
	n := New(sc, nil)
	n.pdfText = func([]byte) (string, error) { return "", errors.New("broken xref") }
	got := n.Normalize(context.Background(), BytesInput([]byte("%PDF-1.7 broken")))
	assert.Equal(t, "recovered", got)
}

func TestNormalizeScannerFailureDegradesToBody(t *testing.T) {
	sc := &stubScanner{text: ""}
	n := New(sc, nil)
	n.pdfText = func([]byte) (string, error) { return "", errors.New("no text") }
	got := n.Normalize(context.Background(), DocumentInput("本文だけ残る", []byte("%PDF-1.7")))
	assert.Equal(t, "本文だけ残る", got)
}

func TestPDFBytesSelection(t *testing.T) {
	assert.Nil(t, TextInput("text").PDFBytes())
	assert.Nil(t, BytesInput([]byte("not a pdf")).PDFBytes())
	assert.Equal(t, []byte("%PDF-1.7"), BytesInput([]byte("%PDF-1.7")).PDFBytes())
	assert.Equal(t, []byte("att"), DocumentInput("body", []byte("att")).PDFBytes())
}

func TestExtractPDFTextRejectsGarbage(t *testing.T) {
	_, err := ExtractPDFText([]byte("definitely not a pdf"))
	require.Error(t, err)
}

type stubRunner struct {
	stdout []byte
	err    error

	gotName string
	gotArgs []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.gotName = name
	r.gotArgs = args
	return r.stdout, nil, r.err
}

func TestCommandScannerInvokesPdftotext(t *testing.T) {
	r := &stubRunner{stdout: []byte("converted text")}
	s := NewCommandScanner(ScanConfig{}, nil)
	s.runner = r

	got := s.ScanToText(context.Background(), []byte("%PDF-1.7"))
	assert.Equal(t, "converted text", got)
	assert.Equal(t, "pdftotext", r.gotName)
	require.Len(t, r.gotArgs, 7)
	assert.Equal(t, "-layout", r.gotArgs[0])
	assert.Equal(t, "-", r.gotArgs[6])
}

func TestCommandScannerErrorReturnsEmpty(t *testing.T) {
	r := &stubRunner{err: errors.New("exec: pdftotext: not found")}
	s := NewCommandScanner(ScanConfig{Pdftotext: "pdftotext"}, nil)
	s.runner = r

	assert.Empty(t, s.ScanToText(context.Background(), []byte("%PDF-1.7")))
}
