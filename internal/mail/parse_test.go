package mail

import (
	"bytes"
	"io"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/normalize"
)

func buildMessage(t *testing.T, body string, attachName, attachType string, attachData []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var h mail.Header
	h.SetSubject("注文")

	mw, err := mail.CreateWriter(&buf, h)
	require.NoError(t, err)

	iw, err := mw.CreateInline()
	require.NoError(t, err)
	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(th)
	require.NoError(t, err)
	_, err = io.WriteString(pw, body)
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, iw.Close())

	if attachData != nil {
		var ah mail.AttachmentHeader
		ah.SetFilename(attachName)
		ah.SetContentType(attachType, nil)
		aw, err := mw.CreateAttachment(ah)
		require.NoError(t, err)
		_, err = aw.Write(attachData)
		require.NoError(t, err)
		require.NoError(t, aw.Close())
	}
	require.NoError(t, mw.Close())
	return buf.Bytes()
}

func TestParseMessagePlainText(t *testing.T) {
	raw := buildMessage(t, "顧客: テスト商店\n商品: A001", "", "", nil)

	in, err := ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, normalize.KindText, in.Kind())
	assert.Nil(t, in.PDFBytes())
}

func TestParseMessageWithPDFAttachment(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake document")
	raw := buildMessage(t, "添付の通り注文します", "order.pdf", "application/pdf", pdf)

	in, err := ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, normalize.KindDocument, in.Kind())
	assert.Equal(t, pdf, in.PDFBytes())
}

func TestParseMessageOctetStreamPDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 fax gateway upload")
	raw := buildMessage(t, "本文", "scan.bin", "application/octet-stream", pdf)

	in, err := ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, normalize.KindDocument, in.Kind())
	assert.Equal(t, pdf, in.PDFBytes())
}

func TestParseMessageNonPDFAttachmentIgnored(t *testing.T) {
	raw := buildMessage(t, "本文のみ", "photo.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff})

	in, err := ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, normalize.KindText, in.Kind())
}

func TestParseMessageGarbage(t *testing.T) {
	_, err := ParseMessage([]byte("not a mail message"))
	assert.Error(t, err)
}
