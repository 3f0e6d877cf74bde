// Package mail turns inbound mailbox messages into pipeline inputs: IMAP
// polling for unseen mail and MIME parsing into body text plus an optional
// PDF attachment.
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/orderdesk/order-intake/internal/normalize"
)

// ParseMessage walks a raw RFC 822 message and produces the pipeline input:
// all inline text/plain parts joined as the body, plus the first PDF
// attachment if one is present. Attachments are recognized by content type,
// by a .pdf filename, by the attachment-disposition octet-stream convention
// some fax gateways use, and as a last resort by the %PDF signature.
func ParseMessage(raw []byte) (normalize.RawInput, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return normalize.RawInput{}, fmt.Errorf("parse mail message: %w", err)
	}

	var bodyParts []string
	var pdfPayload []byte

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return normalize.RawInput{}, fmt.Errorf("read mail part: %w", err)
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			return normalize.RawInput{}, fmt.Errorf("read mail part body: %w", err)
		}

		switch header := part.Header.(type) {
		case *mail.AttachmentHeader:
			if pdfPayload == nil && isPDFAttachment(header, data) {
				pdfPayload = data
			}
		case *mail.InlineHeader:
			ctype, _, _ := header.ContentType()
			switch {
			case pdfPayload == nil && looksLikePDF(data):
				// Misdeclared inline PDFs happen; the signature wins over
				// the declared type.
				pdfPayload = data
			case ctype == "" || ctype == "text/plain":
				bodyParts = append(bodyParts, string(data))
			}
		}
	}

	body := strings.Join(bodyParts, "\n")
	if pdfPayload != nil {
		return normalize.DocumentInput(body, pdfPayload), nil
	}
	return normalize.TextInput(body), nil
}

func isPDFAttachment(header *mail.AttachmentHeader, data []byte) bool {
	ctype, _, _ := header.ContentType()
	if ctype == "application/pdf" {
		return true
	}
	if filename, err := header.Filename(); err == nil &&
		strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return true
	}
	if ctype == "application/octet-stream" && looksLikePDF(data) {
		return true
	}
	return looksLikePDF(data)
}

func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("%PDF"))
}
