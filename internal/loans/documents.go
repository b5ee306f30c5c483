package loans

import (
	"errors"
	"net/http"
	"strings"
)

const imageOnlyMessage = "Please upload an image file"

var ErrNotImage = errors.New(imageOnlyMessage)

// DocumentCollector is the upload stage. It accepts image files only and
// keeps at most one error message, which the user can dismiss.
type DocumentCollector struct {
	record func(DocumentType, File) error
	errMsg string
}

// NewDocumentCollector hands accepted files to record, normally
// Wizard.RecordDocument.
func NewDocumentCollector(record func(DocumentType, File) error) *DocumentCollector {
	return &DocumentCollector{record: record}
}

// Accept stores f for dt when it is an image. A rejected file leaves the
// stored documents unchanged.
func (d *DocumentCollector) Accept(dt DocumentType, f File) error {
	f.ContentType = contentTypeOf(f)
	if !strings.HasPrefix(f.ContentType, "image/") {
		d.errMsg = imageOnlyMessage
		return ErrNotImage
	}
	if f.Size == 0 {
		f.Size = int64(len(f.Data))
	}
	if err := d.record(dt, f); err != nil {
		return err
	}
	d.errMsg = ""
	return nil
}

// Error is the message currently shown, or empty
func (d *DocumentCollector) Error() string {
	return d.errMsg
}

func (d *DocumentCollector) Dismiss() {
	d.errMsg = ""
}

// contentTypeOf trusts the declared type unless it is missing or generic,
// then falls back to sniffing the bytes.
func contentTypeOf(f File) string {
	declared := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(f.Data) == 0 {
		return declared
	}
	sniffed := http.DetectContentType(f.Data)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	return sniffed
}
