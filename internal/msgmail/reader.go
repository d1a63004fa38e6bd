package msgmail

import (
	"errors"
	"io"
	"time"

	"github.com/richardlehane/mscfb"
)

// propertiesStream is the top-level fixed-property stream of an Outlook
// message container.
const propertiesStream = "__properties_version1.0"

// ErrNoSentDate indicates the container parsed cleanly but carries neither a
// client submit time nor a delivery time.
var ErrNoSentDate = errors.New("message container has no sent date")

// Reader extracts the sent date from Outlook .msg files, which are OLE2
// compound documents. It satisfies dateresolve.MessageDateReader.
type Reader struct{}

// NewReader returns the default container date reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadSentDate walks the compound file for the top-level property stream and
// returns the client submit time, falling back to the delivery time. ok is
// false when the container holds no usable date.
func (Reader) ReadSentDate(r io.ReaderAt, size int64) (time.Time, bool, error) {
	doc, err := mscfb.New(io.NewSectionReader(r, 0, size))
	if err != nil {
		return time.Time{}, false, err
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != propertiesStream || len(entry.Path) != 0 {
			continue
		}
		raw, readErr := io.ReadAll(entry)
		if readErr != nil {
			return time.Time{}, false, readErr
		}
		if sent, ok := sentDateFromProperties(raw); ok {
			return sent, true, nil
		}
		return time.Time{}, false, ErrNoSentDate
	}

	return time.Time{}, false, ErrNoSentDate
}
