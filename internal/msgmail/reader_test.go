package msgmail_test

import (
	"bytes"
	"testing"

	"docsort/internal/msgmail"
)

func TestReadSentDateRejectsNonContainer(t *testing.T) {
	payload := []byte("this is not an OLE2 compound document")
	r := msgmail.NewReader()
	_, ok, err := r.ReadSentDate(bytes.NewReader(payload), int64(len(payload)))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if ok {
		t.Fatal("ok should be false for a broken container")
	}
}

func TestReadSentDateEmptyInput(t *testing.T) {
	r := msgmail.NewReader()
	if _, ok, err := r.ReadSentDate(bytes.NewReader(nil), 0); err == nil || ok {
		t.Fatalf("expected error on empty input, got ok=%v err=%v", ok, err)
	}
}
