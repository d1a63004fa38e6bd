package watcher

import "testing"

func TestDecideExtension(t *testing.T) {
	cases := []struct {
		path string
		want extensionDecision
	}{
		{"/intake/scan.pdf", extensionSupported},
		{"/intake/mail.eml", extensionSupported},
		{"/intake/mail.msg", extensionSupported},
		{"/intake/MAIL.MSG", extensionSupported},
		{"/intake/desktop.ini", extensionReserved},
		{"/intake/Desktop.INI", extensionReserved},
		{"/intake/notes.txt", extensionUnsupported},
		{"/intake/archive.pdf.bak", extensionUnsupported},
		{"/intake/noextension", extensionUnsupported},
	}
	for _, tc := range cases {
		if got := decideExtension(tc.path); got != tc.want {
			t.Errorf("decideExtension(%q) = %d, want %d", tc.path, got, tc.want)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("a.pdf") || !Supported("b.eml") || !Supported("c.msg") {
		t.Fatal("expected pdf, eml, and msg to be supported")
	}
	if Supported("a.ini") || Supported("b.txt") {
		t.Fatal("expected ini and txt to be unsupported")
	}
}
