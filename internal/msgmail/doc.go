// Package msgmail reads the sent date out of Outlook .msg containers using
// the mscfb compound-document parser. The pipeline treats it as an optional
// capability; when parsing fails the resolver falls back to the file's
// creation timestamp.
package msgmail
