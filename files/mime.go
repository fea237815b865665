package files

import (
	"io"
	"net/http"
	"os"

	"github.com/h2non/filetype"
)

// sniffLen is enough header bytes for filetype matchers.
const sniffLen = 4100

// DetectMIME identifies content from its leading bytes. Known binary
// signatures come from filetype; everything else falls back to
// http.DetectContentType. known reports a filetype match.
func DetectMIME(head []byte) (mime string, known bool) {
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, _ := filetype.Match(head)
	if kind != filetype.Unknown {
		return kind.MIME.Value, true
	}
	return http.DetectContentType(head), false
}

// DetectFileMIME reads the head of the file at path and calls DetectMIME.
func DetectFileMIME(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", false, err
	}
	mime, known := DetectMIME(buf[:n])
	return mime, known, nil
}
