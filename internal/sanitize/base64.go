package sanitize

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// DecodeBase64 decodes transport-encoded code fields.  Padded and unpadded
// standard encodings are accepted.  Malformed input, or bytes that are not
// valid UTF-8, yield "".
func DecodeBase64(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return ""
		}
	}
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// EncodeBase64 is the inverse used when code travels back to the editor.
func EncodeBase64(s string) string {
	if s == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}
