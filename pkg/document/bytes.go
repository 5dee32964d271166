package document

import (
	"encoding/base64"
	"strings"

	"github.com/matzehuels/curvesvg/pkg/errors"
)

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeBytes decodes a base64 payload such as Image.ImageData or
// AbstractText.AttributedText. Whitespace is ignored and both the standard
// and URL alphabets are accepted, padded or not.
func DecodeBytes(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty payload")
	}
	var lastErr error
	for _, enc := range base64Encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, errors.Wrap(errors.ErrCodeInvalidFormat, lastErr, "payload is not base64")
}
