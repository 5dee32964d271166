// Package media identifies embedded bitmaps and encodes them as data URIs.
//
// Format detection uses magic numbers; dimensions come from the image
// header only, so sniffing never decodes pixel data.
package media

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/curvesvg/pkg/errors"
)

// OctetStream is the MIME type used for payloads of unknown format.
const OctetStream = "application/octet-stream"

// Info describes an embedded image.
type Info struct {
	MIME      string
	Extension string
	Width     int
	Height    int
}

// HasSize reports whether the dimensions are known.
func (i Info) HasSize() bool { return i.Width > 0 && i.Height > 0 }

// Sniff detects the format and pixel size of b.
//
// Payloads that are not a recognized image yield OctetStream with zero size
// and an INVALID_FORMAT error. A recognized format whose header cannot be
// read keeps its MIME type and reports the header error.
func Sniff(b []byte) (Info, error) {
	unknown := Info{MIME: OctetStream}
	if len(b) == 0 {
		return unknown, errors.New(errors.ErrCodeInvalidFormat, "empty image payload")
	}

	kind, err := filetype.Match(b)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(b) {
		return unknown, errors.New(errors.ErrCodeInvalidFormat, "unrecognized image format")
	}
	info := Info{MIME: kind.MIME.Value, Extension: kind.Extension}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return info, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s header", kind.Extension)
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return info, nil
}

// DataURI embeds b as a base64 data URI.
func DataURI(b []byte, mime string) string {
	if mime == "" {
		mime = OctetStream
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}
