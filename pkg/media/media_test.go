package media

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/matzehuels/curvesvg/pkg/errors"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func encode(t *testing.T, fn func(*bytes.Buffer, image.Image) error, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := fn(&buf, testImage(w, h)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Info
	}{
		{
			name: "png",
			data: encode(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) }, 3, 2),
			want: Info{MIME: "image/png", Extension: "png", Width: 3, Height: 2},
		},
		{
			name: "jpeg",
			data: encode(t, func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) }, 8, 5),
			want: Info{MIME: "image/jpeg", Extension: "jpg", Width: 8, Height: 5},
		},
		{
			name: "gif",
			data: encode(t, func(b *bytes.Buffer, i image.Image) error { return gif.Encode(b, i, nil) }, 4, 4),
			want: Info{MIME: "image/gif", Extension: "gif", Width: 4, Height: 4},
		},
		{
			name: "bmp",
			data: encode(t, func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) }, 7, 1),
			want: Info{MIME: "image/bmp", Extension: "bmp", Width: 7, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(tt.data)
			if err != nil {
				t.Fatalf("Sniff error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if !got.HasSize() {
				t.Error("HasSize() = false")
			}
		})
	}
}

func TestSniffUnknown(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("definitely not an image")} {
		info, err := Sniff(data)
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Sniff(%q) err = %v, want INVALID_FORMAT", data, err)
		}
		if info.MIME != OctetStream || info.HasSize() {
			t.Errorf("Sniff(%q) = %+v", data, info)
		}
	}
}

func TestSniffTruncatedHeader(t *testing.T) {
	full := encode(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) }, 3, 2)
	info, err := Sniff(full[:12])
	if err == nil {
		t.Fatal("expected header error")
	}
	if info.MIME != "image/png" || info.HasSize() {
		t.Errorf("got %+v", info)
	}
}

func TestDataURI(t *testing.T) {
	got := DataURI([]byte("hi"), "image/png")
	if got != "data:image/png;base64,aGk=" {
		t.Errorf("got %q", got)
	}
	if !strings.HasPrefix(DataURI(nil, ""), "data:"+OctetStream+";base64,") {
		t.Error("empty MIME should fall back to octet-stream")
	}
}
