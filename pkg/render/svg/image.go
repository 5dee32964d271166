package svg

import (
	"bytes"

	"github.com/matzehuels/curvesvg/pkg/geom"
	"github.com/matzehuels/curvesvg/pkg/media"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

type imageInfo struct {
	mime          string
	width, height float64
}

// rect is the image's own box, origin at the top-left corner.
func (i imageInfo) rect() geom.Rect {
	return geom.Rect{Max: geom.Point{X: i.width, Y: i.height}}
}

// imageInfo sniffs an image payload once per element. The stored size wins
// over the pixel size from the image header.
func (r *renderer) imageInfo(e *scene.Element, c scene.ImageContent) imageInfo {
	if info, ok := r.images[e]; ok {
		return info
	}
	sniffed, err := media.Sniff(c.Data)
	if err != nil {
		r.warn(e, err)
	}
	info := imageInfo{mime: sniffed.MIME, width: float64(sniffed.Width), height: float64(sniffed.Height)}
	if c.Size != nil && c.Size[0] > 0 && c.Size[1] > 0 {
		info.width, info.height = c.Size[0], c.Size[1]
	}
	r.images[e] = info
	return info
}

func (r *renderer) image(buf *bytes.Buffer, e *scene.Element, c scene.ImageContent) {
	info := r.imageInfo(e, c)
	box := info.rect()
	n := r.num.FormatNumber

	attrs := r.common(e, "image")
	attrs = append(attrs,
		attr("x", "0"),
		attr("y", "0"),
		attr("width", n(box.Width())),
		attr("height", n(box.Height())),
		attr("preserveAspectRatio", "none"),
	)
	if t := e.TransformOrIdentity(); !t.IsIdentity() {
		attrs = append(attrs, attr("transform", r.matrix(geom.Matrix(t, box.Center()))))
	}
	attrs = append(attrs, attr("href", media.DataURI(c.Data, info.mime)))

	buf.WriteString("<image")
	writeAttrs(buf, attrs)
	buf.WriteString("/>\n")
}
