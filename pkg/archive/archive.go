// Package archive reads vector drawing document archives.
//
// A document is a ZIP container:
//
//	Manifest.json          fileFormatVersion, documentJSONFilename
//	Document.json          {"drawing": {"settings": ..., "artboardPaths": [...]}}
//	<artboard>.json        one object graph per artboard
//
// The manifest names the document JSON and the document lists the artboard
// files, so every entry name taken from document data is validated before it
// is looked up.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
)

// ManifestName is the fixed name of the manifest entry.
const ManifestName = "Manifest.json"

// maxEntrySize bounds the decompressed size of a single entry.
const maxEntrySize = 256 << 20

// Archive is an opened document container.
type Archive struct {
	files    map[string]*zip.File
	closer   io.Closer
	manifest *document.Manifest
}

// Open opens the archive at path. The caller must Close it.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "open %s", path)
	}
	a := newArchive(&rc.Reader)
	a.closer = rc
	return a, nil
}

// Read opens an archive from r.
func Read(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "not a zip container")
	}
	return newArchive(zr), nil
}

// FromBytes opens an in-memory archive.
func FromBytes(b []byte) (*Archive, error) {
	return Read(bytes.NewReader(b), int64(len(b)))
}

func newArchive(zr *zip.Reader) *Archive {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &Archive{files: files}
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Manifest returns the decoded manifest.
func (a *Archive) Manifest() (*document.Manifest, error) {
	if a.manifest != nil {
		return a.manifest, nil
	}
	var m *document.Manifest
	err := a.decode(ManifestName, func(r io.Reader) (err error) {
		m, err = document.ReadManifest(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.manifest = m
	return m, nil
}

// Document returns the drawing object of the document JSON. Its
// FormatVersion is taken from the manifest.
func (a *Archive) Document() (*document.DrawingData, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	if m.DocumentJSONFilename == "" {
		return nil, errors.New(errors.ErrCodeInvalidArchive, "manifest does not name a document")
	}

	var d *document.DrawingData
	err = a.decode(m.DocumentJSONFilename, func(r io.Reader) (err error) {
		d, err = document.ReadDrawing(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.FormatVersion = m.FileFormatVersion
	return d, nil
}

// Artboard decodes the artboard graph stored at path.
func (a *Archive) Artboard(path string) (*document.Graph, error) {
	var g *document.Graph
	err := a.decode(path, func(r io.Reader) (err error) {
		g, err = document.ReadGraph(r)
		return err
	})
	return g, err
}

// Entry returns the raw bytes of the named entry.
func (a *Archive) Entry(name string) ([]byte, error) {
	var data []byte
	err := a.decode(name, func(r io.Reader) (err error) {
		data, err = io.ReadAll(r)
		return err
	})
	return data, err
}

// Names lists the entries of the archive.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	return names
}

// decode opens name and hands its content to fn. Failures inside fn are
// reported as INVALID_ARCHIVE.
func (a *Archive) decode(name string, fn func(io.Reader) error) error {
	if err := errors.ValidateEntryName(name); err != nil {
		return err
	}
	f, ok := a.files[name]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "archive has no entry %q", name)
	}
	if f.UncompressedSize64 > maxEntrySize {
		return errors.New(errors.ErrCodeInvalidArchive, "entry %q exceeds %d bytes", name, maxEntrySize)
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArchive, err, "open entry %q", name)
	}
	defer rc.Close()

	if err := fn(io.LimitReader(rc, maxEntrySize)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArchive, err, "entry %q", name)
	}
	return nil
}

// Bundle is everything needed to convert the first artboard.
type Bundle struct {
	Manifest      *document.Manifest
	Drawing       *document.DrawingData
	Graph         *document.Graph
	ArtboardCount int
}

// Load reads the manifest, the document and the first artboard.
//
// The format version is checked against minFormatVersion before any
// artboard is decoded: an old document fails with UNSUPPORTED_VERSION even
// when its artboard JSON has a shape this reader does not understand. A
// document without artboards loads with a nil Graph.
func (a *Archive) Load(minFormatVersion int) (*Bundle, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	d, err := a.Document()
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateFormatVersion(d.FormatVersion, minFormatVersion); err != nil {
		return nil, err
	}

	b := &Bundle{Manifest: m, Drawing: d, ArtboardCount: len(d.ArtboardPaths)}
	if b.ArtboardCount == 0 {
		return b, nil
	}
	g, err := a.Artboard(d.ArtboardPaths[0])
	if err != nil {
		return nil, fmt.Errorf("artboard %q: %w", d.ArtboardPaths[0], err)
	}
	b.Graph = g
	return b, nil
}

// Build writes a document archive. It is the inverse of [Archive.Load] for
// a single artboard and is used to produce fixtures.
func Build(w io.Writer, formatVersion int, drawing document.DrawingData, artboards map[string]any) error {
	zw := zip.NewWriter(w)

	docName := "Document.json"
	if err := writeJSON(zw, ManifestName, document.Manifest{
		FileFormatVersion:    formatVersion,
		DocumentJSONFilename: docName,
	}); err != nil {
		return err
	}
	if err := writeJSON(zw, docName, map[string]any{"drawing": drawing}); err != nil {
		return err
	}
	for _, path := range drawing.ArtboardPaths {
		g, ok := artboards[path]
		if !ok {
			continue
		}
		if err := writeJSON(zw, path, g); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeJSON(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(v)
}
