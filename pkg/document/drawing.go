// Package document defines the raw object graph of a vector drawing document.
//
// A document archive holds a manifest, a document JSON with the drawing
// settings, and one JSON graph per artboard. This package only models and
// decodes those structures; resolving the graph into a scene tree is the job
// of package scene.
//
// # Cross-references
//
// Records never point at each other directly. They hold typed [Ref] values
// into the parallel [Arena] arrays of a [Graph]:
//
//	el, err := g.Elements.Get(layer.ElementIDs[0])
//	if err != nil {
//	    // REFERENCE error: absent, malformed, or out of range
//	}
package document

import (
	"encoding/json"
	"fmt"
	"io"
)

// Units names used in DrawingSettings.Units.
const (
	UnitsPixels      = "Pixels"
	UnitsPoints      = "Points"
	UnitsMillimeters = "Millimeters"
	UnitsCentimeters = "Centimeters"
	UnitsInches      = "Inches"
)

// Manifest is the archive's table of contents.
type Manifest struct {
	FileFormatVersion      int    `json:"fileFormatVersion"`
	DocumentJSONFilename   string `json:"documentJSONFilename"`
	ThumbnailImageFileName string `json:"thumbnailImageFileName,omitempty"`
}

// DrawingData is the drawing object of the document JSON.
//
// FormatVersion is not part of the drawing JSON: the archive reader copies it
// from the manifest so the converter can check it before resolving anything.
type DrawingData struct {
	Settings      DrawingSettings `json:"settings"`
	ArtboardPaths []string        `json:"artboardPaths"`
	FormatVersion int             `json:"-"`
}

// DrawingSettings holds document-wide settings.
type DrawingSettings struct {
	Units string `json:"units,omitempty"`
}

// UnitsOrDefault returns the configured units, Pixels when unset.
func (s DrawingSettings) UnitsOrDefault() string {
	if s.Units == "" {
		return UnitsPixels
	}
	return s.Units
}

// documentFile is the top-level document JSON.
type documentFile struct {
	Drawing *DrawingData `json:"drawing"`
}

// ReadManifest decodes a manifest from r.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// ReadDrawing decodes the drawing object of a document JSON from r.
// A document without a drawing object yields empty DrawingData.
func ReadDrawing(r io.Reader) (*DrawingData, error) {
	var doc documentFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Drawing == nil {
		return &DrawingData{}, nil
	}
	return doc.Drawing, nil
}

// ReadGraph decodes an artboard graph from r.
//
// Malformed cross-references do not fail decoding; they surface later as
// REFERENCE errors from [Arena.Get].
func ReadGraph(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}

// FrameOrDefault returns the artboard frame, falling back to the graph-level
// frame and finally to an empty frame.
func (g *Graph) FrameOrDefault(a *Artboard) Frame {
	if a != nil && a.Frame != nil {
		return *a.Frame
	}
	if g.Frame != nil {
		return *g.Frame
	}
	return Frame{}
}

// TitleOrDefault returns the artboard title, falling back to the graph title
// and finally to "Untitled".
func (g *Graph) TitleOrDefault(a *Artboard) string {
	if a != nil && a.Title != "" {
		return a.Title
	}
	if g.Title != "" {
		return g.Title
	}
	return "Untitled"
}
