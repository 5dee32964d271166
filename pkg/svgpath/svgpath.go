// Package svgpath encodes Bezier geometry as SVG path data.
//
// Every segment is written as an absolute cubic curve, even when its control
// points coincide with the anchors, so the output round-trips the node list
// exactly:
//
//	M x0 y0 C ox0 oy0 ix1 iy1 x1 y1 ... [C oxN oyN ix0 iy0 x0 y0 Z]
//
// By default numbers are written as the shortest decimal that parses back
// to the same float64, so coordinates survive encoding exactly. An explicit
// precision rounds to that many decimals. Exponent notation is never used.
package svgpath

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/curvesvg/pkg/geom"
)

// ErrEmptyGeometry is returned for a geometry without nodes.
var ErrEmptyGeometry = errors.New("svgpath: empty geometry")

// Encoder writes path data. Precision is the number of decimals per
// number; zero or less writes exact values.
type Encoder struct {
	Precision int
}

// EncodeGeometry returns the path data of a single contour.
func EncodeGeometry(g geom.Geometry) (string, error) {
	return Encoder{}.EncodeGeometry(g)
}

// Encode joins the path data of several contours with single spaces.
// Empty contours are skipped; the result is empty if all of them are.
func Encode(geoms []geom.Geometry) string {
	return Encoder{}.Encode(geoms)
}

// FormatNumber formats v exactly.
func FormatNumber(v float64) string {
	return Encoder{}.FormatNumber(v)
}

// Encode joins the path data of several contours with single spaces.
func (e Encoder) Encode(geoms []geom.Geometry) string {
	parts := make([]string, 0, len(geoms))
	for _, g := range geoms {
		d, err := e.EncodeGeometry(g)
		if err != nil {
			continue
		}
		parts = append(parts, d)
	}
	return strings.Join(parts, " ")
}

// EncodeGeometry returns the path data of a single contour.
func (e Encoder) EncodeGeometry(g geom.Geometry) (string, error) {
	if len(g.Nodes) == 0 {
		return "", ErrEmptyGeometry
	}

	tokens := make([]string, 0, 3+7*len(g.Nodes)+1)
	first := g.Nodes[0]
	tokens = append(tokens, "M", e.FormatNumber(first.Anchor.X), e.FormatNumber(first.Anchor.Y))

	for i := 1; i < len(g.Nodes); i++ {
		tokens = e.curve(tokens, g.Nodes[i-1], g.Nodes[i])
	}
	if g.Closed {
		tokens = e.curve(tokens, g.Nodes[len(g.Nodes)-1], first)
		tokens = append(tokens, "Z")
	}
	return strings.Join(tokens, " "), nil
}

func (e Encoder) curve(tokens []string, from, to geom.Node) []string {
	return append(tokens, "C",
		e.FormatNumber(from.Out.X), e.FormatNumber(from.Out.Y),
		e.FormatNumber(to.In.X), e.FormatNumber(to.In.Y),
		e.FormatNumber(to.Anchor.X), e.FormatNumber(to.Anchor.Y),
	)
}

// FormatNumber formats v with e's precision, trims trailing zeros and folds
// negative zero. Non-finite values are written as 0.
func (e Encoder) FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	prec := e.Precision
	if prec <= 0 {
		prec = -1
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
