package document

// Graph is the flat, ID-indexed object graph of one artboard file.
//
// Every cross-reference between records is a [Ref] into one of the parallel
// arrays below. The graph is read-only for the lifetime of a conversion.
type Graph struct {
	Title            string `json:"title,omitempty"`
	GID              string `json:"gid,omitempty"`
	Frame            *Frame `json:"frame,omitempty"`
	ActiveLayerIndex int    `json:"activeLayerIndex,omitempty"`

	Artboards        []Artboard            `json:"artboards"`
	Layers           Arena[Layer]          `json:"layers"`
	Elements         Arena[Element]        `json:"elements"`
	LocalTransforms  Arena[LocalTransform] `json:"localTransforms"`
	Stylables        Arena[Stylable]       `json:"stylables"`
	AbstractPaths    Arena[AbstractPath]   `json:"abstractPaths"`
	CompoundPaths    Arena[CompoundPath]   `json:"compoundPaths"`
	Paths            Arena[Path]           `json:"paths"`
	PathGeometries   Arena[PathGeometry]   `json:"pathGeometries"`
	PathStrokeStyles Arena[StrokeStyle]    `json:"pathStrokeStyles"`
	Fills            Arena[Fill]           `json:"fills"`
	Groups           Arena[Group]          `json:"groups"`
	AbstractTexts    Arena[AbstractText]   `json:"abstractTexts"`
	SingleStyles     Arena[SingleStyle]    `json:"singleStyles"`
	Images           Arena[Image]          `json:"images"`
}

// Frame is an axis-aligned rectangle in document units.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Artboard is one canvas of the document and lists its layers bottom to top.
type Artboard struct {
	Title            string       `json:"title,omitempty"`
	GID              string       `json:"gid,omitempty"`
	Frame            *Frame       `json:"frame,omitempty"`
	LayerIDs         []Ref[Layer] `json:"layerIds"`
	ActiveLayerIndex int          `json:"activeLayerIndex,omitempty"`
}

// Layer lists its elements in paint order (first is bottom-most).
type Layer struct {
	Name       string         `json:"name,omitempty"`
	Opacity    *float64       `json:"opacity,omitempty"`
	IsVisible  *bool          `json:"isVisible,omitempty"`
	IsLocked   bool           `json:"isLocked,omitempty"`
	IsExpanded bool           `json:"isExpanded,omitempty"`
	ElementIDs []Ref[Element] `json:"elementIds"`
}

// Element is a node of the scene: a group, a styled shape, an image or text.
type Element struct {
	Name             string              `json:"name,omitempty"`
	BlendMode        int                 `json:"blendMode,omitempty"`
	IsHidden         bool                `json:"isHidden,omitempty"`
	IsLocked         bool                `json:"isLocked,omitempty"`
	Opacity          *float64            `json:"opacity,omitempty"`
	LocalTransformID Ref[LocalTransform] `json:"localTransformId"`
	SubElement       ElementSubElement   `json:"subElement"`
}

// ElementSubElement carries the payload tag of an element. At most one
// reference is expected to be present.
type ElementSubElement struct {
	Stylable     Ref[Stylable]     `json:"stylable"`
	Group        Ref[Group]        `json:"group"`
	Image        Ref[Image]        `json:"image"`
	AbstractText Ref[AbstractText] `json:"abstractText"`
	SingleStyle  Ref[SingleStyle]  `json:"singleStyle"`
}

// LocalTransform is the affine operator of an element.
// Shear is stored as the tangent of the shear angle.
type LocalTransform struct {
	Rotation    float64 `json:"rotation"`
	Scale       *Vec2   `json:"scale,omitempty"`
	Shear       float64 `json:"shear"`
	Translation Vec2    `json:"translation"`
}

// Stylable wraps a styled payload (path or text).
type Stylable struct {
	SubElement StylableSubElement `json:"subElement"`
}

// StylableSubElement is the payload tag of a stylable.
type StylableSubElement struct {
	AbstractPath Ref[AbstractPath] `json:"abstractPath"`
	AbstractText Ref[AbstractText] `json:"abstractText"`
	SingleStyle  Ref[SingleStyle]  `json:"singleStyle"`
}

// AbstractPath carries the style of a path shape and points at its geometry.
type AbstractPath struct {
	StrokeStyleID Ref[StrokeStyle]       `json:"strokeStyleId"`
	FillID        Ref[Fill]              `json:"fillId"`
	FillRule      int                    `json:"fillRule,omitempty"`
	SubElement    AbstractPathSubElement `json:"subElement"`
}

// AbstractPathSubElement selects between a single path and a compound path.
type AbstractPathSubElement struct {
	Path         Ref[Path]         `json:"path"`
	CompoundPath Ref[CompoundPath] `json:"compoundPath"`
}

// Path points at exactly one contour.
type Path struct {
	GeometryID Ref[PathGeometry] `json:"geometryId"`
}

// CompoundPath lists several contours painted as one shape.
type CompoundPath struct {
	SubpathIDs []Ref[PathGeometry] `json:"subpathIds"`
}

// PathGeometry is an ordered, optionally closed list of nodes.
type PathGeometry struct {
	Closed bool   `json:"closed"`
	Nodes  []Node `json:"nodes"`
}

// Node is an anchor with its incoming and outgoing Bezier control points.
// Absent control points coincide with the anchor.
type Node struct {
	AnchorPoint  Vec2    `json:"anchorPoint"`
	InPoint      *Vec2   `json:"inPoint,omitempty"`
	OutPoint     *Vec2   `json:"outPoint,omitempty"`
	NodeType     int     `json:"nodeType,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// In returns the incoming control point, defaulting to the anchor.
func (n Node) In() Vec2 {
	if n.InPoint == nil {
		return n.AnchorPoint
	}
	return *n.InPoint
}

// Out returns the outgoing control point, defaulting to the anchor.
func (n Node) Out() Vec2 {
	if n.OutPoint == nil {
		return n.AnchorPoint
	}
	return *n.OutPoint
}

// Vec2 is an (x, y) pair encoded as a two-element JSON array.
type Vec2 [2]float64

// StrokeStyle describes a path outline. Color and Width live beside the
// basic style; all three are needed for a stroke to be painted.
type StrokeStyle struct {
	BasicStrokeStyle *BasicStrokeStyle `json:"basicStrokeStyle,omitempty"`
	Color            *Color            `json:"color,omitempty"`
	Width            *float64          `json:"width,omitempty"`
}

// BasicStrokeStyle holds cap, join, position and dash settings.
// Position is -1 inside, 0 centred, 1 outside.
type BasicStrokeStyle struct {
	Cap         *int      `json:"cap,omitempty"`
	Join        *int      `json:"join,omitempty"`
	Position    int       `json:"position,omitempty"`
	DashPattern []float64 `json:"dashPattern,omitempty"`
}

// Fill is either a solid color or a gradient.
type Fill struct {
	Color    *Boxed[Color]    `json:"color,omitempty"`
	Gradient *Boxed[Gradient] `json:"gradient,omitempty"`
}

// Color is a tagged union of the two color spaces the format uses.
type Color struct {
	RGBA *RGBA `json:"rgba,omitempty"`
	HSBA *HSBA `json:"hsba,omitempty"`
}

// RGBA channels are in [0, 1]. A missing alpha means opaque.
type RGBA struct {
	Red   float64  `json:"red"`
	Green float64  `json:"green"`
	Blue  float64  `json:"blue"`
	Alpha *float64 `json:"alpha,omitempty"`
}

// HSBA channels are in [0, 1]. A missing alpha means opaque.
type HSBA struct {
	Hue        float64  `json:"hue"`
	Saturation float64  `json:"saturation"`
	Brightness float64  `json:"brightness"`
	Alpha      *float64 `json:"alpha,omitempty"`
}

// Gradient kinds as stored in Gradient.TypeRawValue.
const (
	GradientLinear = 0
	GradientRadial = 1
)

// Gradient is an ordered list of color stops along a start/end axis.
type Gradient struct {
	TypeRawValue int                `json:"typeRawValue"`
	Stops        []GradientStop     `json:"stops"`
	Transform    *GradientTransform `json:"transform,omitempty"`
}

// GradientStop places a color at a position in [0, 1].
type GradientStop struct {
	Color    Color   `json:"color"`
	Position float64 `json:"position"`
}

// GradientTransform is the gradient axis in document coordinates.
type GradientTransform struct {
	Start Vec2 `json:"start"`
	End   Vec2 `json:"end"`
}

// Group lists its member elements in paint order.
type Group struct {
	ElementIDs []Ref[Element] `json:"elementIds"`
}

// AbstractText holds a base64 encoded property list with the rich text.
type AbstractText struct {
	AttributedText string           `json:"attributedText,omitempty"`
	FillID         Ref[Fill]        `json:"fillId"`
	StrokeStyleID  Ref[StrokeStyle] `json:"strokeStyleId"`
}

// SingleStyle is a leaf style record used by text payloads.
type SingleStyle struct {
	FillID        Ref[Fill]        `json:"fillId"`
	StrokeStyleID Ref[StrokeStyle] `json:"strokeStyleId"`
	BlendMode     *int             `json:"blendMode,omitempty"`
	Opacity       *float64         `json:"opacity,omitempty"`
}

// Image holds an embedded bitmap as base64 text.
type Image struct {
	ImageData string `json:"imageData,omitempty"`
	Size      *Vec2  `json:"size,omitempty"`
}
