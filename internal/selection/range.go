package selection

// Rect is a selection's bounding box in viewport-relative cells.
type Rect struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect builds a Rect from its edges, deriving Width and Height.
func NewRect(top, left, bottom, right int) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  right,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Endpoints is the part of a range the validator needs.
type Endpoints interface {
	StartContainer() Node
	EndContainer() Node
	CommonAncestor() Node
}

// Range is a selection range as exposed by the live document.
type Range interface {
	Endpoints
	// BoundingRect returns the range's on-screen extent at call time.
	BoundingRect() Rect
	// Clone returns a snapshot that later document changes cannot alter.
	Clone() Range
}

// StaticRange is an immutable Range. Hosts can use it both for their live
// ranges and as the snapshot returned by Clone.
type StaticRange struct {
	start, end, common     Node
	startOffset, endOffset int
	rect                   Rect
}

// NewStaticRange builds a range between two points and computes the common
// ancestor of the two containers.
func NewStaticRange(start Node, startOffset int, end Node, endOffset int, rect Rect) *StaticRange {
	return &StaticRange{
		start:       start,
		end:         end,
		common:      CommonAncestor(start, end),
		startOffset: startOffset,
		endOffset:   endOffset,
		rect:        rect,
	}
}

func (r *StaticRange) StartContainer() Node { return r.start }
func (r *StaticRange) EndContainer() Node   { return r.end }
func (r *StaticRange) CommonAncestor() Node { return r.common }
func (r *StaticRange) StartOffset() int     { return r.startOffset }
func (r *StaticRange) EndOffset() int       { return r.endOffset }
func (r *StaticRange) BoundingRect() Rect   { return r.rect }

// Clone returns a copy of r.
func (r *StaticRange) Clone() Range {
	c := *r
	return &c
}
