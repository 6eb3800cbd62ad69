package followup

import "github.com/zhubert/followup/internal/selection"

// Geometry is the control's assumed footprint and its gap from the selection.
type Geometry struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
	Gap    int `toml:"gap" json:"gap"`
}

// DefaultGeometry is the footprint used when the host does not measure its control.
var DefaultGeometry = Geometry{Width: 100, Height: 40, Gap: 8}

// Shift is the horizontal translation applied to the control at render time,
// as a fraction of its own width.
type Shift int

const (
	// ShiftCenter centers the control on Left.
	ShiftCenter Shift = iota
	// ShiftNone puts the control's left edge at Left.
	ShiftNone
	// ShiftFull puts the control's right edge at Left.
	ShiftFull
)

// String renders the shift as a CSS transform.
func (s Shift) String() string {
	switch s {
	case ShiftNone:
		return "translateX(0)"
	case ShiftFull:
		return "translateX(-100%)"
	default:
		return "translateX(-50%)"
	}
}

// MarshalText lets anchors serialize with the transform string.
func (s Shift) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Anchor is a fixed-position anchor for the floating control.
type Anchor struct {
	Top   int   `json:"top"`
	Left  int   `json:"left"`
	Shift Shift `json:"transform"`
}

// Origin resolves the shift and returns the column of the control's left
// edge for a control width cells wide.
func (a Anchor) Origin(width int) int {
	switch a.Shift {
	case ShiftNone:
		return a.Left
	case ShiftFull:
		return a.Left - width
	default:
		return a.Left - width/2
	}
}

// Place computes where the control goes for a selection rect inside a
// viewW x viewH viewport. Each axis is corrected against the original rect
// independently of the other.
func Place(rect selection.Rect, viewW, viewH int, g Geometry) Anchor {
	half := g.Width / 2

	a := Anchor{
		Top:   rect.Bottom + g.Gap,
		Left:  rect.Right - half,
		Shift: ShiftCenter,
	}

	if a.Left-half < 0 {
		a.Left = rect.Left
		a.Shift = ShiftNone
	} else if a.Left+half > viewW {
		a.Left = rect.Right
		a.Shift = ShiftFull
	}

	if a.Top+g.Height > viewH {
		a.Top = rect.Top - g.Height - g.Gap
	}

	return a
}
