package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zhubert/followup/internal/followup"
	"github.com/zhubert/followup/internal/selection"
)

var (
	anchorTop, anchorLeft, anchorBottom, anchorRight int
	anchorViewWidth, anchorViewHeight               int
	anchorWidth, anchorHeight, anchorGap            int
)

var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Print where the follow-up control goes for a selection rect",
	Long: `Computes the fixed-position anchor of the follow-up control for a selection
bounding rect inside a viewport and prints it as JSON:

  {"top": 128, "left": 350, "transform": "translateX(-50%)"}

Sizes default to the browser footprint (100x40, gap 8); pass --width,
--height and --gap to place a differently sized control.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnchor(os.Stdout)
	},
}

func init() {
	f := anchorCmd.Flags()
	f.IntVar(&anchorTop, "top", 0, "Selection rect top")
	f.IntVar(&anchorLeft, "left", 0, "Selection rect left")
	f.IntVar(&anchorBottom, "bottom", 0, "Selection rect bottom")
	f.IntVar(&anchorRight, "right", 0, "Selection rect right")
	f.IntVar(&anchorViewWidth, "view-width", 1024, "Viewport width")
	f.IntVar(&anchorViewHeight, "view-height", 768, "Viewport height")
	f.IntVar(&anchorWidth, "width", followup.DefaultGeometry.Width, "Control width")
	f.IntVar(&anchorHeight, "height", followup.DefaultGeometry.Height, "Control height")
	f.IntVar(&anchorGap, "gap", followup.DefaultGeometry.Gap, "Gap between selection and control")
	rootCmd.AddCommand(anchorCmd)
}

func runAnchor(w io.Writer) error {
	if anchorBottom < anchorTop || anchorRight < anchorLeft {
		return fmt.Errorf("invalid rect: bottom must be >= top and right >= left")
	}
	if anchorWidth <= 0 || anchorHeight <= 0 || anchorGap < 0 {
		return fmt.Errorf("invalid control geometry %dx%d gap %d", anchorWidth, anchorHeight, anchorGap)
	}

	rect := selection.NewRect(anchorTop, anchorLeft, anchorBottom, anchorRight)
	g := followup.Geometry{Width: anchorWidth, Height: anchorHeight, Gap: anchorGap}
	a := followup.Place(rect, anchorViewWidth, anchorViewHeight, g)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
