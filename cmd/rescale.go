package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"canvasbridge/internal/geometry"
)

var rescaleCmd = &cobra.Command{
	Use:   "rescale",
	Short: "Scale a selection rectangle around its center",
	Long: `Scales a rectangle by a percent delta around its own center: +50 grows
it to 150%, -25 shrinks it to 75%. The result is not clamped; pass --canvas
to get a warning when it extends past the canvas.`,
	RunE: runRescale,
}

func init() {
	rootCmd.AddCommand(rescaleCmd)

	rescaleCmd.Flags().String("rect", "", "Rectangle as left,top,right,bottom (required)")
	rescaleCmd.Flags().Float64("percent", 0, "Percent delta, e.g. 50 or -25 (required)")
	rescaleCmd.Flags().String("canvas", "", "Optional canvas size as WxH for an out-of-canvas check")
	_ = rescaleCmd.MarkFlagRequired("rect")
	_ = rescaleCmd.MarkFlagRequired("percent")
}

func runRescale(cmd *cobra.Command, args []string) error {
	rect, err := parseRect(mustGetString(cmd, "rect"))
	if err != nil {
		return err
	}

	scaled, err := geometry.ScaleRectByPercent(rect, mustGetFloat64(cmd, "percent"))
	if err != nil {
		return err
	}

	fmt.Printf("Rect: %s (%gx%g)\n", scaled, scaled.Width(), scaled.Height())

	if canvas := mustGetString(cmd, "canvas"); canvas != "" {
		canvasW, canvasH, err := parseCanvas(canvas)
		if err != nil {
			return err
		}
		if !scaled.Inside(canvasW, canvasH) {
			fmt.Printf("Warning: rectangle extends past the %gx%g canvas\n", canvasW, canvasH)
		}
	}

	return nil
}
