package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"canvasbridge/internal/geometry"
)

var fitCmd = &cobra.Command{
	Use:   "fit [ratio-index]",
	Short: "Compute a ratio-fitted selection rectangle for a canvas",
	Long: `Computes the largest margin-shrunk rectangle of the given catalog ratio
centered on a canvas. Use the ratios command to list catalog indexes.`,
	Args: cobra.ExactArgs(1),
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().String("canvas", "", "Canvas size as WxH, e.g. 2000x1000 (required)")
	fitCmd.Flags().Float64("margin", geometry.DefaultMarginFactor, "Margin factor applied to the fitted rectangle")
	_ = fitCmd.MarkFlagRequired("canvas")
}

func runFit(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid ratio index %q", args[0])
	}

	ratio, err := geometry.RatioByIndex(index)
	if err != nil {
		return err
	}

	canvasW, canvasH, err := parseCanvas(mustGetString(cmd, "canvas"))
	if err != nil {
		return err
	}

	rect, err := geometry.FitRatioToCanvas(canvasW, canvasH, ratio, mustGetFloat64(cmd, "margin"))
	if err != nil {
		return err
	}

	fmt.Printf("Ratio:  %s (%dx%d)\n", ratio.Label, ratio.Width, ratio.Height)
	fmt.Printf("Canvas: %gx%g\n", canvasW, canvasH)
	fmt.Printf("Rect:   %s (%gx%g)\n", rect, rect.Width(), rect.Height())

	return nil
}
