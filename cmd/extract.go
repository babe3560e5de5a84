package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"canvasbridge/internal/extract"
	"canvasbridge/internal/host/inmem"
	"canvasbridge/internal/imagecodec"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file]",
	Short: "Extract a rectangle of pixels from an image file",
	Long: `Opens an image file as an in-memory document and extracts the pixels
inside a rectangle, exactly as the panel extracts the active selection.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("rect", "", "Rectangle as left,top,right,bottom (required)")
	extractCmd.Flags().String("output", "extracted.png", "Output PNG file")
	_ = extractCmd.MarkFlagRequired("rect")
}

func runExtract(cmd *cobra.Command, args []string) error {
	rect, err := parseRect(mustGetString(cmd, "rect"))
	if err != nil {
		return err
	}

	h := inmem.NewHost()
	doc, err := h.OpenDocument(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}

	res, err := extract.FromRect(doc, rect)
	if err != nil {
		return err
	}

	data := imagecodec.ToBytes(res.PixelData)
	if len(data) == 0 {
		return fmt.Errorf("extracted payload is empty")
	}

	output := mustGetString(cmd, "output")
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Extracted %s (%gx%g) to %s\n", res.Rect, res.Rect.Width(), res.Rect.Height(), output)
	return nil
}
