package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"canvasbridge/internal/host/inmem"
	"canvasbridge/internal/imagecodec"
	"canvasbridge/internal/placement"
)

var placeCmd = &cobra.Command{
	Use:   "place [image-file]",
	Short: "Place an image onto a rectangle of a canvas file",
	Long: `Opens a canvas image file as an in-memory document, runs the full
placement sequence (temp artifact, duplicate, smart object, stretch onto
the target rectangle) and writes the flattened result. This is the same
state machine the panel runs against the real host.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)

	placeCmd.Flags().String("canvas", "", "Canvas image file to place onto (required)")
	placeCmd.Flags().String("rect", "", "Target rectangle as left,top,right,bottom (required)")
	placeCmd.Flags().String("output", "placed.png", "Output PNG file")
	_ = placeCmd.MarkFlagRequired("canvas")
	_ = placeCmd.MarkFlagRequired("rect")
}

func runPlace(cmd *cobra.Command, args []string) error {
	rect, err := parseRect(mustGetString(cmd, "rect"))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	payload, err := imagecodec.FromBytes(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	h := inmem.NewHost()
	canvasFile := mustGetString(cmd, "canvas")
	doc, err := h.OpenDocument(canvasFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", canvasFile, err)
	}

	engine := placement.New(h)
	state, err := engine.Place(cmd.Context(), doc, payload, rect)
	if err != nil {
		return fmt.Errorf("placement stopped at %s: %w", state, err)
	}

	output := mustGetString(cmd, "output")
	if err := doc.(*inmem.Document).ExportPNG(output); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Placed %dx%d %s image onto %s, wrote %s\n",
		payload.Width, payload.Height, payload.Format, rect, output)
	return nil
}
