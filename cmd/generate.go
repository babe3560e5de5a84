package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"canvasbridge/internal/config"
	"canvasbridge/internal/generation"
	"canvasbridge/internal/geometry"
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate an image with the configured provider",
	Long: `Generates an image at the pixel size of a catalog ratio and writes it to
a file. The provider and model come from the persisted settings; credentials
come from the settings or from GEMINI_API_KEY / OPENAI_TOKEN.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int("ratio", 4, "Catalog ratio index for the generation size")
	generateCmd.Flags().String("output", "generated.png", "Output file")
	generateCmd.Flags().String("reference", "", "Optional reference image file")
	generateCmd.Flags().Bool("optimize", false, "Rewrite the prompt with the text model first")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := args[0]
	cfg := config.Load()

	ratio, err := geometry.RatioByIndex(mustGetInt(cmd, "ratio"))
	if err != nil {
		return err
	}

	store, err := openSettings(cfg)
	if err != nil {
		return err
	}
	provider, err := buildProvider(cmd.Context(), cfg, store)
	if err != nil {
		return err
	}
	if provider == nil {
		return errors.New("no API key configured; set GEMINI_API_KEY or OPENAI_TOKEN, or save one in settings")
	}

	var reference []byte
	if refFile := mustGetString(cmd, "reference"); refFile != "" {
		reference, err = os.ReadFile(refFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", refFile, err)
		}
		reference, err = generation.DownscaleReference(reference, generation.MaxReferenceSize)
		if err != nil {
			return fmt.Errorf("preparing reference image: %w", err)
		}
	}

	if mustGetBool(cmd, "optimize") {
		fmt.Println("Optimizing prompt...")
		optimized, err := provider.OptimizePrompt(cmd.Context(), prompt, reference)
		if err != nil {
			return fmt.Errorf("optimizing prompt: %w", err)
		}
		prompt = optimized
		fmt.Printf("Optimized prompt: %s\n", prompt)
	}

	fmt.Printf("Generating %dx%d image with %s...\n", ratio.Width, ratio.Height, provider.Name())
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Generating"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				_ = bar.Add(1)
			}
		}
	}()

	result, err := provider.GenerateImage(cmd.Context(), generation.Request{
		Prompt:         prompt,
		Width:          ratio.Width,
		Height:         ratio.Height,
		ReferenceImage: reference,
	})
	close(done)
	_ = bar.Finish()
	fmt.Println()

	if err != nil {
		return fmt.Errorf("generating image: %w", err)
	}

	output := mustGetString(cmd, "output")
	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Wrote %s (%s, %d bytes)\n", output, strings.TrimPrefix(result.MimeType, "image/"), len(result.Data))
	return nil
}
