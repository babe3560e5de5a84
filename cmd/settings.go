package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"canvasbridge/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and edit the persisted settings blob",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings(config.Load())
		if err != nil {
			return err
		}
		set, err := store.Load()
		if err != nil {
			return err
		}
		fmt.Printf("Path:             %s\n", store.Path())
		fmt.Printf("Text model:       %s\n", set.TextModel)
		fmt.Printf("Vision model:     %s\n", set.VisionModel)
		fmt.Printf("Image model:      %s\n", set.ImageModel)
		fmt.Printf("API key:          %s\n", maskKey(set.APIKey))
		fmt.Printf("Optimizer prompt: %s\n", summarize(set.OptimizerPrompt))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one settings field and save the blob",
	Long: `Sets one field of the settings blob. Keys: api-key, text-model,
vision-model, image-model, optimizer-prompt.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings(config.Load())
		if err != nil {
			return err
		}
		set, err := store.Load()
		if err != nil {
			return err
		}

		switch args[0] {
		case "api-key":
			set.APIKey = args[1]
		case "text-model":
			set.TextModel = args[1]
		case "vision-model":
			set.VisionModel = args[1]
		case "image-model":
			set.ImageModel = args[1]
		case "optimizer-prompt":
			set.OptimizerPrompt = args[1]
		default:
			return fmt.Errorf("unknown settings key %q", args[0])
		}

		if err := store.Save(set); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", store.Path())
		return nil
	},
}

var settingsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the settings blob to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings(config.Load())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return store.Export(os.Stdout)
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		defer f.Close()
		if err := store.Export(f); err != nil {
			return err
		}
		fmt.Printf("Exported settings to %s\n", args[0])
		return nil
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the settings blob with an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings(config.Load())
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		if err := store.Import(f); err != nil {
			return err
		}
		fmt.Printf("Imported settings from %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsImportCmd)
}

// maskKey hides all but the tail of a credential.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// summarize truncates long text to one display line.
func summarize(s string) string {
	if s == "" {
		return "(default)"
	}
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
