package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canvasbridge",
	Short: "Selection geometry, image generation and placement for a document host",
	Long: `Canvasbridge is the backend for a generative-image panel. It computes
aspect-ratio-fitted selections, extracts selection pixels, generates images
through Gemini or OpenAI, and places the results onto a target rectangle of
a host document. The serve command exposes the same operations as a local
JSON API for the panel UI.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
