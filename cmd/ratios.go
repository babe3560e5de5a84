package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"canvasbridge/internal/geometry"
)

var ratiosCmd = &cobra.Command{
	Use:   "ratios",
	Short: "List the aspect ratio catalog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-6s %-8s %-10s %s\n", "Index", "Label", "Value", "Generation size")
		for i, ratio := range geometry.Ratios() {
			fmt.Printf("%-6d %-8s %-10.4f %dx%d\n", i, ratio.Label, ratio.Value(), ratio.Width, ratio.Height)
		}
	},
}

func init() {
	rootCmd.AddCommand(ratiosCmd)
}
