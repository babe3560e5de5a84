package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"canvasbridge/internal/config"
	"canvasbridge/internal/host/inmem"
	"canvasbridge/internal/panel"
	"canvasbridge/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the panel API server",
	Long: `Start the canvasbridge JSON API server the panel UI talks to. The
server binds to localhost by default. Without a real host connection it
serves an in-memory document, which is useful for panel UI development:
pass --canvas to load an image file as the document, or --size for a blank
one.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default from CANVASBRIDGE_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from CANVASBRIDGE_HOST)")
	serveCmd.Flags().String("canvas", "", "Image file to open as the served document")
	serveCmd.Flags().String("size", "2000x1000", "Blank document size as WxH when no canvas file is given")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	bindHost := cfg.Server.Host
	if flagHost := mustGetString(cmd, "host"); flagHost != "" {
		bindHost = flagHost
	}
	port := cfg.Server.Port
	if flagPort := mustGetInt(cmd, "port"); flagPort != 0 {
		port = flagPort
	}

	h := inmem.NewHost()
	if canvasFile := mustGetString(cmd, "canvas"); canvasFile != "" {
		if _, err := h.OpenDocument(canvasFile); err != nil {
			return fmt.Errorf("opening %s: %w", canvasFile, err)
		}
		fmt.Printf("Serving document from %s\n", canvasFile)
	} else {
		w, hgt, err := parseCanvas(mustGetString(cmd, "size"))
		if err != nil {
			return err
		}
		h.NewDocument(int(w), int(hgt))
		fmt.Printf("Serving blank %gx%g document\n", w, hgt)
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
		fmt.Println("No API key configured; generation endpoints will fail until one is saved")
	} else {
		fmt.Printf("Generation provider: %s\n", provider.Name())
	}

	server := web.NewServer(panel.New(h, provider), store, bindHost, port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting canvasbridge API on http://%s:%d\n", bindHost, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
