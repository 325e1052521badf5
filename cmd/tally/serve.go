package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/extract"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		modelFlag string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the single-expense extraction HTTP endpoint",
		Long: `Serve exposes POST /extract: it accepts {"text": "..."} and returns the
structured expense fields extracted by the classifier. This is a thin façade
over the same extraction the CLI command uses; nothing is persisted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newGeminiClient()
			if err != nil {
				return err
			}
			extractor := extract.NewExtractor(client, configuredModel(modelFlag), nil)

			server := &http.Server{
				Addr:              addr,
				Handler:           extract.Handler(extractor, slog.Default()),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("extraction façade listening", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8077", "listen address")
	cmd.Flags().StringVar(&modelFlag, "model", "", "classifier model to use")
	return cmd
}
