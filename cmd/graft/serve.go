package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/adapters/httpapi"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/rules"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts a server-held rewriting session, exposing the rule and shaping
operations as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		rulesPath, _ := cmd.Flags().GetString("rules")
		debug, _ := cmd.Flags().GetBool("debug")

		logger := logging.NewNop()
		if debug {
			logger = logging.New(slog.LevelDebug)
		}

		engine := graft.New(graft.WithLogger(logger))
		if rulesPath != "" {
			named, err := rules.Load(rulesPath)
			if err != nil {
				fmt.Printf("Error loading rules: %v\n", err)
				os.Exit(1)
			}
			for _, nr := range named {
				if err := engine.AddRule(nr.Name, nr.Rule); err != nil {
					fmt.Printf("Error preloading rule %s: %v\n", nr.Name, err)
					os.Exit(1)
				}
			}
		}

		handler := httpapi.NewHandler(engine, logger)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Graft Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Graft Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
