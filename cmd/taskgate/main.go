package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskgate/internal/gateway"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:           "taskgate",
		Short:         "Task-automation gateway with sandboxed command execution",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(), versionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	var (
		configPath string
		listenAddr string
		dataRoot   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gateway.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if dataRoot != "" {
				cfg.DataRoot = dataRoot
			}
			// Fail fast before binding: a gateway without an oracle
			// credential cannot serve /run at all.
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := gateway.NewLogger(os.Stdout)
			gw, err := gateway.NewGateway(cfg, logger)
			if err != nil {
				return err
			}
			defer gw.Close()

			server := &http.Server{
				Addr:    cfg.ListenAddr,
				Handler: gw.Handler(),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			logger.Info("gateway listening", map[string]interface{}{
				"addr":      cfg.ListenAddr,
				"data_root": cfg.DataRoot,
			})

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "taskgate.yml", "path to the yaml config file")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&dataRoot, "data-root", "", "data root directory (overrides config)")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskgate v%s\n", version)
		},
	}
}
