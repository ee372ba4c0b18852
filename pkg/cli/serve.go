package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pactgo/pact/pkg/controlapi"
	"github.com/pactgo/pact/pkg/logging"
	"github.com/pactgo/pact/pkg/registry"
)

// shutdownTimeout bounds how long serve waits for in-flight admin
// requests to finish once a shutdown signal arrives.
const shutdownTimeout = 10 * time.Second

var serveFlags struct {
	addr         string
	pactDir      string
	logLevel     string
	logFormat    string
	printAddr    bool
	lokiEndpoint string
}

// serveCmd hosts the Control API (spec §4.5) as a foreground process:
// every "pact start/list/get/verify/shutdown" invocation against
// --admin-url talks to whichever "pact serve" is listening there.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the mock server control API",
	Long: `Serve starts the Control API that owns the mock server registry:
POST / to start a mock server from a pact document, GET / to list running
servers, and GET/POST/DELETE /mockserver/{id} to inspect, verify, or stop
one. "pact start/list/get/verify/shutdown" are thin clients of this API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(serveFlags.logLevel),
			Format: logging.ParseFormat(serveFlags.logFormat),
		})

		// Fan logs out to Loki alongside the local handler when an
		// endpoint is configured, so an operator can aggregate mock
		// server activity without losing local visibility.
		if serveFlags.lokiEndpoint != "" {
			lokiHandler := logging.NewLokiHandler(serveFlags.lokiEndpoint,
				logging.WithLokiLabels(map[string]string{"service": "pact"}),
				logging.WithLokiLevel(logging.ParseLevel(serveFlags.logLevel)),
			)
			defer func() { _ = lokiHandler.Close() }()
			log = slog.New(logging.NewMultiHandler(log.Handler(), lokiHandler))
		}

		reg := registry.New()
		api := controlapi.New(reg,
			controlapi.WithLogger(log),
			controlapi.WithPactDir(serveFlags.pactDir),
		)

		ln, err := net.Listen("tcp", serveFlags.addr)
		if err != nil {
			return withExitCode(1, fmt.Errorf("failed to bind %s: %w", serveFlags.addr, err))
		}

		httpServer := &http.Server{Handler: api}

		serveErr := make(chan error, 1)
		go func() { serveErr <- httpServer.Serve(ln) }()

		log.Info("control API listening", "addr", ln.Addr().String(), "pactDir", serveFlags.pactDir)
		if serveFlags.printAddr {
			fmt.Println(ln.Addr().String())
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			log.Info("shutting down control API")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return withExitCode(1, fmt.Errorf("graceful shutdown failed: %w", err))
			}
			reg.ShutdownAll(shutdownCtx)
			return nil
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return withExitCode(1, fmt.Errorf("control API stopped: %w", err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "localhost:4290", "address the control API listens on")
	serveCmd.Flags().StringVar(&serveFlags.pactDir, "pact-dir", ".", "directory verify writes clean pact documents to")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&serveFlags.logFormat, "log-format", "text", "log format: text, json")
	serveCmd.Flags().BoolVar(&serveFlags.printAddr, "print-addr", false, "print the bound address to stdout once listening")
	serveCmd.Flags().StringVar(&serveFlags.lokiEndpoint, "loki-endpoint", "", "Loki push endpoint for log aggregation (disabled if empty)")
}
