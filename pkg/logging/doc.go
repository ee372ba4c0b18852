// Package logging builds the *slog.Logger that pkg/cli/serve.go hands
// to pkg/controlapi and pkg/mockserver through their WithLogger
// options, plus the Loki push-API handler and multi-handler fan-out
// serve.go wires in behind --loki-endpoint.
//
// # Usage
//
//	log := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("info"),
//	    Format: logging.ParseFormat("text"),
//	})
//	log.Info("control API listening", "addr", addr)
//
// A component that receives no *slog.Logger from its caller should
// default to logging.Nop() rather than nil.
//
// # Shipping to Loki
//
// serve.go pairs the primary handler with a LokiHandler via
// NewMultiHandler when a push endpoint is configured, so every record
// reaches both the process's own output and the aggregator:
//
//	loki := logging.NewLokiHandler(endpoint, logging.WithLokiLabels(labels))
//	log := slog.New(logging.NewMultiHandler(log.Handler(), loki))
package logging
