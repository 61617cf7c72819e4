// seedframe-server: HTTP job server for frame-evolution animations.
// Accepts run documents over the API, renders in the background, and
// streams progress over websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seedframe/seedframe/internal/config"
	"github.com/seedframe/seedframe/internal/log"
	"github.com/seedframe/seedframe/internal/server"
	"github.com/seedframe/seedframe/pkg/synthesis"
)

var (
	port       = flag.String("port", "8090", "HTTP server port")
	outputRoot = flag.String("output", "./output", "Root directory for job frames")
	oracleURL  = flag.String("oracle", "", "Synthesis backend URL (default: SEEDFRAME_ORACLE_URL or local)")
	dryRun     = flag.Bool("dry", false, "Use a mock oracle that echoes frames")
	logLevel   = flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()
	log.Init(*logLevel)

	// Override from environment
	if envPort := os.Getenv("PORT"); envPort != "" {
		*port = envPort
	}

	if err := run(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	oracle, err := buildOracle()
	if err != nil {
		return err
	}
	defer oracle.Close()

	if err := os.MkdirAll(*outputRoot, 0o755); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}

	srv := server.NewServer(*port, *outputRoot, oracle)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return srv.Shutdown()
	})
	return g.Wait()
}

func buildOracle() (synthesis.Oracle, error) {
	if *dryRun {
		return synthesis.NewMock(), nil
	}
	base := *oracleURL
	if base == "" {
		base = config.OracleURL(config.DefaultOracleURL)
	}
	return synthesis.NewClient(
		synthesis.WithBaseURL(base),
		synthesis.WithTimeout(time.Duration(config.DefaultTimeoutSeconds)*time.Second),
	)
}
