package main

import (
	"fmt"
	"net/http"

	"github.com/katalvlaran/routekernel/config"
	"github.com/katalvlaran/routekernel/facade"
	"github.com/katalvlaran/routekernel/metrics"
	"github.com/katalvlaran/routekernel/transport"
)

// runServe loads the artifacts cfg.FacadePaths names and serves queries
// over HTTP at addr until the process is killed.
func runServe(cfg *config.Config, addr string) error {
	logger := cfg.Logger()

	f, err := facade.Load(cfg.FacadePaths(), cfg.FacadeOptions()...)
	if err != nil {
		return fmt.Errorf("serve: load artifacts: %w", err)
	}
	logger.Info("serve: artifacts loaded", "edges", len(f.Edges), "nodes", len(f.Nodes), "segments", f.Index.Len())

	m := metrics.New()
	h := transport.New(f)
	h.Mux().Handle("/metrics", m.Handler())

	logger.Info("serve: listening", "addr", addr)
	return http.ListenAndServe(addr, h)
}
