package commands

import (
	"context"
	"errors"
	cfg "github.com/coopgov/coopgov-go/cmd/config"
	"github.com/coopgov/coopgov-go/ctrlers/gov"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
	tmos "github.com/tendermint/tendermint/libs/os"
	"net/http"
	"time"
)

// engine is a controller over the on-disk ledgers of a config, optionally
// serving its metrics while it is open.
type engine struct {
	ctrler        *gov.GovCtrler
	metricsServer *http.Server
	logger        log.Logger
}

func openEngine(config *cfg.Config, logger log.Logger) (*engine, error) {
	if err := tmos.EnsureDir(config.DBDir(), 0o700); err != nil {
		return nil, err
	}
	roles, err := newFixtureRoles(config.Fixtures)
	if err != nil {
		return nil, err
	}
	balances, err := newFixtureBalances(config.Fixtures)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	ctrler, err := gov.NewGovCtrler(config, roles, balances, &logSink{logger: logger.With("module", "sink")}, registry, logger)
	if err != nil {
		return nil, err
	}

	eng := &engine{ctrler: ctrler, logger: logger}
	if config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		eng.metricsServer = &http.Server{
			Addr:              config.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
		}
		go func() {
			if err := eng.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		logger.Info("serving prometheus metrics", "addr", config.MetricsAddr)
	}
	return eng, nil
}

func (eng *engine) Close() {
	if eng.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eng.metricsServer.Shutdown(ctx); err != nil {
			eng.logger.Error("metrics server shutdown", "error", err)
		}
	}
	if xerr := eng.ctrler.Close(); xerr != nil {
		eng.logger.Error("engine close", "error", xerr)
	}
}
