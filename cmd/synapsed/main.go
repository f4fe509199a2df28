// synapsed is the synapse daemon: a single process exposing Arrow Flight
// SQL and the Engine Service control plane over one gRPC server, grounded
// on the teacher's cmd/claid entry point (a thin composition root that
// loads config, opens storage, and hands off to a blocking Run).
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/flight/flightsql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"gopkg.in/yaml.v3"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
	"github.com/synapseql/synapse/internal/bootstrap"
	"github.com/synapseql/synapse/internal/catalog"
	"github.com/synapseql/synapse/internal/engine"
	"github.com/synapseql/synapse/internal/engineservice"
	synflight "github.com/synapseql/synapse/internal/flightsql"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/planexec"
	"github.com/synapseql/synapse/internal/prepared"
	"github.com/synapseql/synapse/internal/synconfig"
	"github.com/synapseql/synapse/internal/synlog"
	"github.com/synapseql/synapse/internal/synmetrics"
)

// daemonConfig is synapsed's own process configuration: listen address,
// auth token, and storage paths. Deliberately small next to the teacher's
// internal/config.Config — synapsed has no interactive shell integration
// or per-user preference surface, only the handful of knobs a server
// process needs, each overridable by an environment variable per the
// teacher's config.ApplyEnvOverrides idiom.
type daemonConfig struct {
	ListenAddr  string
	AuthToken   string
	BootstrapDB string
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

func defaultDaemonConfig() daemonConfig {
	return daemonConfig{
		ListenAddr:  "0.0.0.0:8815",
		AuthToken:   "",
		BootstrapDB: "",
		LogLevel:    "info",
		LogFormat:   "json",
		MetricsAddr: "",
	}
}

// fileConfig mirrors the subset of daemonConfig a deployment may want to
// pin in a checked-in file rather than an environment variable, the same
// yaml-tagged-struct shape as the teacher's internal/config.Config. Fields
// left zero in the file do not override defaultDaemonConfig's values.
type fileConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	BootstrapDB string `yaml:"bootstrap_db"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// loadConfigFile applies a YAML config file on top of cfg's defaults, if
// path is set and the file exists. A missing path is not an error: the
// file layer is optional, sitting between defaults and env overrides in
// the same order the teacher's config.Load / ApplyEnvOverrides layer.
func (c *daemonConfig) loadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	if fc.BootstrapDB != "" {
		c.BootstrapDB = fc.BootstrapDB
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	if fc.MetricsAddr != "" {
		c.MetricsAddr = fc.MetricsAddr
	}
	return nil
}

func (c *daemonConfig) applyEnvOverrides() {
	if v := os.Getenv("SYNAPSE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("SYNAPSE_AUTH_TOKEN"); v != "" {
		c.AuthToken = v
	}
	if v := os.Getenv("SYNAPSE_BOOTSTRAP_DB"); v != "" {
		c.BootstrapDB = v
	}
	if v := os.Getenv("SYNAPSE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SYNAPSE_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("SYNAPSE_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "synapsed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := defaultDaemonConfig()
	if err := cfg.loadConfigFile(os.Getenv("SYNAPSE_CONFIG_FILE")); err != nil {
		return err
	}
	cfg.applyEnvOverrides()

	logger := synlog.New(synlog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: "stdout"})

	if cfg.AuthToken == "" {
		logger.Warn("SYNAPSE_AUTH_TOKEN not set, generating an ephemeral token for this process only")
		cfg.AuthToken = ephemeralToken()
		logger.Info("engine service bearer token", "token", cfg.AuthToken)
	}

	dbPath := cfg.BootstrapDB
	if dbPath == "" {
		p, err := bootstrap.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("failed to resolve bootstrap store path: %w", err)
		}
		dbPath = p
	}
	store, err := bootstrap.Open(dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open bootstrap store: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	metrics := synmetrics.New(reg)

	cl := catalog.NewCluster()
	if _, err := cl.CreateCatalog("default", true); err != nil {
		return fmt.Errorf("failed to create default catalog: %w", err)
	}
	if _, err := cl.CreateSchema(id.ResolvedSchemaRef{Catalog: "default", Schema: "public"}, true); err != nil {
		return fmt.Errorf("failed to create default schema: %w", err)
	}
	if err := store.RecordRelationCreated(context.Background(), "catalog", "default"); err != nil {
		logger.Warn("bootstrap store record failed", "error", err)
	}

	backend := planexec.NewMemoryBackend(cl)
	ec, err := engine.New(cl, backend, synconfig.Default(), metrics)
	if err != nil {
		return fmt.Errorf("failed to start engine context: %w", err)
	}
	defer ec.Shutdown(context.Background())

	contexts := synflight.SingleContext{Ctx: ec}
	statements := prepared.NewTable(time.Hour)

	flightServer := synflight.NewServer(contexts, func(*engine.Context) *prepared.Table { return statements })

	interceptor := engineservice.BearerAuthInterceptor(engineservice.StaticToken(cfg.AuthToken))
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptor))

	flight.RegisterFlightServiceServer(grpcServer, flightsql.NewFlightServer(flightServer))
	enginev1.RegisterEngineServiceServer(grpcServer, engineservice.NewServer(contexts, store, logger))

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 2 * time.Second}
		go func() {
			logger.Info("metrics listening", "addr", cfg.MetricsAddr)
			if serr := metricsServer.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
				logger.Warn("metrics server failed", "error", serr)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("synapsed listening", "addr", listener.Addr().String())
		serveErr <- grpcServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal, draining in-flight RPCs")
		grpcServer.GracefulStop()
		if metricsServer != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}
		return nil
	case err := <-serveErr:
		return err
	}
}

// ephemeralToken mints a process-lifetime-only bearer token for deployments
// that never set SYNAPSE_AUTH_TOKEN, so the daemon is never silently left
// with no authentication on the Engine Service at all.
func ephemeralToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("synapse-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}
