package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tessellated-io/conveyor/config"
	"github.com/tessellated-io/conveyor/cosmos/chain"
	registry "github.com/tessellated-io/conveyor/cosmos/chain-registry"
	"github.com/tessellated-io/conveyor/cosmos/tx"
	"github.com/tessellated-io/conveyor/crypto"
	"github.com/tessellated-io/conveyor/daemon"
	"github.com/tessellated-io/conveyor/log"
	"github.com/tessellated-io/conveyor/state"
)

const (
	defaultCommandTimeout = 10 * time.Minute
	defaultRegistryURL    = "https://proxy.atomscan.com/directory"

	registryAttempts = 3
	registryDelay    = 2 * time.Second
)

// app carries the flags shared by every command.
type app struct {
	chainFile   string
	chainID     string
	registryURL string
	logLevel    string
	metricsAddr string

	out io.Writer
}

// NewRootCmd builds the conveyor CLI.
func NewRootCmd() *cobra.Command {
	app := &app{out: os.Stdout}

	cmd := &cobra.Command{
		Use:          "conveyor",
		Short:        "Sign, broadcast and confirm Cosmos SDK transactions",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&app.chainFile, "chain-file", "", "Path to a YAML chain file")
	cmd.PersistentFlags().StringVar(&app.chainID, "chain-id", "", "Chain id to resolve from presets or the chain registry when no chain file is given")
	cmd.PersistentFlags().StringVar(&app.registryURL, "registry-url", defaultRegistryURL, "Chain registry mirror")
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (debug, info, warn, error). Defaults to CONVEYOR_LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&app.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	cmd.AddCommand(newSendCmd(app))
	cmd.AddCommand(newBlockCmd(app))
	cmd.AddCommand(newWaitCmd(app))
	cmd.AddCommand(newChainCmd(app))
	return cmd
}

// session is everything a command needs to talk to the chain.
type session struct {
	toggles *config.Toggles
	logger  *log.Logger
	store   *state.Store
	metrics *tx.Metrics

	stop func()
}

func (s *session) Close() {
	if s.stop != nil {
		s.stop()
	}
	if err := s.store.Close(); err != nil {
		s.logger.Debug("failed to close connection", "error", err)
	}
}

func (a *app) connect(ctx context.Context) (*session, error) {
	toggles, err := config.LoadToggles()
	if err != nil {
		return nil, err
	}

	logger, err := a.logger(toggles)
	if err != nil {
		return nil, err
	}

	info, err := a.loadChain(ctx, logger)
	if err != nil {
		return nil, err
	}

	deployments, err := state.LoadDeployments(toggles.StateFile, info.ChainID, toggles.DeploymentID)
	if err != nil {
		return nil, err
	}

	store, err := state.Connect(ctx, info, logger, state.WithDeployments(deployments))
	if err != nil {
		return nil, err
	}

	s := &session{toggles: toggles, logger: logger, store: store, metrics: tx.NopMetrics()}
	if a.metricsAddr != "" {
		metricsRegistry := prometheus.NewRegistry()
		s.metrics = tx.NewMetrics(metricsRegistry)
		s.stop = serveMetrics(a.metricsAddr, metricsRegistry, logger)
	}
	return s, nil
}

// logger writes to stderr so stdout stays machine readable.
func (a *app) logger(toggles *config.Toggles) (*log.Logger, error) {
	level := a.logLevel
	if level == "" {
		level = toggles.LogLevel
	}
	if _, err := log.ParseLogLevelStrict(level); err != nil {
		return nil, err
	}
	return log.NewLoggerWithWriter(level, os.Stderr), nil
}

// daemon builds a signing daemon from CONVEYOR_MNEMONIC. Balance prompts go to the terminal.
func (a *app) daemon(s *session) (*daemon.Daemon, error) {
	mnemonic := strings.TrimSpace(s.toggles.Mnemonic)
	if mnemonic == "" {
		return nil, errors.New("CONVEYOR_MNEMONIC is required to sign transactions")
	}

	signer, err := crypto.NewSignerFromMnemonic(s.store.Info().CoinType, mnemonic, 0, 0)
	if err != nil {
		return nil, err
	}

	return daemon.New(s.store, signer,
		daemon.WithGasConfig(tx.GasConfig{PromptIn: os.Stdin, PromptOut: os.Stderr}),
		daemon.WithToggles(s.toggles),
		daemon.WithMetrics(s.metrics),
		daemon.WithLogger(s.logger),
	)
}

func (a *app) loadChain(ctx context.Context, logger *log.Logger) (*chain.Info, error) {
	if a.chainFile != "" {
		return config.LoadChainFile(a.chainFile)
	}
	if a.chainID == "" {
		return nil, errors.New("either --chain-file or --chain-id is required")
	}

	client, err := registry.NewRetryableChainRegistryClient(registryAttempts, registryDelay, registry.NewChainRegistryClient(logger, a.registryURL), logger)
	if err != nil {
		return nil, err
	}
	return registry.ResolveChain(ctx, client, a.chainID)
}

// commandContext enforces a default timeout for command execution.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultCommandTimeout)
}

// writeJSON emits a pretty-printed JSON response.
func (a *app) writeJSON(payload any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, logger *log.Logger) func() {
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
