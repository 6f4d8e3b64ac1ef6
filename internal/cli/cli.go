package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seesaw/pkg/buildinfo"
	"github.com/matzehuels/seesaw/pkg/config"
	"github.com/matzehuels/seesaw/pkg/observability"
	"github.com/matzehuels/seesaw/pkg/simulation"
	"github.com/matzehuels/seesaw/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "seesaw"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	backend    string
	slot       string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Seesaw drops weights on a plank and shows which way it tips",
		Long:          `Seesaw simulates a first-class lever: objects of random weight are dropped along a plank, the torque on each side of the pivot is summed and the plank tilts by a clamped angle. State is kept in a configurable store between runs.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetSimulationHooks(&logHooks{logger: c.Logger})
			observability.SetStoreHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&c.backend, "store", "", "storage backend: "+fmt.Sprint(config.Backends))
	flags.StringVar(&c.slot, "slot", "", "saved simulation to use")

	root.AddCommand(c.dropCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Controller Factory
// =============================================================================

// loadConfig reads the configuration and applies --store and --slot.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.slot != "" {
		cfg.Store.Slot = c.slot
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a restored controller together with the store behind it.
type session struct {
	cfg   *config.Config
	ctrl  *simulation.Controller
	store store.Store
}

func (s *session) Close() error {
	return s.store.Close()
}

// openSession loads config, opens the store and restores the saved state.
// presenter may be nil.
func (c *CLI) openSession(ctx context.Context, presenter simulation.Presenter) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	weights, err := simulation.NewRandomWeights(cfg.Weights.Min, cfg.Weights.Max, cfg.Weights.Seed)
	if err != nil {
		st.Close()
		return nil, err
	}

	ctrl, err := simulation.New(simulation.Options{
		Plank:     cfg.PlankGeometry(),
		Params:    cfg.Params(),
		IDs:       cfg.IDGenerator(),
		Weights:   weights,
		Gateway:   st,
		Presenter: presenter,
		Logger:    loggerFromContext(ctx),
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	ctrl.Restore(ctx)

	return &session{cfg: cfg, ctrl: ctrl, store: st}, nil
}

// openStore opens the configured backend, showing a spinner for network backends.
func (c *CLI) openStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis, config.BackendMongo, config.BackendPostgres:
		spinner := newSpinnerWithContext(ctx, "Connecting to "+cfg.Backend+"...")
		spinner.Start()
		st, err := store.Open(ctx, cfg)
		spinner.Stop()
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
		}
		return st, nil
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return st, nil
}
