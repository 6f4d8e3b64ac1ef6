package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/seesaw/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and websocket stream",
		Long: `Serve the simulation over HTTP until interrupted.

  GET    /api/state      current state
  POST   /api/objects    drop an object: {"x": 300} or {"x": 300, "weight": 5}
  DELETE /api/objects    reset
  GET    /api/plank.svg  SVG drawing
  GET    /ws             websocket stream of state events
  GET    /healthz        health check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			hub := server.NewHub(cfg.PlankGeometry(), logger)
			sess, err := c.openSession(ctx, hub)
			if err != nil {
				return err
			}
			defer sess.Close()

			if addr == "" {
				addr = sess.cfg.Server.Addr
			}
			logger.Info("serving simulation",
				"slot", sess.cfg.Store.Slot,
				"store", sess.store.Backend(),
				"objects", len(sess.ctrl.State().Objects))

			return server.New(sess.ctrl, hub, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
