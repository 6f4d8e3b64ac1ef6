package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seesaw/pkg/cache"
	"github.com/matzehuels/seesaw/pkg/config"
	"github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or clear saved state",
	}

	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeSlotsCommand())

	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved state of the current slot",
		Long: `Delete the saved state of the current slot. With --all the file backend
removes every slot in its directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			if all {
				return clearAll(st)
			}
			if err := st.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cleared slot %q", cfg.Store.Slot)
			printDetail("Backend: %s", st.Backend())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every saved slot (file backend)")

	return cmd
}

// clearAll empties the whole file store directory.
func clearAll(st store.Store) error {
	kv, ok := st.(*store.KVGateway)
	if !ok {
		return errors.New(errors.ErrCodeInvalidBackend, "--all is not supported by the %s backend", st.Backend())
	}
	fc, ok := kv.Cache().(*cache.FileCache)
	if !ok {
		return errors.New(errors.ErrCodeInvalidBackend, "--all is not supported by the %s backend", st.Backend())
	}
	n, err := fc.Clear()
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "clear %s", fc.Dir())
	}
	printSuccess("Cleared %d saved slot%s", n, plural(n))
	printDetail("Directory: %s", fc.Dir())
	return nil
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where state is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loc, err := storeLocation(cfg.Store)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// storeSlotsCommand creates the "store slots" subcommand.
func (c *CLI) storeSlotsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List saved slots (sqlite and postgres backends)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			lister, ok := st.(interface {
				Slots(context.Context) ([]string, error)
			})
			if !ok {
				printWarning("The %s backend cannot list slots", st.Backend())
				return nil
			}
			slots, err := lister.Slots(cmd.Context())
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				printInfo("No saved slots")
				return nil
			}
			for _, s := range slots {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

// storeLocation describes where a backend keeps its data.
func storeLocation(s config.Store) (string, error) {
	switch s.Backend {
	case config.BackendFile:
		return s.FileDir()
	case config.BackendSQLite:
		return s.SQLitePath()
	case config.BackendRedis:
		return s.RedisURL, nil
	case config.BackendMongo:
		return s.MongoURI + "/" + s.Database, nil
	case config.BackendPostgres:
		return s.DSN, nil
	}
	return "(" + s.Backend + ": not persisted)", nil
}
