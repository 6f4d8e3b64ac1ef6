package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// resetCommand creates the reset command.
func (c *CLI) resetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every object from the plank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			n := len(sess.ctrl.State().Objects)
			if n > 0 && !yes {
				prompt := fmt.Sprintf("Remove %d object%s from slot %q?", n, plural(n), sess.cfg.Store.Slot)
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
					printInfo("Aborted")
					return nil
				}
			}

			sess.ctrl.Reset(ctx)
			printSuccess("Plank cleared")
			printDetail("Slot: %s (%s)", sess.cfg.Store.Slot, sess.store.Backend())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// confirm asks a yes/no question and reports whether the answer was yes.
// Anything but "y" or "yes" counts as no, including EOF.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s %s ", prompt, StyleDim.Render("[y/N]"))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
