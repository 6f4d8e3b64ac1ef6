package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/errors"
)

// dropCommand creates the drop command.
func (c *CLI) dropCommand() *cobra.Command {
	var weight float64

	cmd := &cobra.Command{
		Use:   "drop <x>",
		Short: "Drop an object onto the plank",
		Long: `Drop an object at plank coordinate x, measured in pixels from the left end.
The pivot sits at the middle of the plank. Without --weight the object gets a
random whole weight from the configured range.`,
		Example: `  seesaw drop 300
  seesaw drop 50 --weight 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseCoordinate(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			var obj balance.Object
			if cmd.Flags().Changed("weight") {
				obj, err = sess.ctrl.Place(ctx, x, weight)
			} else {
				obj, err = sess.ctrl.Drop(ctx, x)
			}
			if err != nil {
				return err
			}

			printSuccess("Dropped %s kg %s", StyleValue.Render(formatKg(obj.Weight)), describePosition(obj))
			printBalance(sess.ctrl.Balance(), sess.ctrl.Params())
			return nil
		},
	}

	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "object weight in kg (default: random)")

	return cmd
}

// parseCoordinate parses a plank coordinate argument.
func parseCoordinate(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "x must be a number, got %q", s)
	}
	return x, nil
}

// describePosition renders an object's place relative to the pivot.
func describePosition(o balance.Object) string {
	switch o.Side() {
	case balance.Left:
		return StyleLeft.Render(fmt.Sprintf("%.0fpx left of the pivot", -o.Distance))
	case balance.Right:
		return StyleRight.Render(fmt.Sprintf("%.0fpx right of the pivot", o.Distance))
	}
	return StyleDim.Render("on the pivot")
}
