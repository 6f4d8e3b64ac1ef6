package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seesaw/pkg/balance"
)

// statusCommand creates the status command.
func (c *CLI) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the objects on the plank and the resulting balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			snap := sess.ctrl.Snapshot()
			fmt.Println(StyleTitle.Render("Seesaw") + " " + StyleDim.Render(fmt.Sprintf("slot %s · %s store", sess.cfg.Store.Slot, sess.store.Backend())))
			fmt.Println()

			if len(snap.Objects) == 0 {
				printInfo("The plank is empty")
				printNextStep("Drop an object", appName+" drop 300")
				return nil
			}

			fmt.Println(objectTable(snap.Objects))
			fmt.Println()
			printBalance(snap.Balance, sess.ctrl.Params())
			return nil
		},
	}
}

// objectTable renders objects in insertion order.
func objectTable(objs []balance.Object) string {
	rows := make([][]string, 0, len(objs))
	for i, o := range objs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			o.ID,
			formatKg(o.Weight),
			fmt.Sprintf("%+.0f", o.Distance),
			o.Side().String(),
			fmt.Sprintf("%.0f", o.Torque()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "kg", "Distance", "Side", "Torque").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 4 && row < len(objs) {
				switch objs[row].Side() {
				case balance.Left:
					return cellStyle.Foreground(colorBlue)
				case balance.Right:
					return cellStyle.Foreground(colorPink)
				}
			}
			return cellStyle
		})

	return t.Render()
}
