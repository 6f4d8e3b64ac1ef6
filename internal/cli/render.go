package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/render"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// Output formats understood by the render command.
const (
	formatSVG  = "svg"
	formatJSON = "json"
	formatText = "text"
)

var renderFormats = []string{formatSVG, formatJSON, formatText}

const defaultTextWidth = 61

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format string // svg, json or text
	output string // output file; stdout when empty
	width  int    // text width in columns
	ids    bool   // label objects with their ids (svg)
	labels bool   // draw totals and angle (svg)
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format: formatSVG,
		width:  defaultTextWidth,
		labels: true,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the current plank as SVG, JSON or text",
		Example: `  seesaw render -o plank.svg
  seesaw render -f text --width 80
  seesaw render -f json | jq .angle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(renderFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %v)", opts.format, renderFormats)
			}

			sess, err := c.openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			data, err := renderSnapshot(sess.ctrl, opts)
			if err != nil {
				return err
			}

			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Rendered %s", opts.format)
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), json, text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "text width in columns")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "label objects with their ids (svg)")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw totals and angle (svg)")

	return cmd
}

// renderSnapshot produces the bytes for one output format.
func renderSnapshot(ctrl *simulation.Controller, opts renderOpts) ([]byte, error) {
	snap := ctrl.Snapshot()
	switch opts.format {
	case formatJSON:
		data, err := render.RenderJSON(snap, ctrl.Plank())
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatText:
		return []byte(render.RenderText(snap, ctrl.Plank(), opts.width) + "\n"), nil
	}

	svgOpts := []render.SVGOption{render.WithPlank(ctrl.Plank()), render.WithParams(ctrl.Params())}
	if opts.ids {
		svgOpts = append(svgOpts, render.WithObjectIDs())
	}
	if !opts.labels {
		svgOpts = append(svgOpts, render.WithoutLabels())
	}
	return render.RenderSVG(snap, svgOpts...), nil
}
