// Package render draws simulation snapshots for people and programs.
//
// Three outputs are supported:
//
//   - [RenderSVG]: the plank rotated about its pivot, objects as circles sized
//     by weight, per-side totals and the tilt angle as labels
//   - [RenderJSON]: a stable machine-readable view of the same data
//   - [RenderText]: a lipgloss-styled terminal drawing used by the CLI
//
// Renderers are pure: they read a [simulation.Snapshot] and never touch
// controller state.
//
//	svg := render.RenderSVG(ctrl.Snapshot(), render.WithPlank(ctrl.Plank()))
//	fmt.Println(render.RenderText(ctrl.Snapshot(), ctrl.Plank(), 60))
//
// [simulation.Snapshot]: github.com/matzehuels/seesaw/pkg/simulation.Snapshot
package render
