// Package viz draws graph layouts in the terminal.
//
// [CanvasSurface] rasterizes render commands onto a braille [Canvas] with
// one color per cell. [Model] is a Bubble Tea program around an engine
// that advances the layout on every tick message and forwards mouse
// input as pointer events.
//
// # Key Bindings
//
//	Space - Pause/Resume layout
//	R     - Relayout from scratch
//	T     - Cycle color themes
//	+/-   - Zoom
//	/     - Search labels
//	?     - Show help overlay
package viz
