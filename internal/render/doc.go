// Package render turns a layout snapshot into draw commands.
//
// [Commands] is a pure function of the graph, the snapshot, the current
// [Highlight] and the viewport. A [Surface] consumes the commands; the
// terminal canvas and the SVG writer are the two surfaces shipped with
// kgforce. An [Adapter] binds an [Encoding] to one surface.
package render
