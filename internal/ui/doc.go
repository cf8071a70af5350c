// Package ui renders branch listings and collects decisions from the user.
//
// Console picks between a terminal experience (bubbletea multi-select and a
// bubbles spinner) and a plain line-oriented one when input or output is not a
// terminal. Palette wraps lipgloss styles bound to the destination writer so
// color is only emitted where the writer supports it.
package ui
