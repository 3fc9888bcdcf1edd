// Package ui contains the Bubble Tea program that hosts the desk: a tab strip
// on the top row, the canvas with the floating window in the middle and a
// status line at the bottom.
//
// Message flow:
//   - Bubble Tea invokes Model.Update, which routes each tea.Msg through a
//     typed handler registry (keys, mouse, resize, backend events, queued
//     tasks).
//   - Pointer presses are hit-tested against the window frame and turned
//     into floating.Event values; the window's state machine does the rest.
//   - Work from other goroutines (ticker content, drag-out completions)
//     arrives through the dispatch queue; waitForTask turns each queued
//     closure into a taskMsg so it runs on the Bubble Tea goroutine.
//
// State ownership:
//   - The tabs.Registry owns the tab list and the single window; the model
//     only calls into it.
//   - The desk.Canvas is sized in logical units (cells times cell size) so
//     window geometry is independent of the terminal's cell grid.
//
// Backend interactions:
//   - A backend.Watcher streams memory and tmux probe events; Update hands
//     them to the data dispatcher, which updates the gauge and the drag-out
//     status shown in the status line.
package ui
