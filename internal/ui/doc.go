// Package ui provides the operator terminal for a pumped water-transfer
// station, built on Bubble Tea.
//
// # Architecture Overview
//
// The view is a pure projection of state.Store. A tick message pulls a fresh
// store snapshot; the poller in package app is what keeps the store current.
// Key presses never write the store directly: they go through
// control.Gateway, which applies the mode gate and sends coordinator
// commands.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key dispatch and Run
//   - header.go: link status, protocol and data age
//   - readouts.go: panel lamps and the pipe flow indicator
//   - help.go: help overlay
//   - keys.go: key bindings shared by the footer and overlay
//   - theme.go: color themes, cycled with T and saved to prefs
//
// # Key Bindings
//
//	m       switch AUTO/MANUAL (mode-aware coordinators only)
//	g       toggle gate (MANUAL, or always on legacy coordinators)
//	p       toggle pump (same rule as g)
//	T       cycle theme
//	h, ?    help
//	q       quit
package ui
