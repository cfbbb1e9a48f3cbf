// Package control decides which operator toggles are allowed and applies them.
//
// Interactive is the mode gate: a pure function of a state.Snapshot,
// evaluated on every render and every toggle.
//
// Gateway.Toggle applies an allowed gesture optimistically to the store. Only
// the control-mode toggle reaches the coordinator, as a fire-and-forget
// POST /manual on its own goroutine; gate and pump toggles stay local and the
// coordinator's own loop converges on the next poll. Optimistic writes are
// never rolled back. CommandObserver is the hook for anything that wants to
// track acknowledgement.
package control
