// Package app wires the station HMI together.
//
// # Overview
//
// app is the composition root: it loads configuration, builds the
// coordinator client, the shared state.Store, the snapshot Poller and the
// control.Gateway, then hands them to one of three front ends.
//
//   - Run: the Bubble Tea operator terminal (logs go to a file)
//   - Watch: headless, logs every state change to the console
//   - SetManual: one synchronous mode command, for scripts
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> LoadConfig()        config file + CLI overrides
//	       ├─────> station.NewClient() coordinator HTTP client
//	       ├─────> state.NewStore()    shared ClientState
//	       ├─────> Poller.Start()      GET /update now, then every interval
//	       └─────> ui.Run()            operator terminal (blocks)
//
//	Key press ─> control.Gateway.Toggle ─> store.ApplyField
//	                                   └─> POST /manual (mode only)
//
// # Polling Behavior
//
// The poller issues one request per tick without waiting for the previous
// one. A failed poll (transport error, non-2xx, undecodable body) leaves the
// store untouched apart from failure bookkeeping; there is no retry beyond
// the next tick. Completions older than the last applied poll are dropped
// unless discard_stale_polls is off. Stop guarantees no store write after
// it returns.
//
// A poll and an operator toggle racing each other resolve last-write-wins:
// an optimistic toggle can be overwritten by the next snapshot.
package app
