// Package state holds the HMI's locally believed view of the station.
//
// # Overview
//
// Store is the single owner of ClientState. Two writers feed it:
//
//	Poller (authoritative refresh)      Gateway (operator gesture)
//	┌──────────────────────────┐        ┌──────────────────────────┐
//	│ FetchSnapshot()          │        │ Toggle(target, value)    │
//	│      ↓                   │        │      ↓                   │
//	│ store.ApplySnapshot()    │        │ store.ApplyField()       │
//	└────────────┬─────────────┘        └────────────┬─────────────┘
//	             └──────────────┐      ┌─────────────┘
//	                            ↓      ↓
//	                     ┌──────────────────┐
//	                     │  Store (RWMutex) │──→ Snapshot() ──→ render
//	                     └──────────────────┘
//
// # Merge Semantics
//
//   - ApplySnapshot replaces every field at once. Renderers never observe a
//     half-applied poll.
//   - ApplyField replaces exactly one field. It is used for optimistic writes
//     and is never rolled back; the next applied poll overwrites it.
//   - RecordFailure keeps ClientState untouched and only bumps the failure
//     bookkeeping, so a bad poll cannot corrupt the readouts.
//
// There is no ordering between the two writers beyond the mutex. Whichever
// write lands last wins.
//
// # Protocol Negotiation
//
// Coordinators come in two variants, with and without manual override. A
// Store created with ProtocolAuto (or the zero value) decides on the first
// applied snapshot: a payload carrying manualControl selects
// ProtocolModeAware, otherwise ProtocolLegacy. The decision is sticky.
// Before it is made, Snapshot.ModeAware reports true, which keeps gate and
// pump read-only until the coordinator has been heard from.
//
// # Bookkeeping
//
// Snapshot adds what the header needs to show staleness:
//
//   - LastUpdated: time of the last applied poll
//   - LastError: most recent dropped poll, nil after a success
//   - ConsecutiveFailures / IsOffline: two misses in a row reads as offline
//   - Applied: number of snapshots applied, handy in tests
package state
