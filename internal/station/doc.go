// Package station provides an HTTP client for the pumped-storage coordinator.
//
// # Overview
//
// The coordinator exposes two endpoints that the HMI consumes:
//
//	GET  /update          current process snapshot
//	POST /manual?s=0|1    switch between automatic and manual control
//
// There is no status envelope. Any non-2xx status is an error, and so is a
// body that cannot be decoded into a Snapshot.
//
// # Wire Format
//
//	{"timeOfDay":1,"waterLevelHigh":0,"gateOpen":0,"pumpOn":1,"manualControl":0}
//
// Every field is a binary indicator transported as 0/1. Indicator decodes
// tolerantly: non-zero numbers are true, JSON booleans and numeric strings are
// accepted, null and missing fields stay 0. Objects, arrays and non-numeric
// strings wrap ErrMalformed.
//
// manualControl only appears on coordinators that support manual override.
// Snapshot.SupportsManualControl exposes its presence so the state layer can
// pick the protocol variant.
//
// # Client
//
// NewClient accepts a host:port (scheme defaults to http). Requests carry a
// 5 second timeout, an Accept: application/json header and a pshhmi
// User-Agent. Response bodies are capped at 64 KiB.
//
// The SnapshotFetcher and ManualSetter interfaces are what the poller and the
// control gateway depend on; tests substitute fakes or stationtest.Server.
package station
