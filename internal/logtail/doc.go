// Package logtail reads the end of the HMI's own log file for the event
// pane.
//
// Read keeps a ring buffer of maxLines while scanning the file once, so
// memory stays O(maxLines) whatever the file size. Tail and Parse decode
// zerolog JSON lines into Entry values; anything that is not a JSON object
// is passed through as a plain message.
//
//	entries, err := logtail.Tail(cfg.LogFile, 8)
package logtail
