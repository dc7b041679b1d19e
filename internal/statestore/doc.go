// Package statestore persists the single piece of durable state the
// monitor has: the last release tag that was seen (and, after the first
// run, notified about).
//
// The file driver keeps the {"last_release": "<tag>"} layout written by
// earlier deployments, so existing state carries over.
//
// Running two monitor instances against the same storage path is
// unsupported; there is no inter-process locking.
package statestore
