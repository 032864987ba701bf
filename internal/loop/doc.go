// Package loop orchestrates loop lifecycle transitions against the
// persisted state file. Every operation follows the same shape: load the
// state from the given path, validate or mutate it, and persist the whole
// document back. The file is the sole source of truth between invocations;
// no state outlives a single call.
//
// A missing or unparseable state file surfaces as ErrNotFound rather than
// a fault, so an external driver polling the loop never crashes on a
// hand-edited or deleted file. The one exception is CheckCompletion, which
// treats a missing loop as already complete.
package loop
