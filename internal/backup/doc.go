// Package backup exports the subscription store to an encrypted artifact
// and reads it back.
//
// Writer snapshots the store, serializes it (Serialize), seals it with the
// device key and writes it as subcontrol_backup_YYYYMMDD_HHMMSS.scb.
// Restorer reverses that: it decrypts, parses, gates on Version and
// validates every record before it writes anything. Invalid entries are
// skipped. Restore is Prepare plus Apply, so a caller can show what a
// backup holds and ask before anything is written. Probe runs the same
// checks without writing.
//
// Every error returned by Writer, Restorer and Probe is a *Failure whose
// Kind tells the caller what went wrong; the original cause is reachable
// with errors.Is / errors.Unwrap.
package backup
