// Package cli implements the interactive SubControl shell.
//
// App owns the database handle and builds the services and the backup core
// on top of it. runREPL reads one command per line and dispatches it through
// execIface, so the loop can be tested without a database.
//
// Backups go to the configured directory, or to S3 with "backup s3".
// Restore and validate accept a file path or "s3:<name>". A replace
// restore asks for confirmation only after the file passed validation.
package cli
