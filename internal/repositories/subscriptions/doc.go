// Package subscriptions is the persistence layer for subscription records.
//
// # Storage format
//
// Records live in the `subscriptions` table created by the embedded goose
// migrations. Cost is stored as its canonical decimal string, calendar
// dates as YYYY-MM-DD, timestamps as RFC 3339 (nanosecond, UTC) and tags as
// a JSON array, so the table content does not depend on driver type
// mapping or locale.
//
// # Atomicity
//
// ReplaceAll and InsertMissing run inside a single transaction (dbx.InTx).
// When the repository is bound to a *sql.Tx they join the caller's
// transaction instead of opening a new one.
//
// Typical Usage
//
//	repo := subscriptions.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, &sub)
//	all, _ := repo.GetAll(ctx)
//	_ = repo.ReplaceAll(ctx, restored)
package subscriptions
