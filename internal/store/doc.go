// Package store provides the customer dataset behind compiled queries.
//
// Two drivers are supported: SQLite (the default, zero-setup) and
// PostgreSQL via lib/pq. Compiled statements arrive with :pN named
// placeholders and are rewritten to whichever positional form the active
// driver expects before execution.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
