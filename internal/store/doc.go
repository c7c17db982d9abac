// Package store provides SQLite-backed storage for the campaign knowledge base.
//
// The store maps four nested aggregates (Quest, NPC, Faction, Location) onto
// flat relational tables:
//   - Root tables: one row per aggregate, scalar attributes only
//   - Owned child tables: keyed by the root id, cascade-deleted with it
//   - Nested child tables: keyed by (root id, intermediate key), e.g. a quest
//     stage's objectives by (quest_id, stage_number)
//   - Join tables: reference collections of foreign ids, no ownership
//
// # Units of Work
//
// Create, Update, Delete and multi-table child adds run inside a UnitOfWork.
// Either every statement commits or the unit of work rolls back and the
// caller gets the error. Only one unit of work may be open per store; Begin
// returns ErrUnitOfWorkOpen otherwise.
//
// # Write and Read Shape
//
//   - Update is a full replace: child rows are deleted, then reinserted
//   - Get returns nil, nil for a missing id
//   - Sets and keyed lists come back sorted by their natural key
//   - Stages, NPC descriptions and faction resources keep write order
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity and cascades
//   - One pooled connection shared by every statement
package store
