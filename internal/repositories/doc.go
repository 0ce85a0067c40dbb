// Package repositories implements SQLite persistence for the container catalog.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ContainerRepository] : Decoded containers keyed by the SHA-256 of their raw bytes
//   - [TrackRepository] : Track records stored at their document position within a container
//
// Sequence numbers provide stable, human-readable references (e.g., container #3) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
