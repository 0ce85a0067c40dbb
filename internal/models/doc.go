// Package models defines domain entities and persistence interfaces for amzx.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs produced by the decode pipeline
//   - [Track] : one XSPF track record (location, title, creator, album, track number, duration)
//   - [Playlist] : metadata about a decoded container
//   - [PlaylistExport] : a playlist with its tracks in document order
//
// 2. Persistent Entities: catalog rows with lifecycle metadata
//   - [PersistedContainer] : a decoded container identified by the SHA-256 of its raw bytes
//   - [PersistedTrack] : a track belonging to a container, ordered by position
//
// Persistent entities implement the [Model] interface providing IDs, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
