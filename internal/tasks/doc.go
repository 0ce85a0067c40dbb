// Package tasks runs the decode pipeline against files on disk.
//
// # Single containers
//
// [DecodeFile] reads a container, hashes the raw bytes, decrypts it with the amz package and
// extracts the playlist with the xspf package. An empty track list is a valid result at this
// level; commands that need tracks report it with [NoPlaylistError].
//
// # Batches
//
// [DecodeEngine.Batch] decodes many containers with a worker pool and keeps the results in input
// order regardless of completion order. [DecodeEngine.Scan] finds the inputs by walking a directory.
// Decoded playlists can be exported to a directory (with an export_manifest.json) and stored in the
// catalog through the optional [Cataloger].
//
// # Progress Reporting
//
// All batch operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Comparison
//
// [DecodeEngine.Diff] and [CompareTracks] report which tracks two playlists share, matching on
// location first and normalized title and creator second.
package tasks
