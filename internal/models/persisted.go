package models

import (
	"fmt"
	"time"
)

var (
	_ Model = (*PersistedContainer)(nil)
	_ Model = (*PersistedTrack)(nil)
)

// PersistedContainer is a cataloged AMZ container.
type PersistedContainer struct {
	id         string
	sequence   int
	path       string
	checksum   string
	title      string
	creator    string
	trackCount int
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewPersistedContainer builds a container row from the export produced by the decode pipeline.
func NewPersistedContainer(sequence int, path, checksum string, export *PlaylistExport) *PersistedContainer {
	now := time.Now()
	return &PersistedContainer{
		sequence:   sequence,
		path:       path,
		checksum:   checksum,
		title:      export.Playlist.Name,
		creator:    export.Playlist.Creator,
		trackCount: len(export.Tracks),
		createdAt:  now,
		updatedAt:  now,
	}
}

func (c *PersistedContainer) ID() string            { return c.id }
func (c *PersistedContainer) Sequence() int         { return c.sequence }
func (c *PersistedContainer) Path() string          { return c.path }
func (c *PersistedContainer) Checksum() string      { return c.checksum }
func (c *PersistedContainer) Title() string         { return c.title }
func (c *PersistedContainer) Creator() string       { return c.creator }
func (c *PersistedContainer) TrackCount() int       { return c.trackCount }
func (c *PersistedContainer) CreatedAt() time.Time  { return c.createdAt }
func (c *PersistedContainer) UpdatedAt() time.Time  { return c.updatedAt }
func (c *PersistedContainer) DeletedAt() *time.Time { return c.deletedAt }

func (c *PersistedContainer) SetID(id string)           { c.id = id }
func (c *PersistedContainer) SetSequence(seq int)       { c.sequence = seq }
func (c *PersistedContainer) SetTitle(title string)     { c.title = title }
func (c *PersistedContainer) SetCreatedAt(t time.Time)  { c.createdAt = t }
func (c *PersistedContainer) SetUpdatedAt(t time.Time)  { c.updatedAt = t }
func (c *PersistedContainer) SetDeletedAt(t *time.Time) { c.deletedAt = t }
func (c *PersistedContainer) SetTrackCount(count int)   { c.trackCount = count }
func (c *PersistedContainer) SetCreator(creator string) { c.creator = creator }

// Validate requires a path and a checksum.
func (c *PersistedContainer) Validate() error {
	if c.path == "" {
		return fmt.Errorf("container path is required")
	}
	if c.checksum == "" {
		return fmt.Errorf("container checksum is required")
	}
	if c.trackCount < 0 {
		return fmt.Errorf("track count cannot be negative")
	}
	return nil
}

// PersistedTrack is a cataloged track belonging to a [PersistedContainer].
type PersistedTrack struct {
	id          string
	sequence    int
	containerID string
	position    int
	track       Track
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPersistedTrack wraps a [Track] at the given 0-based position within its container.
func NewPersistedTrack(sequence int, containerID string, position int, track Track) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		sequence:    sequence,
		containerID: containerID,
		position:    position,
		track:       track,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (t *PersistedTrack) ID() string            { return t.id }
func (t *PersistedTrack) Sequence() int         { return t.sequence }
func (t *PersistedTrack) ContainerID() string   { return t.containerID }
func (t *PersistedTrack) Position() int         { return t.position }
func (t *PersistedTrack) Track() Track          { return t.track }
func (t *PersistedTrack) CreatedAt() time.Time  { return t.createdAt }
func (t *PersistedTrack) UpdatedAt() time.Time  { return t.updatedAt }
func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *PersistedTrack) SetID(id string)            { t.id = id }
func (t *PersistedTrack) SetSequence(seq int)        { t.sequence = seq }
func (t *PersistedTrack) SetTrack(track Track)       { t.track = track }
func (t *PersistedTrack) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *PersistedTrack) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *PersistedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }

// Validate requires an owning container and a non-negative position.
func (t *PersistedTrack) Validate() error {
	if t.containerID == "" {
		return fmt.Errorf("track container ID is required")
	}
	if t.position < 0 {
		return fmt.Errorf("track position cannot be negative")
	}
	return nil
}
