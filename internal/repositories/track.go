package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
)

const trackColumns = `id, sequence, container_id, position, location, title, creator, album, track_num, duration, created_at, updated_at, deleted_at`

var _ models.Repository[*models.PersistedTrack] = (*TrackRepository)(nil)

// TrackRepository implements models.Repository[*models.PersistedTrack].
//
// Tracks are normally written by [ContainerRepository.CreateWithTracks]; listing by container
// returns them in document order.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	return insertTrack(r.db, track)
}

func insertTrack(q execer, track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(q, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	track.SetID(shared.GenerateID())
	track.SetSequence(sequence)

	t := track.Track()
	_, err = q.Exec(`
		INSERT INTO tracks (id, sequence, container_id, position, location, title, creator, album, track_num, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		track.ID(),
		track.Sequence(),
		track.ContainerID(),
		track.Position(),
		t.Location,
		t.Title,
		t.Creator,
		t.Album,
		t.TrackNum,
		t.Duration,
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	row := r.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE id = ? AND deleted_at IS NULL`, id)

	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	return track, err
}

// Update rewrites the track's fields. Container and position are fixed at creation.
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	t := track.Track()
	result, err := r.db.Exec(`
		UPDATE tracks
		SET location = ?, title = ?, creator = ?, album = ?, track_num = ?, duration = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		t.Location,
		t.Title,
		t.Creator,
		t.Album,
		t.TrackNum,
		t.Duration,
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, track.ID()))
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id))
}

// ListByContainer returns a container's tracks in document order
func (r *TrackRepository) ListByContainer(containerID string) ([]*models.PersistedTrack, error) {
	return r.List(map[string]any{"container_id": containerID})
}

// List retrieves tracks ordered by container sequence and then position.
//
// Supported criteria: "container_id" (exact), "creator", "album" and "title" (substring match).
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := `
		SELECT t.id, t.sequence, t.container_id, t.position, t.location, t.title, t.creator, t.album,
			t.track_num, t.duration, t.created_at, t.updated_at, t.deleted_at
		FROM tracks t
		JOIN containers c ON c.id = t.container_id
		WHERE t.deleted_at IS NULL AND c.deleted_at IS NULL
	`
	args := []any{}

	if containerID, ok := criteria["container_id"].(string); ok && containerID != "" {
		query += " AND t.container_id = ?"
		args = append(args, containerID)
	}

	for _, column := range []string{"creator", "album", "title"} {
		if value, ok := criteria[column].(string); ok && value != "" {
			query += fmt.Sprintf(" AND t.%s LIKE ?", column)
			args = append(args, "%"+value+"%")
		}
	}

	query += " ORDER BY c.sequence ASC, t.position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []*models.PersistedTrack{}
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

func scanTrack(s scanner) (*models.PersistedTrack, error) {
	var (
		id          string
		sequence    int
		containerID string
		position    int
		t           models.Track
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &containerID, &position,
		&t.Location, &t.Title, &t.Creator, &t.Album, &t.TrackNum, &t.Duration,
		&createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track := models.NewPersistedTrack(sequence, containerID, position, t)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}
