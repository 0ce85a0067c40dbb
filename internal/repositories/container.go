package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/amzx/internal/models"
	"github.com/desertthunder/amzx/internal/shared"
)

const containerColumns = `id, sequence, path, checksum, title, creator, track_count, created_at, updated_at, deleted_at`

var _ models.Repository[*models.PersistedContainer] = (*ContainerRepository)(nil)

// ContainerRepository implements models.Repository[*models.PersistedContainer].
//
// A checksum may only appear once among live containers; deleting a container frees its checksum.
type ContainerRepository struct {
	db *sql.DB
}

// NewContainerRepository creates a new ContainerRepository with the given database connection
func NewContainerRepository(db *sql.DB) *ContainerRepository {
	return &ContainerRepository{db: db}
}

// Create inserts a container without tracks.
func (r *ContainerRepository) Create(container *models.PersistedContainer) error {
	_, err := r.CreateWithTracks(container, nil)
	return err
}

// CreateWithTracks inserts container and one track row per entry of tracks, keeping their
// order as the position column. The whole write is a single transaction.
//
// Returns [shared.ErrDuplicateContainer] when a live container already has the same checksum.
func (r *ContainerRepository) CreateWithTracks(container *models.PersistedContainer, tracks []models.Track) ([]*models.PersistedTrack, error) {
	if err := container.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(
		`SELECT id FROM containers WHERE checksum = ? AND deleted_at IS NULL`,
		container.Checksum(),
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s matches container %s", shared.ErrDuplicateContainer, container.Path(), existing)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check checksum: %w", err)
	}

	sequence, err := NextSequence(tx, "containers")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	container.SetID(shared.GenerateID())
	container.SetSequence(sequence)
	container.SetTrackCount(len(tracks))

	_, err = tx.Exec(`
		INSERT INTO containers (id, sequence, path, checksum, title, creator, track_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		container.ID(),
		container.Sequence(),
		container.Path(),
		container.Checksum(),
		container.Title(),
		container.Creator(),
		container.TrackCount(),
		container.CreatedAt(),
		container.UpdatedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert container: %w", err)
	}

	persisted := make([]*models.PersistedTrack, 0, len(tracks))
	for i, track := range tracks {
		pt := models.NewPersistedTrack(0, container.ID(), i, track)
		if err := insertTrack(tx, pt); err != nil {
			return nil, err
		}
		persisted = append(persisted, pt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit container: %w", err)
	}

	return persisted, nil
}

// Get retrieves a container by ID, excluding soft-deleted containers
func (r *ContainerRepository) Get(id string) (*models.PersistedContainer, error) {
	row := r.db.QueryRow(`SELECT `+containerColumns+` FROM containers WHERE id = ? AND deleted_at IS NULL`, id)
	return r.scanOne(row, id)
}

// GetBySequence retrieves a container by its sequence number
func (r *ContainerRepository) GetBySequence(sequence int) (*models.PersistedContainer, error) {
	row := r.db.QueryRow(`SELECT `+containerColumns+` FROM containers WHERE sequence = ? AND deleted_at IS NULL`, sequence)
	return r.scanOne(row, fmt.Sprintf("#%d", sequence))
}

// GetByChecksum retrieves the live container whose raw bytes hash to checksum
func (r *ContainerRepository) GetByChecksum(checksum string) (*models.PersistedContainer, error) {
	row := r.db.QueryRow(`SELECT `+containerColumns+` FROM containers WHERE checksum = ? AND deleted_at IS NULL`, checksum)
	return r.scanOne(row, checksum)
}

// Update writes the container's title and creator
func (r *ContainerRepository) Update(container *models.PersistedContainer) error {
	if err := container.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	container.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE containers
		SET title = ?, creator = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		container.Title(),
		container.Creator(),
		now,
		container.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update container: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %s", shared.ErrContainerNotFound, container.ID()))
}

// Delete soft-deletes a container and its tracks
func (r *ContainerRepository) Delete(id string) error {
	now := time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE containers SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete container: %w", err)
	}
	if err := checkAffected(result, fmt.Errorf("%w: %s", shared.ErrContainerNotFound, id)); err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE tracks SET deleted_at = ? WHERE container_id = ? AND deleted_at IS NULL`, now, id); err != nil {
		return fmt.Errorf("failed to delete container tracks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// List retrieves containers ordered by sequence.
//
// Supported criteria: "title" and "creator" (substring match), "checksum" (exact) and "limit" (int).
func (r *ContainerRepository) List(criteria map[string]any) ([]*models.PersistedContainer, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE deleted_at IS NULL`
	args := []any{}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+title+"%")
	}

	if creator, ok := criteria["creator"].(string); ok && creator != "" {
		query += " AND creator LIKE ?"
		args = append(args, "%"+creator+"%")
	}

	if checksum, ok := criteria["checksum"].(string); ok && checksum != "" {
		query += " AND checksum = ?"
		args = append(args, checksum)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query containers: %w", err)
	}
	defer rows.Close()

	containers := []*models.PersistedContainer{}
	for rows.Next() {
		container, err := scanContainer(rows)
		if err != nil {
			return nil, err
		}
		containers = append(containers, container)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return containers, nil
}

func (r *ContainerRepository) scanOne(row *sql.Row, key string) (*models.PersistedContainer, error) {
	container, err := scanContainer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrContainerNotFound, key)
	}
	return container, err
}

func scanContainer(s scanner) (*models.PersistedContainer, error) {
	var (
		id         string
		sequence   int
		path       string
		checksum   string
		title      string
		creator    string
		trackCount int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := s.Scan(&id, &sequence, &path, &checksum, &title, &creator, &trackCount, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan container: %w", err)
	}

	export := &models.PlaylistExport{Playlist: models.Playlist{Name: title, Creator: creator}}
	container := models.NewPersistedContainer(sequence, path, checksum, export)
	container.SetID(id)
	container.SetTrackCount(trackCount)
	container.SetCreatedAt(createdAt)
	container.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		container.SetDeletedAt(&deletedAt.Time)
	}

	return container, nil
}
