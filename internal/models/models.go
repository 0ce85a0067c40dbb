package models

import (
	"time"
)

// Model defines the base interface for all persistent catalog models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track is a single XSPF track record extracted from a decrypted playlist.
//
// Every field is optional in the source format; absent values are left at their zero value.
type Track struct {
	Location string `json:"location"`
	Title    string `json:"title"`
	Creator  string `json:"creator"`
	Album    string `json:"album"`
	TrackNum int    `json:"track_number"`
	Duration int64  `json:"duration"` // Duration in milliseconds
}

// Playlist describes a decoded container.
type Playlist struct {
	Name       string `json:"name"`              // Playlist title, falling back to the container file name
	Creator    string `json:"creator,omitempty"` // Playlist-level creator, when the document carries one
	Source     string `json:"source,omitempty"`  // Path of the container the playlist came from
	TrackCount int    `json:"track_count"`
}

// PlaylistExport is a playlist with every track in document order.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// TotalDuration sums the durations of all tracks in milliseconds.
func (p *PlaylistExport) TotalDuration() int64 {
	var total int64
	for _, t := range p.Tracks {
		total += t.Duration
	}
	return total
}
