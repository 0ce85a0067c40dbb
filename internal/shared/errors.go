package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Container decoding errors
	ErrInvalidBase64 = fmt.Errorf("invalid base64 container")
	ErrCipherInit    = fmt.Errorf("unable to initialise DES block cipher")
	ErrNoPlaylist    = fmt.Errorf("no playlist found")

	// Catalog errors
	ErrContainerNotFound  = fmt.Errorf("container not found")
	ErrDuplicateContainer = fmt.Errorf("container already cataloged")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
