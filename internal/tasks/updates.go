package tasks

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FindContainers Phase = iota
	DecodeContainers
	ExportPlaylists
	StoreContainers
	Compare
)

func (p Phase) String() string {
	switch p {
	case FindContainers:
		return "find_containers"
	case DecodeContainers:
		return "decode_containers"
	case ExportPlaylists:
		return "export_playlists"
	case StoreContainers:
		return "store_containers"
	case Compare:
		return "compare"
	default:
		return ""
	}
}

func findingContainersUpdate(root string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FindContainers,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Looking for containers in %s...", root),
	}
}

func foundContainersUpdate(root string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FindContainers,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d container(s) in %s", count, root),
		Data:    count,
	}
}

func decodingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DecodeContainers,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Decoding %d container(s)...", total),
	}
}

func decodedUpdate(step, total int, res *FileResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DecodeContainers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, filepath.Base(res.Path), len(res.Export.Tracks)),
		Data:    res,
	}
}

func decodeFailedUpdate(step, total int, res *FileResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DecodeContainers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, filepath.Base(res.Path), res.Err),
		Data:    res,
	}
}

func exportedUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exported %s", step, total, path),
	}
}

func storedUpdate(step, total int, res *FileResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreContainers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Cataloged %s", step, total, filepath.Base(res.Path)),
	}
}

func storeSkippedUpdate(step, total int, res *FileResult, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreContainers,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Skipped %s: %v", step, total, filepath.Base(res.Path), err),
	}
}

func compareUpdate(step, total int, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    step,
		Total:   total,
		Message: message,
	}
}
