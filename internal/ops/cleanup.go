package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/errors"
)

// CleanupInput contains parameters for the Cleanup operation.
type CleanupInput struct {
	// RunID identifies the run to remove; the wp-lektor- prefix is optional.
	RunID string
}

// CleanupOutput contains the result of the Cleanup operation.
type CleanupOutput struct {
	Removed []string `json:"removed"`
	Message string   `json:"message"`
}

// Cleanup deletes a run's output directory and its archive, if either
// exists. Idempotent: cleaning an already-removed run succeeds with nothing
// removed. Run IDs resolving outside the exports root are rejected.
func Cleanup(cfg *config.Config, input CleanupInput) (*CleanupOutput, error) {
	id := strings.TrimSpace(input.RunID)
	id = strings.TrimPrefix(id, runPrefix)
	if id == "" {
		return nil, errors.NewInvalidRequest("run id is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid run id %q", id))
	}

	dir := filepath.Join(cfg.ExportsDir, runPrefix+id)
	archive := dir + ".zip"

	var removed []string
	if _, err := os.Lstat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return nil, errors.NewInternal(err)
		}
		removed = append(removed, dir)
	}
	if _, err := os.Lstat(archive); err == nil {
		if err := os.Remove(archive); err != nil {
			return nil, errors.NewInternal(err)
		}
		removed = append(removed, archive)
	}

	message := fmt.Sprintf("Removed %d entries for run %s", len(removed), id)
	if len(removed) == 0 {
		message = fmt.Sprintf("Nothing to remove for run %s", id)
	}

	return &CleanupOutput{
		Removed: removed,
		Message: message,
	}, nil
}
