package ops

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/staticpress/lektorexport/internal/errors"
)

// runPrefix names export run directories and archives under the exports root.
const runPrefix = "wp-lektor-"

// Run is the process-wide state for one export invocation: a fresh, uniquely
// named output directory and the archive path it would package into. Not
// persisted between runs.
type Run struct {
	// ID is the ULID suffix of the run directory name
	ID string

	// Dir is the run's output directory
	Dir string

	// Archive is where packaging writes the run's zip file
	Archive string
}

// NewRun creates a fresh run under exportsDir: verifies the location is
// writable (fatal otherwise, checked once before any item is processed),
// then creates the uniquely named output directory with its fixed
// subdirectories.
func NewRun(exportsDir string) (*Run, error) {
	if err := os.MkdirAll(exportsDir, 0700); err != nil {
		return nil, errors.NewEnvironment(exportsDir, err)
	}
	if err := checkWritable(exportsDir); err != nil {
		return nil, errors.NewEnvironment(exportsDir, err)
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	runID := id.String()
	dir := filepath.Join(exportsDir, runPrefix+runID)
	for _, d := range []string{dir, filepath.Join(dir, "blog"), filepath.Join(dir, "wp-content")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, errors.NewEnvironment(d, err)
		}
	}

	return &Run{
		ID:      runID,
		Dir:     dir,
		Archive: filepath.Join(exportsDir, runPrefix+runID+".zip"),
	}, nil
}

// checkWritable probes the directory with a throwaway file.
func checkWritable(dir string) error {
	probe := filepath.Join(dir, ".write-probe")
	f, err := os.Create(probe)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(probe)
}
