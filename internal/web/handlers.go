package web

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/content"
	"github.com/staticpress/lektorexport/internal/errors"
	"github.com/staticpress/lektorexport/internal/ops"
)

// Handlers contains HTTP route handlers for the admin surface.
type Handlers struct {
	src     content.Source
	cfg     *config.Config
	version string
}

// HandleStatus handles GET /status — health and version info.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	opts, err := h.src.SiteOptions(r.Context())
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"site":    opts,
	})
}

// HandleExport handles GET /export?type=lektor — run a full export and
// stream the archive as an attachment, then remove the run's artifacts.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "lektor" {
		renderError(w, errors.NewInvalidRequest(`type parameter must be "lektor"`))
		return
	}

	input := ops.ExportInput{Zip: true}
	if types := r.URL.Query().Get("post_types"); types != "" {
		input.Types = splitList(types)
	}

	out, err := ops.Export(r.Context(), h.src, h.cfg, input)
	if err != nil {
		renderError(w, err)
		return
	}
	defer func() {
		if _, err := ops.Cleanup(h.cfg, ops.CleanupInput{RunID: out.RunID}); err != nil {
			log.Printf("cleanup after download failed for run %s: %v", out.RunID, err)
		}
	}()

	f, err := os.Open(out.Archive)
	if err != nil {
		renderError(w, errors.NewInternal(err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(out.Archive)))
	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	}
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("archive download interrupted for run %s: %v", out.RunID, err)
	}
}

// HandleCleanup handles POST /runs/{id}/cleanup — remove a run's artifacts.
func (h *Handlers) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("run ID is required"))
		return
	}

	result, err := ops.Cleanup(h.cfg, ops.CleanupInput{RunID: id})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes an error as JSON, mapping typed errors to their status.
func renderError(w http.ResponseWriter, err error) {
	var eErr *errors.ExportError
	if !stderrors.As(err, &eErr) {
		eErr = errors.NewInternal(err)
	}

	renderJSON(w, eErr.Status, map[string]any{
		"error": map[string]any{
			"code":    eErr.Code,
			"message": eErr.Message,
			"details": eErr.Details,
		},
	})
}

// splitList splits a comma-separated parameter into trimmed non-empty values.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
