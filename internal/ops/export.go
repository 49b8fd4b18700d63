package ops

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/content"
	"github.com/staticpress/lektorexport/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Types []string // optional, overrides cfg.PostTypes
	Zip   bool     // package the run directory into an archive
	Keep  bool     // keep the run directory after successful packaging
}

// SkippedItem records one content item that was left out of the export.
type SkippedItem struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	RunID       string        `json:"run_id"`
	Path        string        `json:"path,omitempty"`
	Archive     string        `json:"archive,omitempty"`
	Exported    int           `json:"exported"`
	Skipped     []SkippedItem `json:"skipped,omitempty"`
	MediaErrors []string      `json:"media_errors,omitempty"`
	ExportedAt  int64         `json:"exported_at"`
}

// Export runs the full pipeline: enumerate eligible items in ascending
// identifier order, normalize and serialize each into the run directory,
// copy featured images, mirror the uploaded-media tree, write the site
// config, and optionally package the result.
//
// A defective item is skipped with a diagnostic rather than aborting the
// run; media copy failures are likewise non-fatal. The run directory is
// removed if the export aborts before producing a result, and survives a
// packaging failure so the tree stays inspectable.
func Export(ctx context.Context, src content.Source, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	opts, err := src.SiteOptions(ctx)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = opts.URL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	types := input.Types
	if len(types) == 0 {
		types = cfg.PostTypes
	}

	run, err := NewRun(cfg.ExportsDir)
	if err != nil {
		return nil, err
	}
	success := false
	defer func() {
		if !success {
			os.RemoveAll(run.Dir)
		}
	}()

	var renderer *content.Renderer
	if cfg.BodyFormat != config.BodyFormatHTML {
		renderer = content.NewRenderer()
	}

	ids, err := src.ListPublishedIDs(ctx, types)
	if err != nil {
		return nil, err
	}

	out := &ExportOutput{
		RunID:      run.ID,
		Path:       run.Dir,
		ExportedAt: time.Now().Unix(),
	}

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}

		item, err := src.FetchItem(ctx, id)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedItem{ID: id, Reason: err.Error()})
			continue
		}
		if item.Slug == "" {
			out.Skipped = append(out.Skipped, SkippedItem{ID: id, Reason: "missing slug"})
			continue
		}

		body := item.Body
		if renderer != nil {
			body, err = renderer.Render(item.Body)
			if err != nil {
				out.Skipped = append(out.Skipped, SkippedItem{ID: id, Reason: fmt.Sprintf("body render: %v", err)})
				continue
			}
		}

		rec := content.Normalize(item, baseURL)
		text := content.Serialize(rec, body)

		dest := filepath.Join(run.Dir, filepath.FromSlash(content.ResolvePath(item)))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := os.WriteFile(dest, []byte(text), 0644); err != nil {
			return nil, errors.NewInternal(err)
		}

		if item.FeaturedImageURL != "" && src.UploadsDir() != "" {
			if err := copyFeaturedImage(src, item, baseURL, filepath.Dir(dest)); err != nil {
				out.MediaErrors = append(out.MediaErrors, err.Error())
			}
		}

		out.Exported++
	}

	if src.UploadsDir() != "" {
		mirrorDest := filepath.Join(run.Dir, filepath.FromSlash(src.UploadsPrefix()))
		if err := CopyTree(src.UploadsDir(), mirrorDest); err != nil {
			out.MediaErrors = append(out.MediaErrors, fmt.Sprintf("uploads mirror: %v", err))
		}
	}

	if err := WriteSiteConfig(run.Dir, opts); err != nil {
		return nil, err
	}

	if !input.Zip {
		success = true
		return out, nil
	}

	// The tree is complete; a packaging failure must leave it on disk.
	success = true
	if err := ZipDir(run.Dir, run.Archive); err != nil {
		pkgErr := errors.NewPackaging(err)
		pkgErr.Details = map[string]any{"path": run.Dir}
		return nil, pkgErr
	}
	out.Archive = run.Archive

	if !input.Keep && !cfg.KeepRunDir {
		if err := os.RemoveAll(run.Dir); err != nil {
			return nil, errors.NewInternal(err)
		}
		out.Path = ""
	}

	return out, nil
}

// copyFeaturedImage copies an item's full-size featured image from the media
// store into the directory holding the item's contents file.
func copyFeaturedImage(src content.Source, item *content.Item, baseURL, destDir string) error {
	rel, err := mediaRelPath(item.FeaturedImageURL, src.UploadsPrefix())
	if err != nil {
		return errors.NewMedia(item.FeaturedImageURL, err)
	}

	source := filepath.Join(src.UploadsDir(), filepath.FromSlash(rel))
	dest := filepath.Join(destDir, path.Base(rel))
	if err := CopyFile(source, dest); err != nil {
		return errors.NewMedia(rel, err)
	}
	return nil
}

// mediaRelPath extracts a media file's path relative to the uploads root
// from its full-size URL.
func mediaRelPath(imageURL, uploadsPrefix string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	p := strings.TrimPrefix(u.Path, "/")
	idx := strings.Index(p, uploadsPrefix+"/")
	if idx < 0 {
		return "", fmt.Errorf("url %s is not under the uploads prefix %s", imageURL, uploadsPrefix)
	}
	return p[idx+len(uploadsPrefix)+1:], nil
}
