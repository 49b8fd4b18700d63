package content

import (
	"context"
	"sort"
	"strconv"

	"github.com/staticpress/lektorexport/internal/errors"
)

// MemorySource is an in-memory Source implementation. It backs tests and
// fixtures that exercise the pipeline without a content database.
type MemorySource struct {
	Items   []*Item
	Options SiteOptions

	// Uploads is the filesystem root of the media tree, "" for none
	Uploads string

	// Prefix is the media URL prefix; defaults to "wp-content/uploads"
	Prefix string
}

var _ Source = (*MemorySource)(nil)

// ListPublishedIDs returns the IDs of published items of the given types,
// ascending.
func (s *MemorySource) ListPublishedIDs(_ context.Context, types []string) ([]int64, error) {
	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	ids := make([]int64, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Status == "publish" && wanted[item.Type] {
			ids = append(ids, item.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// FetchItem returns the item with the given ID.
func (s *MemorySource) FetchItem(_ context.Context, id int64) (*Item, error) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, errors.NewNotFound(strconv.FormatInt(id, 10))
}

// SiteOptions returns the configured site options.
func (s *MemorySource) SiteOptions(_ context.Context) (SiteOptions, error) {
	return s.Options, nil
}

// UploadsDir returns the media tree root.
func (s *MemorySource) UploadsDir() string {
	return s.Uploads
}

// UploadsPrefix returns the media URL prefix.
func (s *MemorySource) UploadsPrefix() string {
	if s.Prefix == "" {
		return "wp-content/uploads"
	}
	return s.Prefix
}
