package content

import (
	"context"
	"time"
)

// Item represents one published post or page fetched from the content source.
// It is a read-only snapshot; the pipeline never mutates it.
type Item struct {
	// ID is the content item's numeric identifier
	ID int64

	// Type is the registered content type ("post", "page", or a custom type)
	Type string

	// Status is the publication status ("publish" for eligible items)
	Status string

	// Title is the item title
	Title string

	// Body is the raw item body (Markdown or pre-rendered HTML)
	Body string

	// Excerpt is the optional item summary
	Excerpt string

	// Author is the author's display name
	Author string

	// Date is the publish timestamp
	Date time.Time

	// Slug is the URL-safe identifier used in output paths
	Slug string

	// ParentID is the parent item for hierarchical pages (nil otherwise)
	ParentID *int64

	// Ancestors holds the ancestor chain's slugs in root-to-leaf order,
	// excluding this item's own slug. Empty for top-level items.
	Ancestors []string

	// Permalink is the item's absolute URL on the source site
	Permalink string

	// Custom holds arbitrary custom key/value fields. Keys beginning with
	// the private-field marker "_" are excluded from export.
	Custom map[string]string

	// Terms maps taxonomy name to assigned term names, in assignment order
	Terms map[string][]string

	// FeaturedImageURL is the full-size URL of the featured image, if any
	FeaturedImageURL string
}

// SiteOptions holds the site-level option values exported to _config.yml.
// Keys are already renamed to their target-format equivalents
// (siteurl → URL, blogname → Name, blogdescription → Description).
type SiteOptions struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Source is the read interface over the content store. The export pipeline
// consumes content exclusively through this port so it can run against the
// SQLite store or an in-memory fixture alike.
type Source interface {
	// ListPublishedIDs returns the identifiers of all published items of the
	// given types, in ascending order.
	ListPublishedIDs(ctx context.Context, types []string) ([]int64, error)

	// FetchItem returns a fully populated item (custom fields, taxonomy
	// terms, ancestor chain, featured image) by identifier.
	FetchItem(ctx context.Context, id int64) (*Item, error)

	// SiteOptions returns the site name, description, and base URL.
	SiteOptions(ctx context.Context) (SiteOptions, error)

	// UploadsDir returns the filesystem root of the uploaded-media tree,
	// or "" if the source has no media store.
	UploadsDir() string

	// UploadsPrefix returns the media tree's URL prefix relative to the
	// site base URL, e.g. "wp-content/uploads".
	UploadsPrefix() string
}
