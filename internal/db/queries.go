package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/staticpress/lektorexport/internal/content"
	"github.com/staticpress/lektorexport/internal/errors"
)

// DefaultUploadsPrefix is the media tree's URL prefix under the site root.
const DefaultUploadsPrefix = "wp-content/uploads"

// dateLayouts are accepted post_date formats, most specific first.
var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// maxAncestorDepth bounds parent-chain walks so a cyclic hierarchy cannot
// hang an export.
const maxAncestorDepth = 32

// Store is the SQLite-backed content source.
type Store struct {
	db         *sql.DB
	uploadsDir string

	// siteURL caches the siteurl option after the first lookup
	siteURL string
}

var _ content.Source = (*Store)(nil)

// NewStore creates a Store over an open content database. uploadsDir is the
// filesystem root of the uploaded-media tree, or "" if media is unavailable.
func NewStore(database *sql.DB, uploadsDir string) *Store {
	return &Store{db: database, uploadsDir: uploadsDir}
}

// ListPublishedIDs returns the IDs of all published items of the given
// types, in ascending order.
func (s *Store) ListPublishedIDs(ctx context.Context, types []string) ([]int64, error) {
	if len(types) == 0 {
		return nil, errors.NewInvalidRequest("at least one content type is required")
	}

	placeholders := strings.Repeat("?, ", len(types)-1) + "?"
	query := fmt.Sprintf(`
		SELECT id FROM posts
		WHERE post_status = 'publish' AND post_type IN (%s)
		ORDER BY id ASC
	`, placeholders)

	args := make([]any, len(types))
	for i, t := range types {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewInternal(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return ids, nil
}

// FetchItem returns a fully populated item: base row, author display name,
// custom fields, taxonomy terms, ancestor chain, permalink, and featured
// image URL.
func (s *Store) FetchItem(ctx context.Context, id int64) (*content.Item, error) {
	query := `
		SELECT id, post_type, post_status, post_title, post_content,
			post_excerpt, post_name, post_parent, post_author, post_date
		FROM posts
		WHERE id = ?
	`

	var (
		item    content.Item
		parent  sql.NullInt64
		author  sql.NullInt64
		rawDate string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Type, &item.Status, &item.Title, &item.Body,
		&item.Excerpt, &item.Slug, &parent, &author, &rawDate,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	item.Date, err = parseDate(rawDate)
	if err != nil {
		return nil, errors.NewItemData(id, err)
	}

	if parent.Valid && parent.Int64 != 0 {
		p := parent.Int64
		item.ParentID = &p
		item.Ancestors, err = s.ancestorSlugs(ctx, p)
		if err != nil {
			return nil, err
		}
	}

	if author.Valid {
		item.Author, err = s.displayName(ctx, author.Int64)
		if err != nil {
			return nil, err
		}
	}

	item.Custom, err = s.customFields(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Terms, err = s.terms(ctx, id)
	if err != nil {
		return nil, err
	}

	base, err := s.baseURL(ctx)
	if err != nil {
		return nil, err
	}
	item.Permalink = permalink(base, &item)

	if thumbID, ok := item.Custom["_thumbnail_id"]; ok {
		item.FeaturedImageURL, err = s.featuredImageURL(ctx, base, thumbID)
		if err != nil {
			return nil, err
		}
	}

	return &item, nil
}

// SiteOptions reads the exported site option values, renaming option keys to
// their target-format equivalents (siteurl -> url, blogname -> name,
// blogdescription -> description).
func (s *Store) SiteOptions(ctx context.Context) (content.SiteOptions, error) {
	query := `
		SELECT option_name, option_value FROM options
		WHERE option_name IN ('siteurl', 'blogname', 'blogdescription')
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return content.SiteOptions{}, errors.NewInternal(err)
	}
	defer rows.Close()

	var opts content.SiteOptions
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return content.SiteOptions{}, errors.NewInternal(err)
		}
		switch name {
		case "siteurl":
			opts.URL = value
		case "blogname":
			opts.Name = value
		case "blogdescription":
			opts.Description = value
		}
	}
	if err := rows.Err(); err != nil {
		return content.SiteOptions{}, errors.NewInternal(err)
	}

	return opts, nil
}

// UploadsDir returns the filesystem root of the media tree.
func (s *Store) UploadsDir() string {
	return s.uploadsDir
}

// UploadsPrefix returns the media URL prefix under the site root.
func (s *Store) UploadsPrefix() string {
	return DefaultUploadsPrefix
}

// baseURL returns the siteurl option, cached after the first lookup.
func (s *Store) baseURL(ctx context.Context) (string, error) {
	if s.siteURL != "" {
		return s.siteURL, nil
	}
	opts, err := s.SiteOptions(ctx)
	if err != nil {
		return "", err
	}
	s.siteURL = strings.TrimSuffix(opts.URL, "/")
	return s.siteURL, nil
}

// displayName returns a user's display name, or "" for unknown users.
func (s *Store) displayName(ctx context.Context, userID int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT display_name FROM users WHERE id = ?", userID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return name, nil
}

// customFields returns all postmeta key/value pairs for an item, private
// keys included. Export-time filtering of private keys happens during
// normalization.
func (s *Store) customFields(ctx context.Context, postID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT meta_key, meta_value FROM postmeta WHERE post_id = ?", postID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.NewInternal(err)
		}
		fields[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return fields, nil
}

// terms returns the item's taxonomy assignments grouped by taxonomy, term
// names in assignment order.
func (s *Store) terms(ctx context.Context, postID int64) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT taxonomy, name FROM post_terms
		WHERE post_id = ?
		ORDER BY taxonomy, position
	`, postID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	terms := make(map[string][]string)
	for rows.Next() {
		var taxonomy, name string
		if err := rows.Scan(&taxonomy, &name); err != nil {
			return nil, errors.NewInternal(err)
		}
		terms[taxonomy] = append(terms[taxonomy], name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return terms, nil
}

// ancestorSlugs walks the parent chain from the given post upward and
// returns the chain's slugs in root-to-leaf order.
func (s *Store) ancestorSlugs(ctx context.Context, parentID int64) ([]string, error) {
	var chain []string

	id := parentID
	for depth := 0; id != 0 && depth < maxAncestorDepth; depth++ {
		var (
			slug   string
			parent sql.NullInt64
		)
		err := s.db.QueryRowContext(ctx,
			"SELECT post_name, post_parent FROM posts WHERE id = ?", id).Scan(&slug, &parent)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return nil, errors.NewInternal(err)
		}

		chain = append([]string{slug}, chain...)

		if !parent.Valid {
			break
		}
		id = parent.Int64
	}

	return chain, nil
}

// featuredImageURL resolves a _thumbnail_id meta value to the attachment's
// full-size URL.
func (s *Store) featuredImageURL(ctx context.Context, base, thumbID string) (string, error) {
	attachmentID, err := strconv.ParseInt(thumbID, 10, 64)
	if err != nil {
		return "", nil
	}

	var file string
	err = s.db.QueryRowContext(ctx, `
		SELECT meta_value FROM postmeta
		WHERE post_id = ? AND meta_key = '_wp_attached_file'
	`, attachmentID).Scan(&file)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}

	return base + "/" + DefaultUploadsPrefix + "/" + file, nil
}

// permalink builds the item's absolute URL under the pretty-permalink
// structure /%postname%/.
func permalink(base string, item *content.Item) string {
	switch item.Type {
	case "page":
		segments := append(append([]string{}, item.Ancestors...), item.Slug)
		return base + "/" + strings.Join(segments, "/") + "/"
	case "post":
		return base + "/" + item.Slug + "/"
	default:
		return base + "/" + item.Type + "/" + item.Slug + "/"
	}
}

// parseDate parses a post_date value.
func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable post_date %q", raw)
}
