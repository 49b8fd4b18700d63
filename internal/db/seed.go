package db

import (
	"database/sql"
	"time"

	"github.com/staticpress/lektorexport/internal/errors"
)

// Post is an insertable content row. Used by fixtures and by tooling that
// populates a content database for export.
type Post struct {
	ID       int64
	Type     string
	Status   string
	Title    string
	Body     string
	Excerpt  string
	Slug     string
	Parent   *int64
	AuthorID int64
	Date     time.Time
}

// InsertPost stores a post row.
func InsertPost(database *sql.DB, p *Post) error {
	postType := p.Type
	if postType == "" {
		postType = "post"
	}

	var parent sql.NullInt64
	if p.Parent != nil {
		parent = sql.NullInt64{Int64: *p.Parent, Valid: true}
	}

	_, err := database.Exec(`
		INSERT INTO posts (
			id, post_type, post_status, post_title, post_content,
			post_excerpt, post_name, post_parent, post_author, post_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, postType, p.Status, p.Title, p.Body,
		p.Excerpt, p.Slug, parent, p.AuthorID, p.Date.Format("2006-01-02 15:04:05"))
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertUser stores a user row.
func InsertUser(database *sql.DB, id int64, displayName string) error {
	_, err := database.Exec(
		"INSERT INTO users (id, display_name) VALUES (?, ?)", id, displayName)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// SetOption stores a site option, replacing any existing value.
func SetOption(database *sql.DB, name, value string) error {
	_, err := database.Exec(`
		INSERT INTO options (option_name, option_value) VALUES (?, ?)
		ON CONFLICT(option_name) DO UPDATE SET option_value = excluded.option_value
	`, name, value)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// AddMeta stores a custom field for a post.
func AddMeta(database *sql.DB, postID int64, key, value string) error {
	_, err := database.Exec(
		"INSERT INTO postmeta (post_id, meta_key, meta_value) VALUES (?, ?, ?)",
		postID, key, value)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// AddTerm assigns a taxonomy term to a post at the given position.
func AddTerm(database *sql.DB, postID int64, taxonomy, name string, position int) error {
	_, err := database.Exec(
		"INSERT INTO post_terms (post_id, taxonomy, name, position) VALUES (?, ?, ?, ?)",
		postID, taxonomy, name, position)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
