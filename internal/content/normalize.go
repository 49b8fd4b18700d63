package content

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// PrivateFieldMarker prefixes custom-field keys that are never exported.
const PrivateFieldMarker = "_"

// DateFormat is the layout of exported publish timestamps.
const DateFormat = "2006-01-02 15:04:05"

// Record is the normalized, flattened form of an Item, ready for
// serialization. Values are scalars or sequences of text; empty entries are
// removed during normalization.
type Record map[string]any

// String returns the record's value for key as a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns the record's value for key as a string sequence.
func (r Record) Strings(key string) ([]string, bool) {
	v, ok := r[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]string)
	return s, ok
}

// taxonomyFields maps well-known source taxonomy identifiers to their
// target-format field names. Unrecognized taxonomies keep their own name.
var taxonomyFields = map[string]string{
	"post_tag": "tags",
	"category": "categories",
}

// formatTaxonomy is exported as a scalar field rather than a term sequence.
const formatTaxonomy = "post_format"

// Normalize converts an Item into a Record of export fields.
//
// Derivation rules, in precedence order: base fields, permalink (non-pages
// only, base URL stripped), custom fields (private keys skipped, collisions
// resolved last-write-wins), taxonomy terms (renamed per taxonomyFields),
// featured image filename. Empty non-numeric values are then dropped.
func Normalize(item *Item, baseURL string) Record {
	rec := Record{
		"id":      item.ID,
		"title":   item.Title,
		"date":    item.Date.Format(DateFormat),
		"author":  item.Author,
		"excerpt": item.Excerpt,
	}

	// Preserve the exact legacy path, since the target format has no
	// server-side redirect mechanism.
	if item.Type != "page" {
		rec["permalink"] = strings.TrimPrefix(item.Permalink, strings.TrimSuffix(baseURL, "/"))
	}

	for key, value := range item.Custom {
		if strings.HasPrefix(key, PrivateFieldMarker) {
			continue
		}
		rec[key] = value
	}

	for tax, names := range item.Terms {
		if tax == formatTaxonomy {
			format := ""
			if len(names) > 0 {
				format = names[0]
			}
			rec["format"] = format
			continue
		}
		field := tax
		if renamed, ok := taxonomyFields[tax]; ok {
			field = renamed
		}
		rec[field] = append([]string(nil), names...)
	}

	if item.FeaturedImageURL != "" {
		rec["featured_image"] = filenameFromURL(item.FeaturedImageURL)
	}

	// Empty fields just add clutter; the consumer treats absent fields as
	// "use default". Numeric values survive, so an id of 0 is kept.
	for key, value := range rec {
		if isEmpty(value) && !isNumeric(value) {
			delete(rec, key)
		}
	}

	return rec
}

// filenameFromURL returns the last path segment of a URL.
func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

// isEmpty reports whether a value is false-equivalent.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	default:
		return false
	}
}

// isNumeric reports whether a value is a number or a numeric string.
func isNumeric(v any) bool {
	switch t := v.(type) {
	case int, int64, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(t, 64)
		return err == nil
	default:
		return false
	}
}
