package content

import "strings"

// delimiter separates front-matter field blocks in the output format.
const delimiter = "---\n"

// Serialize renders a normalized record plus body into the flat-file content
// format: front-matter blocks separated by delimiter lines, in a fixed order,
// each block emitted only when its field is present. The body is the final,
// undelimited block and is written verbatim.
//
// This is a positional format fixed by convention with the consuming
// static-site tool, not a generic key-value dump: field order never follows
// record iteration order.
func Serialize(rec Record, body string) string {
	var b strings.Builder

	if title, ok := rec.String("title"); ok {
		b.WriteString("title: " + title + "\n")
		b.WriteString(delimiter)
	}
	if date, ok := rec.String("date"); ok {
		b.WriteString("pub_date: " + date + "\n")
		b.WriteString(delimiter)
	}
	if author, ok := rec.String("author"); ok {
		b.WriteString("author: " + author + "\n")
		b.WriteString(delimiter)
	}
	if categories, ok := rec.Strings("categories"); ok {
		b.WriteString("categories: \n\n")
		b.WriteString(strings.Join(categories, "\n"))
		b.WriteString("\n")
		b.WriteString(delimiter)
	}
	if tags, ok := rec.Strings("tags"); ok {
		b.WriteString("tags: \n\n")
		b.WriteString(strings.Join(tags, "\n"))
		b.WriteString("\n")
		b.WriteString(delimiter)
	}
	if permalink, ok := rec.String("permalink"); ok {
		b.WriteString("_slug: " + permalink + "\n")
		b.WriteString(delimiter)
	}
	if image, ok := rec.String("featured_image"); ok {
		b.WriteString("featured_image: " + image + "\n")
		b.WriteString(delimiter)
	}

	b.WriteString("body: \n")
	b.WriteString(body)

	return b.String()
}
