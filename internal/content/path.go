package content

import "path"

// ContentsFilename is the literal filename of a flat-file content record.
const ContentsFilename = "contents.lr"

// ResolvePath maps an item's type, hierarchy, and slug to its relative output
// path. Pure function; directory creation is the orchestrator's job.
//
// Pages nest under their ancestor chain's slugs, posts live under a fixed
// blog/ prefix, and any other registered type falls into a flat
// dated-filename scheme.
func ResolvePath(item *Item) string {
	switch item.Type {
	case "page":
		segments := make([]string, 0, len(item.Ancestors)+2)
		segments = append(segments, item.Ancestors...)
		segments = append(segments, item.Slug, ContentsFilename)
		return path.Join(segments...)
	case "post":
		return path.Join("blog", item.Slug, ContentsFilename)
	default:
		return path.Join("_"+item.Type+"s", item.Date.Format("2006-01-02")+"-"+item.Slug+".md")
	}
}
