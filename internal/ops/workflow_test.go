package ops

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/staticpress/lektorexport/internal/config"
	"github.com/staticpress/lektorexport/internal/db"
)

// TestFullWorkflow exercises the complete export lifecycle against a real
// content database: seed, export with packaging, inspect the archive, cleanup.
func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()

	database, err := db.Open(filepath.Join(tmpDir, "content.db"))
	require.NoError(t, err)
	defer database.Close()

	// 1. Seed a small site
	require.NoError(t, db.SetOption(database, "siteurl", "http://example.org"))
	require.NoError(t, db.SetOption(database, "blogname", "Test Blog"))
	require.NoError(t, db.SetOption(database, "blogdescription", "Just another test site"))
	require.NoError(t, db.InsertUser(database, 1, "Tester"))

	date := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.InsertPost(database, &db.Post{
		ID: 12, Type: "post", Status: "publish", Title: "Test Post",
		Body: "This is a test **post**.", Excerpt: "This is a test post.",
		Slug: "test-post", AuthorID: 1, Date: date,
	}))
	require.NoError(t, db.InsertPost(database, &db.Post{
		ID: 13, Type: "page", Status: "publish", Title: "Test Page",
		Body: "This is a test page.", Slug: "test-page", AuthorID: 1, Date: date,
	}))
	require.NoError(t, db.AddTerm(database, 12, "category", "Testing", 0))
	require.NoError(t, db.AddTerm(database, 12, "post_tag", "tag1", 0))
	require.NoError(t, db.AddTerm(database, 12, "post_tag", "tag2", 1))

	uploads := filepath.Join(tmpDir, "uploads")
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "2016", "04"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "2016", "04", "x.png"), []byte("png"), 0644))

	src := db.NewStore(database, uploads)

	cfg := config.DefaultConfig()
	cfg.ExportsDir = filepath.Join(tmpDir, "exports")

	// 2. Export with packaging
	out, err := Export(context.Background(), src, cfg, ExportInput{Zip: true})
	require.NoError(t, err)
	require.Equal(t, 2, out.Exported)
	require.Empty(t, out.Skipped)
	require.NotEmpty(t, out.Archive)
	require.FileExists(t, out.Archive)

	// 3. Inspect the archive
	zr, err := zip.OpenReader(out.Archive)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	require.NoError(t, zr.Close())

	require.True(t, names["blog/test-post/contents.lr"], "post contents missing from archive")
	require.True(t, names["test-page/contents.lr"], "page contents missing from archive")
	require.True(t, names["_config.yml"], "site config missing from archive")
	require.True(t, names["wp-content/uploads/2016/04/x.png"], "mirrored media missing from archive")

	// 4. Cleanup removes the archive; the run dir is already gone
	cleanupOut, err := Cleanup(cfg, CleanupInput{RunID: out.RunID})
	require.NoError(t, err)
	require.Equal(t, []string{out.Archive}, cleanupOut.Removed)
	require.NoFileExists(t, out.Archive)

	// 5. Cleanup is idempotent
	cleanupOut, err = Cleanup(cfg, CleanupInput{RunID: out.RunID})
	require.NoError(t, err)
	require.Empty(t, cleanupOut.Removed)
}

// TestWorkflow_RenderedBodies verifies that Markdown bodies come out as HTML
// in the exported tree.
func TestWorkflow_RenderedBodies(t *testing.T) {
	tmpDir := t.TempDir()

	database, err := db.Open(filepath.Join(tmpDir, "content.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.SetOption(database, "siteurl", "http://example.org"))
	require.NoError(t, db.InsertUser(database, 1, "Tester"))
	require.NoError(t, db.InsertPost(database, &db.Post{
		ID: 1, Type: "post", Status: "publish", Title: "Hello",
		Body: "This is a test **post**.", Slug: "hello", AuthorID: 1,
		Date: time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	src := db.NewStore(database, "")
	cfg := config.DefaultConfig()
	cfg.ExportsDir = filepath.Join(tmpDir, "exports")

	out, err := Export(context.Background(), src, cfg, ExportInput{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out.Path, "blog", "hello", "contents.lr"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "body: \n<p>This is a test <strong>post</strong>.</p>\n"),
		"unexpected body block:\n%s", data)
}
