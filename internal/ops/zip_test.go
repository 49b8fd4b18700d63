package ops

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestZipDir_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "blog", "test-post"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "blog", "test-post", "contents.lr"), []byte("title: Test\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "foo.txt"), []byte("bar"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "export.zip")
	if err := ZipDir(dir, archive); err != nil {
		t.Fatalf("ZipDir failed: %v", err)
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer zr.Close()

	found := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("entry open failed: %v", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("entry read failed: %v", err)
		}
		found[f.Name] = string(data)
	}

	if found["foo.txt"] != "bar" {
		t.Errorf("foo.txt = %q, want bar", found["foo.txt"])
	}
	if found["blog/test-post/contents.lr"] != "title: Test\n" {
		t.Errorf("contents.lr = %q", found["blog/test-post/contents.lr"])
	}
}

func TestZipDir_MissingDir(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "export.zip")

	err := ZipDir(filepath.Join(t.TempDir(), "gone"), archive)
	if err == nil {
		t.Fatal("ZipDir should fail for a missing directory")
	}
	if _, statErr := os.Stat(archive); !os.IsNotExist(statErr) {
		t.Error("partial archive should be removed on failure")
	}
}
