package content

import (
	"strings"
	"testing"
)

func TestRenderer_ParagraphsAndEmphasis(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("This is a test **post**.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "<p>This is a test <strong>post</strong>.</p>\n" {
		t.Errorf("Render() = %q", out)
	}
}

func TestRenderer_KeepsInlineHTML(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("This is a test <strong>post</strong>.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "<p>This is a test <strong>post</strong>.</p>\n" {
		t.Errorf("Render() = %q", out)
	}
}

func TestRenderer_MultipleParagraphs(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("First.\n\nSecond.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<p>First.</p>") || !strings.Contains(out, "<p>Second.</p>") {
		t.Errorf("Render() = %q", out)
	}
}
