package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	out, err := render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Errorf("Expected rendered text to keep content, got %q", out)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	if !strings.Contains(buf.String(), "v1.2.3") {
		t.Errorf("Expected version in banner, got %q", buf.String())
	}
}
