package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "leading heading",
			body:      "# My Note\n\nbody text\n",
			wantTitle: "My Note",
			wantBody:  "body text\n",
		},
		{
			name:      "heading after blank lines",
			body:      "\n\n# Padded\nbody",
			wantTitle: "Padded",
			wantBody:  "body",
		},
		{
			name:      "no heading",
			body:      "just text\n# not a title\n",
			wantTitle: "",
			wantBody:  "just text\n# not a title\n",
		},
		{
			name:      "subheading is not a title",
			body:      "## Section\nbody",
			wantTitle: "",
			wantBody:  "## Section\nbody",
		},
		{
			name:      "heading only",
			body:      "# Lonely",
			wantTitle: "Lonely",
			wantBody:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := splitTitle(tt.body)
			if title != tt.wantTitle || body != tt.wantBody {
				t.Errorf("splitTitle(%q) = (%q, %q), want (%q, %q)",
					tt.body, title, body, tt.wantTitle, tt.wantBody)
			}
		})
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("markdown with heading", func(t *testing.T) {
		p := write("guide.md", "# Setup Guide\n\nInstall the thing.\n")
		title, body, err := Import(p)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if title != "Setup Guide" {
			t.Errorf("title = %q, want Setup Guide", title)
		}
		if !strings.Contains(body, "Install the thing.") {
			t.Errorf("body = %q, want install instructions", body)
		}
	})

	t.Run("filename fallback title", func(t *testing.T) {
		p := write("meeting-notes.txt", "no heading here\n")
		title, _, err := Import(p)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if title != "meeting-notes" {
			t.Errorf("title = %q, want meeting-notes", title)
		}
	})

	t.Run("binary formats rejected", func(t *testing.T) {
		for _, name := range []string{"doc.pdf", "doc.docx", "doc.rtf"} {
			p := write(name, "binary-ish")
			_, _, err := Import(p)
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("Import(%s) error = %v, want ErrUnsupported", name, err)
			}
		}
	})

	t.Run("unknown extension rejected", func(t *testing.T) {
		p := write("image.png", "\x89PNG")
		if _, _, err := Import(p); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Import(png) error = %v, want ErrUnsupported", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := Import(filepath.Join(dir, "absent.md")); err == nil {
			t.Error("Import(absent) = nil error, want read failure")
		}
	})
}

func TestToHTML(t *testing.T) {
	out, err := ToHTML([]byte("# Title\n\nSome *emphasis* and a [link](https://example.com).\n"))
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	html := string(out)
	for _, want := range []string{"<h1", "Title", "<em>emphasis</em>", `<a href="https://example.com"`} {
		if !strings.Contains(html, want) {
			t.Errorf("ToHTML() = %q, want containing %q", html, want)
		}
	}
}
