package textextract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractFile_TXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("  plain text handbook\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got.Content != "plain text handbook" {
		t.Errorf("content = %q", got.Content)
	}
	if got.Pages != 1 {
		t.Errorf("pages = %d", got.Pages)
	}
}

func TestExtractFile_UnsupportedType(t *testing.T) {
	if _, err := ExtractFile("document.xlsx"); err == nil {
		t.Error("unsupported extension should error")
	}
}

func TestExtractFile_MissingFile(t *testing.T) {
	if _, err := ExtractFile(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("missing file should error")
	}
}
