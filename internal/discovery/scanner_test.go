package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	specFiles := []string{
		"login.test",
		"shop/checkout.test",
		"shop/cart/add_item.test",
		".drafts/hidden.test",
		"node_modules/pkg/ignored.test",
		"notes.txt",
	}
	for _, file := range specFiles {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("#! x\n"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner(".test", []string{"node_modules"})

	t.Run("scans spec files recursively", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{
			filepath.Join(tmpDir, "login.test"),
			filepath.Join(tmpDir, "shop/cart/add_item.test"),
			filepath.Join(tmpDir, "shop/checkout.test"),
		}
		if len(results) != len(expected) {
			t.Fatalf("expected %d spec files, got %d: %v", len(expected), len(results), results)
		}
		for i := range expected {
			if results[i] != expected[i] {
				t.Errorf("expected %s at %d, got %s", expected[i], i, results[i])
			}
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		if err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(tmpDir, "notes.txt"))
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}
