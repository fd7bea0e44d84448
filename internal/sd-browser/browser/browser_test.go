package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
)

func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "photos", "2024"))
	mustWrite(t, filepath.Join(root, "photos", "beach.JPG"), 2048)
	mustWrite(t, filepath.Join(root, "notes.txt"), 12)
	mustWrite(t, filepath.Join(root, ".hidden"), 1)
	return root
}

func mustMkdir(t *testing.T, p string) {
	t.Helper()
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", p, err)
	}
}

func mustWrite(t *testing.T, p string, size int) {
	t.Helper()
	if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", p, err)
	}
}

func TestList(t *testing.T) {
	b, err := New(newTree(t), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entries, err := b.List()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 visible entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Label() != "notes.txt  (12 B)" {
		t.Errorf("Unexpected label %q", entries[0].Label())
	}
	if entries[1].Label() != "photos/" {
		t.Errorf("Unexpected label %q", entries[1].Label())
	}
}

func TestListLimit(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 60; i++ {
		mustWrite(t, filepath.Join(root, fmt.Sprintf("f%02d.txt", i)), 1)
	}
	b, err := New(root, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	entries, err := b.List()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != DefaultMaxEntries {
		t.Errorf("Expected %d entries, got %d", DefaultMaxEntries, len(entries))
	}
}

func TestNavigate(t *testing.T) {
	b, err := New(newTree(t), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("should stay at root when going up", func(t *testing.T) {
		if err := b.Navigate(".."); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if b.Path() != "/" {
			t.Errorf("Expected /, got %s", b.Path())
		}
	})

	t.Run("should enter folders and flag images", func(t *testing.T) {
		if err := b.Navigate("photos"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := b.Navigate("2024"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if b.Path() != "/photos/2024/" {
			t.Errorf("Expected /photos/2024/, got %s", b.Path())
		}
		if err := b.Navigate(".."); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if b.Path() != "/photos/" {
			t.Errorf("Expected /photos/, got %s", b.Path())
		}

		entries, err := b.List()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var found bool
		for _, e := range entries {
			if e.Name == "beach.JPG" {
				found = e.Image
			}
		}
		if !found {
			t.Error("Expected beach.JPG to be flagged as image")
		}
	})

	t.Run("should reject files and escapes", func(t *testing.T) {
		if err := b.Navigate("beach.JPG"); err == nil {
			t.Error("Expected an error for a file")
		}
		if err := b.Navigate("../.."); err == nil {
			t.Error("Expected an error for a path")
		}
		if b.Path() != "/photos/" {
			t.Errorf("Expected path unchanged, got %s", b.Path())
		}
	})
}

func TestInfo(t *testing.T) {
	b, err := New(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b.usage = func(ctx context.Context, p string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Fstype: "vfat", Total: 4 << 30, Used: 1 << 30, Free: 3 << 30, UsedPercent: 25}, nil
	}

	info, err := b.Info(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	lines := info.Lines()
	want := []string{"Type: vfat", "Capacity: 4.00 GB", "Used: 1.00 GB (25.0%)", "Free: 3.00 GB"}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Expected %q, got %q", want[i], lines[i])
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 << 30, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestHelpers(t *testing.T) {
	if !IsImageFile("a.jpeg") || !IsImageFile("B.JPG") || IsImageFile("c.png") {
		t.Error("Unexpected image detection")
	}
	if Title(0) != "0 item" || Title(1) != "1 item" || Title(3) != "3 items" {
		t.Error("Unexpected titles")
	}
}
