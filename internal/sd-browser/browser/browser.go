// Package browser walks a directory tree the way the card browser shows
// it: one folder at a time, hidden entries skipped.
package browser

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

const DefaultMaxEntries = 50

// Entry is one visible item of the current folder
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
	Image bool
}

// Label is the list text: "name/" for folders, "name  (size)" for files
func (e Entry) Label() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return fmt.Sprintf("%s  (%s)", e.Name, FormatSize(uint64(e.Size)))
}

// VolumeInfo describes the filesystem holding the root
type VolumeInfo struct {
	Type        string
	Capacity    uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// Lines renders the info view
func (v VolumeInfo) Lines() []string {
	return []string{
		"Type: " + v.Type,
		"Capacity: " + FormatSize(v.Capacity),
		fmt.Sprintf("Used: %s (%.1f%%)", FormatSize(v.Used), v.UsedPercent),
		"Free: " + FormatSize(v.Free),
	}
}

// Browser keeps a virtual path below a root directory
type Browser struct {
	root       string
	current    string
	maxEntries int
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// New creates a browser at "/" of root
func New(root string, maxEntries int) (*Browser, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Browser{
		root:       root,
		current:    "/",
		maxEntries: maxEntries,
		usage:      disk.UsageWithContext,
	}, nil
}

// Path returns the virtual path, always starting and ending with "/"
func (b *Browser) Path() string {
	return b.current
}

// AtRoot reports whether the browser is at "/"
func (b *Browser) AtRoot() bool {
	return b.current == "/"
}

// List returns up to maxEntries visible entries sorted by name
func (b *Browser) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(b.realPath(b.current))
	if err != nil {
		return nil, fmt.Errorf("failed to open folder %s: %w", b.current, err)
	}
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if len(entries) >= b.maxEntries {
			break
		}
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		e := Entry{Name: name, IsDir: de.IsDir()}
		if !e.IsDir {
			if info, err := de.Info(); err == nil {
				e.Size = info.Size()
			}
			e.Image = IsImageFile(name)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Navigate enters the named folder, or the parent for "..". Going up from
// "/" stays at "/".
func (b *Browser) Navigate(name string) error {
	if name == ".." {
		if b.AtRoot() {
			return nil
		}
		parent := path.Dir(strings.TrimSuffix(b.current, "/"))
		b.current = withSlash(parent)
		return nil
	}

	if name == "" || name == "." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid folder name %q", name)
	}
	next := withSlash(path.Join(b.current, name))
	info, err := os.Stat(b.realPath(next))
	if err != nil {
		return fmt.Errorf("failed to open folder %s: %w", next, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a folder", next)
	}
	b.current = next
	return nil
}

// FilePath returns the real path of a file in the current folder
func (b *Browser) FilePath(name string) string {
	return b.realPath(path.Join(b.current, name))
}

// Info reports filesystem usage for the root
func (b *Browser) Info(ctx context.Context) (VolumeInfo, error) {
	u, err := b.usage(ctx, b.root)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("failed to read volume usage: %w", err)
	}
	return VolumeInfo{
		Type:        u.Fstype,
		Capacity:    u.Total,
		Used:        u.Used,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
	}, nil
}

func (b *Browser) realPath(virtual string) string {
	return filepath.Join(b.root, filepath.FromSlash(strings.TrimPrefix(virtual, "/")))
}

func withSlash(p string) string {
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Title is the item count heading
func Title(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d items", n)
	}
	return fmt.Sprintf("%d item", n)
}

// FormatSize renders B, then KB and MB with one decimal, then GB with two
func FormatSize(bytes uint64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	case bytes < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(bytes)/(1024*1024*1024))
	}
}

// IsImageFile reports whether name is a JPEG by extension
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jpg" || ext == ".jpeg"
}
