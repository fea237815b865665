package files

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// NoExtensionDir receives files without an extension in Organize.
const NoExtensionDir = "no_extension"

// Entry describes one listed file.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
	Type      string    `json:"type"`
	MIME      string    `json:"mime,omitempty"`
}

// SizeInfo summarizes the files below a directory.
type SizeInfo struct {
	TotalBytes int64   `json:"total_bytes"`
	TotalMB    float64 `json:"total_mb"`
	TotalGB    float64 `json:"total_gb"`
	FileCount  int     `json:"file_count"`
}

// BackupStats counts what Backup copied.
type BackupStats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// Manager runs housekeeping operations below Root.
type Manager struct {
	Root string

	// DetectMIME enables content sniffing in List.
	DetectMIME bool

	now func() time.Time
}

// NewManager creates a Manager rooted at the absolute form of root.
func NewManager(root string) (*Manager, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Manager{Root: abs, now: time.Now}, nil
}

// Resolve maps a caller path to an absolute path below Root.
func (m *Manager) Resolve(p string) (string, error) {
	return SecureJoin(m.Root, p)
}

// Rel returns p relative to Root in slash form.
func (m *Manager) Rel(p string) string {
	rel, err := filepath.Rel(m.Root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// List returns the regular files in dir, descending into subdirectories
// when recursive is set. Entries are sorted by path.
func (m *Manager) List(dir string, recursive bool) ([]Entry, error) {
	target, err := m.Resolve(dir)
	if err != nil {
		return nil, err
	}
	if err := statDir(target, dir); err != nil {
		return nil, err
	}

	var out []Entry
	add := func(p string, info fs.FileInfo) {
		e := Entry{
			Name:      info.Name(),
			Path:      m.Rel(p),
			SizeBytes: info.Size(),
			Modified:  info.ModTime(),
			Type:      filepath.Ext(info.Name()),
		}
		if m.DetectMIME {
			if mime, _, err := DetectFileMIME(p); err == nil {
				e.MIME = mime
			}
		}
		out = append(out, e)
	}

	if recursive {
		err = filepath.WalkDir(target, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			add(p, info)
			return nil
		})
	} else {
		var entries []fs.DirEntry
		entries, err = os.ReadDir(target)
		for _, d := range entries {
			if !d.Type().IsRegular() {
				continue
			}
			if info, ierr := d.Info(); ierr == nil {
				add(filepath.Join(target, d.Name()), info)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Size totals the regular files below dir.
func (m *Manager) Size(dir string) (SizeInfo, error) {
	var info SizeInfo
	target, err := m.Resolve(dir)
	if err != nil {
		return info, err
	}
	if err := statDir(target, dir); err != nil {
		return info, err
	}

	err = filepath.WalkDir(target, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		info.TotalBytes += fi.Size()
		info.FileCount++
		return nil
	})
	if err != nil {
		return info, err
	}
	info.TotalMB = round2(float64(info.TotalBytes) / (1 << 20))
	info.TotalGB = round2(float64(info.TotalBytes) / (1 << 30))
	return info, nil
}

// Cleanup deletes regular files below dir last modified more than days
// ago. A non-empty extensions list restricts deletion to those suffixes
// (".log" or "log"). Files that cannot be removed are skipped. It returns
// the number of files deleted.
func (m *Manager) Cleanup(dir string, days int, extensions []string) (int, error) {
	if days < 0 {
		return 0, fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidArgument, days)
	}
	target, err := m.Resolve(dir)
	if err != nil {
		return 0, err
	}
	if err := statDir(target, dir); err != nil {
		return 0, err
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		if ext = strings.TrimSpace(ext); ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	cutoff := m.clock()().AddDate(0, 0, -days)
	var victims []string
	err = filepath.WalkDir(target, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(allowed) > 0 {
			if _, ok := allowed[filepath.Ext(p)]; !ok {
				return nil
			}
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			victims = append(victims, p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, p := range victims {
		if os.Remove(p) == nil {
			deleted++
		}
	}
	return deleted, nil
}

// Organize moves each regular file directly in dir into a subdirectory
// named after its extension, or NoExtensionDir. It returns the number of
// files moved.
func (m *Manager) Organize(dir string) (int, error) {
	target, err := m.Resolve(dir)
	if err != nil {
		return 0, err
	}
	if err := statDir(target, dir); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, d := range entries {
		if !d.Type().IsRegular() {
			continue
		}
		sub := strings.TrimPrefix(filepath.Ext(d.Name()), ".")
		if sub == "" {
			sub = NoExtensionDir
		}
		destDir := filepath.Join(target, sub)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return moved, fmt.Errorf("organize %s: %w", d.Name(), err)
		}
		if err := os.Rename(filepath.Join(target, d.Name()), filepath.Join(destDir, d.Name())); err != nil {
			return moved, fmt.Errorf("organize %s: %w", d.Name(), err)
		}
		moved++
	}
	return moved, nil
}

// Backup replaces destination with a recursive copy of source. The two
// trees must not overlap and destination must not be Root.
func (m *Manager) Backup(source, destination string) (BackupStats, error) {
	src, err := m.Resolve(source)
	if err != nil {
		return BackupStats{}, err
	}
	dst, err := m.Resolve(destination)
	if err != nil {
		return BackupStats{}, err
	}
	if _, err := os.Stat(src); err != nil {
		return BackupStats{}, notFound(err, source)
	}
	if dst == m.Root {
		return BackupStats{}, fmt.Errorf("%w: destination must not be the root", ErrInvalidArgument)
	}
	if within(src, dst) || within(dst, src) {
		return BackupStats{}, fmt.Errorf("%w: source and destination overlap", ErrInvalidArgument)
	}

	if err := os.RemoveAll(dst); err != nil {
		return BackupStats{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return BackupStats{}, err
	}
	return copyRecursive(src, dst)
}

func (m *Manager) clock() func() time.Time {
	if m.now == nil {
		return time.Now
	}
	return m.now
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
