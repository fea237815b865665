package files

import (
	"io"
	"os"
	"path/filepath"
)

// copyRecursive copies a file or directory tree from src to dst and
// returns the number of files and bytes copied.
func copyRecursive(src, dst string) (BackupStats, error) {
	var stats BackupStats
	info, err := os.Stat(src)
	if err != nil {
		return stats, err
	}
	if info.IsDir() {
		err = copyDir(src, dst, info.Mode(), &stats)
	} else {
		err = copyFile(src, dst, info.Mode(), &stats)
	}
	return stats, err
}

func copyFile(src, dst string, mode os.FileMode, stats *BackupStats) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	stats.Files++
	stats.Bytes += n
	return os.Chmod(dst, mode.Perm())
}

func copyDir(src, dst string, mode os.FileMode, stats *BackupStats) error {
	if err := os.MkdirAll(dst, mode.Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return err
		}
		switch {
		case entry.IsDir():
			err = copyDir(srcPath, dstPath, info.Mode(), stats)
		case info.Mode().IsRegular():
			err = copyFile(srcPath, dstPath, info.Mode(), stats)
		default:
			// Symlinks and special files are not copied.
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
