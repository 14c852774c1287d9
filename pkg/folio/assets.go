package folio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// copyAssets mirrors the site's media and configuration into outDir,
// skipping files that are already up to date.
func copyAssets(inDir string, outDir string) error {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("abs: %w", err)
	}

	inDir = filepath.Clean(inDir)
	copied := 0
	err = godirwalk.Walk(inDir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != inDir && filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}

			if de.IsDir() {
				if abs, err := filepath.Abs(path); err == nil && abs == absOut {
					return godirwalk.SkipThis
				}
				return nil
			}

			rel, err := filepath.Rel(inDir, path)
			if err != nil {
				return err
			}
			dest := filepath.Join(outDir, rel)

			if !stale(path, dest) {
				return nil
			}

			klog.V(1).Infof("copying %s -> %s", path, dest)
			if err := copy.Copy(path, dest); err != nil {
				return fmt.Errorf("copy: %w", err)
			}
			copied++
			return nil
		},
	})
	if err != nil {
		return err
	}

	klog.Infof("copied %d assets from %s", copied, inDir)
	return nil
}

// stale reports whether dest is missing or older than src.
func stale(src string, dest string) bool {
	sst, err := os.Stat(src)
	if err != nil {
		return true
	}

	dst, err := os.Stat(dest)
	if err != nil {
		klog.V(2).Infof("updating %s: does not exist", dest)
		return true
	}

	if sst.Size() != dst.Size() {
		klog.V(1).Infof("updating %s: size mismatch", dest)
		return true
	}

	if sst.ModTime().After(dst.ModTime()) {
		klog.V(1).Infof("updating %s: source newer", dest)
		return true
	}
	return false
}

// Dirs returns root and every non-hidden directory below it, skipping
// any directory named in exclude.
func Dirs(root string, exclude ...string) ([]string, error) {
	skip := map[string]bool{}
	for _, e := range exclude {
		if abs, err := filepath.Abs(e); err == nil {
			skip[abs] = true
		}
	}

	root = filepath.Clean(root)
	dirs := []string{}
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				return godirwalk.SkipThis
			}
			if abs, err := filepath.Abs(path); err == nil && skip[abs] {
				return godirwalk.SkipThis
			}
			dirs = append(dirs, path)
			return nil
		},
	})
	return dirs, err
}
