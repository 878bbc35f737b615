package store

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ContentFilename derives the content path recorded on a node from its name:
// <dir>/<name>.txt with path separators and NULs replaced.
func ContentFilename(dir, name string) string {
	base := strings.TrimSpace(name)
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0, '\t':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		base = "untitled"
	}
	return filepath.ToSlash(filepath.Join(dir, base+".txt"))
}

// ResolveContent turns a recorded filename into a filesystem path. Relative
// names resolve against the tree file's directory.
func ResolveContent(treePath, filename string) string {
	if filename == "" {
		return ""
	}
	p := filepath.FromSlash(filename)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(treePath), p)
}

// EnsureContentFile creates path (and its directory) empty when missing.
func EnsureContentFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// ReadContentLines returns up to max lines of path. A missing file is not an
// error and yields nil.
func ReadContentLines(path string, max int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if max > 0 && len(out) >= max {
			break
		}
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	return out, sc.Err()
}
