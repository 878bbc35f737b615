package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"arbor/internal/model"
)

type WriteOptions struct {
	Title           string
	TreePath        string
	MaxContentLines int
	// Pages also writes nodes/<id>.md for every node with a content file.
	Pages     bool
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTree writes <toDir>/index.md and, with Pages, one page per node that
// links a content file.
func WriteTree(t *model.Tree, toDir string, opt WriteOptions) (WriteResult, error) {
	if t == nil || t.Root == nil {
		return WriteResult{}, errors.New("missing tree")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --md")
	}
	toDir = filepath.Clean(toDir)

	ropt := RenderOptions{
		Title:           opt.Title,
		LinkPages:       opt.Pages,
		TreePath:        opt.TreePath,
		MaxContentLines: opt.MaxContentLines,
	}
	indexMD, err := RenderIndexMarkdown(t, ropt)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	if !opt.Pages {
		return WriteResult{Written: written}, nil
	}

	pagesDir := filepath.Join(toDir, "nodes")
	for _, n := range t.Nodes() {
		if n.Filename == "" || n == t.Root {
			continue
		}
		md, err := RenderNodeMarkdown(t, n.ID, ropt)
		if err != nil {
			return WriteResult{}, err
		}
		if err := os.MkdirAll(pagesDir, 0o755); err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(toDir, filepath.FromSlash(pagePath(n)))
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
