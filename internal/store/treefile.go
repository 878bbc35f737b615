package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"arbor/internal/codec"
	"arbor/internal/model"
)

// LoadTree reads the tree file at path. A missing file yields a fresh tree;
// any other failure is a codec.LoadError and no tree.
func LoadTree(path string) (*codec.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t := model.NewTree()
			return &codec.Result{Tree: t, Checksum: codec.TreeChecksum(t)}, nil
		}
		return nil, codec.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	res, err := codec.Decode(f)
	if err != nil {
		return nil, codec.LoadError{Path: path, Err: err}
	}
	return res, nil
}

// SaveTree atomically replaces the tree file and returns the checksum of what
// was written.
func SaveTree(path string, t *model.Tree) (uint64, error) {
	var buf bytes.Buffer
	if err := codec.Write(&buf, t); err != nil {
		return 0, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	if err := atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return codec.Checksum(buf.String()), nil
}
