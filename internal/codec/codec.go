// Package codec reads and writes the tab-separated tree file format:
//
//	edge<TAB>parentId<TAB>childId
//	node<TAB>id<TAB>name...
//	color<TAB>id<TAB>tag
//	filename<TAB>id<TAB>path
//
// The root (id 0) is implicit and never written.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"arbor/internal/model"

	"github.com/cespare/xxhash/v2"
)

// MaxLineLength bounds a single record. A line of this length or more
// (excluding the newline) fails the load.
const MaxLineLength = 4096

const (
	KindEdge     = "edge"
	KindNode     = "node"
	KindColor    = "color"
	KindFilename = "filename"
)

// Result is a decoded tree plus the non-fatal problems met along the way.
type Result struct {
	Tree   *model.Tree
	Issues []error
	// Checksum is computed over the re-encoded tree, so a file that differs only
	// in skipped lines still compares equal after load.
	Checksum uint64
}

// Encode serializes every non-root node in pre-order.
func Encode(t *model.Tree) string {
	var b strings.Builder
	_ = Write(&b, t)
	return b.String()
}

func Write(w io.Writer, t *model.Tree) error {
	bw := bufio.NewWriter(w)
	var werr error
	emit := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, format, args...)
	}
	var walk func(n *model.Node)
	walk = func(n *model.Node) {
		for _, c := range n.Children {
			emit("%s\t%d\t%d\n", KindEdge, n.ID, c.ID)
			emit("%s\t%d\t%s\n", KindNode, c.ID, c.Name)
			if c.Color != model.ColorNone {
				emit("%s\t%d\t%d\n", KindColor, c.ID, c.Color)
			}
			if c.Filename != "" {
				emit("%s\t%d\t%s\n", KindFilename, c.ID, c.Filename)
			}
			walk(c)
		}
	}
	walk(t.Root)
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

// Checksum hashes serialized text for dirty tracking.
func Checksum(text string) uint64 {
	return xxhash.Sum64String(text)
}

// TreeChecksum is Checksum(Encode(t)).
func TreeChecksum(t *model.Tree) uint64 {
	return Checksum(Encode(t))
}

// DecodeString is Decode over an in-memory document.
func DecodeString(s string) (*Result, error) {
	return Decode(strings.NewReader(s))
}

// Decode builds a fresh tree (root selected) from r. Fatal problems (IO,
// over-long lines, unparsable ids) return an error and no tree; unknown record
// kinds, dangling references and duplicate ids are collected in Result.Issues
// and the offending line is skipped.
func Decode(r io.Reader) (*Result, error) {
	t := model.NewTree()
	res := &Result{Tree: t}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 2*MaxLineLength)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Bytes()
		if len(raw) >= MaxLineLength {
			return nil, LineTooLongError{Line: lineNo, Len: len(raw)}
		}
		line := string(bytes.TrimSuffix(raw, []byte("\r")))
		if strings.TrimSpace(line) == "" {
			continue
		}
		issue, err := applyRecord(t, lineNo, line)
		if err != nil {
			return nil, err
		}
		if issue != nil {
			res.Issues = append(res.Issues, issue)
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, LineTooLongError{Line: lineNo + 1, Len: 2 * MaxLineLength}
		}
		return nil, err
	}

	t.RecomputeParents()
	res.Checksum = TreeChecksum(t)
	return res, nil
}

func applyRecord(t *model.Tree, lineNo int, line string) (issue error, err error) {
	fields := strings.SplitN(line, "\t", 3)
	kind := fields[0]

	switch kind {
	case KindEdge, KindNode, KindColor, KindFilename:
	default:
		return UnknownRecordError{Line: lineNo, Kind: kind}, nil
	}

	if len(fields) < 3 {
		return nil, MalformedRecordError{Line: lineNo, Kind: kind, Reason: "expected 3 tab-separated fields"}
	}
	id, perr := strconv.Atoi(strings.TrimSpace(fields[1]))
	if perr != nil || id < 0 {
		return nil, MalformedRecordError{Line: lineNo, Kind: kind, Reason: fmt.Sprintf("bad id %q", fields[1])}
	}
	rest := fields[2]

	switch kind {
	case KindEdge:
		childID, perr := strconv.Atoi(strings.TrimSpace(rest))
		if perr != nil || childID < 0 {
			return nil, MalformedRecordError{Line: lineNo, Kind: kind, Reason: fmt.Sprintf("bad child id %q", rest)}
		}
		parent := t.Find(id)
		if parent == nil {
			return LookupError{Line: lineNo, Kind: kind, ID: id}, nil
		}
		if t.Find(childID) != nil {
			return DuplicateIDError{Line: lineNo, ID: childID}, nil
		}
		parent.AddChild(model.NewNode(childID))
		return nil, nil

	case KindNode:
		n := t.Find(id)
		if n == nil {
			return LookupError{Line: lineNo, Kind: kind, ID: id}, nil
		}
		n.Name = rest
		return nil, nil

	case KindColor:
		c, perr := strconv.Atoi(strings.TrimSpace(rest))
		if perr != nil || c < model.ColorNone || c > model.MaxColor {
			return nil, MalformedRecordError{Line: lineNo, Kind: kind, Reason: fmt.Sprintf("bad color %q", rest)}
		}
		n := t.Find(id)
		if n == nil {
			return LookupError{Line: lineNo, Kind: kind, ID: id}, nil
		}
		n.Color = c
		return nil, nil

	case KindFilename:
		n := t.Find(id)
		if n == nil {
			return LookupError{Line: lineNo, Kind: kind, ID: id}, nil
		}
		n.Filename = rest
		return nil, nil
	}
	return nil, nil
}
