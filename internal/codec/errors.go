package codec

import "fmt"

// LoadError wraps anything that prevents a tree file from being used.
type LoadError struct {
	Path string
	Err  error
}

func (e LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load tree: %v", e.Err)
	}
	return fmt.Sprintf("load tree %s: %v", e.Path, e.Err)
}

func (e LoadError) Unwrap() error { return e.Err }

type LineTooLongError struct {
	Line int
	Len  int
}

func (e LineTooLongError) Error() string {
	return fmt.Sprintf("line %d is too long (%d bytes, limit %d)", e.Line, e.Len, MaxLineLength-1)
}

type MalformedRecordError struct {
	Line   int
	Kind   string
	Reason string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed %s record: %s", e.Line, e.Kind, e.Reason)
}

// UnknownRecordError is reported for records with an unrecognised tag. The
// line is skipped.
type UnknownRecordError struct {
	Line int
	Kind string
}

func (e UnknownRecordError) Error() string {
	return fmt.Sprintf("line %d: unknown record kind %q", e.Line, e.Kind)
}

// LookupError is reported when a record names a node that does not exist
// yet. The line is skipped.
type LookupError struct {
	Line int
	Kind string
	ID   int
}

func (e LookupError) Error() string {
	return fmt.Sprintf("line %d: %s record references unknown node %d", e.Line, e.Kind, e.ID)
}

type DuplicateIDError struct {
	Line int
	ID   int
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("line %d: node %d already exists", e.Line, e.ID)
}
