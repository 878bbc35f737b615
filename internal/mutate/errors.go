package mutate

import "fmt"

type NotFoundError struct {
	ID int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("node not found: %d", e.ID)
}

// RootError rejects operations that would delete, wrap or move the root.
type RootError struct {
	Op string
}

func (e RootError) Error() string {
	return fmt.Sprintf("%s: not allowed on the root", e.Op)
}

type EmptyNameError struct{}

func (EmptyNameError) Error() string { return "name is empty" }

// BoundaryError is returned when a node has nowhere to go (first/last
// sibling, no grandparent).
type BoundaryError struct {
	Op string
	ID int
}

func (e BoundaryError) Error() string {
	return fmt.Sprintf("%s: node %d is at the boundary", e.Op, e.ID)
}
