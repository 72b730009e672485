// Package pathwalk implements the absolute-path resolver: it walks
// "/"-separated paths across directory files, opening a sub-directory
// at each non-final component, and hands back the containing
// directory's handle plus the unresolved trailing name.
package pathwalk

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned for a relative path (one not starting
// with "/") or one with a "." or ".." component.
var ErrInvalidPath = errors.New("pathwalk: invalid path")

// ErrNotFound is returned when a non-final path component does not
// name an existing sub-directory, or for the bare root ("/" or "").
var ErrNotFound = errors.New("pathwalk: no such directory")

// Lookup is the narrow view of a directory the resolver needs: name
// lookup and the file/sub-directory distinction.
type Lookup interface {
	Find(name string) int
	IsDir(name string) bool
}

// Resolver walks paths against directory handles of type H (typically
// a small struct pairing a *directory.Directory with its backing open
// file and identity). It never mutates or aliases the input path.
type Resolver[H any] struct {
	// Root is the long-lived root directory handle. Resolve returns it
	// verbatim (not a copy opened fresh) for single-component paths, so
	// callers can identity-compare against it and must not close it.
	Root H
	// Lookup extracts the Find/IsDir view of a handle.
	Lookup func(H) Lookup
	// Open loads the directory handle stored at sector, for descending
	// into a sub-directory named by a non-final component.
	Open func(sector int) (H, error)
}

// Resolve walks all but the last component of path, returning the
// handle of the directory containing the final component, and that
// final component's name (unresolved — the caller Finds/Adds/Removes
// it). Non-final components that don't name an existing sub-directory,
// the bare root ("/"), and the empty path all return ErrNotFound.
// Relative paths and paths with a "." or ".." component return
// ErrInvalidPath.
func (r Resolver[H]) Resolve(path string) (H, string, error) {
	var zero H

	if len(path) == 0 {
		return zero, "", ErrNotFound
	}
	if path[0] != '/' {
		return zero, "", ErrInvalidPath
	}

	components := splitComponents(path)
	if len(components) == 0 {
		return zero, "", ErrNotFound
	}
	for _, comp := range components {
		if comp == "." || comp == ".." {
			return zero, "", ErrInvalidPath
		}
	}

	cur := r.Root
	for _, comp := range components[:len(components)-1] {
		lk := r.Lookup(cur)
		if !lk.IsDir(comp) {
			return zero, "", ErrNotFound
		}
		sector := lk.Find(comp)
		if sector < 0 {
			return zero, "", ErrNotFound
		}
		next, err := r.Open(sector)
		if err != nil {
			return zero, "", err
		}
		cur = next
	}

	return cur, components[len(components)-1], nil
}

func splitComponents(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
