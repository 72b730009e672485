package nanofs

import "errors"

// Error kinds from the facade's contract. Every mutating operation
// returns one of these, wrapped with context via %w, never a bare
// boolean alone.
var (
	ErrNotFound            = errors.New("nanofs: not found")
	ErrAlreadyExists       = errors.New("nanofs: already exists")
	ErrNoSpace             = errors.New("nanofs: no space on device")
	ErrDirectoryFull       = errors.New("nanofs: directory full")
	ErrDescriptorTableFull = errors.New("nanofs: descriptor table full")
	ErrInvalidPath         = errors.New("nanofs: invalid path")
	ErrIOFatal             = errors.New("nanofs: fatal device I/O error")
)
