// Package open implements the open subcommand: resolving a path to an
// existing file and reporting its descriptor id and length, mirroring
// the syscall-level Open exposed by pkg/nanofs.
package open

import (
	"fmt"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures an Open invocation.
type Options struct {
	Image string
	Path  string
}

// DefaultOptions returns default options for Open.
func DefaultOptions() *Options {
	return &Options{}
}

// Open resolves opts.Path on the image and prints its descriptor id
// and byte length.
func Open(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, _, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
	if err != nil {
		return err
	}

	id, err := fs.Open(opts.Path)
	if err != nil {
		return fmt.Errorf("opening %q: %w", opts.Path, err)
	}
	defer fs.Close(id)

	handle, err := fs.Handle(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s: descriptor %d, %d bytes\n", opts.Path, id, handle.Length())
	return nil
}
