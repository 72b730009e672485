// Package read implements the read subcommand: opening an existing
// file and dumping its bytes to a writer.
package read

import (
	"fmt"
	"io"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a Read invocation.
type Options struct {
	Image string
	Path  string
}

// DefaultOptions returns default options for Read.
func DefaultOptions() *Options {
	return &Options{}
}

// Read writes the full contents of opts.Path to w.
func Read(opts *Options, w io.Writer) error {
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

	if _, err := io.Copy(w, handle); err != nil {
		return fmt.Errorf("reading %q: %w", opts.Path, err)
	}
	return nil
}
