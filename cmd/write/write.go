// Package write implements the write subcommand: opening an existing
// file on an image and writing bytes into it at an offset.
package write

import (
	"fmt"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a Write invocation.
type Options struct {
	Image  string
	Path   string
	Offset int64
	Data   []byte
	Quiet  bool
}

// DefaultOptions returns default options for Write.
func DefaultOptions() *Options {
	return &Options{}
}

// Write writes opts.Data to opts.Path at opts.Offset and saves the
// image. The destination must already have room for the write — files
// never grow past their size at Create.
func Write(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, dev, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
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

	n, err := handle.WriteAt(opts.Data, opts.Offset)
	if err != nil {
		return fmt.Errorf("writing %q at offset %d: %w", opts.Path, opts.Offset, err)
	}

	if err := imagefile.Save(opts.Image, dev); err != nil {
		return err
	}

	if !opts.Quiet {
		fmt.Printf("wrote %d bytes to %s\n", n, opts.Path)
	}
	return nil
}
