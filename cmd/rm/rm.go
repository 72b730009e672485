// Package rm implements the rm subcommand: removing a file or
// directory from an image.
package rm

import (
	"fmt"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a Remove invocation.
type Options struct {
	Image     string
	Path      string
	Recursive bool
	Quiet     bool
}

// DefaultOptions returns default options for Remove.
func DefaultOptions() *Options {
	return &Options{}
}

// Remove deletes opts.Path from the image and saves it back.
func Remove(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, dev, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
	if err != nil {
		return err
	}

	if err := fs.Remove(opts.Recursive, opts.Path); err != nil {
		return fmt.Errorf("removing %q: %w", opts.Path, err)
	}

	if err := imagefile.Save(opts.Image, dev); err != nil {
		return err
	}

	if !opts.Quiet {
		fmt.Printf("removed %s\n", opts.Path)
	}
	return nil
}
